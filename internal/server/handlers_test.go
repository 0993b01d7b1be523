package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credx-gateway/internal/common/config"
	stderrors "credx-gateway/internal/common/errors"
	"credx-gateway/internal/common/logger"
	"credx-gateway/internal/intake"
	"credx-gateway/internal/models"
	"credx-gateway/internal/present"
	"credx-gateway/internal/session"
)

// ==========================
// Test Fixture
// ==========================

type stubScorer struct {
	decision *models.ScoringDecision
	err      error
	calls    int
}

func (s *stubScorer) Submit(_ context.Context, _ models.ApplicantInput) (*models.ScoringDecision, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.decision, nil
}

func sampleDecision() *models.ScoringDecision {
	return &models.ScoringDecision{
		Success: true,
		ApplicantProfile: models.ApplicantProfile{
			Age:           35,
			Gender:        "F",
			Region:        "South",
			Employment:    "Salaried",
			MonthlyIncome: 80000,
		},
		FinalDecision: models.FinalDecision{
			Approved:            true,
			CreditScore:         525,
			RiskCategory:        "Fair",
			DefaultRisk:         0.2484642863273621,
			ApprovalProbability: 0.7153571367263794,
			Threshold:           0.6,
		},
		PositiveFactors: []models.Factor{
			{Text: "Consistent utility payments", Type: models.FactorPositive},
		},
		Recommendations: []string{"• Keep utilization low"},
		Colour:          "#27ae60",
	}
}

type fixture struct {
	srv    *Server
	scorer *stubScorer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	store := session.NewStoreWithClient(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		30*time.Minute,
	)
	t.Cleanup(func() { store.Close() })

	scorer := &stubScorer{decision: sampleDecision()}
	log := logger.NewTestLogger(t)
	cfg := &config.Config{
		App: config.AppConfig{Name: "CredX", Tagline: "Credit scoring for everyone", Version: "1.0.0"},
	}

	return &fixture{
		srv:    New(cfg, intake.NewController(scorer, log), store, log),
		scorer: scorer,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.srv.Echo().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createSession(t *testing.T) formResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var form formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
	require.NotEmpty(t, form.SessionID)
	return form
}

func (f *fixture) setField(t *testing.T, id, field, value string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPatch, "/sessions/"+id+"/fields",
		updateFieldRequest{Field: field, Value: value})
}

func (f *fixture) fillComplete(t *testing.T, id string) {
	t.Helper()
	values := map[string]string{
		"applicant_id": "Asha", "age": "35",
		"gender_code": "2", "caste_code": "1", "region_code": "2", "employment_code": "1",
		"monthly_income": "80000", "income_stability": "0.8",
		"avg_balance": "45000.5", "savings_ratio": "0.2", "expense_income_ratio": "0.5",
		"utility_payment_score": "85", "rent_payment_score": "90",
		"upi_transactions": "120", "upi_avg_amount": "560.25",
		"mobile_recharge_freq": "4", "digital_wallet_usage": "0.6", "merchant_diversity": "14",
		"credit_lines": "3", "credit_tenure_months": "40",
		"missed_payments": "1", "avg_days_past_due": "2", "credit_utilization": "0.4",
	}
	for field, value := range values {
		rec := f.setField(t, id, field, value)
		require.Equal(t, http.StatusOK, rec.Code, "field %s", field)
	}
}

func errorCodeOf(t *testing.T, rec *httptest.ResponseRecorder) stderrors.ErrorCode {
	t.Helper()
	var std stderrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &std))
	return std.Code
}

// ==========================
// Landing & Health
// ==========================

func TestLanding(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp landingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CredX", resp.Name)
	assert.Equal(t, "Credit scoring for everyone", resp.Tagline)
	assert.Len(t, resp.Options.Gender, 2)
	assert.Len(t, resp.Options.Caste, 5)
	assert.Len(t, resp.Options.Region, 5)
	assert.Len(t, resp.Options.Employment, 5)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ==========================
// Session & Form Endpoints
// ==========================

func TestCreateSession(t *testing.T) {
	f := newFixture(t)

	form := f.createSession(t)
	assert.Equal(t, intake.PhaseEditing, form.Phase)
	assert.Equal(t, "1", form.Fields["consent_given"])
	assert.Equal(t, "", form.Fields["applicant_id"])
}

func TestGetForm_UnknownSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, errorCodeOf(t, rec))
}

func TestUpdateField(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)

	rec := f.setField(t, form.SessionID, "age", "35")
	require.Equal(t, http.StatusOK, rec.Code)

	var updated formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "35", updated.Fields["age"])

	// Edits persist across a reload.
	rec = f.do(t, http.MethodGet, "/sessions/"+form.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "35", updated.Fields["age"])
}

func TestUpdateField_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		value      string
		wantStatus int
		wantCode   stderrors.ErrorCode
	}{
		{name: "unknown field", field: "credit_score", value: "700",
			wantStatus: http.StatusBadRequest, wantCode: stderrors.ErrCodeUnknownField},
		{name: "out of range", field: "savings_ratio", value: "1.5",
			wantStatus: http.StatusUnprocessableEntity, wantCode: stderrors.ErrCodeValidationFailed},
		{name: "unknown enum code", field: "gender_code", value: "7",
			wantStatus: http.StatusUnprocessableEntity, wantCode: stderrors.ErrCodeValidationFailed},
	}

	f := newFixture(t)
	form := f.createSession(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.setField(t, form.SessionID, tt.field, tt.value)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCodeOf(t, rec))
		})
	}
}

// ==========================
// Submit
// ==========================

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)
	f.fillComplete(t, form.SessionID)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view present.DecisionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "APPROVED", view.Badge)
	assert.Equal(t, 525, view.CreditScore)
	assert.Equal(t, "out of 850", view.ScaleCaption)
	assert.Equal(t, "24.85", view.DefaultRisk)
	assert.Equal(t, "71.5", view.ApprovalRate)
	assert.Equal(t, []string{"Keep utilization low"}, view.Recommendations)
	assert.Equal(t, 1, f.scorer.calls)

	// The decision is now held for the session.
	rec = f.do(t, http.MethodGet, "/sessions/"+form.SessionID+"/decision", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmit_IncompleteForm(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, errorCodeOf(t, rec))
	assert.Equal(t, 0, f.scorer.calls)
}

func TestSubmit_EngineFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	f.scorer.err = stderrors.NewScoringUnreachableError(errors.New("connection refused"))
	form := f.createSession(t)
	f.fillComplete(t, form.SessionID)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// A reload shows the entered values and a visible message.
	rec = f.do(t, http.MethodGet, "/sessions/"+form.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reloaded formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reloaded))
	assert.Equal(t, intake.PhaseEditing, reloaded.Phase)
	assert.Equal(t, "Asha", reloaded.Fields["applicant_id"])
	assert.Contains(t, reloaded.LastError, "couldn't score")
}

func TestSubmit_TimeoutMapsTo504(t *testing.T) {
	f := newFixture(t)
	f.scorer.err = stderrors.NewScoringTimeoutError(errors.New("context deadline exceeded"))
	form := f.createSession(t)
	f.fillComplete(t, form.SessionID)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/submit", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, stderrors.ErrCodeScoringTimeout, errorCodeOf(t, rec))
}

// ==========================
// Revise & Cancel
// ==========================

func TestRevise(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)
	f.fillComplete(t, form.SessionID)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/revise", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var revised formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &revised))
	assert.Equal(t, intake.PhaseEditing, revised.Phase)
	assert.Equal(t, "Asha", revised.Fields["applicant_id"])
	assert.Equal(t, "35", revised.Fields["age"])

	// Cancelling the revision returns to the held decision.
	rec = f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cancel map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancel))
	assert.Equal(t, "decision", cancel["target"])

	rec = f.do(t, http.MethodGet, "/sessions/"+form.SessionID+"/decision", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRevise_NoDecisionHeld(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)

	rec := f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/revise", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, stderrors.ErrCodeNoDecisionHeld, errorCodeOf(t, rec))
}

func TestCancel_FirstVisit(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)
	rec := f.setField(t, form.SessionID, "age", "35")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/sessions/"+form.SessionID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cancel map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancel))
	assert.Equal(t, "landing", cancel["target"])

	rec = f.do(t, http.MethodGet, "/sessions/"+form.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reloaded formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reloaded))
	assert.Equal(t, "", reloaded.Fields["age"])
}

func TestGetDecision_NoneHeld(t *testing.T) {
	f := newFixture(t)
	form := f.createSession(t)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/sessions/%s/decision", form.SessionID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, stderrors.ErrCodeNoDecisionHeld, errorCodeOf(t, rec))
}
