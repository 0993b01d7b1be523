package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"credx-gateway/internal/codes"
	stderrors "credx-gateway/internal/common/errors"
	"credx-gateway/internal/intake"
	"credx-gateway/internal/present"
	"credx-gateway/internal/session"
)

// landingResponse is the marketing payload the single-page client renders on
// the landing view, plus the closed option sets the form selects need.
type landingResponse struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Version string `json:"version"`

	Options struct {
		Gender     []codes.Option `json:"gender"`
		Caste      []codes.Option `json:"caste"`
		Region     []codes.Option `json:"region"`
		Employment []codes.Option `json:"employment"`
	} `json:"options"`
}

func (s *Server) Landing(c echo.Context) error {
	resp := landingResponse{
		Name:    s.cfg.App.Name,
		Tagline: s.cfg.App.Tagline,
		Version: s.cfg.App.Version,
	}
	resp.Options.Gender = codes.GenderOptions()
	resp.Options.Caste = codes.CasteOptions()
	resp.Options.Region = codes.RegionOptions()
	resp.Options.Employment = codes.EmploymentOptions()
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) Health(c echo.Context) error {
	if err := s.sessions.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type formResponse struct {
	SessionID string            `json:"session_id"`
	Phase     intake.Phase      `json:"phase"`
	Fields    map[string]string `json:"fields"`
	LastError string            `json:"last_error,omitempty"`
}

func formOf(sess *session.Session) formResponse {
	return formResponse{
		SessionID: sess.ID,
		Phase:     sess.Form.Phase,
		Fields:    sess.Form.Fields,
		LastError: sess.Form.LastError,
	}
}

// CreateSession opens a blank intake form in a fresh session.
func (s *Server) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return s.fail(c, err)
	}
	sess.Form = s.ctrl.Open(nil, false)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, formOf(sess))
}

// GetForm re-presents the current form state, e.g. after a failed submission.
func (s *Server) GetForm(c echo.Context) error {
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, formOf(sess))
}

// Revise re-opens the form prefilled with the exact record behind the current
// decision. The decision stays held so cancelling returns to it.
func (s *Server) Revise(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Form == nil || sess.Form.Decision == nil {
		return s.fail(c, stderrors.NewNoDecisionHeldError())
	}

	prior := sess.Form.Decision
	form := s.ctrl.Open(sess.Form.LastInput, true)
	form.Decision = prior
	sess.Form = form

	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, formOf(sess))
}

type updateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) UpdateField(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req updateFieldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := s.ctrl.UpdateField(sess.Form, req.Field, req.Value); err != nil {
		return s.fail(c, err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, formOf(sess))
}

// Submit runs the one network call of the whole flow. Success answers with
// the rendered decision view; a submission failure answers 502 with the form
// intact and a visible message; a validation failure answers 422 and nothing
// leaves the process.
func (s *Server) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}

	decision, err := s.ctrl.Submit(ctx, sess.Form)
	if err != nil {
		// Persist the re-opened form before answering so a reload shows
		// the entered values and the error message.
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			s.logger.Error("failed to persist form after submission error", map[string]interface{}{
				"error": saveErr.Error(),
			})
		}
		return s.fail(c, err)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, present.BuildView(*decision))
}

func (s *Server) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}

	target := s.ctrl.Cancel(sess.Form, sess.Form.Revision)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"target": string(target)})
}

func (s *Server) GetDecision(c echo.Context) error {
	sess, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Form == nil || sess.Form.Decision == nil {
		return s.fail(c, stderrors.NewNoDecisionHeldError())
	}
	return c.JSON(http.StatusOK, present.BuildView(*sess.Form.Decision))
}

func (s *Server) load(c echo.Context) (*session.Session, error) {
	sess, err := s.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if sess.Form == nil {
		sess.Form = s.ctrl.Open(nil, false)
	}
	return sess, nil
}

// fail maps the error taxonomy onto HTTP statuses and ships the structured
// error as the body.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch stderrors.CodeOf(err) {
	case stderrors.ErrCodeValidationFailed, stderrors.ErrCodeUnknownCode:
		status = http.StatusUnprocessableEntity
	case stderrors.ErrCodeUnknownField:
		status = http.StatusBadRequest
	case stderrors.ErrCodeSessionNotFound, stderrors.ErrCodeNoDecisionHeld:
		status = http.StatusNotFound
	case stderrors.ErrCodeSubmissionInFlight, stderrors.ErrCodeInvalidTransition:
		status = http.StatusConflict
	case stderrors.ErrCodeScoringUnreachable, stderrors.ErrCodeScoringBadStatus,
		stderrors.ErrCodeScoringBadResponse:
		status = http.StatusBadGateway
	case stderrors.ErrCodeScoringTimeout:
		status = http.StatusGatewayTimeout
	}

	var std *stderrors.StandardError
	if !errors.As(err, &std) {
		std = &stderrors.StandardError{
			Code:      stderrors.ErrCodeInternal,
			Message:   "Unexpected error",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}
	return c.JSON(status, std)
}
