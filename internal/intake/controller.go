// Package intake owns the applicant form: a mutable raw-string record walked
// through a small phase machine. The only network operation in the whole flow
// is Submit, which hands the record to the scoring engine exactly once.
package intake

import (
	"context"

	stderrors "credx-gateway/internal/common/errors"
	"credx-gateway/internal/common/logger"
	"credx-gateway/internal/common/metrics"
	"credx-gateway/internal/models"
	"credx-gateway/internal/scoring"
)

// Phase is the form's position in its lifecycle.
//
//	Idle -> Editing -> Pending -> Decision
//	                      |           |
//	                      v           v
//	               Editing(retry)  Editing(prefilled)
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseEditing  Phase = "editing"
	PhasePending  Phase = "pending"
	PhaseDecision Phase = "decision"
)

// NavigationTarget is where a cancelled form sends the caller.
type NavigationTarget string

const (
	TargetLanding  NavigationTarget = "landing"
	TargetDecision NavigationTarget = "decision"
)

// FormState is one visitor's intake record. It is plain data so the session
// store can serialize it whole; all behavior lives on the Controller.
type FormState struct {
	Phase    Phase             `json:"phase"`
	Fields   map[string]string `json:"fields"`
	Revision bool              `json:"revision"`

	// LastError is the visible message from the most recent failed
	// submission. Failures surface here instead of silently re-opening
	// the form.
	LastError string `json:"last_error,omitempty"`

	// LastInput is the most recently submitted record, kept so "change my
	// details" re-presents the form with exactly what was sent.
	LastInput *models.ApplicantInput  `json:"last_input,omitempty"`
	Decision  *models.ScoringDecision `json:"decision,omitempty"`
}

// Controller drives FormState transitions. It is stateless itself and safe to
// share; all mutable state rides in the FormState.
type Controller struct {
	scorer scoring.Submitter
	logger logger.Logger
}

func NewController(scorer scoring.Submitter, log logger.Logger) *Controller {
	return &Controller{
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Open starts a form: blank for a first visit, prefilled from previous when
// the visitor chose to revise prior input. The previous record is copied,
// never aliased, so it cannot be mutated except by explicit field edits.
func (c *Controller) Open(previous *models.ApplicantInput, revision bool) *FormState {
	st := &FormState{
		Phase:    PhaseEditing,
		Revision: revision,
	}
	if previous != nil {
		st.Fields = formatFields(*previous)
		prev := *previous
		st.LastInput = &prev
	} else {
		st.Fields = blankFields()
	}
	return st
}

// UpdateField replaces exactly one field after checking that field's declared
// domain. No other field is touched and no cross-field validation runs.
func (c *Controller) UpdateField(st *FormState, name, raw string) error {
	if st.Phase != PhaseEditing {
		return stderrors.NewInvalidTransitionError("update_field", string(st.Phase))
	}
	if _, ok := fieldSpecs[name]; !ok {
		return stderrors.NewUnknownFieldError(name)
	}
	if err := checkField(name, raw); err != nil {
		metrics.FieldRejections.WithLabelValues(name).Inc()
		return stderrors.NewValidationFailedError(err.Error())
	}
	st.Fields[name] = raw
	return nil
}

// Snapshot parses the raw record into an ApplicantInput and runs the full
// submission gate. Submission is withheld until this succeeds.
func (c *Controller) Snapshot(st *FormState) (*models.ApplicantInput, error) {
	input, err := parseFields(st.Fields)
	if err != nil {
		return nil, stderrors.NewValidationFailedError(err.Error())
	}
	if err := input.Validate(); err != nil {
		return nil, stderrors.NewValidationFailedError(err.Error())
	}
	return input, nil
}

// Submit sends the current record to the scoring engine. On success the form
// moves to the decision phase, retaining the submitted input for later
// revision. On any submission failure the form returns to editing with every
// entered value intact and a visible error; nothing is retried automatically.
// A second submit while one is pending is rejected outright.
func (c *Controller) Submit(ctx context.Context, st *FormState) (*models.ScoringDecision, error) {
	switch st.Phase {
	case PhasePending:
		return nil, stderrors.NewSubmissionInFlightError()
	case PhaseEditing:
	default:
		return nil, stderrors.NewInvalidTransitionError("submit", string(st.Phase))
	}

	input, err := c.Snapshot(st)
	if err != nil {
		return nil, err
	}

	st.Phase = PhasePending
	st.LastError = ""

	decision, err := c.scorer.Submit(ctx, *input)
	if err != nil {
		// The trigger re-enables here on every failure path, timeout
		// included; the form never sticks in pending.
		st.Phase = PhaseEditing
		st.LastError = submissionMessage(err)
		metrics.SubmissionsFailed.WithLabelValues(string(stderrors.CodeOf(err))).Inc()
		c.logger.Warn("submission failed, form re-opened", map[string]interface{}{
			"errorCode": string(stderrors.CodeOf(err)),
		})
		return nil, err
	}

	st.Phase = PhaseDecision
	st.LastInput = input
	st.Decision = decision
	outcome := "rejected"
	if decision.FinalDecision.Approved {
		outcome = "approved"
	}
	metrics.SubmissionsCompleted.WithLabelValues(outcome).Inc()
	c.logger.Info("decision received", map[string]interface{}{
		"applicantId": input.ApplicantID,
		"outcome":     outcome,
		"creditScore": decision.FinalDecision.CreditScore,
	})
	return decision, nil
}

// Cancel abandons the current edits. A form opened to revise an existing
// decision returns to that decision view, which is still held; a first-time
// form returns to the landing state.
func (c *Controller) Cancel(st *FormState, cameFromRevision bool) NavigationTarget {
	if cameFromRevision && st.Decision != nil {
		st.Phase = PhaseDecision
		if st.LastInput != nil {
			st.Fields = formatFields(*st.LastInput)
		}
		return TargetDecision
	}
	st.Phase = PhaseIdle
	st.Fields = blankFields()
	return TargetLanding
}

// submissionMessage is the user-facing line shown when a submission fails.
func submissionMessage(err error) string {
	switch stderrors.CodeOf(err) {
	case stderrors.ErrCodeScoringTimeout:
		return "The scoring service took too long to respond. Your details are unchanged - please try again."
	default:
		return "We couldn't score your application right now. Your details are unchanged - please try again."
	}
}
