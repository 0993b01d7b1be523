package models

// FactorType tags an explanatory factor as contributing for or against the
// applicant. The scoring engine assigns the type; it is never re-inferred
// from the factor text.
type FactorType string

const (
	FactorPositive FactorType = "positive"
	FactorNegative FactorType = "negative"
)

// Factor is one explanatory entry attached to a decision.
type Factor struct {
	Text string     `json:"text"`
	Type FactorType `json:"type"`
}

// ApplicantProfile is the demographic/employment subset echoed back by the
// scoring engine for display, with codes already resolved to labels.
type ApplicantProfile struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	Region        string  `json:"region"`
	Employment    string  `json:"employment"`
	MonthlyIncome float64 `json:"monthly_income"`
}

// FinalDecision is the scoring outcome proper.
type FinalDecision struct {
	Approved            bool    `json:"approved"`
	CreditScore         int     `json:"credit_score"`
	RiskCategory        string  `json:"risk_category"`
	DefaultRisk         float64 `json:"default_risk"`
	ApprovalProbability float64 `json:"approval_probability"`
	Threshold           float64 `json:"threshold"`
}

// ScoringDecision is the scoring engine's full response to one submission.
// It is immutable view data: each new submission fully replaces the previous
// decision, and nothing here is recomputed on this side. In particular Colour
// is the engine's risk colour, carried verbatim so the engine stays the single
// source of risk-colour truth.
type ScoringDecision struct {
	Success          bool             `json:"success"`
	ApplicantProfile ApplicantProfile `json:"applicant_profile"`
	FinalDecision    FinalDecision    `json:"final_decision"`
	PositiveFactors  []Factor         `json:"positive_factors"`
	NegativeFactors  []Factor         `json:"negative_factors"`
	Recommendations  []string         `json:"recommendations"`
	Colour           string           `json:"colour"`
}
