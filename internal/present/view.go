package present

import (
	"credx-gateway/internal/models"
)

const (
	badgeApproved = "APPROVED"
	badgeRejected = "REJECTED"
)

// FactorSection is the serializable form of a FactorGroup. Exactly one of
// Entries/Placeholder is populated, mirroring the tagged variant.
type FactorSection struct {
	Entries     []models.Factor `json:"entries,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
}

// DecisionView is the fully rendered view model of one ScoringDecision. All
// formatting decisions live here so the serving layer ships strings it never
// has to touch again.
type DecisionView struct {
	Badge        string  `json:"badge"`
	Approved     bool    `json:"approved"`
	CreditScore  int     `json:"credit_score"`
	ScaleCaption string  `json:"scale_caption"`
	ScorePercent float64 `json:"score_percent"`
	RiskCategory string  `json:"risk_category"`
	RiskColor    string  `json:"risk_color"`

	// Default risk is shown to 2 decimals on the detail cards and 0 on the
	// summary card; approval probability to 1 and 0. The differing
	// precisions are deliberate per-call-site choices.
	DefaultRisk          string `json:"default_risk"`
	DefaultRiskSummary   string `json:"default_risk_summary"`
	ApprovalRate         string `json:"approval_rate"`
	ApprovalRateSummary  string `json:"approval_rate_summary"`
	ApprovalThresholdPct string `json:"approval_threshold_pct"`

	Profile models.ApplicantProfile `json:"profile"`

	PositiveFactors FactorSection `json:"positive_factors"`
	NegativeFactors FactorSection `json:"negative_factors"`
	Recommendations []string      `json:"recommendations"`
}

// BuildView assembles the decision view from a well-formed ScoringDecision.
// Malformed decisions never reach this point; the submission path rejects
// them as SubmissionError before a decision is held.
func BuildView(d models.ScoringDecision) DecisionView {
	badge := badgeRejected
	if d.FinalDecision.Approved {
		badge = badgeApproved
	}

	groups := GroupFactors(d)

	recs := make([]string, 0, len(d.Recommendations))
	for _, rec := range d.Recommendations {
		recs = append(recs, StripBulletPrefix(rec))
	}

	return DecisionView{
		Badge:        badge,
		Approved:     d.FinalDecision.Approved,
		CreditScore:  d.FinalDecision.CreditScore,
		ScaleCaption: "out of 850",
		ScorePercent: ScoreBucketPercent(d.FinalDecision.CreditScore),
		RiskCategory: d.FinalDecision.RiskCategory,
		RiskColor:    RiskColor(d),

		DefaultRisk:          FormatPercent(d.FinalDecision.DefaultRisk, 2),
		DefaultRiskSummary:   FormatPercent(d.FinalDecision.DefaultRisk, 0),
		ApprovalRate:         FormatPercent(d.FinalDecision.ApprovalProbability, 1),
		ApprovalRateSummary:  FormatPercent(d.FinalDecision.ApprovalProbability, 0),
		ApprovalThresholdPct: FormatPercent(d.FinalDecision.Threshold, 0),

		Profile: d.ApplicantProfile,

		PositiveFactors: toSection(groups.Positive),
		NegativeFactors: toSection(groups.Negative),
		Recommendations: recs,
	}
}

func toSection(g FactorGroup) FactorSection {
	switch v := g.(type) {
	case PresentFactors:
		return FactorSection{Entries: v.Entries}
	case EmptyFactors:
		return FactorSection{Placeholder: v.Placeholder}
	default:
		return FactorSection{}
	}
}
