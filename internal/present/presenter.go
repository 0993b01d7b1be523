// Package present turns a ScoringDecision into renderable view-model values.
// Everything here is a pure, deterministic mapping: no network, no clock, no
// mutable state.
package present

import (
	"fmt"
	"strings"

	"credx-gateway/internal/models"
)

// scale band boundaries of the 300-850 credit score indicator. Each band
// occupies an equal quarter of the visual scale regardless of its width in
// score points.
const (
	scaleFloor = 300
	scaleCeil  = 850
)

// ScoreBucketPercent maps a credit score to its position on the 0-100 visual
// scale. The scale is split into four unequal bands, each rendered as 25% of
// the indicator: [300,500], (500,650], (650,750], (750,850], with linear
// interpolation inside a band. Scores at or below 300 clamp to 0, at or above
// 850 clamp to 100.
func ScoreBucketPercent(score int) float64 {
	if score <= scaleFloor {
		return 0
	}
	if score >= scaleCeil {
		return 100
	}

	s := float64(score)
	switch {
	case score <= 500:
		return (s - 300) / 200 * 25
	case score <= 650:
		return 25 + (s-500)/150*25
	case score <= 750:
		return 50 + (s-650)/100*25
	default:
		return 75 + (s-750)/100*25
	}
}

// FormatPercent renders a 0..1 ratio as a fixed-precision percentage string
// without the "%" sign. Precision is a per-call-site choice: the same ratio is
// legitimately shown with different decimal counts on different cards.
func FormatPercent(ratio float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, ratio*100)
}

// StripBulletPrefix removes a single leading "• " marker from a
// recommendation. Recommendations without the marker pass through unchanged.
func StripBulletPrefix(rec string) string {
	return strings.TrimPrefix(rec, "• ")
}

// RiskColor returns the decision's precomputed display colour verbatim. Colour
// is never derived from the score or category here; the scoring engine is the
// single source of risk-colour truth.
func RiskColor(d models.ScoringDecision) string {
	return d.Colour
}

// FactorGroup is the tagged rendering variant for a factor list. The empty
// case carries its own user-facing placeholder so the "no factors found" path
// is a type-level case rather than an incidental empty-slice check.
type FactorGroup interface {
	factorGroup()
}

// EmptyFactors renders as the placeholder line instead of a list. The section
// is always shown; it is never omitted.
type EmptyFactors struct {
	Placeholder string
}

// PresentFactors renders the entries in the order the scoring engine
// returned them.
type PresentFactors struct {
	Entries []models.Factor
}

func (EmptyFactors) factorGroup()   {}
func (PresentFactors) factorGroup() {}

const (
	noPositiveFactors = "No positive factors found."
	noNegativeFactors = "No negative factors found."
)

// GroupedFactors holds both factor sections of the decision view.
type GroupedFactors struct {
	Positive FactorGroup
	Negative FactorGroup
}

// GroupFactors partitions the already-typed factor entries of a decision into
// the positive and negative sections. Entry order is preserved and type is
// taken from the entry's tag, never re-inferred from its text.
func GroupFactors(d models.ScoringDecision) GroupedFactors {
	return GroupedFactors{
		Positive: group(d.PositiveFactors, noPositiveFactors),
		Negative: group(d.NegativeFactors, noNegativeFactors),
	}
}

func group(entries []models.Factor, placeholder string) FactorGroup {
	if len(entries) == 0 {
		return EmptyFactors{Placeholder: placeholder}
	}
	return PresentFactors{Entries: entries}
}
