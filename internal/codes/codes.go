// Package codes holds the closed enum code sets used by the intake form and
// their display labels. Lookups are strict: a code outside the known set is a
// configuration error, never silently defaulted.
package codes

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownCode = errors.New("unknown code")

var genderLabels = map[int]string{
	1: "Male",
	2: "Female",
}

// genderShort holds the single-character form used on compact displays.
var genderShort = map[int]string{
	1: "M",
	2: "F",
}

var casteLabels = map[int]string{
	1: "General",
	2: "OBC",
	3: "SC",
	4: "ST",
	5: "Other",
}

var regionLabels = map[int]string{
	1: "North",
	2: "South",
	3: "East",
	4: "West",
	5: "Central",
}

var employmentLabels = map[int]string{
	1: "Salaried",
	2: "Self-Employed",
	3: "Unemployed",
	4: "Student",
	5: "Agriculture",
}

func lookup(kind string, labels map[int]string, code int) (string, error) {
	label, ok := labels[code]
	if !ok {
		return "", fmt.Errorf("%w: %s code %d", ErrUnknownCode, kind, code)
	}
	return label, nil
}

func GenderLabel(code int) (string, error) {
	return lookup("gender", genderLabels, code)
}

func GenderShort(code int) (string, error) {
	return lookup("gender", genderShort, code)
}

func CasteLabel(code int) (string, error) {
	return lookup("caste", casteLabels, code)
}

func RegionLabel(code int) (string, error) {
	return lookup("region", regionLabels, code)
}

func EmploymentLabel(code int) (string, error) {
	return lookup("employment", employmentLabels, code)
}

// Option is a selectable code with its display label, used to populate form
// select inputs.
type Option struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

func options(labels map[int]string) []Option {
	out := make([]Option, 0, len(labels))
	for code, label := range labels {
		out = append(out, Option{Code: code, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func GenderOptions() []Option     { return options(genderLabels) }
func CasteOptions() []Option      { return options(casteLabels) }
func RegionOptions() []Option     { return options(regionLabels) }
func EmploymentOptions() []Option { return options(employmentLabels) }
