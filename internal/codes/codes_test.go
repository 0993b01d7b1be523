package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(int) (string, error)
		code   int
		want   string
	}{
		{name: "gender male", lookup: GenderLabel, code: 1, want: "Male"},
		{name: "gender female", lookup: GenderLabel, code: 2, want: "Female"},
		{name: "gender short", lookup: GenderShort, code: 2, want: "F"},
		{name: "caste general", lookup: CasteLabel, code: 1, want: "General"},
		{name: "caste other", lookup: CasteLabel, code: 5, want: "Other"},
		{name: "region north", lookup: RegionLabel, code: 1, want: "North"},
		{name: "region central", lookup: RegionLabel, code: 5, want: "Central"},
		{name: "employment salaried", lookup: EmploymentLabel, code: 1, want: "Salaried"},
		{name: "employment agriculture", lookup: EmploymentLabel, code: 5, want: "Agriculture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownCodesRejected(t *testing.T) {
	lookups := map[string]func(int) (string, error){
		"gender":     GenderLabel,
		"caste":      CasteLabel,
		"region":     RegionLabel,
		"employment": EmploymentLabel,
	}

	for name, lookup := range lookups {
		for _, code := range []int{0, 6, -1, 99} {
			_, err := lookup(code)
			assert.ErrorIs(t, err, ErrUnknownCode, "%s code %d must be rejected", name, code)
		}
	}

	// Gender is the narrowest set.
	_, err := GenderLabel(3)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestOptionsAreSortedAndComplete(t *testing.T) {
	opts := RegionOptions()
	require.Len(t, opts, 5)
	for i, opt := range opts {
		assert.Equal(t, i+1, opt.Code)
	}
	assert.Equal(t, "North", opts[0].Label)

	assert.Len(t, GenderOptions(), 2)
	assert.Len(t, CasteOptions(), 5)
	assert.Len(t, EmploymentOptions(), 5)
}
