package intake

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"credx-gateway/internal/codes"
	"credx-gateway/internal/models"
)

// fieldKind is the parse discipline of one form field.
type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindFloat
	kindCode
	kindFlag
)

// fieldSpec is a field's declared domain: how its raw value parses and which
// range it must land in. Editing a field checks this spec and nothing else;
// cross-field rules belong to the submission gate.
type fieldSpec struct {
	kind    fieldKind
	min     float64
	max     float64
	floored bool // min is meaningful
	capped  bool // max is meaningful
	lookup  func(int) (string, error)
}

var fieldSpecs = map[string]fieldSpec{
	"applicant_id": {kind: kindText},

	"age":             {kind: kindInt, min: 1, floored: true},
	"gender_code":     {kind: kindCode, lookup: codes.GenderLabel},
	"caste_code":      {kind: kindCode, lookup: codes.CasteLabel},
	"region_code":     {kind: kindCode, lookup: codes.RegionLabel},
	"employment_code": {kind: kindCode, lookup: codes.EmploymentLabel},

	"monthly_income":   {kind: kindFloat, min: 0, floored: true},
	"income_stability": {kind: kindFloat, min: 0, max: 1, floored: true, capped: true},

	// avg_balance is deliberately unbounded: overdrawn accounts are valid input.
	"avg_balance":           {kind: kindFloat},
	"savings_ratio":         {kind: kindFloat, min: 0, max: 1, floored: true, capped: true},
	"expense_income_ratio":  {kind: kindFloat, min: 0, max: 1, floored: true, capped: true},
	"utility_payment_score": {kind: kindInt, min: 0, max: 100, floored: true, capped: true},
	"rent_payment_score":    {kind: kindInt, min: 0, max: 100, floored: true, capped: true},

	"upi_transactions":     {kind: kindInt, min: 0, floored: true},
	"upi_avg_amount":       {kind: kindFloat, min: 0, floored: true},
	"mobile_recharge_freq": {kind: kindInt, min: 0, floored: true},
	"digital_wallet_usage": {kind: kindFloat, min: 0, max: 1, floored: true, capped: true},
	"merchant_diversity":   {kind: kindInt, min: 0, floored: true},

	"credit_lines":         {kind: kindInt, min: 0, floored: true},
	"credit_tenure_months": {kind: kindInt, min: 0, floored: true},
	"missed_payments":      {kind: kindInt, min: 0, floored: true},
	"avg_days_past_due":    {kind: kindFloat, min: 0, floored: true},
	"credit_utilization":   {kind: kindFloat, min: 0, max: 1, floored: true, capped: true},

	"consent_given":     {kind: kindFlag},
	"document_verified": {kind: kindFlag},
}

// blankFields is the initial raw record: everything empty except the consent
// flags, which default on.
func blankFields() map[string]string {
	fields := make(map[string]string, len(fieldSpecs))
	for name := range fieldSpecs {
		fields[name] = ""
	}
	fields["consent_given"] = "1"
	fields["document_verified"] = "1"
	return fields
}

// checkField validates a single raw value against the field's declared
// domain. An empty value is always accepted at edit time; presence is
// enforced by the submission gate.
func checkField(name, raw string) error {
	spec, ok := fieldSpecs[name]
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if raw == "" {
		return nil
	}

	switch spec.kind {
	case kindText:
		return nil

	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: not an integer: %q", name, raw)
		}
		return checkRange(name, float64(n), spec)

	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%s: not a number: %q", name, raw)
		}
		return checkRange(name, f, spec)

	case kindCode:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: not a code: %q", name, raw)
		}
		if _, err := spec.lookup(n); err != nil {
			return err
		}
		return nil

	case kindFlag:
		if raw != "0" && raw != "1" {
			return fmt.Errorf("%s: must be 0 or 1, got %q", name, raw)
		}
		return nil
	}
	return nil
}

func checkRange(name string, v float64, spec fieldSpec) error {
	if spec.floored && v < spec.min {
		return fmt.Errorf("%s: %v below minimum %v", name, v, spec.min)
	}
	if spec.capped && v > spec.max {
		return fmt.Errorf("%s: %v above maximum %v", name, v, spec.max)
	}
	return nil
}

// parseFields assembles an ApplicantInput from the raw record. Every field
// must be present; blank fields are reported together so the form can flag
// them all at once.
func parseFields(fields map[string]string) (*models.ApplicantInput, error) {
	var missing []string
	for name := range fieldSpecs {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(sorted(missing), ", "))
	}

	atoi := func(name string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(fields[name]))
		return n
	}
	atof := func(name string) float64 {
		f, _ := strconv.ParseFloat(strings.TrimSpace(fields[name]), 64)
		return f
	}

	input := &models.ApplicantInput{
		ApplicantID: fields["applicant_id"],

		Age:            atoi("age"),
		GenderCode:     atoi("gender_code"),
		CasteCode:      atoi("caste_code"),
		RegionCode:     atoi("region_code"),
		EmploymentCode: atoi("employment_code"),

		MonthlyIncome:   atof("monthly_income"),
		IncomeStability: atof("income_stability"),

		AvgBalance:          atof("avg_balance"),
		SavingsRatio:        atof("savings_ratio"),
		ExpenseIncomeRatio:  atof("expense_income_ratio"),
		UtilityPaymentScore: atoi("utility_payment_score"),
		RentPaymentScore:    atoi("rent_payment_score"),

		UPITransactions:    atoi("upi_transactions"),
		UPIAvgAmount:       atof("upi_avg_amount"),
		MobileRechargeFreq: atoi("mobile_recharge_freq"),
		DigitalWalletUsage: atof("digital_wallet_usage"),
		MerchantDiversity:  atoi("merchant_diversity"),

		CreditLines:        atoi("credit_lines"),
		CreditTenureMonths: atoi("credit_tenure_months"),
		MissedPayments:     atoi("missed_payments"),
		AvgDaysPastDue:     atof("avg_days_past_due"),
		CreditUtilization:  atof("credit_utilization"),

		ConsentGiven:     atoi("consent_given"),
		DocumentVerified: atoi("document_verified"),
	}
	return input, nil
}

// formatFields is the inverse of parseFields, used to prefill the form from a
// previously submitted record.
func formatFields(input models.ApplicantInput) map[string]string {
	ftoa := func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return map[string]string{
		"applicant_id": input.ApplicantID,

		"age":             strconv.Itoa(input.Age),
		"gender_code":     strconv.Itoa(input.GenderCode),
		"caste_code":      strconv.Itoa(input.CasteCode),
		"region_code":     strconv.Itoa(input.RegionCode),
		"employment_code": strconv.Itoa(input.EmploymentCode),

		"monthly_income":   ftoa(input.MonthlyIncome),
		"income_stability": ftoa(input.IncomeStability),

		"avg_balance":           ftoa(input.AvgBalance),
		"savings_ratio":         ftoa(input.SavingsRatio),
		"expense_income_ratio":  ftoa(input.ExpenseIncomeRatio),
		"utility_payment_score": strconv.Itoa(input.UtilityPaymentScore),
		"rent_payment_score":    strconv.Itoa(input.RentPaymentScore),

		"upi_transactions":     strconv.Itoa(input.UPITransactions),
		"upi_avg_amount":       ftoa(input.UPIAvgAmount),
		"mobile_recharge_freq": strconv.Itoa(input.MobileRechargeFreq),
		"digital_wallet_usage": ftoa(input.DigitalWalletUsage),
		"merchant_diversity":   strconv.Itoa(input.MerchantDiversity),

		"credit_lines":         strconv.Itoa(input.CreditLines),
		"credit_tenure_months": strconv.Itoa(input.CreditTenureMonths),
		"missed_payments":      strconv.Itoa(input.MissedPayments),
		"avg_days_past_due":    ftoa(input.AvgDaysPastDue),
		"credit_utilization":   ftoa(input.CreditUtilization),

		"consent_given":     strconv.Itoa(input.ConsentGiven),
		"document_verified": strconv.Itoa(input.DocumentVerified),
	}
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
