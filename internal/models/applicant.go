package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ApplicantInput is the full set of applicant-supplied attributes submitted to
// the scoring engine. Field names and JSON tags are the wire contract of the
// scorer's POST /submit endpoint; no derived fields are ever added before
// transmission.
type ApplicantInput struct {
	ApplicantID string `json:"applicant_id"`

	// Demographics. Codes are closed enums resolved to labels at
	// presentation time, see internal/codes.
	Age            int `json:"age"`
	GenderCode     int `json:"gender_code"`
	CasteCode      int `json:"caste_code"`
	RegionCode     int `json:"region_code"`
	EmploymentCode int `json:"employment_code"`

	MonthlyIncome   float64 `json:"monthly_income"`
	IncomeStability float64 `json:"income_stability"`

	AvgBalance          float64 `json:"avg_balance"`
	SavingsRatio        float64 `json:"savings_ratio"`
	ExpenseIncomeRatio  float64 `json:"expense_income_ratio"`
	UtilityPaymentScore int     `json:"utility_payment_score"`
	RentPaymentScore    int     `json:"rent_payment_score"`

	UPITransactions    int     `json:"upi_transactions"`
	UPIAvgAmount       float64 `json:"upi_avg_amount"`
	MobileRechargeFreq int     `json:"mobile_recharge_freq"`
	DigitalWalletUsage float64 `json:"digital_wallet_usage"`
	MerchantDiversity  int     `json:"merchant_diversity"`

	CreditLines        int     `json:"credit_lines"`
	CreditTenureMonths int     `json:"credit_tenure_months"`
	MissedPayments     int     `json:"missed_payments"`
	AvgDaysPastDue     float64 `json:"avg_days_past_due"`
	CreditUtilization  float64 `json:"credit_utilization"`

	// Consent flags travel as 0/1 integers, both defaulting to 1.
	ConsentGiven     int `json:"consent_given"`
	DocumentVerified int `json:"document_verified"`
}

// Validate is the submission gate: every field must be present and inside its
// declared domain before a submission is attempted.
func (a ApplicantInput) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ApplicantID, validation.Required),
		validation.Field(&a.Age, validation.Required, validation.Min(1)),
		validation.Field(&a.GenderCode, validation.Required, validation.Min(1), validation.Max(2)),
		validation.Field(&a.CasteCode, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&a.RegionCode, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&a.EmploymentCode, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&a.MonthlyIncome, validation.Min(0.0)),
		validation.Field(&a.IncomeStability, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.SavingsRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.ExpenseIncomeRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.UtilityPaymentScore, validation.Min(0), validation.Max(100)),
		validation.Field(&a.RentPaymentScore, validation.Min(0), validation.Max(100)),
		validation.Field(&a.UPITransactions, validation.Min(0)),
		validation.Field(&a.UPIAvgAmount, validation.Min(0.0)),
		validation.Field(&a.MobileRechargeFreq, validation.Min(0)),
		validation.Field(&a.DigitalWalletUsage, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.MerchantDiversity, validation.Min(0)),
		validation.Field(&a.CreditLines, validation.Min(0)),
		validation.Field(&a.CreditTenureMonths, validation.Min(0)),
		validation.Field(&a.MissedPayments, validation.Min(0)),
		validation.Field(&a.CreditUtilization, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&a.ConsentGiven, validation.In(0, 1)),
		validation.Field(&a.DocumentVerified, validation.In(0, 1)),
	)
}
