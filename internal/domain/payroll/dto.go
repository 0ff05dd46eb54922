package payroll

import (
	"time"

	"github.com/autopay-os/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY STRUCTURE DTOs ==========

type CreateSalaryStructureRequest struct {
	EmployeeID       string          `json:"employee_id"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`

	// Toggles default to enabled when omitted
	PFEnabled          *bool `json:"pf_enabled,omitempty"`
	ESIEnabled         *bool `json:"esi_enabled,omitempty"`
	PTEnabled          *bool `json:"pt_enabled,omitempty"`
	TDSEnabled         *bool `json:"tds_enabled,omitempty"`
	EmployerPFEnabled  *bool `json:"employer_pf_enabled,omitempty"`
	EmployerESIEnabled *bool `json:"employer_esi_enabled,omitempty"`
}

func (r *CreateSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	for field, amount := range map[string]decimal.Decimal{
		"basic":             r.Basic,
		"hra":               r.HRA,
		"conveyance":        r.Conveyance,
		"medical_allowance": r.MedicalAllowance,
		"special_allowance": r.SpecialAllowance,
	} {
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryStructureRequest struct {
	EmployeeID       string           `json:"-"`
	Basic            *decimal.Decimal `json:"basic,omitempty"`
	HRA              *decimal.Decimal `json:"hra,omitempty"`
	Conveyance       *decimal.Decimal `json:"conveyance,omitempty"`
	MedicalAllowance *decimal.Decimal `json:"medical_allowance,omitempty"`
	SpecialAllowance *decimal.Decimal `json:"special_allowance,omitempty"`

	PFEnabled          *bool `json:"pf_enabled,omitempty"`
	ESIEnabled         *bool `json:"esi_enabled,omitempty"`
	PTEnabled          *bool `json:"pt_enabled,omitempty"`
	TDSEnabled         *bool `json:"tds_enabled,omitempty"`
	EmployerPFEnabled  *bool `json:"employer_pf_enabled,omitempty"`
	EmployerESIEnabled *bool `json:"employer_esi_enabled,omitempty"`
}

func (r *UpdateSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, amount := range map[string]*decimal.Decimal{
		"basic":             r.Basic,
		"hra":               r.HRA,
		"conveyance":        r.Conveyance,
		"medical_allowance": r.MedicalAllowance,
		"special_allowance": r.SpecialAllowance,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryStructureResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`

	PFEnabled          bool `json:"pf_enabled"`
	ESIEnabled         bool `json:"esi_enabled"`
	PTEnabled          bool `json:"pt_enabled"`
	TDSEnabled         bool `json:"tds_enabled"`
	EmployerPFEnabled  bool `json:"employer_pf_enabled"`
	EmployerESIEnabled bool `json:"employer_esi_enabled"`
}

// ========== PROCESSING DTOs ==========

type ProcessPayrollRequest struct {
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2000 or later"})
	}
	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "at least one employee is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SkippedEmployee records why one employee in a batch produced no record.
type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type ProcessPayrollResponse struct {
	Records []PayrollRecordResponse `json:"records"`
	Skipped []SkippedEmployee       `json:"skipped"`
}

type PayrollRecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	PeriodMonth  int     `json:"period_month"`
	PeriodYear   int     `json:"period_year"`

	PaidDays   decimal.Decimal `json:"paid_days"`
	AbsentDays decimal.Decimal `json:"absent_days"`

	BasicEarned      decimal.Decimal `json:"basic_earned"`
	HRAEarned        decimal.Decimal `json:"hra_earned"`
	ConveyanceEarned decimal.Decimal `json:"conveyance_earned"`
	MedicalEarned    decimal.Decimal `json:"medical_earned"`
	SpecialEarned    decimal.Decimal `json:"special_earned"`

	GrossEarnings decimal.Decimal `json:"gross_earnings"`

	PFDeduction        decimal.Decimal `json:"pf_deduction"`
	ESIDeduction       decimal.Decimal `json:"esi_deduction"`
	PTDeduction        decimal.Decimal `json:"pt_deduction"`
	IncomeTaxDeduction decimal.Decimal `json:"income_tax_deduction"`

	EmployerPFContribution  decimal.Decimal `json:"employer_pf_contribution"`
	EmployerESIContribution decimal.Decimal `json:"employer_esi_contribution"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	Status      string  `json:"status"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	PaidAt      *string `json:"paid_at,omitempty"`
}

// MapToRecordResponse converts a persisted record to its API shape.
func MapToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	formatTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(time.RFC3339)
		return &s
	}

	return PayrollRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		EmployeeCode: r.EmployeeCode,
		PeriodMonth:  r.PeriodMonth,
		PeriodYear:   r.PeriodYear,

		PaidDays:   r.PaidDays,
		AbsentDays: r.AbsentDays,

		BasicEarned:      r.BasicEarned,
		HRAEarned:        r.HRAEarned,
		ConveyanceEarned: r.ConveyanceEarned,
		MedicalEarned:    r.MedicalEarned,
		SpecialEarned:    r.SpecialEarned,

		GrossEarnings: r.GrossEarnings,

		PFDeduction:        r.PFDeduction,
		ESIDeduction:       r.ESIDeduction,
		PTDeduction:        r.PTDeduction,
		IncomeTaxDeduction: r.IncomeTaxDeduction,

		EmployerPFContribution:  r.EmployerPFContribution,
		EmployerESIContribution: r.EmployerESIContribution,

		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,

		Status:      string(r.Status),
		ProcessedAt: formatTime(r.ProcessedAt),
		PaidAt:      formatTime(r.PaidAt),
	}
}
