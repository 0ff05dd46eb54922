package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure - Active monthly compensation configuration for one employee.
// Superseded by updates, never deleted; at most one active row per employee.
type SalaryStructure struct {
	ID         string
	EmployeeID string

	// Monthly earning components
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	MedicalAllowance decimal.Decimal
	SpecialAllowance decimal.Decimal

	// Statutory toggles
	PFEnabled          bool
	ESIEnabled         bool
	PTEnabled          bool
	TDSEnabled         bool
	EmployerPFEnabled  bool
	EmployerESIEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// Period identifies one payroll cycle.
type Period struct {
	Month int
	Year  int
}

// DaysInMonth returns the calendar length of the period.
func (p Period) DaysInMonth() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Range returns the inclusive [first day, last day] of the period.
func (p Period) Range() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(p.Year, time.Month(p.Month), p.DaysInMonth(), 0, 0, 0, 0, time.UTC)
	return start, end
}

// PayrollRecord - one finalized pay computation per (employee, period).
// Deduction and contribution fields are always populated; a disabled
// category carries decimal zero, never null.
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int

	// Attendance for the period
	PaidDays   decimal.Decimal
	AbsentDays decimal.Decimal

	// Earned component breakdown (pro-rated by paid days)
	BasicEarned      decimal.Decimal
	HRAEarned        decimal.Decimal
	ConveyanceEarned decimal.Decimal
	MedicalEarned    decimal.Decimal
	SpecialEarned    decimal.Decimal

	GrossEarnings decimal.Decimal

	// Employee-side deductions
	PFDeduction        decimal.Decimal
	ESIDeduction       decimal.Decimal
	PTDeduction        decimal.Decimal
	IncomeTaxDeduction decimal.Decimal

	// Employer contributions, informational only (not deducted from net pay)
	EmployerPFContribution  decimal.Decimal
	EmployerESIContribution decimal.Decimal

	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	Status      PayrollStatus
	ProcessedAt *time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
