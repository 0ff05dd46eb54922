package payroll

import (
	"github.com/autopay-os/payroll-backend-go/internal/domain/attendance"
	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the precision every persisted amount is rounded to.
// Rounding is half-up and happens once per output field, after all
// arithmetic; intermediates keep full decimal precision.
const moneyPlaces = 2

var halfDayWeight = decimal.NewFromFloat(0.5)

// AttendanceBreakdown is the paid/absent day reduction of a period's entries.
type AttendanceBreakdown struct {
	PresentDays decimal.Decimal
	HalfDays    decimal.Decimal // 0.5 per half-day entry
	LeaveDays   decimal.Decimal
	PaidDays    decimal.Decimal
	AbsentDays  decimal.Decimal
}

// AggregateAttendance reduces daily entries to paid-day counts. Leave is
// paid; holiday entries and missing dates are not, so a month with no
// entries comes out fully absent.
func AggregateAttendance(entries []attendance.Entry, daysInMonth int) AttendanceBreakdown {
	var present, halfDay, leave int64
	for _, e := range entries {
		switch e.Status {
		case attendance.StatusPresent:
			present++
		case attendance.StatusHalfDay:
			halfDay++
		case attendance.StatusLeave:
			leave++
		}
	}

	b := AttendanceBreakdown{
		PresentDays: decimal.NewFromInt(present),
		HalfDays:    decimal.NewFromInt(halfDay).Mul(halfDayWeight),
		LeaveDays:   decimal.NewFromInt(leave),
	}
	b.PaidDays = b.PresentDays.Add(b.HalfDays).Add(b.LeaveDays)
	b.AbsentDays = decimal.NewFromInt(int64(daysInMonth)).Sub(b.PaidDays)
	return b
}

// EarnedComponents is the pro-rated earning side of a record.
type EarnedComponents struct {
	Basic      decimal.Decimal
	HRA        decimal.Decimal
	Conveyance decimal.Decimal
	Medical    decimal.Decimal
	Special    decimal.Decimal
	Gross      decimal.Decimal
}

// CalculateEarnings pro-rates each configured component by
// paidDays/daysInMonth. Gross is summed from the unrounded products, then
// every output is rounded once.
func CalculateEarnings(structure payroll.SalaryStructure, paidDays decimal.Decimal, daysInMonth int) EarnedComponents {
	proRate := paidDays.Div(decimal.NewFromInt(int64(daysInMonth)))

	basic := structure.Basic.Mul(proRate)
	hra := structure.HRA.Mul(proRate)
	conveyance := structure.Conveyance.Mul(proRate)
	medical := structure.MedicalAllowance.Mul(proRate)
	special := structure.SpecialAllowance.Mul(proRate)

	gross := basic.Add(hra).Add(conveyance).Add(medical).Add(special)

	return EarnedComponents{
		Basic:      basic.Round(moneyPlaces),
		HRA:        hra.Round(moneyPlaces),
		Conveyance: conveyance.Round(moneyPlaces),
		Medical:    medical.Round(moneyPlaces),
		Special:    special.Round(moneyPlaces),
		Gross:      gross.Round(moneyPlaces),
	}
}

// DeductionBreakdown is the statutory side of a record. Disabled
// categories are decimal zero, never absent.
type DeductionBreakdown struct {
	PF          decimal.Decimal
	ESI         decimal.Decimal
	PT          decimal.Decimal
	IncomeTax   decimal.Decimal
	EmployerPF  decimal.Decimal
	EmployerESI decimal.Decimal
	Total       decimal.Decimal
}

// CalculateDeductions applies the rule table to earned amounts. PF is
// rate x earned basic with no ceiling; ESI applies only at or below its
// gross ceiling; PT is a top-down slab lookup. Employer contributions
// mirror the employee-side eligibility with employer rates and are not
// part of the employee total.
func CalculateDeductions(structure payroll.SalaryStructure, earned EarnedComponents, rules payroll.StatutoryRules) DeductionBreakdown {
	d := DeductionBreakdown{
		PF:          decimal.Zero,
		ESI:         decimal.Zero,
		PT:          decimal.Zero,
		IncomeTax:   decimal.Zero,
		EmployerPF:  decimal.Zero,
		EmployerESI: decimal.Zero,
	}

	if structure.PFEnabled {
		d.PF = earned.Basic.Mul(rules.PFRate).Round(moneyPlaces)
	}
	if structure.ESIEnabled && earned.Gross.LessThanOrEqual(rules.ESICeilingGross) {
		d.ESI = earned.Gross.Mul(rules.ESIRate).Round(moneyPlaces)
	}
	if structure.PTEnabled {
		d.PT = rules.ProfessionalTax(earned.Gross)
	}
	// Income-tax withholding is supplied by the tax pipeline, not computed
	// here; the flag-gated field stays zero so downstream consumers never
	// see a null.

	if structure.EmployerPFEnabled {
		d.EmployerPF = earned.Basic.Mul(rules.EmployerPFRate).Round(moneyPlaces)
	}
	if structure.EmployerESIEnabled && earned.Gross.LessThanOrEqual(rules.ESICeilingGross) {
		d.EmployerESI = earned.Gross.Mul(rules.EmployerESIRate).Round(moneyPlaces)
	}

	d.Total = d.PF.Add(d.ESI).Add(d.PT).Add(d.IncomeTax)
	return d
}

// ComputeRecord runs the full calculation pipeline for one employee and
// period: attendance aggregation, pro-rated earnings, then statutory
// deductions. The returned record carries no identity or status; the
// upsert assigns those.
func ComputeRecord(structure payroll.SalaryStructure, entries []attendance.Entry, period payroll.Period, rules payroll.StatutoryRules) payroll.PayrollRecord {
	days := period.DaysInMonth()
	att := AggregateAttendance(entries, days)
	earned := CalculateEarnings(structure, att.PaidDays, days)
	ded := CalculateDeductions(structure, earned, rules)

	return payroll.PayrollRecord{
		EmployeeID:  structure.EmployeeID,
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,

		PaidDays:   att.PaidDays,
		AbsentDays: att.AbsentDays,

		BasicEarned:      earned.Basic,
		HRAEarned:        earned.HRA,
		ConveyanceEarned: earned.Conveyance,
		MedicalEarned:    earned.Medical,
		SpecialEarned:    earned.Special,

		GrossEarnings: earned.Gross,

		PFDeduction:        ded.PF,
		ESIDeduction:       ded.ESI,
		PTDeduction:        ded.PT,
		IncomeTaxDeduction: ded.IncomeTax,

		EmployerPFContribution:  ded.EmployerPF,
		EmployerESIContribution: ded.EmployerESI,

		TotalDeductions: ded.Total,
		NetPay:          earned.Gross.Sub(ded.Total),
	}
}
