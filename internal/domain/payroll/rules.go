package payroll

import "github.com/shopspring/decimal"

// PTBand is one slab of the professional tax step function. Bands are
// evaluated top-down (highest threshold first); the first band whose
// threshold the gross exceeds applies.
type PTBand struct {
	Threshold decimal.Decimal
	Amount    decimal.Decimal
}

// StatutoryRules is the versioned rate/threshold table applied by the
// deduction engine. It is supplied as configuration so a jurisdiction
// change is a data change, not a code change.
//
// PF intentionally has no wage ceiling: the rate applies to earned basic
// only, while ESI checks its gross ceiling. This asymmetry matches the
// filing rules the defaults were taken from.
type StatutoryRules struct {
	Version string

	// Employee PF: rate x earned basic
	PFRate decimal.Decimal

	// Employee ESI: rate x gross, only when gross <= ceiling
	ESIRate         decimal.Decimal
	ESICeilingGross decimal.Decimal

	// Employer-side mirrors
	EmployerPFRate  decimal.Decimal
	EmployerESIRate decimal.Decimal

	// Professional tax slabs, ordered highest threshold first
	PTBands []PTBand
}

// DefaultStatutoryRules returns the simplified Indian rule set: 12% PF on
// basic, 0.75% ESI under a 21,000 gross ceiling, employer PF 12% and ESI
// 3.25%, and the TN professional tax slabs.
func DefaultStatutoryRules() StatutoryRules {
	return StatutoryRules{
		Version:         "in-simplified-2024",
		PFRate:          decimal.NewFromFloat(0.12),
		ESIRate:         decimal.NewFromFloat(0.0075),
		ESICeilingGross: decimal.NewFromInt(21000),
		EmployerPFRate:  decimal.NewFromFloat(0.12),
		EmployerESIRate: decimal.NewFromFloat(0.0325),
		PTBands: []PTBand{
			{Threshold: decimal.NewFromInt(12500), Amount: decimal.NewFromInt(250)},
			{Threshold: decimal.NewFromInt(10000), Amount: decimal.NewFromInt(150)},
			{Threshold: decimal.NewFromInt(7500), Amount: decimal.NewFromInt(100)},
		},
	}
}

// ProfessionalTax evaluates the slab table for a gross amount. Below the
// lowest threshold the tax is zero.
func (r StatutoryRules) ProfessionalTax(gross decimal.Decimal) decimal.Decimal {
	for _, band := range r.PTBands {
		if gross.GreaterThan(band.Threshold) {
			return band.Amount
		}
	}
	return decimal.Zero
}
