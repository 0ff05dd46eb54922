package anomaly

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyType enum
type AnomalyType string

const (
	TypeSalarySpike        AnomalyType = "salary_spike"
	TypeComplianceMismatch AnomalyType = "compliance_mismatch"
	TypeTaxAnomaly         AnomalyType = "tax_anomaly"
	TypeGhostEmployee      AnomalyType = "ghost_employee"
	TypeDeductionError     AnomalyType = "deduction_error"
)

// AnomalySeverity enum
type AnomalySeverity string

const (
	SeverityLow      AnomalySeverity = "low"
	SeverityMedium   AnomalySeverity = "medium"
	SeverityHigh     AnomalySeverity = "high"
	SeverityCritical AnomalySeverity = "critical"
)

// Anomaly is one flagged irregularity. Rows are append-only; only the
// resolution fields change after creation.
type Anomaly struct {
	ID              string
	CompanyID       string
	EmployeeID      *string
	PayrollRecordID *string

	Type        AnomalyType
	Severity    AnomalySeverity
	Title       string
	Description string
	// Evidence carries the numeric facts behind the finding, e.g.
	// previous/current gross and the percentage delta.
	Evidence map[string]decimal.Decimal

	IsResolved      bool
	ResolvedByID    *string
	ResolutionNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
