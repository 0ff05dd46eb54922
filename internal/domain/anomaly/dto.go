package anomaly

import (
	"time"

	"github.com/autopay-os/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AnomalyResponse struct {
	ID              string                     `json:"id"`
	EmployeeID      *string                    `json:"employee_id,omitempty"`
	PayrollRecordID *string                    `json:"payroll_record_id,omitempty"`
	Type            string                     `json:"type"`
	Severity        string                     `json:"severity"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description,omitempty"`
	Evidence        map[string]decimal.Decimal `json:"evidence,omitempty"`
	IsResolved      bool                       `json:"is_resolved"`
	ResolutionNotes *string                    `json:"resolution_notes,omitempty"`
	CreatedAt       string                     `json:"created_at"`
}

func MapToResponse(a Anomaly) AnomalyResponse {
	return AnomalyResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		PayrollRecordID: a.PayrollRecordID,
		Type:            string(a.Type),
		Severity:        string(a.Severity),
		Title:           a.Title,
		Description:     a.Description,
		Evidence:        a.Evidence,
		IsResolved:      a.IsResolved,
		ResolutionNotes: a.ResolutionNotes,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

type ResolveAnomalyRequest struct {
	ID         string `json:"-"`
	ResolvedBy string `json:"-"`
	Notes      string `json:"notes"`
}

func (r *ResolveAnomalyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Notes == "" {
		errs = append(errs, validator.ValidationError{Field: "notes", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnomalyFilter narrows company-scoped listings.
type AnomalyFilter struct {
	Resolved *bool
}
