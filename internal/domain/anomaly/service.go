package anomaly

import (
	"context"

	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
)

type AnomalyService interface {
	// Screen evaluates a freshly persisted payroll record and persists any
	// findings. It runs after the record is committed; its error must be
	// suppressed by the caller (log-and-continue).
	Screen(ctx context.Context, companyID string, record payroll.PayrollRecord) ([]Anomaly, error)

	List(ctx context.Context, companyID string, filter AnomalyFilter) ([]AnomalyResponse, error)
	Resolve(ctx context.Context, companyID string, req ResolveAnomalyRequest) error
}
