package anomaly

import "context"

type AnomalyRepository interface {
	Create(ctx context.Context, a Anomaly) (Anomaly, error)
	GetByID(ctx context.Context, id string, companyID string) (Anomaly, error)
	ListByCompany(ctx context.Context, companyID string, filter AnomalyFilter) ([]Anomaly, error)
	Resolve(ctx context.Context, companyID string, req ResolveAnomalyRequest) error
}
