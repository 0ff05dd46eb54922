package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.AnomalyRepository {
	return &anomalyRepository{db: db}
}

const anomalyColumns = `id, company_id, employee_id, payroll_record_id, type, severity,
	title, description, evidence, is_resolved, resolved_by_id, resolution_notes,
	created_at, updated_at`

func scanAnomaly(row pgx.Row) (anomaly.Anomaly, error) {
	var a anomaly.Anomaly
	var evidenceBytes []byte
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.PayrollRecordID, &a.Type, &a.Severity,
		&a.Title, &a.Description, &evidenceBytes, &a.IsResolved, &a.ResolvedByID, &a.ResolutionNotes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return anomaly.Anomaly{}, err
	}
	_ = json.Unmarshal(evidenceBytes, &a.Evidence)
	return a, nil
}

func (r *anomalyRepository) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	evidenceJSON, _ := json.Marshal(a.Evidence)

	query := fmt.Sprintf(`
		INSERT INTO anomalies (
			id, company_id, employee_id, payroll_record_id, type, severity,
			title, description, evidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, anomalyColumns)

	created, err := scanAnomaly(q.QueryRow(ctx, query,
		a.ID, a.CompanyID, a.EmployeeID, a.PayrollRecordID, a.Type, a.Severity,
		a.Title, a.Description, evidenceJSON,
	))
	if err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("failed to create anomaly: %w", err)
	}

	return created, nil
}

func (r *anomalyRepository) GetByID(ctx context.Context, id string, companyID string) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM anomalies
		WHERE id = $1 AND company_id = $2
	`, anomalyColumns)

	a, err := scanAnomaly(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return anomaly.Anomaly{}, anomaly.ErrAnomalyNotFound
		}
		return anomaly.Anomaly{}, fmt.Errorf("failed to get anomaly: %w", err)
	}

	return a, nil
}

func (r *anomalyRepository) ListByCompany(ctx context.Context, companyID string, filter anomaly.AnomalyFilter) ([]anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM anomalies
		WHERE company_id = $1
	`, anomalyColumns)
	args := []interface{}{companyID}

	if filter.Resolved != nil {
		query += ` AND is_resolved = $2`
		args = append(args, *filter.Resolved)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		a, err := scanAnomaly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}

	return anomalies, nil
}

func (r *anomalyRepository) Resolve(ctx context.Context, companyID string, req anomaly.ResolveAnomalyRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE anomalies
		SET is_resolved = true, resolved_by_id = $3, resolution_notes = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var resolvedID string
	err := q.QueryRow(ctx, query, req.ID, companyID, req.ResolvedBy, req.Notes).Scan(&resolvedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return anomaly.ErrAnomalyNotFound
		}
		return fmt.Errorf("failed to resolve anomaly: %w", err)
	}

	return nil
}
