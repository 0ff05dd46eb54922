package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/autopay-os/payroll-backend-go/internal/domain/attendance"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, status, check_in, check_out, created_at, updated_at
		FROM attendance_entries
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var e attendance.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.Date, &e.Status, &e.CheckIn, &e.CheckOut, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
