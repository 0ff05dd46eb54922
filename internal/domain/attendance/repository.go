package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// ListByEmployeeRange returns entries for the employee with dates in
	// [start, end] inclusive.
	ListByEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]Entry, error)
}
