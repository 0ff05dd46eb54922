package attendance

import "time"

// Status enum. An entry's status is the only attendance fact payroll
// consumes; dates with no entry are treated as absent.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

// Entry is one attendance row per (employee, calendar date). Entry
// workflows (clock-in screens, approvals) live outside this service;
// payroll reads entries within a period's date range only.
type Entry struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	CheckIn    *time.Time
	CheckOut   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
