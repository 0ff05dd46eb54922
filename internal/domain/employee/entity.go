package employee

import "time"

// Employee is the roster contract the payroll engine reads. The roster is
// owned and mutated elsewhere; processing only needs identity, company
// affiliation and the active flag.
type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FullName     string
	Email        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
