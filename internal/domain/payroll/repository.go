package payroll

import "context"

// PayrollRepository defines data access for salary structures and payroll records.
type PayrollRepository interface {
	// Salary structures
	GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructure, error)
	CreateSalaryStructure(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
	UpdateSalaryStructure(ctx context.Context, req UpdateSalaryStructureRequest) (SalaryStructure, error)

	// Payroll records
	// UpsertRecord creates the record for its (employee, period) key or
	// overwrites every computed field of the existing one, atomically.
	UpsertRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	// GetLatestPriorRecord returns the most recent processed-or-paid record
	// strictly before (month, year) for the employee, ordered by year then
	// month descending.
	GetLatestPriorRecord(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	ListRecordsByEmployee(ctx context.Context, employeeID string) ([]PayrollRecord, error)
}
