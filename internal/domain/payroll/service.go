package payroll

import "context"

type PayrollService interface {
	// Salary structures
	GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructureResponse, error)
	CreateSalaryStructure(ctx context.Context, req CreateSalaryStructureRequest) (SalaryStructureResponse, error)
	UpdateSalaryStructure(ctx context.Context, req UpdateSalaryStructureRequest) (SalaryStructureResponse, error)

	// ProcessPeriod computes and persists one record per employee for the
	// period. Employees with no salary structure or no active employee row
	// are skipped with a reason; a per-employee failure never aborts the
	// rest of the batch.
	ProcessPeriod(ctx context.Context, req ProcessPayrollRequest) (ProcessPayrollResponse, error)

	// GetHistory returns an employee's records, most recent period first.
	GetHistory(ctx context.Context, employeeID string) ([]PayrollRecordResponse, error)
}
