package payroll

import "errors"

var (
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrSalaryStructureExists   = errors.New("salary structure already exists for this employee")
	ErrPayrollRecordNotFound   = errors.New("payroll record not found")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)
