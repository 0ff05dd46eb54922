package response

import (
	"errors"
	"net/http"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/domain/employee"
	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	"github.com/autopay-os/payroll-backend-go/internal/domain/user"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to the appropriate HTTP response.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is not active")
	case errors.Is(err, payroll.ErrSalaryStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, payroll.ErrSalaryStructureExists):
		Conflict(w, "Salary structure already exists for this employee")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, anomaly.ErrAnomalyNotFound):
		NotFound(w, "Anomaly not found")
	case errors.Is(err, anomaly.ErrAnomalyAlreadyResolved):
		Conflict(w, "Anomaly is already resolved")
	case errors.Is(err, user.ErrHRManagerAccessRequired):
		Forbidden(w, "HR manager access required")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
