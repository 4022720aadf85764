package response

import (
	"errors"
	"net/http"

	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/domain/payroll"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll record already exists for this employee and period")
	case errors.Is(err, payroll.ErrPayrollAlreadyProcessed):
		Conflict(w, "Payroll record already processed")
	case errors.Is(err, payroll.ErrPayrollAlreadyPaid):
		Conflict(w, "Payroll record already paid")
	case errors.Is(err, payroll.ErrPayrollCancelled):
		Conflict(w, "Payroll record is cancelled")
	case errors.Is(err, payroll.ErrPayrollNotCancellable):
		Conflict(w, "Payroll record can no longer be cancelled")
	case errors.Is(err, payroll.ErrCannotDeletePaidPayroll):
		Conflict(w, "Cannot delete a paid payroll record")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
