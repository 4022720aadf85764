package payroll

import "context"

// PayrollService is the payroll computation engine surface.
type PayrollService interface {
	// Calculate is the preview operation: the full breakdown for an
	// (employee, year, month) with no side effects.
	Calculate(ctx context.Context, req CalculatePayrollRequest) (CalculationResponse, error)
	// EmployeeData is Calculate plus the employee block, for the admin screen.
	EmployeeData(ctx context.Context, employeeID string, year, month int) (EmployeeDataResponse, error)
	// Create computes and persists a draft payroll record.
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	// Process transitions draft -> processed, stamping the acting operator.
	Process(ctx context.Context, id string) (PayrollResponse, error)
	// MarkPaid transitions draft/processed -> paid with payment details.
	MarkPaid(ctx context.Context, req MarkPaidRequest) (PayrollResponse, error)
	// Cancel side-exits a draft/processed record.
	Cancel(ctx context.Context, id string) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, year, month int) (PayrollSummaryResponse, error)
}
