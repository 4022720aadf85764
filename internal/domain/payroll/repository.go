package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll records. Status
// transitions are single conditional updates keyed on the expected prior
// status, so two concurrent operators cannot both win.
type PayrollRepository interface {
	Create(ctx context.Context, record Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	Update(ctx context.Context, req UpdatePayrollRequest) error
	MarkProcessed(ctx context.Context, id string, processedBy string) error
	MarkPaid(ctx context.Context, id string, paymentDate time.Time, paymentReference string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, year, month int) (PayrollSummaryResponse, error)
}
