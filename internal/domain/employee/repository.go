package employee

import "context"

// EmployeeRepository exposes the read-only employee lookups payroll depends on.
// Employee lifecycle management lives in the employee-management service.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
}
