package compensation

import "context"

// CompensationRepository exposes the read-only allowance/deduction queries the
// payroll engine aggregates over. CRUD for these rows is a master-data concern
// outside the engine.
type CompensationRepository interface {
	ActiveAllowances(ctx context.Context, employeeID string, year, month int) ([]Allowance, error)
	ActiveDeductions(ctx context.Context, employeeID string, year, month int) ([]Deduction, error)
}
