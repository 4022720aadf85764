package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allowance is a manual monthly addition to salary (transport, housing, ...).
// Multiple rows per (employee, year, month) are allowed, distinguished by name.
type Allowance struct {
	ID          string
	EmployeeID  string
	Name        string
	Year        int
	Month       int
	Amount      decimal.Decimal
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Deduction is a manual monthly subtraction (loan repayment, ...), distinct
// from the attendance-based deduction computed by the payroll engine.
type Deduction struct {
	ID          string
	EmployeeID  string
	Name        string
	Year        int
	Month       int
	Amount      decimal.Decimal
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
