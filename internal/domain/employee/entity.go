package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the read-only view of an employee record consumed by payroll.
// UserID is the login identity linkage, resolved when the employee record is
// created; payroll never re-derives it.
type Employee struct {
	ID           string
	EmployeeCode string
	UserID       *string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Position     string
	DepartmentID *string
	Salary       decimal.Decimal
	Status       string
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	DepartmentName *string
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
