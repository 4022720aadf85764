package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// Payroll is one monthly payroll record. At most one row exists per
// (employee, year, month); the database enforces this with
// uk_payroll_employee_period.
type Payroll struct {
	ID               string
	EmployeeID       string
	Year             int
	Month            int
	BasicSalary      decimal.Decimal
	TotalAllowances  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
	TotalDaysInMonth int
	TotalWorkingDays int
	Status           PayrollStatus
	Notes            string
	ProcessedBy      *string
	ProcessedAt      *time.Time
	PaymentDate      *time.Time
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentName *string
}

// RecomputeNetSalary derives net salary from the three input fields. Every
// persistence path calls this immediately before writing; a stored record is
// always internally consistent.
func (p *Payroll) RecomputeNetSalary() {
	p.NetSalary = p.BasicSalary.Add(p.TotalAllowances).Sub(p.TotalDeductions)
}

// AttendanceResolution tags how the attendance summary for a payroll
// computation was obtained.
type AttendanceResolution string

const (
	// ResolutionLinked - counts come from the attendance rows of the linked
	// login identity.
	ResolutionLinked AttendanceResolution = "linked"
	// ResolutionUnlinked - the employee has no linked login identity; the
	// whole month is treated as paid so no salary is deducted spuriously.
	ResolutionUnlinked AttendanceResolution = "unlinked"
	// ResolutionDegraded - the attendance query failed; same full-paid-month
	// policy as unlinked. Payroll computation never hard-fails on attendance.
	ResolutionDegraded AttendanceResolution = "degraded"
)

// AttendanceSummary is the per-month attendance breakdown for one employee.
type AttendanceSummary struct {
	Resolution  AttendanceResolution
	PresentDays int
	AbsentDays  int
	LateDays    int
	HalfDays    int
	LeaveDays   int
	// WorkingDays = present + late + half (days physically attended).
	WorkingDays int
	// PaidDays = present + late + leave (days salary is owed for).
	PaidDays int
}

// NewLinkedSummary builds a summary from per-status counts of the linked
// identity's attendance rows.
func NewLinkedSummary(present, absent, late, half, leave int) AttendanceSummary {
	return AttendanceSummary{
		Resolution:  ResolutionLinked,
		PresentDays: present,
		AbsentDays:  absent,
		LateDays:    late,
		HalfDays:    half,
		LeaveDays:   leave,
		WorkingDays: present + late + half,
		PaidDays:    present + late + leave,
	}
}

// NewFullMonthSummary builds the full-paid-month fallback used when no login
// identity is linked or the attendance lookup degraded.
func NewFullMonthSummary(resolution AttendanceResolution, totalDays int) AttendanceSummary {
	return AttendanceSummary{
		Resolution:  resolution,
		PresentDays: totalDays,
		WorkingDays: totalDays,
		PaidDays:    totalDays,
	}
}
