package payroll

import (
	"time"

	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MonthName returns the English month name, or "" for an invalid month.
func MonthName(month int) string {
	if !validator.IsValidMonth(month) {
		return ""
	}
	return time.Month(month).String()
}

func validatePeriod(errs validator.ValidationErrors, year, month int) validator.ValidationErrors {
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four-digit year"})
	}
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	return errs
}

// ========== CALCULATE / CREATE DTOs ==========

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = validatePeriod(errs, r.Year, r.Month)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreatePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Notes      string `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = validatePeriod(errs, r.Year, r.Month)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== UPDATE / TRANSITION DTOs ==========

// UpdatePayrollRequest carries manual edits to a draft record. Net salary is
// recomputed from the resulting fields before the write.
type UpdatePayrollRequest struct {
	ID              string           `json:"-"`
	BasicSalary     *decimal.Decimal `json:"basic_salary,omitempty"`
	TotalAllowances *decimal.Decimal `json:"total_allowances,omitempty"`
	TotalDeductions *decimal.Decimal `json:"total_deductions,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be non-negative"})
	}
	if r.TotalAllowances != nil && r.TotalAllowances.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_allowances", Message: "must be non-negative"})
	}
	if r.TotalDeductions != nil && r.TotalDeductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_deductions", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidRequest struct {
	ID               string  `json:"-"`
	PaymentDate      *string `json:"payment_date,omitempty"`
	PaymentReference string  `json:"payment_reference,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a YYYY-MM-DD date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type AttendanceBreakdown struct {
	Resolution          string          `json:"resolution"`
	PresentDays         int             `json:"present_days"`
	AbsentDays          int             `json:"absent_days"`
	LateDays            int             `json:"late_days"`
	HalfDays            int             `json:"half_days"`
	LeaveDays           int             `json:"leave_days"`
	WorkingDays         int             `json:"working_days"`
	PaidDays            int             `json:"paid_days"`
	PerDaySalary        decimal.Decimal `json:"per_day_salary"`
	AttendanceDeduction decimal.Decimal `json:"attendance_deduction"`
}

type ComponentLine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// CalculationResponse is the full preview breakdown. Nothing is persisted.
type CalculationResponse struct {
	EmployeeID            string              `json:"employee_id"`
	EmployeeName          string              `json:"employee_name"`
	EmployeeCode          string              `json:"employee_code"`
	Year                  int                 `json:"year"`
	Month                 int                 `json:"month"`
	MonthName             string              `json:"month_name"`
	BasicSalary           decimal.Decimal     `json:"basic_salary"`
	TotalAllowances       decimal.Decimal     `json:"total_allowances"`
	TotalDeductions       decimal.Decimal     `json:"total_deductions"`
	AttendanceDeduction   decimal.Decimal     `json:"attendance_deduction"`
	ManualDeductionsTotal decimal.Decimal     `json:"manual_deductions_total"`
	NetSalary             decimal.Decimal     `json:"net_salary"`
	TotalDaysInMonth      int                 `json:"total_days_in_month"`
	TotalWorkingDays      int                 `json:"total_working_days"`
	Attendance            AttendanceBreakdown `json:"attendance"`
	Allowances            []ComponentLine     `json:"allowances"`
	Deductions            []ComponentLine     `json:"deductions"`
}

type EmployeeInfo struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	Phone        string `json:"phone"`
}

// EmployeeDataResponse is the breakdown plus the employee block, used by the
// payroll admin screen.
type EmployeeDataResponse struct {
	CalculationResponse
	Employee EmployeeInfo `json:"employee"`
}

type PayrollResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	EmployeeCode     string          `json:"employee_code"`
	DepartmentName   *string         `json:"department_name,omitempty"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	MonthName        string          `json:"month_name"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	TotalAllowances  decimal.Decimal `json:"total_allowances"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	TotalDaysInMonth int             `json:"total_days_in_month"`
	TotalWorkingDays int             `json:"total_working_days"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	ProcessedBy      *string         `json:"processed_by,omitempty"`
	ProcessedAt      *string         `json:"processed_at,omitempty"`
	PaymentDate      *string         `json:"payment_date,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type PayrollSummaryResponse struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalEmployees   int             `json:"total_employees"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalAllowances  decimal.Decimal `json:"total_allowances"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	DraftCount       int             `json:"draft_count"`
	ProcessedCount   int             `json:"processed_count"`
	PaidCount        int             `json:"paid_count"`
	CancelledCount   int             `json:"cancelled_count"`
}
