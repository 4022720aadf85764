package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/compensation"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/domain/payroll"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
	"github.com/hrsuite/hr-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db               *database.DB
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	compensationRepo compensation.CompensationRepository
	logger           *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	compensationRepo compensation.CompensationRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:               db,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		compensationRepo: compensationRepo,
		logger:           logger,
	}
}

// Helper to get the acting user_id from JWT context
func getActorFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// computation holds the full derived breakdown for one (employee, period).
// It is the single source both the preview and the persisted record are
// built from.
type computation struct {
	emp                 employee.Employee
	year                int
	month               int
	totalDaysInMonth    int
	summary             payroll.AttendanceSummary
	perDaySalary        decimal.Decimal
	attendanceDeduction decimal.Decimal
	allowances          []compensation.Allowance
	deductions          []compensation.Deduction
	totalAllowances     decimal.Decimal
	manualDeductions    decimal.Decimal
	totalDeductions     decimal.Decimal
	netSalary           decimal.Decimal
}

// summarizeAttendance resolves the month's attendance for an employee.
// An employee without a linked login identity, or a failing attendance
// lookup, falls back to a full paid month; payroll computation never
// hard-fails on attendance.
func (s *PayrollServiceImpl) summarizeAttendance(ctx context.Context, emp employee.Employee, year, month, totalDays int) payroll.AttendanceSummary {
	if emp.UserID == nil {
		return payroll.NewFullMonthSummary(payroll.ResolutionUnlinked, totalDays)
	}

	counts, err := s.attendanceRepo.CountByStatusForMonth(ctx, *emp.UserID, year, month)
	if err != nil {
		s.logger.Warn("attendance lookup failed, falling back to full paid month",
			slog.String("employee_id", emp.ID),
			slog.Int("year", year),
			slog.Int("month", month),
			slog.String("error", err.Error()),
		)
		return payroll.NewFullMonthSummary(payroll.ResolutionDegraded, totalDays)
	}

	return payroll.NewLinkedSummary(
		counts[attendance.StatusPresent],
		counts[attendance.StatusAbsent],
		counts[attendance.StatusLate],
		counts[attendance.StatusHalfDay],
		counts[attendance.StatusLeave],
	)
}

func (s *PayrollServiceImpl) compute(ctx context.Context, employeeID string, year, month int) (computation, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return computation{}, err
	}

	totalDays := payroll.DaysInMonth(year, month)
	summary := s.summarizeAttendance(ctx, emp, year, month, totalDays)

	perDay := payroll.PerDaySalary(emp.Salary, totalDays)
	attendanceDeduction := payroll.AttendanceDeduction(perDay, summary.AbsentDays, summary.HalfDays)

	allowances, err := s.compensationRepo.ActiveAllowances(ctx, employeeID, year, month)
	if err != nil {
		return computation{}, fmt.Errorf("failed to load allowances: %w", err)
	}
	deductions, err := s.compensationRepo.ActiveDeductions(ctx, employeeID, year, month)
	if err != nil {
		return computation{}, fmt.Errorf("failed to load deductions: %w", err)
	}

	totalAllowances := decimal.Zero
	for _, a := range allowances {
		totalAllowances = totalAllowances.Add(a.Amount)
	}
	manualDeductions := decimal.Zero
	for _, d := range deductions {
		manualDeductions = manualDeductions.Add(d.Amount)
	}

	totalDeductions := manualDeductions.Add(attendanceDeduction)
	netSalary := emp.Salary.Add(totalAllowances).Sub(totalDeductions)

	return computation{
		emp:                 emp,
		year:                year,
		month:               month,
		totalDaysInMonth:    totalDays,
		summary:             summary,
		perDaySalary:        perDay,
		attendanceDeduction: attendanceDeduction,
		allowances:          allowances,
		deductions:          deductions,
		totalAllowances:     totalAllowances,
		manualDeductions:    manualDeductions,
		totalDeductions:     totalDeductions,
		netSalary:           netSalary,
	}, nil
}

func mapToCalculationResponse(c computation) payroll.CalculationResponse {
	allowanceLines := make([]payroll.ComponentLine, 0, len(c.allowances))
	for _, a := range c.allowances {
		allowanceLines = append(allowanceLines, payroll.ComponentLine{
			ID:          a.ID,
			Name:        a.Name,
			Amount:      a.Amount,
			Description: a.Description,
		})
	}
	deductionLines := make([]payroll.ComponentLine, 0, len(c.deductions))
	for _, d := range c.deductions {
		deductionLines = append(deductionLines, payroll.ComponentLine{
			ID:          d.ID,
			Name:        d.Name,
			Amount:      d.Amount,
			Description: d.Description,
		})
	}

	return payroll.CalculationResponse{
		EmployeeID:            c.emp.ID,
		EmployeeName:          c.emp.FullName(),
		EmployeeCode:          c.emp.EmployeeCode,
		Year:                  c.year,
		Month:                 c.month,
		MonthName:             payroll.MonthName(c.month),
		BasicSalary:           c.emp.Salary,
		TotalAllowances:       c.totalAllowances,
		TotalDeductions:       c.totalDeductions,
		AttendanceDeduction:   c.attendanceDeduction,
		ManualDeductionsTotal: c.manualDeductions,
		NetSalary:             c.netSalary,
		TotalDaysInMonth:      c.totalDaysInMonth,
		TotalWorkingDays:      c.summary.WorkingDays,
		Attendance: payroll.AttendanceBreakdown{
			Resolution:          string(c.summary.Resolution),
			PresentDays:         c.summary.PresentDays,
			AbsentDays:          c.summary.AbsentDays,
			LateDays:            c.summary.LateDays,
			HalfDays:            c.summary.HalfDays,
			LeaveDays:           c.summary.LeaveDays,
			WorkingDays:         c.summary.WorkingDays,
			PaidDays:            c.summary.PaidDays,
			PerDaySalary:        c.perDaySalary,
			AttendanceDeduction: c.attendanceDeduction,
		},
		Allowances: allowanceLines,
		Deductions: deductionLines,
	}
}

func mapToPayrollResponse(rec payroll.Payroll) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		DepartmentName:   rec.DepartmentName,
		Year:             rec.Year,
		Month:            rec.Month,
		MonthName:        payroll.MonthName(rec.Month),
		BasicSalary:      rec.BasicSalary,
		TotalAllowances:  rec.TotalAllowances,
		TotalDeductions:  rec.TotalDeductions,
		NetSalary:        rec.NetSalary,
		TotalDaysInMonth: rec.TotalDaysInMonth,
		TotalWorkingDays: rec.TotalWorkingDays,
		Status:           string(rec.Status),
		Notes:            rec.Notes,
		ProcessedBy:      rec.ProcessedBy,
		PaymentReference: rec.PaymentReference,
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        rec.UpdatedAt.Format(time.RFC3339),
	}

	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	if rec.EmployeeCode != nil {
		resp.EmployeeCode = *rec.EmployeeCode
	}
	if rec.ProcessedAt != nil {
		v := rec.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	if rec.PaymentDate != nil {
		v := rec.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &v
	}

	return resp
}

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}

	c, err := s.compute(ctx, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}

	return mapToCalculationResponse(c), nil
}

func (s *PayrollServiceImpl) EmployeeData(ctx context.Context, employeeID string, year, month int) (payroll.EmployeeDataResponse, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four-digit year"})
	}
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return payroll.EmployeeDataResponse{}, errs
	}

	c, err := s.compute(ctx, employeeID, year, month)
	if err != nil {
		return payroll.EmployeeDataResponse{}, err
	}

	department := ""
	if c.emp.DepartmentName != nil {
		department = *c.emp.DepartmentName
	}

	return payroll.EmployeeDataResponse{
		CalculationResponse: mapToCalculationResponse(c),
		Employee: payroll.EmployeeInfo{
			ID:           c.emp.ID,
			EmployeeCode: c.emp.EmployeeCode,
			Name:         c.emp.FullName(),
			Email:        c.emp.Email,
			Position:     c.emp.Position,
			Department:   department,
			Phone:        c.emp.Phone,
		},
	}, nil
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	// Compute and persist on one snapshot so concurrent compensation edits
	// cannot land between the read and the write.
	var created payroll.Payroll
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		c, err := s.compute(txCtx, req.EmployeeID, req.Year, req.Month)
		if err != nil {
			return err
		}

		record := payroll.Payroll{
			EmployeeID:       req.EmployeeID,
			Year:             req.Year,
			Month:            req.Month,
			BasicSalary:      c.emp.Salary,
			TotalAllowances:  c.totalAllowances,
			TotalDeductions:  c.totalDeductions,
			TotalDaysInMonth: c.totalDaysInMonth,
			TotalWorkingDays: c.summary.WorkingDays,
			Status:           payroll.PayrollStatusDraft,
			Notes:            req.Notes,
		}
		record.RecomputeNetSalary()

		created, err = s.payrollRepo.Create(txCtx, record)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToPayrollResponse(created), nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToPayrollResponse(rec), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, mapToPayrollResponse(rec))
	}

	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	if err := s.payrollRepo.Update(ctx, req); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

func (s *PayrollServiceImpl) Process(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	actor, err := getActorFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	if err := s.payrollRepo.MarkProcessed(ctx, id, actor); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	paymentDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.PaymentDate != nil {
		d, _ := validator.IsValidDate(*req.PaymentDate)
		paymentDate = d
	}

	if err := s.payrollRepo.MarkPaid(ctx, req.ID, paymentDate, req.PaymentReference); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if err := s.payrollRepo.Cancel(ctx, id); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	return s.payrollRepo.Delete(ctx, id)
}

func (s *PayrollServiceImpl) Summary(ctx context.Context, year, month int) (payroll.PayrollSummaryResponse, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four-digit year"})
	}
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return payroll.PayrollSummaryResponse{}, errs
	}

	return s.payrollRepo.Summary(ctx, year, month)
}
