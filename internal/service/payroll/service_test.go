package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/domain/compensation"
	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/domain/payroll"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/hrsuite/hr-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func payrollTestInit(t *testing.T) {
	t.Helper()
	if testDB != nil {
		return
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, database.Migrate(context.Background(), db, "../../../migrations"))
	testDB = db
}

func truncateTables(t *testing.T, ctx context.Context) {
	t.Helper()
	tables := []string{"payroll", "allowances", "deductions", "attendances", "employees", "departments", "users"}
	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func newTestService() payroll.PayrollService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPayrollService(
		testDB,
		postgresql.NewPayrollRepository(testDB),
		postgresql.NewEmployeeRepository(testDB),
		postgresql.NewAttendanceRepository(testDB),
		postgresql.NewCompensationRepository(testDB),
		logger,
	)
}

func createTestUser(t *testing.T, ctx context.Context) string {
	t.Helper()
	var userID string
	email := fmt.Sprintf("user-%d@example.com", time.Now().UnixNano())
	err := testDB.QueryRow(ctx, `
		INSERT INTO users (email, full_name) VALUES ($1, 'Test User') RETURNING id
	`, email).Scan(&userID)
	require.NoError(t, err)
	return userID
}

func createTestEmployee(t *testing.T, ctx context.Context, userID *string, salary string) string {
	t.Helper()
	var employeeID string
	code := fmt.Sprintf("EMP-%d", time.Now().UnixNano())
	err := testDB.QueryRow(ctx, `
		INSERT INTO employees (employee_code, user_id, first_name, last_name, email, salary)
		VALUES ($1, $2, 'Jane', 'Doe', $3, $4)
		RETURNING id
	`, code, userID, fmt.Sprintf("%s@example.com", code), salary).Scan(&employeeID)
	require.NoError(t, err)
	return employeeID
}

// seedFebruaryAttendance inserts one attendance row per day of February 2023:
// 20 present, 2 absent, 2 late, 1 half day, 3 leave.
func seedFebruaryAttendance(t *testing.T, ctx context.Context, userID string) {
	t.Helper()
	statuses := make([]string, 0, 28)
	for i := 0; i < 20; i++ {
		statuses = append(statuses, "present")
	}
	statuses = append(statuses, "absent", "absent", "late", "late", "half_day", "leave", "leave", "leave")
	require.Len(t, statuses, 28)

	for day, status := range statuses {
		date := time.Date(2023, 2, day+1, 0, 0, 0, 0, time.UTC)
		_, err := testDB.Exec(ctx, `
			INSERT INTO attendances (user_id, date, status) VALUES ($1, $2, $3)
		`, userID, date, status)
		require.NoError(t, err)
	}
}

func insertAllowance(t *testing.T, ctx context.Context, employeeID, name, amount string) {
	t.Helper()
	_, err := testDB.Exec(ctx, `
		INSERT INTO allowances (employee_id, name, year, month, amount) VALUES ($1, $2, 2023, 2, $3)
	`, employeeID, name, amount)
	require.NoError(t, err)
}

func insertDeduction(t *testing.T, ctx context.Context, employeeID, name, amount string) {
	t.Helper()
	_, err := testDB.Exec(ctx, `
		INSERT INTO deductions (employee_id, name, year, month, amount) VALUES ($1, $2, 2023, 2, $3)
	`, employeeID, name, amount)
	require.NoError(t, err)
}

// authContext returns a context carrying a verified access token for userID.
func authContext(t *testing.T, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type stubEmployeeRepository struct {
	emp employee.Employee
}

func (s stubEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return s.emp, nil
}

type failingAttendanceRepository struct{}

func (failingAttendanceRepository) CountByStatusForMonth(ctx context.Context, userID string, year, month int) (map[attendance.Status]int, error) {
	return nil, errors.New("connection reset by peer")
}

type emptyCompensationRepository struct{}

func (emptyCompensationRepository) ActiveAllowances(ctx context.Context, employeeID string, year, month int) ([]compensation.Allowance, error) {
	return nil, nil
}

func (emptyCompensationRepository) ActiveDeductions(ctx context.Context, employeeID string, year, month int) ([]compensation.Deduction, error) {
	return nil, nil
}

// A failing attendance lookup degrades to the full-paid-month policy instead
// of failing the computation.
func TestPayrollService_Calculate_DegradedAttendance(t *testing.T) {
	userID := "user-1"
	svc := NewPayrollService(
		nil,
		nil,
		stubEmployeeRepository{emp: employee.Employee{
			ID:           "emp-1",
			EmployeeCode: "EMP-1",
			UserID:       &userID,
			FirstName:    "Jane",
			LastName:     "Doe",
			Salary:       decimal.NewFromInt(2800),
		}},
		failingAttendanceRepository{},
		emptyCompensationRepository{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	result, err := svc.Calculate(context.Background(), payroll.CalculatePayrollRequest{
		EmployeeID: "emp-1", Year: 2023, Month: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "degraded", result.Attendance.Resolution)
	assert.Equal(t, 28, result.Attendance.PresentDays)
	assert.Equal(t, 28, result.TotalWorkingDays)
	assert.Equal(t, 28, result.Attendance.PaidDays)
	assert.True(t, result.AttendanceDeduction.IsZero())
	assert.True(t, result.NetSalary.Equal(decimal.NewFromInt(2800)), "net = %s", result.NetSalary)
}

func TestPayrollService_Calculate_LinkedAttendance(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	userID := createTestUser(t, ctx)
	employeeID := createTestEmployee(t, ctx, &userID, "3000")
	seedFebruaryAttendance(t, ctx, userID)
	insertAllowance(t, ctx, employeeID, "Transport", "500")
	insertDeduction(t, ctx, employeeID, "Loan repayment", "350")

	svc := newTestService()
	result, err := svc.Calculate(ctx, payroll.CalculatePayrollRequest{
		EmployeeID: employeeID, Year: 2023, Month: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "linked", result.Attendance.Resolution)
	assert.Equal(t, 28, result.TotalDaysInMonth)
	assert.Equal(t, 23, result.TotalWorkingDays)
	assert.Equal(t, 25, result.Attendance.PaidDays)
	assert.True(t, result.Attendance.PerDaySalary.Equal(decimal.RequireFromString("107.14")))
	assert.True(t, result.AttendanceDeduction.Equal(decimal.RequireFromString("267.85")))
	assert.True(t, result.TotalAllowances.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.ManualDeductionsTotal.Equal(decimal.NewFromInt(350)))
	assert.True(t, result.TotalDeductions.Equal(decimal.RequireFromString("617.85")))
	assert.True(t, result.NetSalary.Equal(decimal.RequireFromString("2882.15")), "net = %s", result.NetSalary)
	assert.Len(t, result.Allowances, 1)
	assert.Len(t, result.Deductions, 1)

	// preview persists nothing
	var count int
	require.NoError(t, testDB.QueryRow(ctx, `SELECT COUNT(*) FROM payroll`).Scan(&count))
	assert.Zero(t, count)
}

func TestPayrollService_Calculate_UnlinkedEmployee(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, nil, "2800")

	svc := newTestService()
	result, err := svc.Calculate(ctx, payroll.CalculatePayrollRequest{
		EmployeeID: employeeID, Year: 2023, Month: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "unlinked", result.Attendance.Resolution)
	assert.Equal(t, 28, result.Attendance.PresentDays)
	assert.Equal(t, 28, result.TotalWorkingDays)
	assert.True(t, result.AttendanceDeduction.IsZero())
	assert.True(t, result.NetSalary.Equal(decimal.NewFromInt(2800)), "net = %s", result.NetSalary)
}

func TestPayrollService_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	userID := createTestUser(t, ctx)
	employeeID := createTestEmployee(t, ctx, &userID, "3000")
	seedFebruaryAttendance(t, ctx, userID)

	svc := newTestService()
	req := payroll.CreatePayrollRequest{EmployeeID: employeeID, Year: 2023, Month: 2}

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "February", created.MonthName)
	assert.Equal(t, "Jane Doe", created.EmployeeName)
	assert.True(t, created.NetSalary.Equal(decimal.RequireFromString("2732.15")), "net = %s", created.NetSalary)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)

	// the first record is untouched by the failed duplicate
	reread, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", reread.Status)
	assert.True(t, reread.NetSalary.Equal(created.NetSalary), "net = %s", reread.NetSalary)
	assert.True(t, reread.BasicSalary.Equal(created.BasicSalary))
	assert.Equal(t, created.UpdatedAt, reread.UpdatedAt)
}

func TestPayrollService_Process_Transitions(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	actorID := createTestUser(t, ctx)
	employeeID := createTestEmployee(t, ctx, nil, "3000")

	svc := newTestService()
	created, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: employeeID, Year: 2023, Month: 2})
	require.NoError(t, err)

	authCtx := authContext(t, actorID)
	processed, err := svc.Process(authCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "processed", processed.Status)
	require.NotNil(t, processed.ProcessedBy)
	assert.Equal(t, actorID, *processed.ProcessedBy)
	assert.NotNil(t, processed.ProcessedAt)

	_, err = svc.Process(authCtx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyProcessed)
}

func TestPayrollService_MarkPaid_Lifecycle(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, nil, "3000")

	svc := newTestService()
	created, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: employeeID, Year: 2023, Month: 2})
	require.NoError(t, err)

	paymentDate := "2023-03-01"
	paid, err := svc.MarkPaid(ctx, payroll.MarkPaidRequest{
		ID: created.ID, PaymentDate: &paymentDate, PaymentReference: "TRX-2023-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, paymentDate, *paid.PaymentDate)
	assert.Equal(t, "TRX-2023-02", paid.PaymentReference)

	_, err = svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: created.ID})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	_, err = svc.Cancel(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotCancellable)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrCannotDeletePaidPayroll)
}

func TestPayrollService_Cancel_Draft(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	actorID := createTestUser(t, ctx)
	employeeID := createTestEmployee(t, ctx, nil, "3000")

	svc := newTestService()
	created, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: employeeID, Year: 2023, Month: 2})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = svc.Process(authContext(t, actorID), created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollCancelled)

	_, err = svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: created.ID})
	assert.ErrorIs(t, err, payroll.ErrPayrollCancelled)
}

func TestPayrollService_Update_RecomputesNet(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, nil, "3000")

	svc := newTestService()
	created, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: employeeID, Year: 2023, Month: 2})
	require.NoError(t, err)

	allowances := decimal.NewFromInt(750)
	notes := "manual bonus adjustment"
	updated, err := svc.Update(ctx, payroll.UpdatePayrollRequest{
		ID: created.ID, TotalAllowances: &allowances, Notes: &notes,
	})
	require.NoError(t, err)
	assert.True(t, updated.NetSalary.Equal(decimal.NewFromInt(3750)), "net = %s", updated.NetSalary)
	assert.Equal(t, notes, updated.Notes)

	// edits are rejected once the record leaves draft
	paid, err := svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	_, err = svc.Update(ctx, payroll.UpdatePayrollRequest{ID: created.ID, TotalAllowances: &allowances})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)
}

func TestPayrollService_List_And_Summary(t *testing.T) {
	ctx := context.Background()
	payrollTestInit(t)
	truncateTables(t, ctx)

	first := createTestEmployee(t, ctx, nil, "3000")
	second := createTestEmployee(t, ctx, nil, "2000")

	svc := newTestService()
	_, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: first, Year: 2023, Month: 2})
	require.NoError(t, err)
	createdSecond, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: second, Year: 2023, Month: 2})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: createdSecond.ID})
	require.NoError(t, err)

	list, err := svc.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Len(t, list.Data, 2)

	status := "paid"
	list, err = svc.List(ctx, payroll.PayrollFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	summary, err := svc.Summary(ctx, 2023, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 1, summary.DraftCount)
	assert.Equal(t, 1, summary.PaidCount)
	assert.True(t, summary.TotalBasicSalary.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.TotalNetSalary.Equal(decimal.NewFromInt(5000)))
}
