package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrsuite/hr-backend-go/internal/domain/payroll"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.year, p.month, p.basic_salary,
	p.total_allowances, p.total_deductions, p.net_salary,
	p.total_days_in_month, p.total_working_days,
	p.status, p.notes, p.processed_by, p.processed_at,
	p.payment_date, p.payment_reference, p.created_at, p.updated_at,
	e.first_name || ' ' || e.last_name as employee_name, e.employee_code,
	d.name as department_name
`

const payrollJoins = `
	FROM payroll p
	JOIN employees e ON p.employee_id = e.id
	LEFT JOIN departments d ON e.department_id = d.id
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var rec payroll.Payroll
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.BasicSalary,
		&rec.TotalAllowances, &rec.TotalDeductions, &rec.NetSalary,
		&rec.TotalDaysInMonth, &rec.TotalWorkingDays,
		&rec.Status, &rec.Notes, &rec.ProcessedBy, &rec.ProcessedAt,
		&rec.PaymentDate, &rec.PaymentReference, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
		&rec.DepartmentName,
	)
	return rec, err
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll (
			id, employee_id, year, month, basic_salary,
			total_allowances, total_deductions, net_salary,
			total_days_in_month, total_working_days, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	id := uuid.NewString()
	err := q.QueryRow(ctx, query,
		id, record.EmployeeID, record.Year, record.Month, record.BasicSalary,
		record.TotalAllowances, record.TotalDeductions, record.NetSalary,
		record.TotalDaysInMonth, record.TotalWorkingDays, record.Status, record.Notes,
	).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_employee_period") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollJoins + ` WHERE p.id = $1`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollJoins + ` WHERE p.employee_id = $1 AND p.year = $2 AND p.month = $3`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, year, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := payrollJoins + ` WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND p.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND p.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sort whitelist
	sortColumn := "p.year DESC, p.month DESC, e.first_name"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":    "p.created_at",
			"period":        "p.year DESC, p.month",
			"employee_name": "e.first_name",
			"net_salary":    "p.net_salary",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		payrollColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Payroll
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, totalCount, nil
}

// Update applies manual edits to a draft record. Net salary is recomputed
// from the resulting fields, and the write is conditional on the record still
// being draft.
func (r *payrollRepository) Update(ctx context.Context, req payroll.UpdatePayrollRequest) error {
	q := GetQuerier(ctx, r.db)

	rec, err := r.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if err := draftOnly(rec.Status); err != nil {
		return err
	}

	if req.BasicSalary != nil {
		rec.BasicSalary = *req.BasicSalary
	}
	if req.TotalAllowances != nil {
		rec.TotalAllowances = *req.TotalAllowances
	}
	if req.TotalDeductions != nil {
		rec.TotalDeductions = *req.TotalDeductions
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	rec.RecomputeNetSalary()

	query := `
		UPDATE payroll
		SET basic_salary = $2, total_allowances = $3, total_deductions = $4,
			net_salary = $5, notes = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING id
	`

	var updatedID string
	err = q.QueryRow(ctx, query,
		req.ID, rec.BasicSalary, rec.TotalAllowances, rec.TotalDeductions,
		rec.NetSalary, rec.Notes,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Lost the race against a concurrent transition; re-read for the
			// precise sentinel.
			current, gerr := r.GetByID(ctx, req.ID)
			if gerr != nil {
				return gerr
			}
			if serr := draftOnly(current.Status); serr != nil {
				return serr
			}
			return payroll.ErrPayrollAlreadyProcessed
		}
		return fmt.Errorf("failed to update payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) MarkProcessed(ctx context.Context, id string, processedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll
		SET status = 'processed', processed_by = $2, processed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, processedBy).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.transitionConflict(ctx, id, payroll.ErrPayrollAlreadyProcessed)
		}
		return fmt.Errorf("failed to process payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paymentDate time.Time, paymentReference string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll
		SET status = 'paid', payment_date = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $1 AND status IN ('draft', 'processed')
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, paymentDate, paymentReference).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.transitionConflict(ctx, id, payroll.ErrPayrollAlreadyPaid)
		}
		return fmt.Errorf("failed to mark payroll record paid: %w", err)
	}

	return nil
}

func (r *payrollRepository) Cancel(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('draft', 'processed')
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.transitionConflict(ctx, id, payroll.ErrPayrollNotCancellable)
		}
		return fmt.Errorf("failed to cancel payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var status string
	err := q.QueryRow(ctx, `SELECT status FROM payroll WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to check payroll record status: %w", err)
	}
	if status == string(payroll.PayrollStatusPaid) {
		return payroll.ErrCannotDeletePaidPayroll
	}

	query := `DELETE FROM payroll WHERE id = $1 AND status != 'paid' RETURNING id`

	var deletedID string
	err = q.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) Summary(ctx context.Context, year, month int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COALESCE(SUM(basic_salary), 0) as total_basic_salary,
			COALESCE(SUM(total_allowances), 0) as total_allowances,
			COALESCE(SUM(total_deductions), 0) as total_deductions,
			COALESCE(SUM(net_salary), 0) as total_net_salary,
			COUNT(*) FILTER (WHERE status = 'draft') as draft_count,
			COUNT(*) FILTER (WHERE status = 'processed') as processed_count,
			COUNT(*) FILTER (WHERE status = 'paid') as paid_count,
			COUNT(*) FILTER (WHERE status = 'cancelled') as cancelled_count
		FROM payroll
		WHERE year = $1 AND month = $2
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, year, month).Scan(
		&summary.TotalEmployees, &summary.TotalBasicSalary, &summary.TotalAllowances,
		&summary.TotalDeductions, &summary.TotalNetSalary,
		&summary.DraftCount, &summary.ProcessedCount, &summary.PaidCount, &summary.CancelledCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.Year = year
	summary.Month = month

	return summary, nil
}

// transitionConflict resolves why a conditional transition matched no row.
func (r *payrollRepository) transitionConflict(ctx context.Context, id string, conflictErr error) error {
	q := GetQuerier(ctx, r.db)

	var status payroll.PayrollStatus
	err := q.QueryRow(ctx, `SELECT status FROM payroll WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to check payroll record status: %w", err)
	}
	if status == payroll.PayrollStatusCancelled {
		return payroll.ErrPayrollCancelled
	}
	return conflictErr
}

func draftOnly(status payroll.PayrollStatus) error {
	switch status {
	case payroll.PayrollStatusDraft:
		return nil
	case payroll.PayrollStatusPaid:
		return payroll.ErrPayrollAlreadyPaid
	case payroll.PayrollStatusCancelled:
		return payroll.ErrPayrollCancelled
	default:
		return payroll.ErrPayrollAlreadyProcessed
	}
}
