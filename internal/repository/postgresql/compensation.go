package postgresql

import (
	"context"
	"fmt"

	"github.com/hrsuite/hr-backend-go/internal/domain/compensation"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
)

type compensationRepository struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) compensation.CompensationRepository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) ActiveAllowances(ctx context.Context, employeeID string, year, month int) ([]compensation.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, name, year, month, amount, description, is_active, created_at, updated_at
		FROM allowances
		WHERE employee_id = $1 AND year = $2 AND month = $3 AND is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, employeeID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []compensation.Allowance
	for rows.Next() {
		var a compensation.Allowance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.Name, &a.Year, &a.Month, &a.Amount,
			&a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}

	return allowances, nil
}

func (r *compensationRepository) ActiveDeductions(ctx context.Context, employeeID string, year, month int) ([]compensation.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, name, year, month, amount, description, is_active, created_at, updated_at
		FROM deductions
		WHERE employee_id = $1 AND year = $2 AND month = $3 AND is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, employeeID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []compensation.Deduction
	for rows.Next() {
		var d compensation.Deduction
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.Name, &d.Year, &d.Month, &d.Amount,
			&d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}

	return deductions, nil
}
