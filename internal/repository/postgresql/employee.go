package postgresql

import (
	"context"
	"fmt"

	"github.com/hrsuite/hr-backend-go/internal/domain/employee"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.user_id, e.first_name, e.last_name, e.email,
			   e.phone, e.position, e.department_id, e.salary, e.status, e.hire_date,
			   e.created_at, e.updated_at,
			   d.name as department_name
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Phone, &emp.Position, &emp.DepartmentID, &emp.Salary, &emp.Status, &emp.HireDate,
		&emp.CreatedAt, &emp.UpdatedAt,
		&emp.DepartmentName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}
