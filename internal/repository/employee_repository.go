package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, email, display_name, role, password_hash, created_at`

// EmployeeRepository сотрудники (таблица users) и их услуги (employee_services)
type EmployeeRepository struct {
	*base.Repository
}

func NewEmployeeRepository(db base.DB, timeout time.Duration) *EmployeeRepository {
	return &EmployeeRepository{Repository: base.NewRepository(db, timeout)}
}

// Create создаёт нового сотрудника
func (r *EmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	return r.QueryOne(ctx, "create employee", `
		INSERT INTO users (id, email, display_name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, []any{employee.ID, employee.Email, employee.DisplayName, employee.Role, employee.PasswordHash},
		&employee.CreatedAt)
}

// GetByID получает сотрудника по ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	return r.getOne(ctx, "get employee by id", `SELECT `+employeeColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail получает сотрудника по email, используется при входе
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.getOne(ctx, "get employee by email", `SELECT `+employeeColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *EmployeeRepository) getOne(ctx context.Context, op, query string, arg string) (*model.Employee, error) {
	var e model.Employee
	err := r.QueryOne(ctx, op, query, []any{arg},
		&e.ID, &e.Email, &e.DisplayName, &e.Role, &e.PasswordHash, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List возвращает сотрудников; пустая роль означает всех
func (r *EmployeeRepository) List(ctx context.Context, role string) ([]*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY display_name, email`

	var employees []*model.Employee
	err := r.QueryAll(ctx, "list employees", query, args, func(rows pgx.Rows) error {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Email, &e.DisplayName, &e.Role, &e.PasswordHash, &e.CreatedAt); err != nil {
			return fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, &e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Update обновляет профиль сотрудника, пароль не меняется
func (r *EmployeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return r.ExecOne(ctx, "update employee",
		`UPDATE users SET email = $1, display_name = $2, role = $3 WHERE id = $4`,
		employee.Email, employee.DisplayName, employee.Role, employee.ID)
}

// Delete удаляет сотрудника вместе с назначениями
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.ExecOne(ctx, "delete employee", `DELETE FROM users WHERE id = $1`, id)
}

// ListAssignments возвращает все связи сотрудник-услуга
func (r *EmployeeRepository) ListAssignments(ctx context.Context) ([]model.EmployeeService, error) {
	var assignments []model.EmployeeService
	err := r.QueryAll(ctx, "list employee services",
		`SELECT employee_id, service_id FROM employee_services ORDER BY employee_id, service_id`, nil,
		func(rows pgx.Rows) error {
			var a model.EmployeeService
			if err := rows.Scan(&a.EmployeeID, &a.ServiceID); err != nil {
				return fmt.Errorf("scan employee service: %w", err)
			}
			assignments = append(assignments, a)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// AddAssignment добавляет связь, повторное назначение ничего не меняет
func (r *EmployeeRepository) AddAssignment(ctx context.Context, a model.EmployeeService) error {
	_, err := r.ExecAffected(ctx, "add employee service", `
		INSERT INTO employee_services (employee_id, service_id)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, service_id) DO NOTHING
	`, a.EmployeeID, a.ServiceID)
	return err
}

// ReplaceAssignments оставляет сотруднику ровно одну услугу
func (r *EmployeeRepository) ReplaceAssignments(ctx context.Context, a model.EmployeeService) error {
	return r.InTx(ctx, "replace employee services", func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM employee_services WHERE employee_id = $1`, a.EmployeeID); err != nil {
			return fmt.Errorf("delete old assignments: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO employee_services (employee_id, service_id) VALUES ($1, $2)`,
			a.EmployeeID, a.ServiceID); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
		return nil
	})
}

// RemoveAssignment удаляет связь сотрудник-услуга
func (r *EmployeeRepository) RemoveAssignment(ctx context.Context, a model.EmployeeService) error {
	return r.ExecOne(ctx, "remove employee service",
		`DELETE FROM employee_services WHERE employee_id = $1 AND service_id = $2`, a.EmployeeID, a.ServiceID)
}
