package model

import (
	"strings"
	"time"
)

const RoleEmployee = "employee"

type Employee struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *Employee) Validate() error {
	if !strings.Contains(e.Email, "@") {
		return NewValidationError("email", "valid email is required")
	}
	if strings.TrimSpace(e.Role) == "" {
		return NewValidationError("role", "role is required")
	}
	return nil
}

// EmployeeService связь сотрудника с услугой (таблица employee_services)
type EmployeeService struct {
	EmployeeID string `json:"employee_id"`
	ServiceID  string `json:"service_id"`
}

// AssignmentMode сколько услуг может быть назначено одному сотруднику
type AssignmentMode string

const (
	AssignmentSingle   AssignmentMode = "single"
	AssignmentMultiple AssignmentMode = "multiple"
)

func (m AssignmentMode) Valid() bool {
	return m == AssignmentSingle || m == AssignmentMultiple
}
