package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// NewEmployee данные формы добавления сотрудника
type NewEmployee struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	ServiceID   *string `json:"service_id"`
}

// EmployeeWithServices сотрудник и назначенные ему услуги
type EmployeeWithServices struct {
	*model.Employee
	ServiceIDs []string `json:"service_ids"`
}

type EmployeeService struct {
	employees EmployeeStore
	services  ServiceStore
	mode      model.AssignmentMode
	logger    *zap.Logger
}

func NewEmployeeService(stores Stores, mode model.AssignmentMode, logger *zap.Logger) *EmployeeService {
	if !mode.Valid() {
		mode = model.AssignmentSingle
	}
	return &EmployeeService{
		employees: stores.Employees,
		services:  stores.Services,
		mode:      mode,
		logger:    logger,
	}
}

// Create регистрирует сотрудника и при необходимости назначает услугу
func (s *EmployeeService) Create(ctx context.Context, input NewEmployee) (*model.Employee, error) {
	if len(input.Password) < minPasswordLength {
		return nil, model.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	employee := &model.Employee{
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        strings.TrimSpace(input.Role),
	}
	if employee.Role == "" {
		employee.Role = model.RoleEmployee
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	employee.PasswordHash = string(hash)

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.logger.Info("Employee created",
		zap.String("employee_id", employee.ID),
		zap.String("email", employee.Email),
		zap.String("role", employee.Role),
	)

	if input.ServiceID != nil && *input.ServiceID != "" {
		if err := s.AssignService(ctx, employee.ID, *input.ServiceID); err != nil {
			return employee, err
		}
	}
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// List возвращает сотрудников с их услугами
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeWithServices, error) {
	employees, err := s.employees.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	assignments, err := s.employees.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employee services: %w", err)
	}

	byEmployee := make(map[string][]string)
	for _, a := range assignments {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a.ServiceID)
	}

	out := make([]EmployeeWithServices, 0, len(employees))
	for _, e := range employees {
		ids := byEmployee[e.ID]
		if ids == nil {
			ids = []string{}
		}
		out = append(out, EmployeeWithServices{Employee: e, ServiceIDs: ids})
	}
	return out, nil
}

// Update обновляет профиль сотрудника без смены пароля
func (s *EmployeeService) Update(ctx context.Context, employee *model.Employee) error {
	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))
	if err := employee.Validate(); err != nil {
		return err
	}
	if err := s.employees.Update(ctx, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	s.logger.Info("Employee updated", zap.String("employee_id", employee.ID))
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	s.logger.Info("Employee deleted", zap.String("employee_id", id))
	return nil
}

// AssignService назначает услугу сотруднику.
// В режиме single предыдущее назначение заменяется, в режиме multiple добавляется.
func (s *EmployeeService) AssignService(ctx context.Context, employeeID, serviceID string) error {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		if IsNotFound(err) {
			return model.NewValidationError("service_id", "service does not exist")
		}
		return fmt.Errorf("get service: %w", err)
	}

	a := model.EmployeeService{EmployeeID: employeeID, ServiceID: serviceID}
	var err error
	if s.mode == model.AssignmentSingle {
		err = s.employees.ReplaceAssignments(ctx, a)
	} else {
		err = s.employees.AddAssignment(ctx, a)
	}
	if err != nil {
		return fmt.Errorf("assign service: %w", err)
	}

	s.logger.Info("Service assigned to employee",
		zap.String("employee_id", employeeID),
		zap.String("service_id", serviceID),
		zap.String("mode", string(s.mode)),
	)
	return nil
}

// UnassignService снимает услугу с сотрудника
func (s *EmployeeService) UnassignService(ctx context.Context, employeeID, serviceID string) error {
	a := model.EmployeeService{EmployeeID: employeeID, ServiceID: serviceID}
	if err := s.employees.RemoveAssignment(ctx, a); err != nil {
		return fmt.Errorf("unassign service: %w", err)
	}
	s.logger.Info("Service unassigned from employee",
		zap.String("employee_id", employeeID),
		zap.String("service_id", serviceID),
	)
	return nil
}
