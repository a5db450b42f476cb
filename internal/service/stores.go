package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository"
)

var (
	ErrSlotUpdateFailed    = errors.New("slot update failed")
	ErrSlotAlreadyTaken    = errors.New("slot already taken")
	ErrBookingInsertFailed = errors.New("booking insert failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionExpired      = errors.New("session expired")
)

// Интерфейсы хранилища; реализуются repository и repository/memory

type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	ListBetween(ctx context.Context, from, to model.Date, booked bool) ([]*model.Slot, error)
	UpdateBooked(ctx context.Context, id string, booked bool) error
	MarkBooked(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type ServiceStore interface {
	Create(ctx context.Context, service *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, service *model.Service) error
	Delete(ctx context.Context, id string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
}

type CustomerStore interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id string) error
}

type EmployeeStore interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, role string) ([]*model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string) error
	ListAssignments(ctx context.Context) ([]model.EmployeeService, error)
	AddAssignment(ctx context.Context, a model.EmployeeService) error
	ReplaceAssignments(ctx context.Context, a model.EmployeeService) error
	RemoveAssignment(ctx context.Context, a model.EmployeeService) error
}

type OpenHoursStore interface {
	List(ctx context.Context) ([]*model.OpenHours, error)
	Update(ctx context.Context, h *model.OpenHours) error
}

// Stores единый набор адаптеров хранилища, внедряемый в сервисы
type Stores struct {
	Slots      SlotStore
	Bookings   BookingStore
	Services   ServiceStore
	Categories CategoryStore
	Customers  CustomerStore
	Employees  EmployeeStore
	OpenHours  OpenHoursStore
}

// IsNotFound проверяет ошибку "запись не найдена" на любом уровне обёртки
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// IsTimeout проверяет истечение таймаута вызова хранилища
func IsTimeout(err error) bool {
	return errors.Is(err, repository.ErrTimeout)
}
