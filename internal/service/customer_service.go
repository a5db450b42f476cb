package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"go.uber.org/zap"
)

type CustomerService struct {
	customers CustomerStore
	logger    *zap.Logger
}

func NewCustomerService(stores Stores, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: stores.Customers,
		logger:    logger,
	}
}

// Create регистрирует клиента
func (s *CustomerService) Create(ctx context.Context, customer *model.Customer) error {
	normalizeCustomer(customer)
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID),
		zap.String("name", customer.Name),
	)
	return nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	return s.customers.List(ctx)
}

// Update обновляет контактные данные клиента
func (s *CustomerService) Update(ctx context.Context, customer *model.Customer) error {
	normalizeCustomer(customer)
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	s.logger.Info("Customer updated", zap.String("customer_id", customer.ID))
	return nil
}

// Delete удаляет клиента; его бронирования остаются в истории
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id))
	return nil
}

func normalizeCustomer(c *model.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
}
