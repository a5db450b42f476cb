package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"go.uber.org/zap"
)

// CatalogService управляет категориями и услугами
type CatalogService struct {
	categories CategoryStore
	services   ServiceStore
	logger     *zap.Logger
}

func NewCatalogService(stores Stores, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		categories: stores.Categories,
		services:   stores.Services,
		logger:     logger,
	}
}

// CreateCategory создаёт категорию
func (s *CatalogService) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID),
		zap.String("name", category.Name),
	)
	return nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categories.List(ctx)
}

// UpdateCategory обновляет название и описание категории
func (s *CatalogService) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	s.logger.Info("Category updated", zap.String("category_id", category.ID))
	return nil
}

// DeleteCategory удаляет категорию; услуги остаются без категории
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.Info("Category deleted", zap.String("category_id", id))
	return nil
}

// CreateService создаёт услугу в существующей категории
func (s *CatalogService) CreateService(ctx context.Context, service *model.Service) error {
	if err := s.validateService(ctx, service); err != nil {
		return err
	}
	if err := s.services.Create(ctx, service); err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("Service created",
		zap.String("service_id", service.ID),
		zap.String("name", service.Name),
		zap.Int64("price", service.Price),
	)
	return nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*model.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.services.List(ctx)
}

// UpdateService обновляет услугу; новая цена влияет и на прошлую выручку в отчётах
func (s *CatalogService) UpdateService(ctx context.Context, service *model.Service) error {
	if err := s.validateService(ctx, service); err != nil {
		return err
	}
	if err := s.services.Update(ctx, service); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	s.logger.Info("Service updated",
		zap.String("service_id", service.ID),
		zap.Int64("price", service.Price),
	)
	return nil
}

// DeleteService удаляет услугу вместе со слотами; бронирования сохраняются
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	s.logger.Info("Service deleted", zap.String("service_id", id))
	return nil
}

func (s *CatalogService) validateService(ctx context.Context, service *model.Service) error {
	if err := service.Validate(); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, *service.CategoryID); err != nil {
		if IsNotFound(err) {
			return model.NewValidationError("category_id", "category does not exist")
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}
