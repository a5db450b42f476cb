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

const serviceColumns = `id, name, description, price, category_id, created_at`

type ServiceRepository struct {
	*base.Repository
}

func NewServiceRepository(db base.DB, timeout time.Duration) *ServiceRepository {
	return &ServiceRepository{Repository: base.NewRepository(db, timeout)}
}

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	return r.QueryOne(ctx, "create service", `
		INSERT INTO services (id, name, description, price, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, []any{service.ID, service.Name, service.Description, service.Price, service.CategoryID}, &service.CreatedAt)
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	err := r.QueryOne(ctx, "get service by id",
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, []any{id},
		&s.ID, &s.Name, &s.Description, &s.Price, &s.CategoryID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List возвращает все услуги
func (r *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	err := r.QueryAll(ctx, "list services",
		`SELECT `+serviceColumns+` FROM services ORDER BY name`, nil,
		func(rows pgx.Rows) error {
			var s model.Service
			if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.CategoryID, &s.CreatedAt); err != nil {
				return fmt.Errorf("scan service: %w", err)
			}
			services = append(services, &s)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return services, nil
}

// Update обновляет услугу
func (r *ServiceRepository) Update(ctx context.Context, service *model.Service) error {
	return r.ExecOne(ctx, "update service", `
		UPDATE services
		SET name = $1, description = $2, price = $3, category_id = $4
		WHERE id = $5
	`, service.Name, service.Description, service.Price, service.CategoryID, service.ID)
}

// Delete удаляет услугу, история бронирований сохраняется
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.ExecOne(ctx, "delete service", `DELETE FROM services WHERE id = $1`, id)
}
