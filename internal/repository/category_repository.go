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

type CategoryRepository struct {
	*base.Repository
}

func NewCategoryRepository(db base.DB, timeout time.Duration) *CategoryRepository {
	return &CategoryRepository{Repository: base.NewRepository(db, timeout)}
}

// Create создаёт новую категорию
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	return r.QueryOne(ctx, "create category", `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, []any{category.ID, category.Name, category.Description}, &category.CreatedAt)
}

// GetByID получает категорию по ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.QueryOne(ctx, "get category by id",
		`SELECT id, name, description, created_at FROM categories WHERE id = $1`,
		[]any{id}, &c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List возвращает все категории
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.QueryAll(ctx, "list categories",
		`SELECT id, name, description, created_at FROM categories ORDER BY name`, nil,
		func(rows pgx.Rows) error {
			var c model.Category
			if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
				return fmt.Errorf("scan category: %w", err)
			}
			categories = append(categories, &c)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Update обновляет название и описание категории
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.ExecOne(ctx, "update category",
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`,
		category.Name, category.Description, category.ID)
}

// Delete удаляет категорию, услуги остаются без категории
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.ExecOne(ctx, "delete category", `DELETE FROM categories WHERE id = $1`, id)
}
