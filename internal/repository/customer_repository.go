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

type CustomerRepository struct {
	*base.Repository
}

func NewCustomerRepository(db base.DB, timeout time.Duration) *CustomerRepository {
	return &CustomerRepository{Repository: base.NewRepository(db, timeout)}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	return r.QueryOne(ctx, "create customer", `
		INSERT INTO customers (id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, []any{customer.ID, customer.Name, customer.Email, customer.Phone}, &customer.CreatedAt)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.QueryOne(ctx, "get customer by id",
		`SELECT id, name, email, phone, created_at FROM customers WHERE id = $1`, []any{id},
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := r.QueryAll(ctx, "list customers",
		`SELECT id, name, email, phone, created_at FROM customers ORDER BY name`, nil,
		func(rows pgx.Rows) error {
			var c model.Customer
			if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
				return fmt.Errorf("scan customer: %w", err)
			}
			customers = append(customers, &c)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return r.ExecOne(ctx, "update customer",
		`UPDATE customers SET name = $1, email = $2, phone = $3 WHERE id = $4`,
		customer.Name, customer.Email, customer.Phone, customer.ID)
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return r.ExecOne(ctx, "delete customer", `DELETE FROM customers WHERE id = $1`, id)
}
