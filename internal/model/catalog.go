package model

import (
	"strings"
	"time"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "category name is required")
	}
	return nil
}

type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // в эре/центах
	CategoryID  *string   `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate повторяет проверки формы услуги: все поля обязательны
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "service name is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return NewValidationError("description", "service description is required")
	}
	if s.Price < 0 {
		return NewValidationError("price", "price must not be negative")
	}
	if s.CategoryID == nil || *s.CategoryID == "" {
		return NewValidationError("category_id", "category is required")
	}
	return nil
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return NewValidationError("name", "customer name is required")
	case !strings.Contains(c.Email, "@"):
		return NewValidationError("email", "valid email is required")
	case strings.TrimSpace(c.Phone) == "":
		return NewValidationError("phone", "phone is required")
	}
	return nil
}
