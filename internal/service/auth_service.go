package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionStore хранилище активных сессий (redis)
type SessionStore interface {
	Save(ctx context.Context, id, employeeID string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Claims содержимое JWT оператора; ID токена совпадает с ID сессии
type Claims struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Session результат входа
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Employee  *model.Employee `json:"employee"`
}

type AuthService struct {
	employees EmployeeStore
	sessions  SessionStore
	secret    []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(stores Stores, sessions SessionStore, secret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		employees: stores.Employees,
		sessions:  sessions,
		secret:    []byte(secret),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// SignIn проверяет пароль и открывает сессию
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, model.NewValidationError("email", "email and password are required")
	}

	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed sign-in attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		EmployeeID: employee.ID,
		Email:      employee.Email,
		Role:       employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   employee.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, claims.ID, employee.ID, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("Employee signed in",
		zap.String("employee_id", employee.ID),
		zap.String("session_id", claims.ID),
	)

	return &Session{Token: token, ExpiresAt: expires, Employee: employee}, nil
}

// Authenticate проверяет подпись токена и наличие сессии
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	ok, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// SignOut закрывает сессию токена
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("Employee signed out",
		zap.String("employee_id", claims.EmployeeID),
		zap.String("session_id", claims.ID),
	)
	return nil
}
