package base

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("precondition failed")
	ErrTimeout  = errors.New("store call timed out")
	ErrRemote   = errors.New("remote store failure")
)

// DB общий интерфейс pgxpool.Pool и тестовых моков
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository базовый репозиторий: каждый вызов ограничен timeout
type Repository struct {
	db      DB
	timeout time.Duration
}

// NewRepository создаёт базовый репозиторий, timeout <= 0 отключает ограничение
func NewRepository(db DB, timeout time.Duration) *Repository {
	return &Repository{db: db, timeout: timeout}
}

func (r *Repository) DB() DB {
	return r.db
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// QueryOne выполняет запрос и сканирует одну строку
func (r *Repository) QueryOne(ctx context.Context, op, query string, args []any, dest ...any) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.QueryRow(ctx, query, args...).Scan(dest...); err != nil {
		return Translate(op, err)
	}
	return nil
}

// QueryAll выполняет запрос и вызывает scan для каждой строки
func (r *Repository) QueryAll(ctx context.Context, op, query string, args []any, scan func(pgx.Rows) error) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return Translate(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return Translate(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return Translate(op, err)
	}
	return nil
}

// ExecAffected выполняет команду и возвращает количество затронутых строк
func (r *Repository) ExecAffected(ctx context.Context, op, query string, args ...any) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, Translate(op, err)
	}
	return tag.RowsAffected(), nil
}

// ExecOne выполняет команду, ноль затронутых строк означает ErrNotFound
func (r *Repository) ExecOne(ctx context.Context, op, query string, args ...any) error {
	affected, err := r.ExecAffected(ctx, op, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// InTx выполняет fn в транзакции под общим timeout
func (r *Repository) InTx(ctx context.Context, op string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
	if err != nil {
		return Translate(op, err)
	}
	return nil
}

// Translate приводит ошибку драйвера к таксономии хранилища
func Translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrTimeout), errors.Is(err, ErrRemote):
		return fmt.Errorf("%s: %w", op, err)
	case IsNotFound(err):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
	}
}

// uniqueViolation код ошибки Postgres для нарушения UNIQUE
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
