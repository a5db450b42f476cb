package repository

import "github.com/Freeeeeet/salon_admin/internal/repository/base"

// Ошибки хранилища, проверяются через errors.Is
var (
	ErrNotFound = base.ErrNotFound
	ErrConflict = base.ErrConflict
	ErrTimeout  = base.ErrTimeout
	ErrRemote   = base.ErrRemote
)
