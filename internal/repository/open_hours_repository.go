package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// closedMarker значение в open_time/close_time для выходного дня
const closedMarker = "Stängd"

type OpenHoursRepository struct {
	*base.Repository
}

func NewOpenHoursRepository(db base.DB, timeout time.Duration) *OpenHoursRepository {
	return &OpenHoursRepository{Repository: base.NewRepository(db, timeout)}
}

// List возвращает часы работы по дням недели
func (r *OpenHoursRepository) List(ctx context.Context) ([]*model.OpenHours, error) {
	var hours []*model.OpenHours
	err := r.QueryAll(ctx, "list open hours",
		`SELECT id, weekday, open_time, close_time FROM open_hours ORDER BY id`, nil,
		func(rows pgx.Rows) error {
			var (
				h               model.OpenHours
				weekday         int
				openAt, closeAt string
			)
			if err := rows.Scan(&h.ID, &weekday, &openAt, &closeAt); err != nil {
				return fmt.Errorf("scan open hours: %w", err)
			}
			h.Weekday = time.Weekday(weekday)
			var err error
			if h.OpenTime, err = parseOpenTime(openAt); err != nil {
				return err
			}
			if h.CloseTime, err = parseOpenTime(closeAt); err != nil {
				return err
			}
			hours = append(hours, &h)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return hours, nil
}

// Update сохраняет время открытия и закрытия для дня
func (r *OpenHoursRepository) Update(ctx context.Context, h *model.OpenHours) error {
	return r.ExecOne(ctx, "update open hours",
		`UPDATE open_hours SET open_time = $1, close_time = $2 WHERE id = $3`,
		formatOpenTime(h.OpenTime), formatOpenTime(h.CloseTime), h.ID)
}

func parseOpenTime(s string) (*model.TimeOfDay, error) {
	if s == "" || s == closedMarker {
		return nil, nil
	}
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		return nil, fmt.Errorf("scan open hours: %w", err)
	}
	return &t, nil
}

func formatOpenTime(t *model.TimeOfDay) string {
	if t == nil {
		return closedMarker
	}
	return t.String()
}
