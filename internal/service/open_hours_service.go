package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"go.uber.org/zap"
)

type OpenHoursService struct {
	hours  OpenHoursStore
	loc    *time.Location
	logger *zap.Logger
}

// NewOpenHoursService loc часовой пояс салона, nil означает time.Local
func NewOpenHoursService(stores Stores, loc *time.Location, logger *zap.Logger) *OpenHoursService {
	if loc == nil {
		loc = time.Local
	}
	return &OpenHoursService{
		hours:  stores.OpenHours,
		loc:    loc,
		logger: logger,
	}
}

func (s *OpenHoursService) List(ctx context.Context) ([]*model.OpenHours, error) {
	hours, err := s.hours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open hours: %w", err)
	}
	return hours, nil
}

// Update сохраняет часы работы дня; оба времени nil означают выходной
func (s *OpenHoursService) Update(ctx context.Context, h *model.OpenHours) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if err := s.hours.Update(ctx, h); err != nil {
		return fmt.Errorf("update open hours: %w", err)
	}

	s.logger.Info("Open hours updated",
		zap.Int64("id", h.ID),
		zap.Bool("closed", h.Closed()),
	)
	return nil
}

// IsOpenAt проверяет открыт ли салон в момент t, границы включительно
func (s *OpenHoursService) IsOpenAt(ctx context.Context, t time.Time) (bool, error) {
	hours, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	local := t.In(s.loc)
	now := model.NewTimeOfDay(local.Hour(), local.Minute())
	for _, h := range hours {
		if h.Weekday != local.Weekday() {
			continue
		}
		if h.Closed() {
			return false, nil
		}
		return now >= *h.OpenTime && now <= *h.CloseTime, nil
	}
	return false, nil
}
