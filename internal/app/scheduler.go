package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/notify"
	"go.uber.org/zap"
)

// NewBookingsSource источник новых бронирований
type NewBookingsSource interface {
	BookingsCreatedSince(ctx context.Context, since time.Time) ([]*model.Booking, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	source    NewBookingsSource
	notifier  notify.Notifier
	adminChat string
	interval  time.Duration
	overlap   time.Duration
	logger    *zap.Logger
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once

	mu       sync.Mutex
	lastSeen time.Time
	lastNew  int
	// бронирования из окна перекрытия, уже учтённые
	seen     map[string]time.Time
}

// NewScheduler создаёт новый планировщик.
// Каждая проверка заново просматривает последние overlap до прошлой проверки:
// created_at ставится до коммита, и запись может стать видимой позже.
func NewScheduler(source NewBookingsSource, notifier notify.Notifier, adminChat string, interval, overlap time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		source:    source,
		notifier:  notifier,
		adminChat: adminChat,
		interval:  interval,
		overlap:   overlap,
		logger:    logger,
		now:       time.Now,
		stopChan:  make(chan struct{}),
		seen:      make(map[string]time.Time),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()

	go s.runNewBookingsTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
}

// LastNewBookings количество новых бронирований, найденное последней проверкой
func (s *Scheduler) LastNewBookings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNew
}

// runNewBookingsTask периодически проверяет новые бронирования
func (s *Scheduler) runNewBookingsTask(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkNewBookings(ctx)
		case <-s.stopChan:
			s.logger.Info("New bookings task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("New bookings task cancelled")
			return
		}
	}
}

// checkNewBookings считает бронирования с прошлой проверки и сообщает администратору
func (s *Scheduler) checkNewBookings(ctx context.Context) {
	s.mu.Lock()
	since := s.lastSeen
	s.mu.Unlock()

	checkedAt := s.now()
	bookings, err := s.source.BookingsCreatedSince(ctx, since.Add(-s.overlap))
	if err != nil {
		s.logger.Error("Failed to list new bookings", zap.Error(err))
		return
	}

	s.mu.Lock()
	count := 0
	for _, b := range bookings {
		if _, ok := s.seen[b.ID]; ok {
			continue
		}
		s.seen[b.ID] = b.CreatedAt
		count++
	}
	horizon := checkedAt.Add(-s.overlap)
	for id, createdAt := range s.seen {
		if createdAt.Before(horizon) {
			delete(s.seen, id)
		}
	}
	s.lastSeen = checkedAt
	s.lastNew = count
	s.mu.Unlock()

	if count == 0 {
		return
	}
	s.logger.Info("New bookings", zap.Int("count", count))

	if s.notifier == nil || s.adminChat == "" {
		return
	}
	err = s.notifier.Send(ctx, notify.Message{
		ToAdmin:      s.adminChat,
		MessageAdmin: fmt.Sprintf("🔔 %d %s с %s", count, newBookingsWord(count), formatting.FormatDateTime(since)),
	})
	if err != nil {
		s.logger.Warn("Failed to send new bookings notification", zap.Error(err))
	}
}

func newBookingsWord(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "новая " + formatting.PluralizeBookings(count)
	}
	return "новых " + formatting.PluralizeBookings(count)
}
