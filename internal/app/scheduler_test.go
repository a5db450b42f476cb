package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubSource отдаёт бронирования, видимые на момент запроса, с created_at позже since
type stubSource struct {
	mu      sync.Mutex
	visible []*model.Booking
	err     error
	sinces  []time.Time
}

func (c *stubSource) BookingsCreatedSince(_ context.Context, since time.Time) ([]*model.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinces = append(c.sinces, since)
	if c.err != nil {
		return nil, c.err
	}
	var out []*model.Booking
	for _, b := range c.visible {
		if b.CreatedAt.After(since) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *stubSource) commit(id string, createdAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = append(c.visible, &model.Booking{ID: id, CreatedAt: createdAt})
}

type stubNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *stubNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func TestCheckNewBookingsNotifiesAdmin(t *testing.T) {
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	source := &stubSource{}
	for _, id := range []string{"b1", "b2", "b3"} {
		source.commit(id, start.Add(10*time.Second))
	}
	notifier := &stubNotifier{}
	s := NewScheduler(source, notifier, "42", time.Minute, 30*time.Second, zap.NewNop())
	s.lastSeen = start
	s.now = func() time.Time { return start.Add(time.Minute) }

	s.checkNewBookings(context.Background())

	assert.Equal(t, 3, s.LastNewBookings())
	require.Len(t, notifier.msgs, 1)
	assert.Equal(t, "42", notifier.msgs[0].ToAdmin)
	assert.Contains(t, notifier.msgs[0].MessageAdmin, "3 новых записи")

	// Следующая проверка смотрит назад на overlap от предыдущей
	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	s.checkNewBookings(context.Background())
	require.Len(t, source.sinces, 2)
	assert.Equal(t, start.Add(30*time.Second), source.sinces[1])
	assert.Equal(t, 0, s.LastNewBookings())
	assert.Len(t, notifier.msgs, 1)
}

func TestCheckNewBookingsCountsLateCommit(t *testing.T) {
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	source := &stubSource{}
	notifier := &stubNotifier{}
	s := NewScheduler(source, notifier, "42", time.Minute, 30*time.Second, zap.NewNop())
	s.lastSeen = start

	// created_at проставлен до первой проверки, а коммит прошёл после неё
	s.now = func() time.Time { return start.Add(time.Minute) }
	s.checkNewBookings(context.Background())
	assert.Equal(t, 0, s.LastNewBookings())

	source.commit("late", start.Add(time.Minute-5*time.Second))

	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	s.checkNewBookings(context.Background())
	assert.Equal(t, 1, s.LastNewBookings())
	require.Len(t, notifier.msgs, 1)
	assert.Contains(t, notifier.msgs[0].MessageAdmin, "1 новая запись")
}

func TestCheckNewBookingsNoDoubleCount(t *testing.T) {
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	source := &stubSource{}
	source.commit("b1", start.Add(50*time.Second))
	s := NewScheduler(source, nil, "", time.Minute, 30*time.Second, zap.NewNop())
	s.lastSeen = start

	s.now = func() time.Time { return start.Add(time.Minute) }
	s.checkNewBookings(context.Background())
	assert.Equal(t, 1, s.LastNewBookings())

	// b1 снова попадает в окно перекрытия
	source.commit("b2", start.Add(70*time.Second))
	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	s.checkNewBookings(context.Background())
	assert.Equal(t, 1, s.LastNewBookings())

	// вне окна перекрытия учтённые записи забываются
	s.now = func() time.Time { return start.Add(10 * time.Minute) }
	s.checkNewBookings(context.Background())
	assert.Equal(t, 0, s.LastNewBookings())
	assert.Empty(t, s.seen)
}

func TestCheckNewBookingsKeepsWindowOnError(t *testing.T) {
	source := &stubSource{err: errors.New("db down")}
	s := NewScheduler(source, nil, "", time.Minute, 30*time.Second, zap.NewNop())
	start := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	s.lastSeen = start

	s.checkNewBookings(context.Background())
	assert.Equal(t, start, s.lastSeen)
}

func TestSchedulerStops(t *testing.T) {
	source := &stubSource{}
	s := NewScheduler(source, nil, "", 10*time.Millisecond, time.Second, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return len(source.sinces) > 0
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
}
