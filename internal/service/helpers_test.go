package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/notify"
	"github.com/Freeeeeet/salon_admin/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

func memoryStores(st *memory.Store) Stores {
	return Stores{
		Slots:      st.Slots(),
		Bookings:   st.Bookings(),
		Services:   st.Services(),
		Categories: st.Categories(),
		Customers:  st.Customers(),
		Employees:  st.Employees(),
		OpenHours:  st.OpenHours(),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func tod(hour, minute int) model.TimeOfDay {
	return model.NewTimeOfDay(hour, minute)
}

// recordingNotifier отдаёт сообщения в канал
type recordingNotifier struct {
	sent chan notify.Message
	err  error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan notify.Message, 8)}
}

func (n *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	n.sent <- msg
	return n.err
}

func (n *recordingNotifier) wait(t *testing.T) notify.Message {
	t.Helper()
	select {
	case msg := <-n.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
		return notify.Message{}
	}
}

type fixture struct {
	store    *memory.Store
	stores   Stores
	category *model.Category
	haircut  *model.Service
	customer *model.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	stores := memoryStores(st)

	category := &model.Category{Name: "Hair", Description: "Hårvård"}
	require.NoError(t, stores.Categories.Create(ctx, category))

	haircut := &model.Service{
		Name:        "Haircut",
		Description: "Klippning",
		Price:       300,
		CategoryID:  &category.ID,
	}
	require.NoError(t, stores.Services.Create(ctx, haircut))

	customer := &model.Customer{ID: "c1", Name: "Anna", Email: "anna@example.se", Phone: "+46701234567"}
	require.NoError(t, stores.Customers.Create(ctx, customer))

	return &fixture{
		store:    st,
		stores:   stores,
		category: category,
		haircut:  haircut,
		customer: customer,
	}
}

func (f *fixture) addSlot(t *testing.T, serviceID string, date model.Date, start, end model.TimeOfDay, booked bool) *model.Slot {
	t.Helper()
	slot := &model.Slot{ServiceID: serviceID, Date: date, StartTime: start, EndTime: end, IsBooked: booked}
	require.NoError(t, f.stores.Slots.Create(context.Background(), slot))
	return slot
}
