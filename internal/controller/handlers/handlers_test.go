package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/memory"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminChat int64 = 4242

type fakeMessenger struct {
	mu       sync.Mutex
	messages []*bot.SendMessageParams
	answers  []*bot.AnswerCallbackQueryParams
	photos   []*bot.SendPhotoParams
}

func (m *fakeMessenger) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, params)
	return &models.Message{}, nil
}

func (m *fakeMessenger) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, params)
	return true, nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, params)
	return &models.Message{}, nil
}

func (m *fakeMessenger) last(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.messages)
	return m.messages[len(m.messages)-1]
}

func (m *fakeMessenger) buttons(t *testing.T) []models.InlineKeyboardButton {
	t.Helper()
	kb, ok := m.last(t).ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok, "last message has no inline keyboard")
	var out []models.InlineKeyboardButton
	for _, row := range kb.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

type botFixture struct {
	h        *Handlers
	b        *fakeMessenger
	stores   service.Stores
	haircut  *model.Service
	customer *model.Customer
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	st := memory.New()
	stores := service.Stores{
		Slots:      st.Slots(),
		Bookings:   st.Bookings(),
		Services:   st.Services(),
		Categories: st.Categories(),
		Customers:  st.Customers(),
		Employees:  st.Employees(),
		OpenHours:  st.OpenHours(),
	}

	category := &model.Category{Name: "Hair"}
	require.NoError(t, stores.Categories.Create(ctx, category))
	haircut := &model.Service{Name: "Haircut", Description: "Klippning", Price: 30000, CategoryID: &category.ID}
	require.NoError(t, stores.Services.Create(ctx, haircut))
	customer := &model.Customer{Name: "Anna", Email: "anna@example.se", Phone: "+46 70 123 45 67"}
	require.NoError(t, stores.Customers.Create(ctx, customer))

	h := NewHandlers(Deps{
		Availability: service.NewAvailabilityService(stores, nil, "", logger),
		Stats:        service.NewStatsService(stores, logger),
		Catalog:      service.NewCatalogService(stores, logger),
		Customers:    service.NewCustomerService(stores, logger),
		OpenHours:    service.NewOpenHoursService(stores, time.UTC, logger),
	}, state.NewManager(), adminChat, time.UTC, logger)
	h.now = func() time.Time { return time.Date(2030, time.June, 10, 12, 0, 0, 0, time.UTC) }

	return &botFixture{h: h, b: &fakeMessenger{}, stores: stores, haircut: haircut, customer: customer}
}

func (f *botFixture) addSlot(t *testing.T, start int) *model.Slot {
	t.Helper()
	slot := &model.Slot{
		ServiceID: f.haircut.ID,
		Date:      model.NewDate(2030, time.June, 10),
		StartTime: model.NewTimeOfDay(start, 0),
		EndTime:   model.NewTimeOfDay(start, 30),
	}
	require.NoError(t, f.stores.Slots.Create(context.Background(), slot))
	return slot
}

func message(chat int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chat},
		From: &models.User{ID: chat, FirstName: "Lisa"},
		Text: text,
	}}
}

func callback(data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: adminChat},
		Data: data,
	}}
}

func TestForeignChatIsRejected(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.h.HandleToday(ctx, f.b, message(1, "/today"))
	last := f.b.last(t)
	assert.Equal(t, int64(1), last.ChatID)
	assert.Contains(t, last.Text, "только администратору")

	f.h.HandleCallbackQuery(ctx, f.b, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID: "cb", From: models.User{ID: 1}, Data: FreeService + f.haircut.ID,
	}})
	require.Len(t, f.b.answers, 1)
	assert.True(t, f.b.answers[0].ShowAlert)
}

func TestTodayListsBookings(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.h.HandleToday(ctx, f.b, message(adminChat, "/today"))
	assert.Contains(t, f.b.last(t).Text, "записей нет")

	slot := f.addSlot(t, 10)
	_, err := f.h.availability.BookSlot(ctx, slot.ID, service.BookingIntent{CustomerID: f.customer.ID, PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)

	f.h.HandleToday(ctx, f.b, message(adminChat, "/today"))
	text := f.b.last(t).Text
	assert.Contains(t, text, "10.06.2030 (Пн): 1 запись")
	assert.Contains(t, text, "10:00-10:30 Haircut")
	assert.Contains(t, text, "Anna")
	assert.Contains(t, text, "Оплачено")
}

func TestBookingDialog(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, 10)
	f.addSlot(t, 11)

	f.h.HandleFree(ctx, f.b, message(adminChat, "/free"))
	buttons := f.b.buttons(t)
	require.Len(t, buttons, 1)
	assert.Equal(t, FreeService+f.haircut.ID, buttons[0].CallbackData)

	f.h.HandleCallbackQuery(ctx, f.b, callback(FreeService+f.haircut.ID))
	buttons = f.b.buttons(t)
	require.Len(t, buttons, 2)
	assert.Equal(t, "Пн 10.06 10:00", buttons[0].Text)
	assert.Equal(t, BookSlot+slot.ID, buttons[0].CallbackData)

	f.h.HandleCallbackQuery(ctx, f.b, callback(BookSlot+slot.ID))
	assert.Equal(t, state.StateBookCustomer, f.h.stateManager.GetState(adminChat))

	f.h.HandleTextMessage(ctx, f.b, message(adminChat, "nobody@example.se"))
	assert.Contains(t, f.b.last(t).Text, "Клиент не найден")
	assert.Equal(t, state.StateBookCustomer, f.h.stateManager.GetState(adminChat))

	f.h.HandleTextMessage(ctx, f.b, message(adminChat, "+46701234567"))
	assert.Equal(t, state.StateBookPayment, f.h.stateManager.GetState(adminChat))
	buttons = f.b.buttons(t)
	require.Len(t, buttons, 3)
	assert.Equal(t, PayStatus+string(model.PaymentPaid), buttons[0].CallbackData)

	f.h.HandleCallbackQuery(ctx, f.b, callback(PayStatus+string(model.PaymentPending)))
	assert.Contains(t, f.b.last(t).Text, "Запись создана")
	assert.Equal(t, state.StateNone, f.h.stateManager.GetState(adminChat))

	got, err := f.stores.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBooked)

	// Повторная запись на тот же слот
	f.h.HandleCallbackQuery(ctx, f.b, callback(BookSlot+slot.ID))
	f.h.HandleTextMessage(ctx, f.b, message(adminChat, "ANNA@example.se"))
	f.h.HandleCallbackQuery(ctx, f.b, callback(PayStatus+string(model.PaymentPaid)))
	assert.Contains(t, f.b.last(t).Text, "уже занят")
}

func TestStalePaymentCallback(t *testing.T) {
	f := newBotFixture(t)

	f.h.HandleCallbackQuery(context.Background(), f.b, callback(PayStatus+string(model.PaymentPaid)))
	require.Len(t, f.b.answers, 1)
	assert.True(t, f.b.answers[0].ShowAlert)
	assert.Empty(t, f.b.messages)
}

func TestCancelClearsDialog(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.h.HandleCancel(ctx, f.b, message(adminChat, "/cancel"))
	assert.Contains(t, f.b.last(t).Text, "Нет активных операций")

	f.h.HandleCallbackQuery(ctx, f.b, callback(BookSlot+"s1"))
	f.h.HandleCancel(ctx, f.b, message(adminChat, "/cancel"))
	assert.Contains(t, f.b.last(t).Text, "Операция отменена")
	assert.Equal(t, state.StateNone, f.h.stateManager.GetState(adminChat))
}

func TestStatsCallback(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, 10)
	_, err := f.h.availability.BookSlot(ctx, slot.ID, service.BookingIntent{CustomerID: f.customer.ID, PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)

	f.h.HandleStats(ctx, f.b, message(adminChat, "/stats"))
	require.Len(t, f.b.buttons(t), 3)

	f.h.HandleCallbackQuery(ctx, f.b, callback(StatsPeriod+string(service.GranularityMonth)))
	text := f.b.last(t).Text
	assert.Contains(t, text, "Июнь 2030")
	assert.Contains(t, text, "Haircut: 1 запись")
	assert.Contains(t, text, "Оплачено: 1 · 300.00 kr")
	assert.Contains(t, text, "Не оплачено: 0 · 0.00 kr")
}

func TestOpenShowsHours(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	nine, five := model.NewTimeOfDay(9, 0), model.NewTimeOfDay(17, 0)
	require.NoError(t, f.h.openHours.Update(ctx, &model.OpenHours{ID: 1, OpenTime: &nine, CloseTime: &five}))

	f.h.HandleOpen(ctx, f.b, message(adminChat, "/open"))
	text := f.b.last(t).Text
	assert.Contains(t, text, "Сейчас открыто")
	assert.Contains(t, text, "Понедельник: 09:00-17:00")
	assert.Contains(t, text, "Вторник: выходной")
}

func TestFreeServicesArePaginated(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	for i := range servicesPerPage {
		svc := &model.Service{Name: fmt.Sprintf("Färg %d", i), Price: 50000}
		require.NoError(t, f.stores.Services.Create(ctx, svc))
	}

	f.h.HandleFree(ctx, f.b, message(adminChat, "/free"))
	buttons := f.b.buttons(t)
	require.Len(t, buttons, servicesPerPage+2)
	assert.Equal(t, "📄 1/2", buttons[servicesPerPage].Text)
	assert.Equal(t, ServicesPage+"1", buttons[servicesPerPage+1].CallbackData)

	f.h.HandleCallbackQuery(ctx, f.b, callback(ServicesPage+"1"))
	buttons = f.b.buttons(t)
	require.Len(t, buttons, 3)
	assert.Equal(t, ServicesPage+"0", buttons[1].CallbackData)

	f.h.HandleCallbackQuery(ctx, f.b, callback("noop"))
	assert.Len(t, f.b.answers, 2)
}

func TestWeekSendsImage(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, 10)
	f.addSlot(t, 11)
	_, err := f.h.availability.BookSlot(ctx, slot.ID, service.BookingIntent{CustomerID: f.customer.ID, PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)

	f.h.HandleWeek(ctx, f.b, message(adminChat, "/week"))
	require.Len(t, f.b.photos, 1)
	photo := f.b.photos[0]
	assert.Equal(t, adminChat, photo.ChatID)
	assert.Contains(t, photo.Caption, "Неделя с 10.06.2030")
	assert.Contains(t, photo.Caption, "Слотов: 2, занято: 1")

	upload, ok := photo.Photo.(*models.InputFileUpload)
	require.True(t, ok)
	assert.Equal(t, "week.png", upload.Filename)
}

func TestStatsCountsOnlyCurrentYear(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	for _, year := range []int{2029, 2030} {
		require.NoError(t, f.stores.Bookings.Create(ctx, &model.Booking{
			CustomerID:    f.customer.ID,
			ServiceID:     f.haircut.ID,
			BookingDate:   model.NewDate(year, time.June, 10),
			StartTime:     model.NewTimeOfDay(10, 0),
			EndTime:       model.NewTimeOfDay(10, 30),
			Status:        model.BookingStatusConfirmed,
			PaymentStatus: model.PaymentPaid,
			CreatedAt:     time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC),
		}))
	}

	f.h.HandleCallbackQuery(ctx, f.b, callback(StatsPeriod+string(service.GranularityMonth)))
	text := f.b.last(t).Text
	assert.Contains(t, text, "Июнь 2030")
	assert.Contains(t, text, "Haircut: 1 запись")
	assert.NotContains(t, text, "Haircut: 2")
	assert.Contains(t, text, "Оплачено: 1 · 300.00 kr")
}
