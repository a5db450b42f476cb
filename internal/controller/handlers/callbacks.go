package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/salon_admin/internal/controller/keyboard"
	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	freeDaysAhead  = 7
	maxSlotButtons = 24
)

// HandleCallbackQuery маршрутизирует нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b Messenger, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	if !h.requireOperatorCallback(ctx, b, callback) {
		return
	}

	h.logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	data := callback.Data
	switch {
	case data == keyboard.Noop:
		h.answer(ctx, b, callback.ID, "", false)
	case strings.HasPrefix(data, ServicesPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, ServicesPage))
		if err != nil {
			h.answer(ctx, b, callback.ID, "❓ Неизвестная страница", false)
			return
		}
		h.answer(ctx, b, callback.ID, "", false)
		h.sendServicesPage(ctx, b, callbackChat(callback), page)
	case strings.HasPrefix(data, FreeService):
		h.handleFreeSlots(ctx, b, callback, strings.TrimPrefix(data, FreeService))
	case strings.HasPrefix(data, BookSlot):
		h.handleBookSlot(ctx, b, callback, strings.TrimPrefix(data, BookSlot))
	case strings.HasPrefix(data, PayStatus):
		h.handlePayment(ctx, b, callback, model.PaymentStatus(strings.TrimPrefix(data, PayStatus)))
	case strings.HasPrefix(data, StatsPeriod):
		h.handleStats(ctx, b, callback, service.Granularity(strings.TrimPrefix(data, StatsPeriod)))
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answer(ctx, b, callback.ID, "❓ Неизвестная команда", false)
	}
}

// handleFreeSlots свободные слоты услуги на ближайшую неделю
func (h *Handlers) handleFreeSlots(ctx context.Context, b Messenger, callback *models.CallbackQuery, serviceID string) {
	chatID := callbackChat(callback)

	svc, err := h.catalog.GetService(ctx, serviceID)
	if err != nil {
		h.logger.Warn("Failed to get service", zap.String("service_id", serviceID), zap.Error(err))
		h.answer(ctx, b, callback.ID, "❌ Услуга не найдена", true)
		return
	}

	var buttons []models.InlineKeyboardButton
	day := h.today()
	for i := 0; i < freeDaysAhead && len(buttons) < maxSlotButtons; i++ {
		available, err := h.availability.GetAvailableSlots(ctx, serviceID, day)
		if err != nil {
			h.logger.Error("Failed to get available slots", zap.String("service_id", serviceID), zap.Error(err))
			h.answer(ctx, b, callback.ID, "❌ Ошибка загрузки слотов", true)
			return
		}
		for _, slot := range available.Slots {
			if len(buttons) == maxSlotButtons {
				break
			}
			label := fmt.Sprintf("%s %s %s",
				formatting.GetWeekdayShortName(slot.Date.Weekday()),
				formatting.FormatDateShort(slot.Date),
				slot.StartTime)
			buttons = append(buttons, keyboard.Button(label, BookSlot+slot.ID))
		}
		day = model.DateOf(day.Time().AddDate(0, 0, 1))
	}

	h.answer(ctx, b, callback.ID, "", false)
	if len(buttons) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📭 %s: свободных слотов на неделю нет.", svc.Name), nil)
		return
	}

	text := fmt.Sprintf("🗓 %s: %d %s\nВыберите слот для записи:",
		svc.Name, len(buttons), formatting.PluralizeSlots(len(buttons)))
	h.sendMessage(ctx, b, chatID, text, keyboard.NewBuilder().Grid(3, buttons...).Build())
}

// handleBookSlot начинает диалог записи клиента на слот
func (h *Handlers) handleBookSlot(ctx context.Context, b Messenger, callback *models.CallbackQuery, slotID string) {
	chatID := callbackChat(callback)

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateBookCustomer)
	h.stateManager.SetData(chatID, state.KeySlotID, slotID)

	h.answer(ctx, b, callback.ID, "", false)
	h.sendMessage(ctx, b, chatID, "👤 Введите email или телефон клиента.\n\nОтменить: /cancel", nil)
}

// handlePayment завершает диалог записи выбранным статусом оплаты
func (h *Handlers) handlePayment(ctx context.Context, b Messenger, callback *models.CallbackQuery, status model.PaymentStatus) {
	chatID := callbackChat(callback)

	slotID, okSlot := h.stateManager.GetData(chatID, state.KeySlotID)
	customerID, okCustomer := h.stateManager.GetData(chatID, state.KeyCustomerID)
	if h.stateManager.GetState(chatID) != state.StateBookPayment || !okSlot || !okCustomer {
		h.answer(ctx, b, callback.ID, "⌛ Диалог устарел, начните заново: /free", true)
		return
	}
	h.stateManager.ClearState(chatID)

	booking, err := h.availability.BookSlot(ctx, slotID, service.BookingIntent{
		CustomerID:    customerID,
		PaymentStatus: status,
	})
	if err != nil {
		h.answer(ctx, b, callback.ID, "", false)
		h.sendError(ctx, b, chatID, bookingErrorText(err))
		if !isExpectedBookingError(err) {
			h.logger.Error("Failed to book slot from bot", zap.String("slot_id", slotID), zap.Error(err))
		}
		return
	}

	h.answer(ctx, b, callback.ID, "✅ Записано", false)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Запись создана\n\n📅 %s %s\n%s",
		formatting.FormatDateWithWeekday(booking.BookingDate),
		formatting.FormatTimeRange(booking.StartTime, booking.EndTime),
		formatting.GetPaymentStatusDisplay(booking.PaymentStatus),
	), nil)
}

// handleStats статистика услуг и оплат за текущий период
func (h *Handlers) handleStats(ctx context.Context, b Messenger, callback *models.CallbackQuery, g service.Granularity) {
	chatID := callbackChat(callback)
	if !g.Valid() {
		h.answer(ctx, b, callback.ID, "❌ Неверный период", true)
		return
	}

	today := h.today()
	period := service.PeriodFilter{
		Granularity: g,
		Key:         service.PeriodOf(today, g),
		Year:        &today.Year,
	}
	counts, err := h.stats.ServiceBookingCountsFor(ctx, period)
	if err != nil {
		h.logger.Error("Failed to count bookings", zap.Error(err))
		h.answer(ctx, b, callback.ID, "❌ Ошибка загрузки статистики", true)
		return
	}
	summary, err := h.stats.PaymentSummary(ctx, period)
	if err != nil {
		h.logger.Error("Failed to summarize payments", zap.Error(err))
		h.answer(ctx, b, callback.ID, "❌ Ошибка загрузки статистики", true)
		return
	}

	h.answer(ctx, b, callback.ID, "", false)
	h.sendMessage(ctx, b, chatID, formatStats(periodLabel(today, g), counts, summary), nil)
}

func periodLabel(today model.Date, g service.Granularity) string {
	switch g {
	case service.GranularityWeek:
		return fmt.Sprintf("неделя %d", service.PeriodOf(today, g))
	case service.GranularityMonth:
		return fmt.Sprintf("%s %d", formatting.GetMonthName(today.Month), today.Year)
	default:
		return fmt.Sprintf("%d год", today.Year)
	}
}

func formatStats(label string, counts []service.ServiceBookingCount, summary service.PaymentSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Статистика: %s\n\n", label)
	for _, c := range counts {
		fmt.Fprintf(&sb, "✂️ %s: %d %s\n", c.Service.Name, c.Count, formatting.PluralizeBookings(c.Count))
	}

	sb.WriteString("\n")
	for _, status := range model.PaymentStatuses {
		fmt.Fprintf(&sb, "%s: %d · %s\n",
			formatting.GetPaymentStatusDisplay(status),
			summary.Counts[status],
			formatting.FormatPrice(summary.Revenue[status]))
	}
	return strings.TrimRight(sb.String(), "\n")
}
