package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_admin/internal/controller/keyboard"
	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/report"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const commandList = "/today - Записи на сегодня\n" +
	"/free - Свободные слоты и запись клиента\n" +
	"/week - Расписание недели картинкой\n" +
	"/stats - Статистика по услугам и оплатам\n" +
	"/open - Часы работы\n" +
	"/cancel - Отменить текущий диалог\n" +
	"/help - Справка"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}

	name := "администратор"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf("👋 Привет, %s!\n\nЭто бот администратора салона.\n\n%s", name, commandList)
	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, "📚 Справка по командам:\n\n"+commandList, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}

	telegramID := update.Message.Chat.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, telegramID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, telegramID, "✅ Операция отменена.", nil)
}

// HandleToday показывает записи на сегодня
func (h *Handlers) HandleToday(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	today := h.today()
	bookings, err := h.stats.BookingsOn(ctx, today)
	if err != nil {
		h.logger.Error("Failed to get bookings", zap.String("date", today.String()), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить записи. Попробуйте позже.")
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📅 %s\n\nНа сегодня записей нет.", formatting.FormatDateWithWeekday(today)), nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s: %d %s\n\n",
		formatting.FormatDateWithWeekday(today), len(bookings), formatting.PluralizeBookings(len(bookings)))
	for _, eb := range bookings {
		fmt.Fprintf(&sb, "🕐 %s %s\n👤 %s · ✂️ %s\n%s\n\n",
			formatting.FormatTimeRange(eb.StartTime, eb.EndTime),
			eb.ServiceName,
			eb.CustomerName,
			eb.EmployeeName,
			formatting.GetPaymentStatusDisplay(eb.PaymentStatus),
		)
	}
	h.sendMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"), nil)
}

// HandleFree предлагает выбрать услугу для просмотра свободных слотов
func (h *Handlers) HandleFree(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}
	h.sendServicesPage(ctx, b, update.Message.Chat.ID, 0)
}

// sendServicesPage страница списка услуг, page с нуля
func (h *Handlers) sendServicesPage(ctx context.Context, b Messenger, chatID int64, page int) {
	services, err := h.catalog.ListServices(ctx)
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить услуги. Попробуйте позже.")
		return
	}
	if len(services) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Услуг пока нет.", nil)
		return
	}

	totalPages := keyboard.Pages(len(services), servicesPerPage)
	page = max(0, min(page, totalPages-1))
	from := page * servicesPerPage
	to := min(from+servicesPerPage, len(services))

	kb := keyboard.NewBuilder()
	for _, svc := range services[from:to] {
		label := fmt.Sprintf("%s · %s", svc.Name, formatting.FormatPriceShort(svc.Price))
		kb.Row(keyboard.Button(label, FreeService+svc.ID))
	}
	kb.AddPagination(ServicesPage, page, totalPages)
	h.sendMessage(ctx, b, chatID, "✂️ Выберите услугу:", kb.Build())
}

// HandleWeek отправляет картинку с расписанием текущей недели
func (h *Handlers) HandleWeek(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID
	now := h.now().In(h.loc)

	week, err := h.availability.GetWeekSchedule(ctx, model.DateOf(now))
	if err != nil {
		h.logger.Error("Failed to load week schedule", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить расписание. Попробуйте позже.")
		return
	}
	services, err := h.catalog.ListServices(ctx)
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить услуги. Попробуйте позже.")
		return
	}

	image, err := report.WeekImage(report.WeekData{
		Schedule:     week,
		ServiceNames: report.ServiceNames(services),
		Now:          now,
	})
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось нарисовать расписание.")
		return
	}

	booked := 0
	for _, slot := range week.Slots {
		if slot.IsBooked {
			booked++
		}
	}
	caption := fmt.Sprintf("🗓 Неделя с %s\nСлотов: %d, занято: %d",
		formatting.FormatDate(week.Start), len(week.Slots), booked)

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleStats предлагает выбрать период статистики
func (h *Handlers) HandleStats(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("Неделя", StatsPeriod+string(service.GranularityWeek)),
		keyboard.Button("Месяц", StatsPeriod+string(service.GranularityMonth)),
		keyboard.Button("Год", StatsPeriod+string(service.GranularityYear)),
	)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "📊 За какой период?", kb.Build())
}

// HandleOpen показывает часы работы и открыт ли салон сейчас
func (h *Handlers) HandleOpen(ctx context.Context, b Messenger, update *models.Update) {
	if !h.requireOperator(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	hours, err := h.openHours.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list open hours", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить часы работы.")
		return
	}
	open, err := h.openHours.IsOpenAt(ctx, h.now())
	if err != nil {
		h.logger.Error("Failed to check open hours", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить часы работы.")
		return
	}

	var sb strings.Builder
	if open {
		sb.WriteString("🟢 Сейчас открыто\n\n")
	} else {
		sb.WriteString("🔴 Сейчас закрыто\n\n")
	}
	for _, oh := range hours {
		fmt.Fprintf(&sb, "%s: %s\n", formatting.GetWeekdayName(oh.Weekday), formatting.FormatOpenHours(oh))
	}
	h.sendMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"), nil)
}
