package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_admin/internal/controller/keyboard"
	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b Messenger, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	if !h.requireOperator(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	switch h.stateManager.GetState(chatID) {
	case state.StateBookCustomer:
		h.handleCustomerInput(ctx, b, chatID, strings.TrimSpace(update.Message.Text))
	case state.StateNone:
		h.sendMessage(ctx, b, chatID, "🤔 Не понимаю. Список команд: /help", nil)
	}
}

// handleCustomerInput ищет клиента по email или телефону и спрашивает статус оплаты
func (h *Handlers) handleCustomerInput(ctx context.Context, b Messenger, chatID int64, query string) {
	customer, err := h.findCustomer(ctx, query)
	if err != nil {
		h.logger.Error("Failed to search customers", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось загрузить клиентов. Попробуйте позже.")
		return
	}
	if customer == nil {
		h.sendMessage(ctx, b, chatID, "🔍 Клиент не найден. Введите другой email или телефон, или /cancel.", nil)
		return
	}

	h.stateManager.SetData(chatID, state.KeyCustomerID, customer.ID)
	h.stateManager.SetState(chatID, state.StateBookPayment)

	kb := keyboard.NewBuilder()
	for _, status := range model.PaymentStatuses {
		kb.Row(keyboard.Button(formatting.GetPaymentStatusDisplay(status).String(), PayStatus+string(status)))
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("👤 %s\n\nСтатус оплаты?", customer.Name), kb.Build())
}

// findCustomer email сравнивается без учёта регистра, телефон без пробелов
func (h *Handlers) findCustomer(ctx context.Context, query string) (*model.Customer, error) {
	customers, err := h.customers.List(ctx)
	if err != nil {
		return nil, err
	}

	phone := strings.ReplaceAll(query, " ", "")
	for _, c := range customers {
		if strings.EqualFold(c.Email, query) || strings.ReplaceAll(c.Phone, " ", "") == phone {
			return c, nil
		}
	}
	return nil, nil
}

func isExpectedBookingError(err error) bool {
	var verr *model.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, service.ErrSlotAlreadyTaken) ||
		errors.Is(err, repository.ErrNotFound)
}

func bookingErrorText(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, service.ErrSlotAlreadyTaken):
		return "❌ Этот слот уже занят. Выберите другой: /free"
	case errors.Is(err, repository.ErrNotFound):
		return "❌ Слот больше не существует. Выберите другой: /free"
	case errors.As(err, &verr):
		return "❌ " + verr.Message
	case errors.Is(err, repository.ErrTimeout):
		return "⌛ База данных не ответила вовремя. Попробуйте ещё раз."
	default:
		return "❌ Не удалось создать запись. Попробуйте позже."
	}
}
