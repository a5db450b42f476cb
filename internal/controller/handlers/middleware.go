package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireOperator пропускает только сообщения из чата администратора
func (h *Handlers) requireOperator(ctx context.Context, b Messenger, update *models.Update) bool {
	if update.Message == nil {
		return false
	}

	chatID := update.Message.Chat.ID
	if chatID != h.adminChat {
		h.logger.Warn("Message from unknown chat", zap.Int64("chat_id", chatID))
		h.sendError(ctx, b, chatID, "⛔ Этот бот доступен только администратору салона.")
		return false
	}
	return true
}

// requireOperatorCallback то же для нажатий на кнопки
func (h *Handlers) requireOperatorCallback(ctx context.Context, b Messenger, callback *models.CallbackQuery) bool {
	if callbackChat(callback) != h.adminChat {
		h.answer(ctx, b, callback.ID, "⛔ Нет доступа", true)
		return false
	}
	return true
}
