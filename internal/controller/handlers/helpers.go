package handlers

import (
	"context"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handlers) today() model.Date {
	return model.DateOf(h.now().In(h.loc))
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b Messenger, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError отправляет сообщение об ошибке
func (h *Handlers) sendError(ctx context.Context, b Messenger, chatID int64, text string) {
	h.sendMessage(ctx, b, chatID, text, nil)
}

// answer отвечает на callback query; alert показывает всплывающее окно
func (h *Handlers) answer(ctx context.Context, b Messenger, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}

// callbackChat чат, из которого пришёл callback
func callbackChat(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return callback.From.ID
}
