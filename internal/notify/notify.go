// Package notify побочный канал уведомлений о бронированиях.
// Ошибки доставки никогда не откатывают бронирование.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Message сообщение клиенту и администратору; пустой получатель пропускается
type Message struct {
	ToCustomer      string `json:"to_customer"`
	ToAdmin         string `json:"to_admin"`
	MessageCustomer string `json:"message_customer"`
	MessageAdmin    string `json:"message_admin"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Sender часть *bot.Bot, нужная для отправки
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram доставляет уведомления в чат администратора.
// Контакты клиентов (телефоны) не являются чатами Telegram,
// поэтому сообщение клиенту пересылается администратору вместе с контактом.
type Telegram struct {
	sender Sender
	logger *zap.Logger
}

func NewTelegram(sender Sender, logger *zap.Logger) *Telegram {
	return &Telegram{sender: sender, logger: logger}
}

func (t *Telegram) Send(ctx context.Context, msg Message) error {
	if msg.ToAdmin == "" {
		return fmt.Errorf("send notification: admin chat is not configured")
	}

	var errs []error
	if msg.MessageAdmin != "" {
		if err := t.send(ctx, msg.ToAdmin, msg.MessageAdmin); err != nil {
			errs = append(errs, err)
		}
	}
	if msg.ToCustomer != "" && msg.MessageCustomer != "" {
		text := fmt.Sprintf("📨 Для клиента %s:\n%s", msg.ToCustomer, msg.MessageCustomer)
		if err := t.send(ctx, msg.ToAdmin, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Telegram) send(ctx context.Context, chatID, text string) error {
	_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	t.logger.Debug("Notification sent", zap.String("chat_id", chatID))
	return nil
}

// Log пишет уведомления в лог, используется без токена бота
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info("Notification",
		zap.String("to_customer", msg.ToCustomer),
		zap.String("to_admin", msg.ToAdmin),
		zap.String("message_customer", msg.MessageCustomer),
		zap.String("message_admin", msg.MessageAdmin),
	)
	return nil
}
