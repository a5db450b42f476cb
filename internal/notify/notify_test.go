package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{Text: params.Text}, nil
}

func TestTelegramSendsAdminAndRelaysCustomerMessage(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegram(sender, zap.NewNop())

	err := n.Send(context.Background(), Message{
		ToCustomer:      "+46701234567",
		ToAdmin:         "-100123",
		MessageCustomer: "Välkommen!",
		MessageAdmin:    "Ny bokning",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)

	assert.Equal(t, "-100123", sender.sent[0].ChatID)
	assert.Equal(t, "Ny bokning", sender.sent[0].Text)
	assert.Equal(t, "-100123", sender.sent[1].ChatID)
	assert.Contains(t, sender.sent[1].Text, "+46701234567")
	assert.Contains(t, sender.sent[1].Text, "Välkommen!")
}

func TestTelegramSkipsEmptyCustomer(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegram(sender, zap.NewNop())

	err := n.Send(context.Background(), Message{ToAdmin: "42", MessageAdmin: "Ny bokning"})
	require.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestTelegramRequiresAdminChat(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegram(sender, zap.NewNop())

	err := n.Send(context.Background(), Message{ToCustomer: "+4670", MessageCustomer: "hej"})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestTelegramJoinsDeliveryErrors(t *testing.T) {
	boom := errors.New("boom")
	sender := &fakeSender{err: boom}
	n := NewTelegram(sender, zap.NewNop())

	err := n.Send(context.Background(), Message{
		ToCustomer:      "+4670",
		ToAdmin:         "42",
		MessageCustomer: "hej",
		MessageAdmin:    "ny",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, sender.sent, 2)
}

func TestLogNeverFails(t *testing.T) {
	assert.NoError(t, NewLog(zap.NewNop()).Send(context.Background(), Message{MessageAdmin: "x"}))
}
