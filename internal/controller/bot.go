package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/controller/handlers"
	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotController бот администратора салона
type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	deps handlers.Deps,
	adminChat int64,
	loc *time.Location,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	return &BotController{
		bot:      botInstance,
		handlers: handlers.NewHandlers(deps, stateManager, adminChat, loc, logger),
		logger:   logger,
	}
}

// adapt передаёт *bot.Bot обработчику как handlers.Messenger
func adapt(fn func(ctx context.Context, b handlers.Messenger, update *models.Update)) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		fn(ctx, b, update)
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, adapt(c.handlers.HandleStart))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, adapt(c.handlers.HandleHelp))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, adapt(c.handlers.HandleCancel))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, adapt(c.handlers.HandleToday))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/free", bot.MatchTypeExact, adapt(c.handlers.HandleFree))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, adapt(c.handlers.HandleWeek))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, adapt(c.handlers.HandleStats))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/open", bot.MatchTypeExact, adapt(c.handlers.HandleOpen))

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, adapt(c.handlers.HandleTextMessage))

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, adapt(c.handlers.HandleCallbackQuery))

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📅 Записи на сегодня"},
		{Command: "free", Description: "🗓 Свободные слоты и запись"},
		{Command: "week", Description: "🖼 Расписание недели"},
		{Command: "stats", Description: "📊 Статистика"},
		{Command: "open", Description: "🕘 Часы работы"},
		{Command: "cancel", Description: "✖️ Отменить диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
