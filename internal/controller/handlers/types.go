package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/controller/state"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Messenger методы бота, которыми пользуются обработчики; *bot.Bot подходит
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// Callback data
const (
	FreeService  = "free:"    // free:<service_id>
	BookSlot     = "book:"    // book:<slot_id>
	PayStatus    = "pay:"     // pay:<payment_status>
	StatsPeriod  = "stats:"   // stats:<granularity>
	ServicesPage = "svcpage:" // svcpage:<page>
)

const servicesPerPage = 8

// Deps сервисы, которые нужны боту оператора
type Deps struct {
	Availability *service.AvailabilityService
	Stats        *service.StatsService
	Catalog      *service.CatalogService
	Customers    *service.CustomerService
	OpenHours    *service.OpenHoursService
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	availability *service.AvailabilityService
	stats        *service.StatsService
	catalog      *service.CatalogService
	customers    *service.CustomerService
	openHours    *service.OpenHoursService
	stateManager *state.Manager
	adminChat    int64
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewHandlers adminChat единственный чат, которому бот отвечает
func NewHandlers(deps Deps, stateManager *state.Manager, adminChat int64, loc *time.Location, logger *zap.Logger) *Handlers {
	return &Handlers{
		availability: deps.Availability,
		stats:        deps.Stats,
		catalog:      deps.Catalog,
		customers:    deps.Customers,
		openHours:    deps.OpenHours,
		stateManager: stateManager,
		adminChat:    adminChat,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}
