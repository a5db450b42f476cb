// Package api HTTP интерфейс оператора салона.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Services сервисы, которые обслуживает API
type Services struct {
	Auth         *service.AuthService
	Catalog      *service.CatalogService
	Customers    *service.CustomerService
	Employees    *service.EmployeeService
	Availability *service.AvailabilityService
	Stats        *service.StatsService
	OpenHours    *service.OpenHoursService
}

type API struct {
	root     *mux.Router
	router   *mux.Router
	services Services
	limiter  *RateLimiter
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAPI loc задаёт часовой пояс салона для "сегодня" и текущего года
func NewAPI(services Services, signInPerMinute int, loc *time.Location, logger *zap.Logger) *API {
	root := mux.NewRouter()
	return &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		services: services,
		limiter:  NewRateLimiter(signInPerMinute),
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Router маршрутизатор без middleware, для тестов
func (a *API) Router() http.Handler {
	return a.root
}

// Handler маршрутизатор с логированием запросов, CORS и восстановлением после паники
func (a *API) Handler() http.Handler {
	std := zap.NewStdLog(a.logger)

	h := handlers.LoggingHandler(std.Writer(), a.root)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(std),
		handlers.PrintRecoveryStack(true),
	)(h)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		a.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Fail переводит ошибку сервиса в HTTP статус
func (a *API) Fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		a.Response(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrSessionExpired):
		a.Response(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		a.Response(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrSlotAlreadyTaken), errors.Is(err, repository.ErrConflict):
		a.Response(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrTimeout):
		a.Response(w, http.StatusGatewayTimeout, errorResponse{Error: "store timeout"})
	default:
		a.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		a.Response(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (a *API) badRequest(w http.ResponseWriter, message string) {
	a.Response(w, http.StatusBadRequest, errorResponse{Error: message})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.badRequest(w, "invalid request body")
		return false
	}
	return true
}

func (a *API) today() model.Date {
	return model.DateOf(a.now().In(a.loc))
}

func (a *API) RegisterRoutes() {
	r := a.router

	r.HandleFunc("/health", a.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/sign-in", a.rateLimit(a.signIn)).Methods(http.MethodPost)
	r.HandleFunc("/auth/sign-out", a.authenticate(a.signOut)).Methods(http.MethodPost)

	r.HandleFunc("/categories", a.authenticate(a.listCategories)).Methods(http.MethodGet)
	r.HandleFunc("/categories", a.authenticate(a.createCategory)).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", a.authenticate(a.getCategory)).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", a.authenticate(a.updateCategory)).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", a.authenticate(a.deleteCategory)).Methods(http.MethodDelete)

	r.HandleFunc("/services", a.authenticate(a.listServices)).Methods(http.MethodGet)
	r.HandleFunc("/services", a.authenticate(a.createService)).Methods(http.MethodPost)
	r.HandleFunc("/services/{id}", a.authenticate(a.getService)).Methods(http.MethodGet)
	r.HandleFunc("/services/{id}", a.authenticate(a.updateService)).Methods(http.MethodPut)
	r.HandleFunc("/services/{id}", a.authenticate(a.deleteService)).Methods(http.MethodDelete)

	r.HandleFunc("/customers", a.authenticate(a.listCustomers)).Methods(http.MethodGet)
	r.HandleFunc("/customers", a.authenticate(a.createCustomer)).Methods(http.MethodPost)
	r.HandleFunc("/customers/{id}", a.authenticate(a.getCustomer)).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}", a.authenticate(a.updateCustomer)).Methods(http.MethodPut)
	r.HandleFunc("/customers/{id}", a.authenticate(a.deleteCustomer)).Methods(http.MethodDelete)

	r.HandleFunc("/employees", a.authenticate(a.listEmployees)).Methods(http.MethodGet)
	r.HandleFunc("/employees", a.authenticate(a.createEmployee)).Methods(http.MethodPost)
	r.HandleFunc("/employees/{id}", a.authenticate(a.getEmployee)).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}", a.authenticate(a.updateEmployee)).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}", a.authenticate(a.deleteEmployee)).Methods(http.MethodDelete)
	r.HandleFunc("/employees/{id}/services/{service_id}", a.authenticate(a.assignService)).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}/services/{service_id}", a.authenticate(a.unassignService)).Methods(http.MethodDelete)

	r.HandleFunc("/slots", a.authenticate(a.listSlots)).Methods(http.MethodGet)
	r.HandleFunc("/slots", a.authenticate(a.createSlot)).Methods(http.MethodPost)
	r.HandleFunc("/slots/available", a.authenticate(a.availableSlots)).Methods(http.MethodGet)
	r.HandleFunc("/slots/busy", a.authenticate(a.busySlots)).Methods(http.MethodGet)
	r.HandleFunc("/slots/{id}", a.authenticate(a.deleteSlot)).Methods(http.MethodDelete)
	r.HandleFunc("/slots/{id}/book", a.authenticate(a.bookSlot)).Methods(http.MethodPost)

	r.HandleFunc("/bookings", a.authenticate(a.listBookings)).Methods(http.MethodGet)
	r.HandleFunc("/bookings/new", a.authenticate(a.newBookings)).Methods(http.MethodGet)

	r.HandleFunc("/stats/services", a.authenticate(a.serviceCounts)).Methods(http.MethodGet)
	r.HandleFunc("/stats/payments", a.authenticate(a.paymentSummary)).Methods(http.MethodGet)
	r.HandleFunc("/reports/bookings.xlsx", a.authenticate(a.bookingsReport)).Methods(http.MethodGet)
	r.HandleFunc("/reports/week.png", a.authenticate(a.weekSchedule)).Methods(http.MethodGet)

	r.HandleFunc("/open-hours", a.authenticate(a.listOpenHours)).Methods(http.MethodGet)
	r.HandleFunc("/open-hours/status", a.authenticate(a.openStatus)).Methods(http.MethodGet)
	r.HandleFunc("/open-hours/{id:[0-9]+}", a.authenticate(a.updateOpenHours)).Methods(http.MethodPut)
}
