package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/api"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/memory"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/Freeeeeet/salon_admin/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type testEnv struct {
	api      *api.API
	token    string
	service  *model.Service
	customer *model.Customer
}

func setupAPI(t *testing.T, signInPerMinute int) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	st := memory.New()
	stores := service.Stores{
		Slots:      st.Slots(),
		Bookings:   st.Bookings(),
		Services:   st.Services(),
		Categories: st.Categories(),
		Customers:  st.Customers(),
		Employees:  st.Employees(),
		OpenHours:  st.OpenHours(),
	}

	category := &model.Category{Name: "Hair"}
	require.NoError(t, stores.Categories.Create(ctx, category))
	haircut := &model.Service{Name: "Haircut", Description: "Klippning", Price: 30000, CategoryID: &category.ID}
	require.NoError(t, stores.Services.Create(ctx, haircut))
	customer := &model.Customer{Name: "Anna", Email: "anna@example.se", Phone: "+46701234567"}
	require.NoError(t, stores.Customers.Create(ctx, customer))

	employees := service.NewEmployeeService(stores, model.AssignmentSingle, logger)
	_, err := employees.Create(ctx, service.NewEmployee{Email: "lisa@salon.se", Password: "hemligt1", DisplayName: "Lisa"})
	require.NoError(t, err)

	a := api.NewAPI(api.Services{
		Auth:         service.NewAuthService(stores, session.NewMemory(), "test-secret", time.Hour, logger),
		Catalog:      service.NewCatalogService(stores, logger),
		Customers:    service.NewCustomerService(stores, logger),
		Employees:    employees,
		Availability: service.NewAvailabilityService(stores, nil, "", logger),
		Stats:        service.NewStatsService(stores, logger),
		OpenHours:    service.NewOpenHoursService(stores, time.UTC, logger),
	}, signInPerMinute, time.UTC, logger)
	a.RegisterRoutes()

	return &testEnv{api: a, service: haircut, customer: customer}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.api.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/sign-in", map[string]string{
		"email":    "lisa@salon.se",
		"password": "hemligt1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sess service.Session
	decodeResponse(t, rec, &sess)
	require.NotEmpty(t, sess.Token)
	e.token = sess.Token
}

// decodeResponse распаковывает поле response из конверта
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Status   int             `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, rec.Code, envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Response, dst))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAuth(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		env := setupAPI(t, 10)
		rec := env.do(t, http.MethodGet, "/api/services", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged token", func(t *testing.T) {
		t.Parallel()
		env := setupAPI(t, 10)
		env.token = "not-a-jwt"
		rec := env.do(t, http.MethodGet, "/api/services", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		env := setupAPI(t, 10)
		rec := env.do(t, http.MethodPost, "/api/auth/sign-in", map[string]string{
			"email":    "lisa@salon.se",
			"password": "fel",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("sign out ends session", func(t *testing.T) {
		t.Parallel()
		env := setupAPI(t, 10)
		env.signIn(t)

		rec := env.do(t, http.MethodGet, "/api/services", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/auth/sign-out", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/services", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("sign in is rate limited", func(t *testing.T) {
		t.Parallel()
		env := setupAPI(t, 2)
		body := map[string]string{"email": "lisa@salon.se", "password": "fel"}

		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/sign-in", body).Code)
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/sign-in", body).Code)

		rec := env.do(t, http.MethodPost, "/api/auth/sign-in", body)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp struct {
			Error string `json:"error"`
		}
		decodeResponse(t, rec, &resp)
		assert.Equal(t, "too many requests", resp.Error)
	})
}

func TestBookingFlow(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/slots", map[string]string{
		"service_id": env.service.ID,
		"date":       "2030-06-10",
		"start_time": "10:00",
		"end_time":   "10:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var slot model.Slot
	decodeResponse(t, rec, &slot)
	require.NotEmpty(t, slot.ID)

	rec = env.do(t, http.MethodGet, "/api/slots/available?service_id="+env.service.ID+"&date=2030-06-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available service.AvailableSlots
	decodeResponse(t, rec, &available)
	require.Len(t, available.Slots, 1)

	intent := map[string]string{
		"customer_id":    env.customer.ID,
		"service_id":     env.service.ID,
		"date":           "2030-06-10",
		"payment_status": "Paid",
	}
	rec = env.do(t, http.MethodPost, "/api/slots/"+slot.ID+"/book", intent)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booking model.Booking
	decodeResponse(t, rec, &booking)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, model.NewTimeOfDay(10, 0), booking.StartTime)

	rec = env.do(t, http.MethodPost, "/api/slots/"+slot.ID+"/book", intent)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/slots/available?service_id="+env.service.ID+"&date=2030-06-10", nil)
	decodeResponse(t, rec, &available)
	assert.Empty(t, available.Slots)

	rec = env.do(t, http.MethodGet, "/api/bookings?date=2030-06-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day []service.EnrichedBooking
	decodeResponse(t, rec, &day)
	require.Len(t, day, 1)
	assert.Equal(t, "Haircut", day[0].ServiceName)
	assert.Equal(t, "Anna", day[0].CustomerName)
	assert.Equal(t, "Ej tilldelad", day[0].EmployeeName)

	rec = env.do(t, http.MethodGet, "/api/slots/busy?year=2030&month=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var busy []service.BusyDay
	decodeResponse(t, rec, &busy)
	require.Len(t, busy, 1)
	assert.Equal(t, model.NewDate(2030, time.June, 10), busy[0].Date)

	rec = env.do(t, http.MethodGet, "/api/stats/payments?year=2030", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary service.PaymentSummary
	decodeResponse(t, rec, &summary)
	assert.Equal(t, 1, summary.Counts[model.PaymentPaid])
	assert.Equal(t, int64(30000), summary.Revenue[model.PaymentPaid])
	assert.Zero(t, summary.Counts[model.PaymentUnpaid])

	rec = env.do(t, http.MethodGet, "/api/stats/services?granularity=month&date=2030-06-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts []service.ServiceBookingCount
	decodeResponse(t, rec, &counts)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Count)
}

func TestBookSlotErrors(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/slots/missing/book", map[string]string{
		"customer_id": env.customer.ID,
		"service_id":  env.service.ID,
		"date":        "2030-06-10",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/slots", map[string]string{
		"service_id": env.service.ID,
		"date":       "2030-06-10",
		"start_time": "11:00",
		"end_time":   "10:00",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decodeResponse(t, rec, &body)
	assert.Equal(t, "end_time", body.Field)

	req := httptest.NewRequest(http.MethodPost, "/api/slots", bytes.NewBufferString("invalid"))
	req.Header.Set("Authorization", "Bearer "+env.token)
	res := httptest.NewRecorder()
	env.api.Router().ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCatalogAPI(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodGet, "/api/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Nails"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var nails model.Category
	decodeResponse(t, rec, &nails)

	rec = env.do(t, http.MethodPost, "/api/services", map[string]any{
		"name":        "Manikyr",
		"price":       25000,
		"category_id": nails.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/services", map[string]any{
		"name":        "Manikyr",
		"description": "Nagelvård",
		"price":       25000,
		"category_id": nails.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/services", nil)
	var services []model.Service
	decodeResponse(t, rec, &services)
	assert.Len(t, services, 2)

	rec = env.do(t, http.MethodDelete, "/api/categories/"+nails.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmployeesAPI(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/employees", map[string]string{
		"email":    "LISA@salon.se",
		"password": "annat123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/employees", map[string]string{
		"email":        "karin@salon.se",
		"password":     "hemligt2",
		"display_name": "Karin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var karin model.Employee
	decodeResponse(t, rec, &karin)

	rec = env.do(t, http.MethodPut, "/api/employees/"+karin.ID+"/services/"+env.service.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/employees", nil)
	var list []service.EmployeeWithServices
	decodeResponse(t, rec, &list)
	var assigned []string
	for _, e := range list {
		if e.Employee != nil && e.ID == karin.ID {
			assigned = e.ServiceIDs
		}
	}
	assert.Equal(t, []string{env.service.ID}, assigned)

	rec = env.do(t, http.MethodPut, "/api/employees/"+karin.ID+"/services/missing", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenHoursAPI(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodPut, "/api/open-hours/1", map[string]string{"open_time": "09:00", "close_time": "17:00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/open-hours/2", map[string]string{"open_time": "09:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/open-hours", nil)
	var hours []model.OpenHours
	decodeResponse(t, rec, &hours)
	require.Len(t, hours, 7)
	assert.Equal(t, time.Monday, hours[0].Weekday)
	require.NotNil(t, hours[0].OpenTime)
	assert.Equal(t, model.NewTimeOfDay(9, 0), *hours[0].OpenTime)
	assert.True(t, hours[1].Closed())

	rec = env.do(t, http.MethodGet, "/api/open-hours/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingsReport(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodGet, "/api/reports/bookings.xlsx?year=2030", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookings-2030.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Bokningar")
}

func TestWeekScheduleImage(t *testing.T) {
	t.Parallel()
	env := setupAPI(t, 10)
	env.signIn(t)

	rec := env.do(t, http.MethodGet, "/api/reports/week.png?date=2030-06-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())

	rec = env.do(t, http.MethodGet, "/api/reports/week.png?date=june", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
