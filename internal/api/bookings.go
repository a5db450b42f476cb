package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/report"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// periodFilter читает granularity, key и year из запроса.
// Без key берётся текущий период.
func (a *API) periodFilter(r *http.Request) (service.PeriodFilter, error) {
	var filter service.PeriodFilter

	year, err := queryInt(r, "year")
	if err != nil {
		return filter, err
	}
	filter.Year = year

	g := service.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		return filter, nil
	}
	if !g.Valid() {
		return filter, model.NewValidationError("granularity", "must be week, month or year")
	}
	filter.Granularity = g

	key, err := queryInt(r, "key")
	if err != nil {
		return filter, err
	}
	if key != nil {
		filter.Key = service.PeriodKey(*key)
	} else {
		filter.Key = service.PeriodOf(a.today(), g)
	}
	return filter, nil
}

// listBookings с date отдаёт календарь дня, иначе бронирования периода
func (a *API) listBookings(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		a.Fail(w, r, err)
		return
	}

	var bookings []service.EnrichedBooking
	if date != nil {
		bookings, err = a.services.Stats.BookingsOn(r.Context(), *date)
	} else {
		var filter service.PeriodFilter
		if filter, err = a.periodFilter(r); err == nil {
			bookings, err = a.services.Stats.EnrichedBookings(r.Context(), filter)
		}
	}
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []service.EnrichedBooking{}
	}
	a.Response(w, http.StatusOK, bookings)
}

type newBookingsResponse struct {
	Since time.Time `json:"since"`
	Count int       `json:"count"`
}

func (a *API) newBookings(w http.ResponseWriter, r *http.Request) {
	since := a.now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			a.badRequest(w, "since must be RFC3339")
			return
		}
		since = parsed
	}

	count, err := a.services.Stats.NewBookingsSince(r.Context(), since)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, newBookingsResponse{Since: since, Count: count})
}

func (a *API) serviceCounts(w http.ResponseWriter, r *http.Request) {
	g := service.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = service.GranularityWeek
	}

	reference := a.today()
	date, err := queryDate(r, "date")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if date != nil {
		reference = *date
	}

	counts, err := a.services.Stats.ServiceBookingCounts(r.Context(), g, reference)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if counts == nil {
		counts = []service.ServiceBookingCount{}
	}
	a.Response(w, http.StatusOK, counts)
}

func (a *API) paymentSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := a.periodFilter(r)
	if err != nil {
		a.Fail(w, r, err)
		return
	}

	summary, err := a.services.Stats.PaymentSummary(r.Context(), filter)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, summary)
}

// bookingsReport выгружает бронирования года в xlsx
func (a *API) bookingsReport(w http.ResponseWriter, r *http.Request) {
	year := a.today().Year
	y, err := queryInt(r, "year")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if y != nil {
		year = *y
	}

	filter := service.PeriodFilter{Year: &year}
	bookings, err := a.services.Stats.EnrichedBookings(r.Context(), filter)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	summary, err := a.services.Stats.PaymentSummary(r.Context(), filter)
	if err != nil {
		a.Fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	data := report.Data{
		Title:    fmt.Sprintf("Bokningar %d", year),
		Bookings: bookings,
		Summary:  summary,
	}
	if err := report.Write(&buf, data); err != nil {
		a.Fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bookings-%d.xlsx"`, year))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Failed to send report", zap.Int("year", year), zap.Error(err))
	}
}

// weekSchedule картинка недели, в которую попадает date (по умолчанию сегодня)
func (a *API) weekSchedule(w http.ResponseWriter, r *http.Request) {
	day := a.today()
	d, err := queryDate(r, "date")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if d != nil {
		day = *d
	}

	week, err := a.services.Availability.GetWeekSchedule(r.Context(), day)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	services, err := a.services.Catalog.ListServices(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}

	image, err := report.WeekImage(report.WeekData{
		Schedule:     week,
		ServiceNames: report.ServiceNames(services),
		Now:          a.now().In(a.loc),
	})
	if err != nil {
		a.Fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		a.logger.Warn("Failed to send week image", zap.String("week", week.Start.String()), zap.Error(err))
	}
}
