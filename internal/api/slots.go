package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/gorilla/mux"
)

// queryDate разбирает необязательный параметр даты YYYY-MM-DD
func queryDate(r *http.Request, name string) (*model.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, model.NewValidationError(name, "date must be YYYY-MM-DD")
	}
	return &d, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, model.NewValidationError(name, "must be a number")
	}
	return &n, nil
}

func (a *API) listSlots(w http.ResponseWriter, r *http.Request) {
	var filter model.SlotFilter
	if id := r.URL.Query().Get("service_id"); id != "" {
		filter.ServiceID = &id
	}

	date, err := queryDate(r, "date")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	filter.Date = date

	if raw := r.URL.Query().Get("booked"); raw != "" {
		booked, err := strconv.ParseBool(raw)
		if err != nil {
			a.badRequest(w, "booked must be true or false")
			return
		}
		filter.IsBooked = &booked
	}

	slots, err := a.services.Availability.ListSlots(r.Context(), filter)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, slots)
}

func (a *API) createSlot(w http.ResponseWriter, r *http.Request) {
	var slot model.Slot
	if !a.decode(w, r, &slot) {
		return
	}
	slot.ID = ""

	if err := a.services.Availability.CreateSlot(r.Context(), &slot); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, slot)
}

func (a *API) deleteSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.services.Availability.DeleteSlot(r.Context(), id); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: id, Deleted: true})
}

// availableSlots без service_id или даты отдаёт пустой список, как форма бронирования
func (a *API) availableSlots(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	var day model.Date
	if date != nil {
		day = *date
	}

	available, err := a.services.Availability.GetAvailableSlots(r.Context(), r.URL.Query().Get("service_id"), day)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if available.Slots == nil {
		available.Slots = []*model.Slot{}
	}
	a.Response(w, http.StatusOK, available)
}

func (a *API) busySlots(w http.ResponseWriter, r *http.Request) {
	today := a.today()
	year, month := today.Year, int(today.Month)

	y, err := queryInt(r, "year")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if y != nil {
		year = *y
	}
	m, err := queryInt(r, "month")
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if m != nil {
		month = *m
	}

	days, err := a.services.Availability.ListBusySlotsForMonth(r.Context(), year, time.Month(month))
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	if days == nil {
		days = []service.BusyDay{}
	}
	a.Response(w, http.StatusOK, days)
}

func (a *API) bookSlot(w http.ResponseWriter, r *http.Request) {
	var intent service.BookingIntent
	if !a.decode(w, r, &intent) {
		return
	}

	booking, err := a.services.Availability.BookSlot(r.Context(), mux.Vars(r)["id"], intent)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, booking)
}
