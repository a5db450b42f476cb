package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/gorilla/mux"
)

func (a *API) listOpenHours(w http.ResponseWriter, r *http.Request) {
	hours, err := a.services.OpenHours.List(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, hours)
}

type openHoursRequest struct {
	OpenTime  *model.TimeOfDay `json:"open_time"`
	CloseTime *model.TimeOfDay `json:"close_time"`
}

func (a *API) updateOpenHours(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		a.badRequest(w, "invalid open hours ID")
		return
	}

	var req openHoursRequest
	if !a.decode(w, r, &req) {
		return
	}

	hours := &model.OpenHours{ID: id, OpenTime: req.OpenTime, CloseTime: req.CloseTime}
	if err := a.services.OpenHours.Update(r.Context(), hours); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, hours)
}

type openStatusResponse struct {
	Open bool      `json:"open"`
	At   time.Time `json:"at"`
}

func (a *API) openStatus(w http.ResponseWriter, r *http.Request) {
	now := a.now()
	open, err := a.services.OpenHours.IsOpenAt(r.Context(), now)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, openStatusResponse{Open: open, At: now})
}
