package api

import (
	"net/http"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/gorilla/mux"
)

type deletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.services.Catalog.ListCategories(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, categories)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if !a.decode(w, r, &category) {
		return
	}
	category.ID = ""

	if err := a.services.Catalog.CreateCategory(r.Context(), &category); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, category)
}

func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := a.services.Catalog.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, category)
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if !a.decode(w, r, &category) {
		return
	}
	category.ID = mux.Vars(r)["id"]

	if err := a.services.Catalog.UpdateCategory(r.Context(), &category); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, category)
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.services.Catalog.DeleteCategory(r.Context(), id); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: id, Deleted: true})
}

func (a *API) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := a.services.Catalog.ListServices(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, services)
}

func (a *API) createService(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if !a.decode(w, r, &svc) {
		return
	}
	svc.ID = ""

	if err := a.services.Catalog.CreateService(r.Context(), &svc); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, svc)
}

func (a *API) getService(w http.ResponseWriter, r *http.Request) {
	svc, err := a.services.Catalog.GetService(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, svc)
}

func (a *API) updateService(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if !a.decode(w, r, &svc) {
		return
	}
	svc.ID = mux.Vars(r)["id"]

	if err := a.services.Catalog.UpdateService(r.Context(), &svc); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, svc)
}

func (a *API) deleteService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.services.Catalog.DeleteService(r.Context(), id); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: id, Deleted: true})
}
