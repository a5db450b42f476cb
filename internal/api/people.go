package api

import (
	"net/http"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/gorilla/mux"
)

func (a *API) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.services.Customers.List(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, customers)
}

func (a *API) createCustomer(w http.ResponseWriter, r *http.Request) {
	var customer model.Customer
	if !a.decode(w, r, &customer) {
		return
	}
	customer.ID = ""

	if err := a.services.Customers.Create(r.Context(), &customer); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, customer)
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := a.services.Customers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, customer)
}

func (a *API) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer model.Customer
	if !a.decode(w, r, &customer) {
		return
	}
	customer.ID = mux.Vars(r)["id"]

	if err := a.services.Customers.Update(r.Context(), &customer); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, customer)
}

func (a *API) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.services.Customers.Delete(r.Context(), id); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: id, Deleted: true})
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := a.services.Employees.List(r.Context())
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, employees)
}

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	var input service.NewEmployee
	if !a.decode(w, r, &input) {
		return
	}

	employee, err := a.services.Employees.Create(r.Context(), input)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, employee)
}

func (a *API) getEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := a.services.Employees.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, employee)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee model.Employee
	if !a.decode(w, r, &employee) {
		return
	}
	employee.ID = mux.Vars(r)["id"]

	if err := a.services.Employees.Update(r.Context(), &employee); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, employee)
}

func (a *API) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.services.Employees.Delete(r.Context(), id); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: id, Deleted: true})
}

func (a *API) assignService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.services.Employees.AssignService(r.Context(), vars["id"], vars["service_id"]); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, model.EmployeeService{EmployeeID: vars["id"], ServiceID: vars["service_id"]})
}

func (a *API) unassignService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.services.Employees.UnassignService(r.Context(), vars["id"], vars["service_id"]); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, deletedResponse{ID: vars["service_id"], Deleted: true})
}
