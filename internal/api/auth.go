package api

import (
	"net/http"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		a.badRequest(w, "email and password are required")
		return
	}

	session, err := a.services.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, session)
}

func (a *API) signOut(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	if err := a.services.Auth.SignOut(r.Context(), token); err != nil {
		a.Fail(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, "signed out")
}
