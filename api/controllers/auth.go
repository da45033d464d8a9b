package controllers

import (
	"net/http"

	"github.com/digifund/digifund-backend/api/middleware"
	"github.com/digifund/digifund-backend/api/responses"
	"github.com/digifund/digifund-backend/api/validators"
	authsvc "github.com/digifund/digifund-backend/internal/auth"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
	"github.com/digifund/digifund-backend/pkg/logger"
)

// AuthRegister onboards a tenant and immediately logs it in.
func AuthRegister(registerSvc authsvc.RegisterService, authSvc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registered, err := registerSvc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		login, err := authSvc.Login(r.Context(), authsvc.LoginRequest{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			// The account exists; surface it and let the client log in manually.
			responses.WriteSuccessStatus(w, http.StatusCreated, registered)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, login)
	}
}

func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		login, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, login)
	}
}

func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
