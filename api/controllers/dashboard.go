package controllers

import (
	"net/http"

	"github.com/digifund/digifund-backend/api/responses"
	"github.com/digifund/digifund-backend/api/validators"
	dashboardsvc "github.com/digifund/digifund-backend/internal/dashboard"
	"github.com/digifund/digifund-backend/pkg/logger"
)

func DashboardSummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func DashboardMonthly(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		months, err := validators.ParseQueryInt(r, "months",
			dashboardsvc.DefaultWindowMonths, 1, dashboardsvc.MaxWindowMonths)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		monthly, err := svc.Monthly(r.Context(), caller, months)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, monthly)
	}
}
