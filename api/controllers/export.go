package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digifund/digifund-backend/api/responses"
	exportsvc "github.com/digifund/digifund-backend/internal/export"
	"github.com/digifund/digifund-backend/pkg/logger"
)

// ExportCSV streams one entity as a CSV attachment. The rows are rendered
// into a buffer first so a failed export still gets a clean error envelope.
func ExportCSV(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity := chi.URLParam(r, "entity")

		var buf bytes.Buffer
		if err := svc.Export(r.Context(), caller, entity, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entity+".csv"))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
