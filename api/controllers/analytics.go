package controllers

import (
	"net/http"

	"github.com/mzansigreen/office-backend/api/responses"
	"github.com/mzansigreen/office-backend/internal/analytics"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
)

// AnalyticsOverview returns the dashboard snapshot. Always 200: degraded
// slices come back empty and a global timeout is a body field, never a status
// code. Dashboard clients inspect the body for the error marker.
func AnalyticsOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		snapshot := svc.Snapshot(r.Context())

		setSharedCache(w, 30)
		responses.WriteRaw(w, http.StatusOK, snapshot)
	}
}
