package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mzansigreen/office-backend/api/middleware"
	"github.com/mzansigreen/office-backend/api/responses"
	"github.com/mzansigreen/office-backend/api/validators"
	"github.com/mzansigreen/office-backend/internal/collections"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type collectionUpdateRequest struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

type collectionDeleteRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CollectionUpdate moves a collection through its status machine. When the
// new status is approved the PET contribution hook fires after the response.
func CollectionUpdate(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collections service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "collectionId"), "collectionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body collectionUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		collection, err := svc.UpdateStatus(r.Context(), id, collections.UpdateStatusInput{
			Status:     body.Status,
			AdminNotes: body.AdminNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"collection": collection,
			"success":    true,
		})
	}
}

// CollectionDelete archives a collection into deleted_transactions and
// removes the live row in one transaction.
func CollectionDelete(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collections service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "collectionId"), "collectionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body collectionDeleteRequest
		if err := validators.DecodeOptionalJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deletedBy, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing actor"))
			return
		}

		if err := svc.SoftDelete(r.Context(), id, deletedBy, body.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// PickupsList returns a cursor page of collections. Bodies are cacheable for
// a short window because the pickup board polls aggressively.
func PickupsList(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collections service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), collections.ListParams{
			Status: r.URL.Query().Get("status"),
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSharedCache(w, 20)
		responses.WriteSuccess(w, result)
	}
}

func setSharedCache(w http.ResponseWriter, seconds int) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d", seconds))
}
