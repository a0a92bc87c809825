package controllers

import (
	"net/http"

	"github.com/mzansigreen/office-backend/api/responses"
	"github.com/mzansigreen/office-backend/api/validators"
	"github.com/mzansigreen/office-backend/internal/scholar"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type petContributionRequest struct {
	CollectionID string `json:"collection_id" validate:"required,uuid"`
}

// PetContribution records the Green Scholar fund credit for an approved
// collection's PET bottles. Replays return created:false with the same
// amount.
func PetContribution(svc scholar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholar service unavailable"))
			return
		}

		var body petContributionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		collectionID, err := validators.ParsePathUUID(body.CollectionID, "collection_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordPetContribution(r.Context(), collectionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"created": result.Created,
			"amount":  result.Amount,
		})
	}
}

// FundOverview returns the fund balance summary plus one ledger page.
func FundOverview(svc scholar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scholar service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, page, err := svc.Fund(r.Context(), scholar.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"summary":      summary,
			"transactions": page,
		})
	}
}
