package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mzansigreen/office-backend/api/responses"
	"github.com/mzansigreen/office-backend/api/validators"
	"github.com/mzansigreen/office-backend/internal/rewards"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type rewardCreateRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Description    string `json:"description,omitempty"`
	PointsRequired int    `json:"points_required" validate:"min=0"`
	Category       string `json:"category,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

type rewardUpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description    *string `json:"description,omitempty"`
	PointsRequired *int    `json:"points_required,omitempty" validate:"omitempty,min=0"`
	Category       *string `json:"category,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

func RewardCreate(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rewards service unavailable"))
			return
		}

		var body rewardCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reward, err := svc.Create(r.Context(), rewards.CreateInput{
			Name:           body.Name,
			Description:    body.Description,
			PointsRequired: body.PointsRequired,
			Category:       body.Category,
			IsActive:       body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, reward)
	}
}

func RewardUpdate(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rewards service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "rewardId"), "rewardId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rewardUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reward, err := svc.Update(r.Context(), id, rewards.UpdateInput{
			Name:           body.Name,
			Description:    body.Description,
			PointsRequired: body.PointsRequired,
			Category:       body.Category,
			IsActive:       body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reward)
	}
}

func RewardDelete(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rewards service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "rewardId"), "rewardId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func RewardsList(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rewards service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), rewards.ListParams{
			Category:   r.URL.Query().Get("category"),
			ActiveOnly: activeOnly,
			Limit:      limit,
			Cursor:     r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
