package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mzansigreen/office-backend/internal/rewards"
	"github.com/mzansigreen/office-backend/pkg/db/models"
)

type stubRewardsService struct {
	reward     *models.Reward
	listResult *rewards.ListResult
	err        error

	gotCreate rewards.CreateInput
	gotUpdate rewards.UpdateInput
	gotID     uuid.UUID
	gotParams rewards.ListParams
}

func (s *stubRewardsService) Create(ctx context.Context, input rewards.CreateInput) (*models.Reward, error) {
	s.gotCreate = input
	return s.reward, s.err
}

func (s *stubRewardsService) Update(ctx context.Context, id uuid.UUID, input rewards.UpdateInput) (*models.Reward, error) {
	s.gotID = id
	s.gotUpdate = input
	return s.reward, s.err
}

func (s *stubRewardsService) Delete(ctx context.Context, id uuid.UUID) error {
	s.gotID = id
	return s.err
}

func (s *stubRewardsService) List(ctx context.Context, params rewards.ListParams) (*rewards.ListResult, error) {
	s.gotParams = params
	return s.listResult, s.err
}

func TestRewardCreateReturns201(t *testing.T) {
	svc := &stubRewardsService{reward: &models.Reward{ID: uuid.New(), Name: "Grocery voucher", PointsRequired: 500, IsActive: true}}
	handler := RewardCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/rewards", bytes.NewReader([]byte(`{"name":"Grocery voucher","points_required":500,"category":"vouchers"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotCreate.Name != "Grocery voucher" || svc.gotCreate.PointsRequired != 500 {
		t.Fatalf("unexpected input %+v", svc.gotCreate)
	}
}

func TestRewardCreateRejectsNegativePoints(t *testing.T) {
	handler := RewardCreate(&stubRewardsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/rewards", bytes.NewReader([]byte(`{"name":"Voucher","points_required":-5}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRewardUpdateForwardsPartialFields(t *testing.T) {
	svc := &stubRewardsService{reward: &models.Reward{ID: uuid.New()}}
	handler := RewardUpdate(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/rewards/"+id.String(), bytes.NewReader([]byte(`{"is_active":false}`)))
	req = withURLParam(req, "rewardId", id.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotID != id {
		t.Fatalf("expected update for %s got %s", id, svc.gotID)
	}
	if svc.gotUpdate.Name != nil || svc.gotUpdate.IsActive == nil || *svc.gotUpdate.IsActive {
		t.Fatalf("only is_active should be set, got %+v", svc.gotUpdate)
	}
}

func TestRewardsListForwardsFilters(t *testing.T) {
	svc := &stubRewardsService{listResult: &rewards.ListResult{}}
	handler := RewardsList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/rewards?category=vouchers&active=true", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotParams.Category != "vouchers" || !svc.gotParams.ActiveOnly {
		t.Fatalf("unexpected params %+v", svc.gotParams)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) == 0 {
		t.Fatal("expected data envelope")
	}
}
