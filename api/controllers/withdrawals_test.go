package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
)

type stubWithdrawalsService struct {
	err   error
	gotID uuid.UUID
}

func (s *stubWithdrawalsService) Delete(ctx context.Context, withdrawalID uuid.UUID) error {
	s.gotID = withdrawalID
	return s.err
}

func TestWithdrawalDeleteReturnsOK(t *testing.T) {
	svc := &stubWithdrawalsService{}
	handler := WithdrawalDelete(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/withdrawals/"+id.String()+"/delete", nil)
	req = withURLParam(req, "withdrawalId", id.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotID != id {
		t.Fatalf("expected service call with %s got %s", id, svc.gotID)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWithdrawalDeleteNotFound(t *testing.T) {
	svc := &stubWithdrawalsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")}
	handler := WithdrawalDelete(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/withdrawals/"+id.String()+"/delete", nil)
	req = withURLParam(req, "withdrawalId", id.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestWithdrawalDeleteRejectsBadUUID(t *testing.T) {
	handler := WithdrawalDelete(&stubWithdrawalsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/withdrawals/nope/delete", nil)
	req = withURLParam(req, "withdrawalId", "nope")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
