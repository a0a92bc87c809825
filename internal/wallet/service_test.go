package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
)

type stubWalletRepo struct {
	rows      []models.WalletTransaction
	lastQuery listQuery
}

func (s *stubWalletRepo) List(ctx context.Context, opts listQuery) ([]models.WalletTransaction, error) {
	s.lastQuery = opts
	return s.rows, nil
}

func TestListScopesToUserAndPages(t *testing.T) {
	userID := uuid.New()
	rows := make([]models.WalletTransaction, 3)
	base := time.Now().UTC()
	for i := range rows {
		rows[i] = models.WalletTransaction{ID: uuid.New(), UserID: userID, CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
	}
	repo := &stubWalletRepo{rows: rows}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{UserID: userID.String(), Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastQuery.userID != userID {
		t.Error("user scope not applied")
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Error("expected next cursor")
	}
}

func TestListRejectsMalformedUserID(t *testing.T) {
	svc, _ := NewService(&stubWalletRepo{})

	_, err := svc.List(context.Background(), ListParams{UserID: "not-a-uuid"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
