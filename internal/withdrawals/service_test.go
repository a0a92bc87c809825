package withdrawals

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
)

type stubTxRunner struct {
	rolledBack bool
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := fn(nil)
	if err != nil {
		s.rolledBack = true
	}
	return err
}

type stubWithdrawalsRepo struct {
	withdrawal *models.WithdrawalRequest
	cascaded   []uuid.UUID
	cascadeErr error
	deleted    []uuid.UUID
	deleteErr  error
	calls      []string
}

func (s *stubWithdrawalsRepo) WithTx(tx *gorm.DB) WithdrawalsRepository { return s }

func (s *stubWithdrawalsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	if s.withdrawal == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.withdrawal, nil
}

func (s *stubWithdrawalsRepo) DeleteLinkedWalletTransactions(ctx context.Context, withdrawalID uuid.UUID) (int64, error) {
	if s.cascadeErr != nil {
		return 0, s.cascadeErr
	}
	s.cascaded = append(s.cascaded, withdrawalID)
	s.calls = append(s.calls, "cascade")
	return 3, nil
}

func (s *stubWithdrawalsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	s.calls = append(s.calls, "delete")
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestDeleteCascadesWalletRowsThenParent(t *testing.T) {
	withdrawal := &models.WithdrawalRequest{ID: uuid.New(), UserID: uuid.New()}
	repo := &stubWithdrawalsRepo{withdrawal: withdrawal}
	svc, err := NewService(&stubTxRunner{}, repo, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Delete(context.Background(), withdrawal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(repo.calls) != 2 || repo.calls[0] != "cascade" || repo.calls[1] != "delete" {
		t.Fatalf("expected cascade then delete, got %v", repo.calls)
	}
	if len(repo.cascaded) != 1 || repo.cascaded[0] != withdrawal.ID {
		t.Error("wallet cascade must target the withdrawal id")
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != withdrawal.ID {
		t.Error("parent row must be deleted")
	}
}

func TestDeleteMissingWithdrawalIsNotFound(t *testing.T) {
	repo := &stubWithdrawalsRepo{}
	svc, _ := NewService(&stubTxRunner{}, repo, testLogger())

	err := svc.Delete(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.cascaded) != 0 || len(repo.deleted) != 0 {
		t.Error("nothing should be deleted for a missing parent")
	}
}

func TestDeleteCascadeFailureAbortsTransaction(t *testing.T) {
	withdrawal := &models.WithdrawalRequest{ID: uuid.New()}
	repo := &stubWithdrawalsRepo{withdrawal: withdrawal, cascadeErr: gorm.ErrInvalidDB}
	runner := &stubTxRunner{}
	svc, _ := NewService(runner, repo, testLogger())

	err := svc.Delete(context.Background(), withdrawal.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if !runner.rolledBack {
		t.Error("transaction must roll back on cascade failure")
	}
	if len(repo.deleted) != 0 {
		t.Error("parent must not be deleted after cascade failure")
	}
}

func TestDeleteNilIDIsValidation(t *testing.T) {
	svc, _ := NewService(&stubTxRunner{}, &stubWithdrawalsRepo{}, testLogger())

	err := svc.Delete(context.Background(), uuid.Nil)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
