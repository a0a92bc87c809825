package scholar

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
)

type stubScholarRepo struct {
	petWeight   decimal.Decimal
	weightErr   error
	inserted    *models.ScholarTransaction
	insertHit   bool
	insertErr   error
	sums        map[enums.ScholarTransactionType]decimal.Decimal
	listRows    []models.ScholarTransaction
	insertCalls int
}

func (s *stubScholarRepo) SumPetWeight(ctx context.Context, collectionID uuid.UUID) (decimal.Decimal, error) {
	if s.weightErr != nil {
		return decimal.Zero, s.weightErr
	}
	return s.petWeight, nil
}

func (s *stubScholarRepo) InsertContribution(ctx context.Context, row *models.ScholarTransaction) (bool, error) {
	s.insertCalls++
	if s.insertErr != nil {
		return false, s.insertErr
	}
	s.inserted = row
	return s.insertHit, nil
}

func (s *stubScholarRepo) SumByType(ctx context.Context, txType enums.ScholarTransactionType) (decimal.Decimal, error) {
	return s.sums[txType], nil
}

func (s *stubScholarRepo) List(ctx context.Context, opts listQuery) ([]models.ScholarTransaction, error) {
	return s.listRows, nil
}

func scholarConfig(rate string) config.ScholarConfig {
	return config.ScholarConfig{PetRatePerKg: rate}
}

func TestRecordPetContributionMultipliesWeightByRate(t *testing.T) {
	repo := &stubScholarRepo{petWeight: decimal.NewFromFloat(8), insertHit: true}
	svc, err := NewService(repo, scholarConfig("1.50"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	collectionID := uuid.New()

	result, err := svc.RecordPetContribution(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !result.Created {
		t.Error("expected created=true")
	}
	if !result.Amount.Equal(decimal.NewFromFloat(12)) {
		t.Errorf("expected amount 12.00, got %s", result.Amount)
	}

	if repo.inserted == nil {
		t.Fatal("expected a ledger insert")
	}
	if repo.inserted.TransactionType != enums.ScholarTransactionTypePetContribution {
		t.Errorf("wrong transaction type %s", repo.inserted.TransactionType)
	}
	if repo.inserted.SourceType == nil || *repo.inserted.SourceType != "collection" {
		t.Error("source_type must be set to collection")
	}
	if repo.inserted.SourceID == nil || *repo.inserted.SourceID != collectionID {
		t.Error("source_id must be the collection id")
	}
}

func TestRecordPetContributionZeroWeightWritesNothing(t *testing.T) {
	repo := &stubScholarRepo{petWeight: decimal.Zero}
	svc, _ := NewService(repo, scholarConfig("1.50"))

	result, err := svc.RecordPetContribution(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.Created {
		t.Error("expected created=false for zero pet weight")
	}
	if !result.Amount.IsZero() {
		t.Errorf("expected zero amount, got %s", result.Amount)
	}
	if repo.insertCalls != 0 {
		t.Error("no insert expected for zero amount")
	}
}

func TestRecordPetContributionDuplicateSourceReportsNotCreated(t *testing.T) {
	repo := &stubScholarRepo{petWeight: decimal.NewFromFloat(5), insertHit: false}
	svc, _ := NewService(repo, scholarConfig("2.00"))

	result, err := svc.RecordPetContribution(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.Created {
		t.Error("conflicting insert must report created=false")
	}
	if !result.Amount.Equal(decimal.NewFromFloat(10)) {
		t.Errorf("amount should still be reported, got %s", result.Amount)
	}
}

func TestRecordPetContributionNilIDIsValidation(t *testing.T) {
	svc, _ := NewService(&stubScholarRepo{}, scholarConfig("1.50"))

	_, err := svc.RecordPetContribution(context.Background(), uuid.Nil)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFundBalanceSubtractsOutflows(t *testing.T) {
	repo := &stubScholarRepo{
		sums: map[enums.ScholarTransactionType]decimal.Decimal{
			enums.ScholarTransactionTypePetContribution: decimal.NewFromFloat(100),
			enums.ScholarTransactionTypeDistribution:    decimal.NewFromFloat(30),
			enums.ScholarTransactionTypeExpense:         decimal.NewFromFloat(20),
		},
	}
	svc, _ := NewService(repo, scholarConfig("1.50"))

	summary, page, err := svc.Fund(context.Background(), ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if !summary.Balance.Equal(decimal.NewFromFloat(50)) {
		t.Errorf("expected balance 50, got %s", summary.Balance)
	}
	if page == nil {
		t.Fatal("expected a ledger page")
	}
}
