package collections

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/internal/scholar"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCollectionsRepo struct {
	collection *models.Collection
	findErr    error
	updated    *models.Collection
	updateErr  error
	archived   *models.DeletedCollection
	archiveErr error
	deleted    []uuid.UUID
	deleteErr  error
	listRows   []models.Collection
	lastQuery  listQuery
	calls      []string
}

func (s *stubCollectionsRepo) WithTx(tx *gorm.DB) CollectionsRepository { return s }

func (s *stubCollectionsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.collection == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.collection, nil
}

func (s *stubCollectionsRepo) Update(ctx context.Context, collection *models.Collection) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = collection
	return nil
}

func (s *stubCollectionsRepo) CreateArchive(ctx context.Context, archived *models.DeletedCollection) error {
	if s.archiveErr != nil {
		return s.archiveErr
	}
	s.archived = archived
	s.calls = append(s.calls, "archive")
	return nil
}

func (s *stubCollectionsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	s.calls = append(s.calls, "delete")
	return nil
}

func (s *stubCollectionsRepo) List(ctx context.Context, opts listQuery) ([]models.Collection, error) {
	s.lastQuery = opts
	return s.listRows, nil
}

type stubPetRecorder struct {
	called chan uuid.UUID
	err    error
}

func (s *stubPetRecorder) RecordPetContribution(ctx context.Context, collectionID uuid.UUID) (*scholar.ContributionResult, error) {
	if s.called != nil {
		s.called <- collectionID
	}
	if s.err != nil {
		return nil, s.err
	}
	return &scholar.ContributionResult{Created: true, Amount: decimal.NewFromFloat(12)}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func submittedCollection() *models.Collection {
	return &models.Collection{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		Status:        enums.CollectionStatusSubmitted,
		TotalWeightKg: decimal.NewFromFloat(12.5),
		TotalValue:    decimal.NewFromFloat(25),
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
		Materials: []models.CollectionMaterial{
			{ID: uuid.New(), MaterialName: "PET Bottles", WeightKg: decimal.NewFromFloat(8)},
		},
	}
}

func TestUpdateStatusApprovalFiresPetHook(t *testing.T) {
	repo := &stubCollectionsRepo{collection: submittedCollection()}
	pet := &stubPetRecorder{called: make(chan uuid.UUID, 1)}
	svc, err := NewService(stubTxRunner{}, repo, pet, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), repo.collection.ID, UpdateStatusInput{Status: "approved"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.CollectionStatusApproved {
		t.Errorf("expected approved, got %s", updated.Status)
	}

	select {
	case got := <-pet.called:
		if got != repo.collection.ID {
			t.Errorf("hook received wrong collection id: %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pet hook was not invoked")
	}
}

func TestUpdateStatusSucceedsWhenPetHookFails(t *testing.T) {
	repo := &stubCollectionsRepo{collection: submittedCollection()}
	pet := &stubPetRecorder{called: make(chan uuid.UUID, 1), err: errors.New("scholar ledger down")}
	svc, _ := NewService(stubTxRunner{}, repo, pet, testLogger())

	_, err := svc.UpdateStatus(context.Background(), repo.collection.ID, UpdateStatusInput{Status: "approved"})
	if err != nil {
		t.Fatalf("hook failure must not fail the update: %v", err)
	}
	<-pet.called
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	collection := submittedCollection()
	collection.Status = enums.CollectionStatusCompleted
	repo := &stubCollectionsRepo{collection: collection}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())

	_, err := svc.UpdateStatus(context.Background(), collection.ID, UpdateStatusInput{Status: "pending"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.updated != nil {
		t.Error("no write expected for illegal transition")
	}
}

func TestUpdateStatusUnknownValueIsValidation(t *testing.T) {
	repo := &stubCollectionsRepo{collection: submittedCollection()}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())

	_, err := svc.UpdateStatus(context.Background(), repo.collection.ID, UpdateStatusInput{Status: "vaporized"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusMissingCollectionIsNotFound(t *testing.T) {
	repo := &stubCollectionsRepo{}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), UpdateStatusInput{Status: "approved"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSoftDeleteArchivesBeforeDeleting(t *testing.T) {
	collection := submittedCollection()
	repo := &stubCollectionsRepo{collection: collection}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())
	actor := uuid.New()

	if err := svc.SoftDelete(context.Background(), collection.ID, actor, "duplicate entry"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if len(repo.calls) != 2 || repo.calls[0] != "archive" || repo.calls[1] != "delete" {
		t.Fatalf("expected archive then delete, got %v", repo.calls)
	}
	if repo.archived.ID != collection.ID {
		t.Error("archive row must keep the source id")
	}
	if repo.archived.DeletedBy != actor {
		t.Error("archive row must stamp the actor")
	}
	if repo.archived.Reason != "duplicate entry" {
		t.Errorf("unexpected reason %q", repo.archived.Reason)
	}
	if repo.archived.SourceCreated != collection.CreatedAt {
		t.Error("archive row must keep the source created_at")
	}

	var materials []models.CollectionMaterial
	if err := json.Unmarshal(repo.archived.Materials, &materials); err != nil {
		t.Fatalf("materials snapshot is not valid json: %v", err)
	}
	if len(materials) != 1 || materials[0].MaterialName != "PET Bottles" {
		t.Errorf("materials snapshot incomplete: %+v", materials)
	}
}

func TestSoftDeleteMissingCollectionIsNotFound(t *testing.T) {
	repo := &stubCollectionsRepo{}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())

	err := svc.SoftDelete(context.Background(), uuid.New(), uuid.New(), "cleanup")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Error("nothing should be deleted")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := &stubCollectionsRepo{}
	svc, _ := NewService(stubTxRunner{}, repo, nil, testLogger())

	if _, err := svc.List(context.Background(), ListParams{Status: "approved", Limit: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastQuery.status != enums.CollectionStatusApproved {
		t.Errorf("status filter not applied: %q", repo.lastQuery.status)
	}

	_, err := svc.List(context.Background(), ListParams{Status: "imaginary"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
