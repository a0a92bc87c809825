package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/internal/scholar"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
	pkgpagination "github.com/mzansigreen/office-backend/pkg/pagination"
)

// CollectionsRepository is the persistence surface the service depends on.
type CollectionsRepository interface {
	WithTx(tx *gorm.DB) CollectionsRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	Update(ctx context.Context, collection *models.Collection) error
	CreateArchive(ctx context.Context, archived *models.DeletedCollection) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts listQuery) ([]models.Collection, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// petRecorder posts the Green Scholar contribution for an approved
// collection. Failures never surface to the PATCH caller.
type petRecorder interface {
	RecordPetContribution(ctx context.Context, collectionID uuid.UUID) (*scholar.ContributionResult, error)
}

// UpdateStatusInput carries the admin PATCH fields.
type UpdateStatusInput struct {
	Status     string
	AdminNotes *string
}

// ListParams filters and pages the pickups listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult is one page of collections plus the next cursor.
type ListResult struct {
	Items  []models.Collection `json:"items"`
	Cursor string              `json:"cursor,omitempty"`
}

// Service exposes the admin collection workflow.
type Service interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Collection, error)
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID, reason string) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	db          txRunner
	repo        CollectionsRepository
	pet         petRecorder
	logg        *logger.Logger
	hookTimeout time.Duration
}

// NewService builds the collection service. pet may be nil when the Green
// Scholar hook is disabled.
func NewService(db txRunner, repo CollectionsRepository, pet petRecorder, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("collections repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:          db,
		repo:        repo,
		pet:         pet,
		logg:        logg,
		hookTimeout: 10 * time.Second,
	}, nil
}

// UpdateStatus moves a collection through the status machine. Approval fires
// the PET-contribution hook best-effort: the PATCH result never depends on it.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Collection, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection id is required")
	}
	status, err := enums.ParseCollectionStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	collection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup collection")
	}

	if collection.Status != status {
		if !collection.Status.CanTransitionTo(status) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move collection from %s to %s", collection.Status, status))
		}
		collection.Status = status
	}
	if input.AdminNotes != nil {
		collection.AdminNotes = input.AdminNotes
	}

	if err := s.repo.Update(ctx, collection); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update collection")
	}

	if status == enums.CollectionStatusApproved && s.pet != nil {
		go s.firePetHook(ctx, collection.ID)
	}

	return collection, nil
}

// firePetHook runs on its own context so the contribution survives the
// request ending, but still dies after hookTimeout.
func (s *service) firePetHook(parent context.Context, collectionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.hookTimeout)
	defer cancel()

	ctx = s.logg.WithField(ctx, "collection_id", collectionID.String())
	result, err := s.pet.RecordPetContribution(ctx, collectionID)
	if err != nil {
		s.logg.Error(ctx, "green scholar contribution hook failed", err)
		return
	}
	if result.Created {
		ctx = s.logg.WithField(ctx, "amount", result.Amount.String())
		s.logg.Info(ctx, "green scholar contribution recorded")
	}
}

// SoftDelete archives the collection and its material lines into
// deleted_transactions, then removes the source row, atomically.
func (s *service) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID, reason string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "collection id is required")
	}
	if deletedBy == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor identity missing")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		collection, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup collection")
		}

		materials, err := json.Marshal(collection.Materials)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot materials")
		}

		archived := &models.DeletedCollection{
			ID:            collection.ID,
			CustomerID:    collection.CustomerID,
			CollectorID:   collection.CollectorID,
			Status:        collection.Status,
			TotalWeightKg: collection.TotalWeightKg,
			TotalValue:    collection.TotalValue,
			AdminNotes:    collection.AdminNotes,
			Materials:     materials,
			SourceCreated: collection.CreatedAt,
			DeletedBy:     deletedBy,
			Reason:        reason,
		}
		if err := repo.CreateArchive(ctx, archived); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive collection")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collection")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{
		limit: pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Status != "" {
		status, err := enums.ParseCollectionStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.status = status
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}
