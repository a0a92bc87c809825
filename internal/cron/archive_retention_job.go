package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/logger"
)

const archiveRetentionDays = 365

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ArchiveRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository archiveRetentionRepo
	Retention  int
}

type archiveRetentionRepo interface {
	PurgeArchiveBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NewArchiveRetentionJob builds the job that purges soft-deleted collection
// snapshots older than the retention window.
func NewArchiveRetentionJob(params ArchiveRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("collections repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = archiveRetentionDays
	}
	return &archiveRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type archiveRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      archiveRetentionRepo
	retention int
	now       func() time.Time
}

func (j *archiveRetentionJob) Name() string { return "archive-retention" }

func (j *archiveRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var purged int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.PurgeArchiveBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		purged = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive retention: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_purged":    purged,
	})
	j.logg.Info(logCtx, "archive retention complete")
	return nil
}
