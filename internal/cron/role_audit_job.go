package cron

import (
	"context"
	"fmt"

	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/metrics"
)

type RoleAuditJobParams struct {
	Logger     *logger.Logger
	Repository roleDriftRepo
	Metrics    *metrics.CronJobMetrics
}

type roleDriftRepo interface {
	CountRoleDrift(ctx context.Context) (int64, error)
}

// NewRoleAuditJob builds the job that counts users whose role column
// disagrees with their roles catalog row. The job is read-only: every write
// path updates both columns in one transaction, so drift can only mean a bug
// or a hand-edited row, and the audit is there to prove the count stays zero.
func NewRoleAuditJob(params RoleAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &roleAuditJob{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
	}, nil
}

type roleAuditJob struct {
	logg    *logger.Logger
	repo    roleDriftRepo
	metrics *metrics.CronJobMetrics
}

func (j *roleAuditJob) Name() string { return "role-audit" }

func (j *roleAuditJob) Run(ctx context.Context) error {
	drifted, err := j.repo.CountRoleDrift(ctx)
	if err != nil {
		return fmt.Errorf("role audit: %w", err)
	}

	j.metrics.SetRoleDrift(drifted)

	logCtx := j.logg.WithField(ctx, "drifted_users", drifted)
	if drifted > 0 {
		j.logg.Warn(logCtx, "role drift detected between role column and roles catalog")
		return nil
	}
	j.logg.Info(logCtx, "role audit clean")
	return nil
}
