package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fakeArchiveRepo struct {
	lastCutoff time.Time
	purgedRows int64
	err        error
	called     int
}

func (f *fakeArchiveRepo) PurgeArchiveBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.purgedRows, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestArchiveRetentionJobPurgesOldRows(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeArchiveRepo{purgedRows: 17}
	jobIface, err := NewArchiveRetentionJob(ArchiveRetentionJobParams{
		Logger:     cronTestLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewArchiveRetentionJob: %v", err)
	}
	job := jobIface.(*archiveRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expected := now.UTC().Add(-archiveRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestArchiveRetentionJobHonorsConfiguredRetention(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeArchiveRepo{}
	jobIface, _ := NewArchiveRetentionJob(ArchiveRetentionJobParams{
		Logger:     cronTestLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
		Retention:  30,
	})
	job := jobIface.(*archiveRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.UTC().Add(-30 * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
}

func TestArchiveRetentionJobPropagatesErrors(t *testing.T) {
	repo := &fakeArchiveRepo{err: errors.New("boom")}
	jobIface, _ := NewArchiveRetentionJob(ArchiveRetentionJobParams{
		Logger:     cronTestLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
	})

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
