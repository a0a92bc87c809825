package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/mzansigreen/office-backend/pkg/logger"
)

// timeoutMessage is the body-level error the dashboard shows when the whole
// snapshot misses its deadline. The response status stays 200.
const timeoutMessage = "Query timeout"

// AnalyticsRepository is the aggregate-query surface the service depends on.
type AnalyticsRepository interface {
	UserCounts(ctx context.Context) ([]UserStat, error)
	CollectionStats(ctx context.Context) ([]CollectionStat, error)
	WithdrawalStats(ctx context.Context) ([]WithdrawalStat, error)
	FundStats(ctx context.Context) (*FundStat, error)
}

// Snapshot is the dashboard payload. Failed slices degrade to their zero
// value instead of failing the whole response.
type Snapshot struct {
	Users       []UserStat       `json:"users"`
	Collections []CollectionStat `json:"collections"`
	Withdrawals []WithdrawalStat `json:"withdrawals"`
	ScholarFund *FundStat        `json:"scholar_fund,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Error       string           `json:"error,omitempty"`
}

// Service produces the admin dashboard snapshot.
type Service interface {
	Snapshot(ctx context.Context) *Snapshot
}

type service struct {
	repo    AnalyticsRepository
	logg    *logger.Logger
	timeout time.Duration
}

// NewService builds the analytics service with the configured query deadline.
func NewService(repo AnalyticsRepository, logg *logger.Logger, timeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &service{repo: repo, logg: logg, timeout: timeout}, nil
}

// emptySnapshot carries non-nil listing slices so degraded or timed-out
// payloads marshal them as empty arrays, never null.
func emptySnapshot(generatedAt time.Time) *Snapshot {
	return &Snapshot{
		Users:       []UserStat{},
		Collections: []CollectionStat{},
		Withdrawals: []WithdrawalStat{},
		GeneratedAt: generatedAt,
	}
}

// Snapshot fans the aggregate queries out concurrently. Each query failure
// degrades only its own slice; missing the global deadline degrades the whole
// payload to the timeout shape. Snapshot never returns an error.
func (s *service) Snapshot(ctx context.Context) *Snapshot {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	generatedAt := time.Now().UTC()
	snap := emptySnapshot(generatedAt)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(queryCtx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	run("user counts", func(ctx context.Context) error {
		rows, err := s.repo.UserCounts(ctx)
		if err != nil {
			return err
		}
		if rows != nil {
			snap.Users = rows
		}
		return nil
	})
	run("collection stats", func(ctx context.Context) error {
		rows, err := s.repo.CollectionStats(ctx)
		if err != nil {
			return err
		}
		if rows != nil {
			snap.Collections = rows
		}
		return nil
	})
	run("withdrawal stats", func(ctx context.Context) error {
		rows, err := s.repo.WithdrawalStats(ctx)
		if err != nil {
			return err
		}
		if rows != nil {
			snap.Withdrawals = rows
		}
		return nil
	})
	run("fund stats", func(ctx context.Context) error {
		fund, err := s.repo.FundStats(ctx)
		if err != nil {
			return err
		}
		snap.ScholarFund = fund
		return nil
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-queryCtx.Done():
		s.logg.Warn(ctx, "analytics snapshot timed out")
		timedOut := emptySnapshot(generatedAt)
		timedOut.Error = timeoutMessage
		return timedOut
	}

	if combined := multierr.Combine(errs...); combined != nil {
		s.logg.Error(ctx, "analytics snapshot partially degraded", combined)
	}
	return snap
}
