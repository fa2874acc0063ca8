// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
	"github.com/ericfisherdev/releasedash/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// recordKey identifies a release within one ingestion run.
type recordKey struct {
	repo string
	tag  string
}

// IngestService orchestrates periodic release harvesting: it fetches every
// configured repository in sequence, flattens the results into one record
// set, and replaces the persisted set wholesale. Repositories are fetched
// sequentially rather than concurrently so the per-page pacing of the
// release client stays predictable across the whole run.
type IngestService struct {
	client   driven.ReleaseClient
	store    driven.RecordStore
	repos    []model.Repository
	interval time.Duration

	refreshCh chan refreshRequest
	running   atomic.Bool

	mu     sync.Mutex
	latest *model.RunReport
}

// NewIngestService creates a new IngestService with all required dependencies.
func NewIngestService(
	client driven.ReleaseClient,
	store driven.RecordStore,
	repos []model.Repository,
	interval time.Duration,
) *IngestService {
	return &IngestService{
		client:    client,
		store:     store,
		repos:     repos,
		interval:  interval,
		refreshCh: make(chan refreshRequest),
	}
}

// Start begins the ingestion loop. It runs an immediate ingestion, then runs
// on the configured interval. It also listens for manual refresh requests.
// Start blocks until the context is canceled.
func (s *IngestService) Start(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ingest service stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		case req := <-s.refreshCh:
			s.RunOnce(ctx)
			req.done <- nil
		}
	}
}

// Refresh triggers a full ingestion run outside the periodic schedule. It
// blocks until the run completes or the context is canceled.
func (s *IngestService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- refreshRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether an ingestion run is executing right now.
func (s *IngestService) Running() bool {
	return s.running.Load()
}

// LastReport returns the report of the most recent run, or nil before the
// first run has completed.
func (s *IngestService) LastReport() *model.RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// RunOnce executes one complete ingestion run: fetch all configured
// repositories, flatten and dedupe their records, and replace the persisted
// set -- even when the run produced zero records. A failing repository
// contributes zero records and a reason to the report but never aborts the
// run. Returns nil without doing any work when another run is already in
// progress.
func (s *IngestService) RunOnce(ctx context.Context) *model.RunReport {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("ingestion run already in progress, skipping trigger")
		return nil
	}
	defer s.running.Store(false)

	report := &model.RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   make([]model.RepoResult, 0, len(s.repos)),
	}

	var all []model.ReleaseRecord
	seen := make(map[recordKey]bool)

	for _, repo := range s.repos {
		if ctx.Err() != nil {
			break
		}

		records, err := s.client.FetchReleases(ctx, repo.FullName)
		if err != nil {
			slog.Error("release fetch failed", "run_id", report.ID, "repo", repo.FullName, "error", err)
			report.Results = append(report.Results, model.RepoResult{
				Repository: repo.FullName,
				Err:        err.Error(),
			})
			continue
		}

		// Records are unique by (repository, tag) within one run; pages can
		// shift under us mid-fetch, so keep the first occurrence only.
		var kept int
		for _, rec := range records {
			key := recordKey{repo: rec.Repository, tag: rec.TagName}
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, rec)
			kept++
		}

		report.Results = append(report.Results, model.RepoResult{
			Repository: repo.FullName,
			Records:    kept,
		})
	}

	report.Total = len(all)

	if ctx.Err() != nil {
		slog.Info("ingestion run canceled before write", "run_id", report.ID)
	} else if err := s.store.WriteAll(ctx, all); err != nil {
		// Previous persisted content stays intact; the next tick retries.
		slog.Error("record write failed", "run_id", report.ID, "error", err)
	} else {
		report.Written = true
	}

	report.Duration = time.Since(report.StartedAt)

	slog.Info("ingestion run complete",
		"run_id", report.ID,
		"repos", len(s.repos),
		"failures", report.Failures(),
		"records", report.Total,
		"written", report.Written,
		"duration", report.Duration.Round(time.Millisecond),
	)

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	return report
}
