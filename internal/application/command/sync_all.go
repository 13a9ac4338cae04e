package command

import (
	"context"
	"sync"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC ALL STUDENTS COMMAND
// Bulk variant of profile sync, used by the periodic worker.
// ══════════════════════════════════════════════════════════════════════════════

// SyncAllCommand triggers a sync of every tracked student.
type SyncAllCommand struct {
	// Concurrency caps how many students sync in parallel. The shared
	// API client still paces individual requests; concurrency only
	// overlaps the non-network work. Defaults to 1.
	Concurrency int
}

// SyncAllResult summarizes a bulk sync run.
type SyncAllResult struct {
	// Total is how many students were attempted.
	Total int

	// Succeeded is how many synced cleanly.
	Succeeded int

	// Degraded is how many synced with an empty rating history.
	Degraded int

	// Failures holds one SyncError per student that failed.
	Failures []*SyncError

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// SyncAllHandler handles the SyncAllCommand by fanning out to the
// per-student handler.
type SyncAllHandler struct {
	studentRepo student.Repository
	syncOne     *SyncProfileHandler
	log         *logger.Logger
}

// NewSyncAllHandler creates a new SyncAllHandler.
func NewSyncAllHandler(studentRepo student.Repository, syncOne *SyncProfileHandler, log *logger.Logger) *SyncAllHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SyncAllHandler{
		studentRepo: studentRepo,
		syncOne:     syncOne,
		log:         log,
	}
}

// Handle syncs every student, collecting per-student failures instead of
// stopping at the first one. A cancelled context stops scheduling new
// students but lets in-flight syncs finish.
func (h *SyncAllHandler) Handle(ctx context.Context, cmd SyncAllCommand) (*SyncAllResult, error) {
	start := time.Now()

	students, err := h.studentRepo.GetAll(ctx, student.ListOptions{})
	if err != nil {
		return nil, err
	}

	concurrency := cmd.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, concurrency)
		result = &SyncAllResult{Total: len(students)}
	)

	for _, st := range students {
		if ctx.Err() != nil {
			mu.Lock()
			result.Failures = append(result.Failures, &SyncError{
				Handle: st.Handle,
				Stage:  StageUserInfo,
				Err:    ctx.Err(),
			})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(st *student.Student) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := h.syncOne.Handle(ctx, SyncProfileCommand{StudentID: st.ID})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if syncErr, ok := err.(*SyncError); ok {
					result.Failures = append(result.Failures, syncErr)
				} else {
					result.Failures = append(result.Failures, &SyncError{
						Handle: st.Handle,
						Stage:  StageUserInfo,
						Err:    err,
					})
				}
				return
			}
			result.Succeeded++
			if res.RatingHistoryDegraded {
				result.Degraded++
			}
		}(st)
	}

	wg.Wait()
	result.Elapsed = time.Since(start)

	h.log.Info("bulk sync finished",
		logger.Int("total", result.Total),
		logger.Int("succeeded", result.Succeeded),
		logger.Int("degraded", result.Degraded),
		logger.Int("failed", len(result.Failures)),
		logger.Duration("elapsed", result.Elapsed))

	return result, nil
}
