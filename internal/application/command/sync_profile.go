// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the system.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC PROFILE COMMAND
// Pulls a student's data from the judge and rebuilds their analytics.
// This is the core command; everything the dashboards show derives from it.
// ══════════════════════════════════════════════════════════════════════════════

// SyncProfileCommand contains the data needed to sync one student.
type SyncProfileCommand struct {
	// StudentID is the internal ID of the student to sync.
	// If empty, Handle must be provided.
	StudentID string

	// Handle syncs by judge handle instead of internal ID.
	Handle student.Handle
}

// Validate validates the command.
func (c SyncProfileCommand) Validate() error {
	if c.StudentID == "" && c.Handle == "" {
		return errors.New("sync_profile: either student_id or handle must be provided")
	}
	return nil
}

// SyncProfileResult contains the result of a sync.
type SyncProfileResult struct {
	// StudentID is the internal ID of the synced student.
	StudentID string

	// Handle is the judge handle that was synced.
	Handle student.Handle

	// Analytics is the freshly derived profile.
	Analytics *profile.Analytics

	// RatingHistoryDegraded is true when the rating-history fetch failed
	// and the profile was built with an empty contest history.
	RatingHistoryDegraded bool

	// FullReplace is true when the handle changed since the last sync and
	// the previous analytics were discarded rather than updated.
	FullReplace bool

	// SyncedAt is when the sync completed.
	SyncedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// SYNC ERROR
// ══════════════════════════════════════════════════════════════════════════════

// Sync stages, used to tell which fetch or store step failed.
const (
	StageUserInfo      = "user_info"
	StageSubmissions   = "submissions"
	StageRatingHistory = "rating_history"
	StagePersist       = "persist"
)

// SyncError wraps a failure during a sync with the handle and stage where
// it happened. Bulk syncs report these per student instead of aborting.
type SyncError struct {
	Handle student.Handle
	Stage  string
	Err    error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %s: %v", e.Handle, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES (Interfaces)
// ══════════════════════════════════════════════════════════════════════════════

// JudgeClient defines the judge API surface the sync needs.
type JudgeClient interface {
	// UserInfo fetches a user's public profile.
	UserInfo(ctx context.Context, handle string) (*profile.UserInfo, error)

	// UserSubmissions fetches a user's submission history.
	UserSubmissions(ctx context.Context, handle string, from, count int) ([]profile.Submission, error)

	// UserRatingHistory fetches a user's contest rating changes.
	UserRatingHistory(ctx context.Context, handle string) ([]profile.ContestResult, error)
}

// ProfileStore persists derived analytics keyed by student ID.
type ProfileStore interface {
	// Save stores the analytics for a student, replacing any previous
	// snapshot for that student.
	Save(ctx context.Context, studentID string, a *profile.Analytics) error

	// Get retrieves the stored analytics for a student.
	// Returns profile-store specific not-found errors as-is.
	Get(ctx context.Context, studentID string) (*profile.Analytics, error)

	// Delete removes the stored analytics for a student.
	Delete(ctx context.Context, studentID string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SyncProfileHandler handles the SyncProfileCommand.
type SyncProfileHandler struct {
	studentRepo student.Repository
	profiles    ProfileStore
	judge       JudgeClient
	analyzer    *profile.ActivityAnalyzer
	log         *logger.Logger

	// Configuration
	submissionCount int
	location        *time.Location
}

// SyncProfileHandlerConfig contains configuration for the handler.
type SyncProfileHandlerConfig struct {
	// SubmissionFetchCount caps how many submissions are pulled per sync.
	SubmissionFetchCount int

	// Location sets the day boundary for streak and monthly grouping.
	Location *time.Location
}

// DefaultSyncProfileHandlerConfig returns default configuration.
func DefaultSyncProfileHandlerConfig() SyncProfileHandlerConfig {
	return SyncProfileHandlerConfig{
		SubmissionFetchCount: 10000,
		Location:             time.Local,
	}
}

// NewSyncProfileHandler creates a new SyncProfileHandler.
func NewSyncProfileHandler(
	studentRepo student.Repository,
	profiles ProfileStore,
	judge JudgeClient,
	log *logger.Logger,
	config SyncProfileHandlerConfig,
) *SyncProfileHandler {
	if config.SubmissionFetchCount <= 0 {
		config.SubmissionFetchCount = DefaultSyncProfileHandlerConfig().SubmissionFetchCount
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if log == nil {
		log = logger.Default()
	}

	return &SyncProfileHandler{
		studentRepo:     studentRepo,
		profiles:        profiles,
		judge:           judge,
		analyzer:        profile.NewActivityAnalyzer(config.Location),
		log:             log,
		submissionCount: config.SubmissionFetchCount,
		location:        config.Location,
	}
}

// Handle executes the sync.
//
// Three fetches run in sequence through the shared rate-limited client:
// user.info and user.status are required, user.rating is optional. When
// the rating fetch fails the profile is built with an empty contest
// history instead of failing the whole sync; unrated users simply have no
// rating history and the judge sometimes reports that as an error.
func (h *SyncProfileHandler) Handle(ctx context.Context, cmd SyncProfileCommand) (*SyncProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	st, err := h.findStudent(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("sync_profile: find student: %w", err)
	}

	handle := st.Handle.String()
	log := h.log.With(logger.StudentID(st.ID), logger.Handle(handle))

	info, err := h.judge.UserInfo(ctx, handle)
	if err != nil {
		return nil, &SyncError{Handle: st.Handle, Stage: StageUserInfo, Err: err}
	}

	subs, err := h.judge.UserSubmissions(ctx, handle, 1, h.submissionCount)
	if err != nil {
		return nil, &SyncError{Handle: st.Handle, Stage: StageSubmissions, Err: err}
	}

	degraded := false
	history, err := h.judge.UserRatingHistory(ctx, handle)
	if err != nil {
		log.Warn("rating history unavailable, continuing with empty history", logger.Err(err))
		history = nil
		degraded = true
	}

	now := time.Now()
	analytics := h.buildAnalytics(handle, info, subs, history, now)

	fullReplace := st.HandleChangedSinceSync()
	if fullReplace {
		// The old handle's analytics describe a different judge identity.
		// Drop them before saving so nothing of the old data survives.
		if err := h.profiles.Delete(ctx, st.ID); err != nil {
			log.Warn("failed to drop stale analytics before replace", logger.Err(err))
		}
	}

	if err := h.profiles.Save(ctx, st.ID, analytics); err != nil {
		return nil, &SyncError{Handle: st.Handle, Stage: StagePersist, Err: err}
	}

	st.SyncedWith(now)
	if err := h.studentRepo.Update(ctx, st); err != nil {
		return nil, &SyncError{Handle: st.Handle, Stage: StagePersist, Err: err}
	}

	log.Info("profile synced",
		logger.SolvedCount(analytics.SolvedCount),
		logger.RatingValue(analytics.RatingStats.Current),
		logger.Bool("degraded", degraded))

	return &SyncProfileResult{
		StudentID:             st.ID,
		Handle:                st.Handle,
		Analytics:             analytics,
		RatingHistoryDegraded: degraded,
		FullReplace:           fullReplace,
		SyncedAt:              now,
	}, nil
}

// findStudent finds the student by ID or handle.
func (h *SyncProfileHandler) findStudent(ctx context.Context, cmd SyncProfileCommand) (*student.Student, error) {
	if cmd.StudentID != "" {
		return h.studentRepo.GetByID(ctx, cmd.StudentID)
	}
	return h.studentRepo.GetByHandle(ctx, cmd.Handle)
}

// buildAnalytics derives the full analytics record from raw judge data.
// Pure except for the streak clock inside the analyzer.
func (h *SyncProfileHandler) buildAnalytics(
	handle string,
	info *profile.UserInfo,
	subs []profile.Submission,
	history []profile.ContestResult,
	now time.Time,
) *profile.Analytics {
	solved := profile.UniqueSolvedProblems(subs)
	activity := h.analyzer.Analyze(subs)

	return &profile.Analytics{
		Handle:         handle,
		User:           *info,
		SolvedProblems: solved,
		SolvedCount:    len(solved),
		AverageRating:  profile.AverageRating(solved),
		RatingHistory:  history,
		RatingStats:    profile.SummarizeRatings(history),
		Distribution:   profile.RatingDistribution(solved),
		TopTags:        profile.TagDistribution(solved),
		Monthly:        profile.MonthlySolvedBreakdown(solved, h.location),
		CurrentStreak:  activity.CurrentStreak,
		LongestStreak:  activity.LongestStreak,
		LastActivityAt: activity.LastActivityAt,
		SyncedAt:       now,
	}
}
