package query

import (
	"context"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Reads a student together with their stored analytics.
// ══════════════════════════════════════════════════════════════════════════════

// AnalyticsReader is the read side of the profile store.
type AnalyticsReader interface {
	Get(ctx context.Context, studentID string) (*profile.Analytics, error)
}

// StudentProfileView is the combined read model for one student.
type StudentProfileView struct {
	Student   *student.Student
	Analytics *profile.Analytics

	// HasAnalytics is false when the student has never been synced.
	HasAnalytics bool

	// SolvedLast7Days and SolvedLast30Days are trailing-window solve
	// counts derived at read time.
	SolvedLast7Days  int
	SolvedLast30Days int

	// Tags holds every distinct tag across solves, for filter dropdowns.
	Tags []string
}

// GetProfileHandler serves the student profile read model.
type GetProfileHandler struct {
	studentRepo student.Repository
	analytics   AnalyticsReader
	now         func() time.Time
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(studentRepo student.Repository, analytics AnalyticsReader) *GetProfileHandler {
	return &GetProfileHandler{
		studentRepo: studentRepo,
		analytics:   analytics,
		now:         time.Now,
	}
}

// Handle loads the student and, when present, their analytics. A student
// without stored analytics is not an error; the view just reports nothing
// to show yet.
func (h *GetProfileHandler) Handle(ctx context.Context, studentID string) (*StudentProfileView, error) {
	st, err := h.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	view := &StudentProfileView{Student: st}

	analytics, err := h.analytics.Get(ctx, st.ID)
	if err != nil {
		return view, nil
	}

	now := h.now()
	view.Analytics = analytics
	view.HasAnalytics = true
	view.SolvedLast7Days = profile.SolvedInPeriod(analytics.SolvedProblems, 7, now)
	view.SolvedLast30Days = profile.SolvedInPeriod(analytics.SolvedProblems, 30, now)
	view.Tags = profile.AllTags(analytics.SolvedProblems)

	return view, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// StudentSummary is one row of the student overview.
type StudentSummary struct {
	Student       *student.Student
	CurrentRating int
	SolvedCount   int
	CurrentStreak int
}

// ListStudentsHandler serves the student overview.
type ListStudentsHandler struct {
	studentRepo student.Repository
	analytics   AnalyticsReader
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(studentRepo student.Repository, analytics AnalyticsReader) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo, analytics: analytics}
}

// Handle lists students with headline numbers pulled from their stored
// analytics. Students without analytics show zeros.
func (h *ListStudentsHandler) Handle(ctx context.Context, opts student.ListOptions) ([]StudentSummary, error) {
	students, err := h.studentRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	summaries := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		summary := StudentSummary{Student: st}
		if a, err := h.analytics.Get(ctx, st.ID); err == nil {
			summary.CurrentRating = a.RatingStats.Current
			summary.SolvedCount = a.SolvedCount
			summary.CurrentStreak = a.CurrentStreak
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
