package command

import (
	"context"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// INACTIVITY CHECK COMMAND
// Records reminders for students whose last judge activity is too old.
// ══════════════════════════════════════════════════════════════════════════════

// CheckInactivityCommand scans tracked students for inactivity.
type CheckInactivityCommand struct {
	// Threshold is how long without activity counts as inactive.
	Threshold time.Duration
}

// InactiveStudent is one student flagged by the check.
type InactiveStudent struct {
	StudentID      string
	Handle         student.Handle
	LastActivityAt *time.Time
	ReminderCount  int
}

// CheckInactivityResult summarizes an inactivity scan.
type CheckInactivityResult struct {
	Checked  int
	Inactive []InactiveStudent
}

// CheckInactivityHandler handles the CheckInactivityCommand.
type CheckInactivityHandler struct {
	studentRepo student.Repository
	profiles    ProfileStore
	log         *logger.Logger
	now         func() time.Time
}

// NewCheckInactivityHandler creates a new CheckInactivityHandler.
func NewCheckInactivityHandler(studentRepo student.Repository, profiles ProfileStore, log *logger.Logger) *CheckInactivityHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CheckInactivityHandler{
		studentRepo: studentRepo,
		profiles:    profiles,
		log:         log,
		now:         time.Now,
	}
}

// Handle scans students with reminders enabled and records a reminder for
// each one whose last activity is older than the threshold. Students who
// have never synced are skipped; there is nothing to judge them by yet.
func (h *CheckInactivityHandler) Handle(ctx context.Context, cmd CheckInactivityCommand) (*CheckInactivityResult, error) {
	students, err := h.studentRepo.GetAll(ctx, student.ListOptions{OnlyEmailEnabled: true})
	if err != nil {
		return nil, err
	}

	cutoff := h.now().Add(-cmd.Threshold)
	result := &CheckInactivityResult{Checked: len(students)}

	for _, st := range students {
		if st.NeverSynced() {
			continue
		}

		analytics, err := h.profiles.Get(ctx, st.ID)
		if err != nil {
			h.log.Warn("no analytics for synced student during inactivity check",
				logger.StudentID(st.ID), logger.Err(err))
			continue
		}

		active := analytics.LastActivityAt != nil && analytics.LastActivityAt.After(cutoff)
		if active {
			continue
		}

		if !st.RecordReminder() {
			continue
		}
		if err := h.studentRepo.Update(ctx, st); err != nil {
			h.log.Error("failed to record reminder", logger.StudentID(st.ID), logger.Err(err))
			continue
		}

		result.Inactive = append(result.Inactive, InactiveStudent{
			StudentID:      st.ID,
			Handle:         st.Handle,
			LastActivityAt: analytics.LastActivityAt,
			ReminderCount:  st.ReminderCount,
		})
	}

	if len(result.Inactive) > 0 {
		h.log.Info("inactivity check flagged students",
			logger.Int("checked", result.Checked),
			logger.Int("inactive", len(result.Inactive)))
	}

	return result, nil
}
