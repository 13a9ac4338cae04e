// Package student contains the domain model for a tracked student.
// This is the core of the record-keeping side: a student is a person we
// watch on the judge, identified locally by an internal ID and externally
// by their judge handle. No external dependencies live here.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Handle represents a student's username on the external judge.
// It is opaque to this system: we never parse it, only pass it through.
type Handle string

// IsValid checks basic handle shape. The judge enforces its own rules; this
// only rejects values that could never be a handle.
func (h Handle) IsValid() bool {
	s := string(h)
	return len(s) >= 2 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the handle.
func (h Handle) String() string {
	return string(h)
}

// Equal compares handles exactly. Judge handles are case-preserving but
// case-insensitive for lookup; a changed casing still counts as a change
// here because derived analytics are keyed on the exact string.
func (h Handle) Equal(other Handle) bool {
	return h == other
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidHandle - the judge handle has an impossible shape.
	ErrInvalidHandle = errors.New("invalid handle: must be 2-50 chars without whitespace")

	// ErrInvalidName - the display name is empty or too long.
	ErrInvalidName = errors.New("invalid name: must be 1-100 chars")

	// ErrInvalidEmail - the email address has an impossible shape.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrStudentNotFound - no student with the given key exists.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentAlreadyExists - a student with the same handle already exists.
	ErrStudentAlreadyExists = errors.New("student already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a tracked competitive-programming student.
type Student struct {
	// ID is the internal unique identifier (UUID in string form).
	ID string

	// Handle is the student's username on the judge.
	Handle Handle

	// Name is the display name kept locally (may differ from judge profile).
	Name string

	// Email is the contact address for reminders.
	Email string

	// Phone is an optional contact number.
	Phone string

	// EmailEnabled controls whether inactivity reminders are counted for
	// this student.
	EmailEnabled bool

	// ReminderCount is how many inactivity reminders have been recorded.
	ReminderCount int

	// LastSyncedAt is when the profile was last pulled from the judge.
	// Zero means never synced.
	LastSyncedAt time.Time

	// LastSyncedHandle is the handle that was in effect at the last sync.
	// When it differs from Handle, previously derived analytics are stale
	// and must be rebuilt from scratch, never merged.
	LastSyncedHandle Handle

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// NewStudentParams contains parameters for creating a new student.
type NewStudentParams struct {
	ID     string
	Handle Handle
	Name   string
	Email  string
	Phone  string
}

// NewStudent creates a new student with validation of all fields.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	if !params.Handle.IsValid() {
		return nil, ErrInvalidHandle
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if params.Email != "" && !validEmail(params.Email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()

	return &Student{
		ID:            params.ID,
		Handle:        params.Handle,
		Name:          name,
		Email:         params.Email,
		Phone:         params.Phone,
		EmailEnabled:  true,
		ReminderCount: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t\n\r")
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ChangeHandle points the record at a different judge identity.
// The sync state is cleared so the next sync rebuilds every derived value
// from the new handle's data instead of blending it with the old one's.
func (s *Student) ChangeHandle(h Handle) error {
	if !h.IsValid() {
		return ErrInvalidHandle
	}
	if s.Handle.Equal(h) {
		return nil
	}

	s.Handle = h
	s.LastSyncedAt = time.Time{}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// HandleChangedSinceSync reports whether the current handle differs from the
// one used at the last completed sync.
func (s *Student) HandleChangedSinceSync() bool {
	return s.LastSyncedHandle != "" && !s.Handle.Equal(s.LastSyncedHandle)
}

// SyncedWith records a completed sync against the current handle.
func (s *Student) SyncedWith(syncTime time.Time) {
	s.LastSyncedAt = syncTime
	s.LastSyncedHandle = s.Handle
	s.UpdatedAt = time.Now().UTC()
}

// NeverSynced reports whether the profile has ever been pulled.
func (s *Student) NeverSynced() bool {
	return s.LastSyncedAt.IsZero()
}

// RecordReminder bumps the reminder counter. Returns false when reminders
// are disabled for this student.
func (s *Student) RecordReminder() bool {
	if !s.EmailEnabled {
		return false
	}
	s.ReminderCount++
	s.UpdatedAt = time.Now().UTC()
	return true
}

// SetEmailEnabled toggles reminder counting.
func (s *Student) SetEmailEnabled(enabled bool) {
	s.EmailEnabled = enabled
	s.UpdatedAt = time.Now().UTC()
}

// Rename updates the local display name.
func (s *Student) Rename(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return ErrInvalidName
	}
	s.Name = name
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String returns a string representation of the student for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Handle: %s, Reminders: %d}", s.ID, s.Handle, s.ReminderCount)
}

// Clone creates a shallow copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
