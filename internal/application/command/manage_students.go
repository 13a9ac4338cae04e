package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT MANAGEMENT COMMANDS
// Register, update and remove tracked students.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand adds a new student to track.
type RegisterStudentCommand struct {
	Handle student.Handle
	Name   string
	Email  string
	Phone  string
}

// UpdateStudentCommand changes a tracked student's details. Zero-valued
// fields are left untouched; EmailEnabled is applied only when set.
type UpdateStudentCommand struct {
	StudentID    string
	Handle       student.Handle
	Name         string
	Email        string
	Phone        string
	EmailEnabled *bool
}

// RemoveStudentCommand deletes a student and their analytics.
type RemoveStudentCommand struct {
	StudentID string
}

// StudentManager handles the student management commands.
type StudentManager struct {
	studentRepo student.Repository
	profiles    ProfileStore
	log         *logger.Logger
}

// NewStudentManager creates a new StudentManager.
func NewStudentManager(studentRepo student.Repository, profiles ProfileStore, log *logger.Logger) *StudentManager {
	if log == nil {
		log = logger.Default()
	}
	return &StudentManager{
		studentRepo: studentRepo,
		profiles:    profiles,
		log:         log,
	}
}

// Register creates a new tracked student.
func (m *StudentManager) Register(ctx context.Context, cmd RegisterStudentCommand) (*student.Student, error) {
	exists, err := m.studentRepo.ExistsByHandle(ctx, cmd.Handle)
	if err != nil {
		return nil, fmt.Errorf("register: check handle: %w", err)
	}
	if exists {
		return nil, student.ErrStudentAlreadyExists
	}

	st, err := student.NewStudent(student.NewStudentParams{
		ID:     uuid.NewString(),
		Handle: cmd.Handle,
		Name:   cmd.Name,
		Email:  cmd.Email,
		Phone:  cmd.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := m.studentRepo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	m.log.Info("student registered", logger.StudentID(st.ID), logger.Handle(st.Handle.String()))
	return st, nil
}

// Update applies changes to a tracked student. A handle change clears the
// sync state so the next sync rebuilds analytics from the new identity.
func (m *StudentManager) Update(ctx context.Context, cmd UpdateStudentCommand) (*student.Student, error) {
	if cmd.StudentID == "" {
		return nil, errors.New("update: student_id is required")
	}

	st, err := m.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if cmd.Handle != "" && !st.Handle.Equal(cmd.Handle) {
		taken, err := m.studentRepo.ExistsByHandle(ctx, cmd.Handle)
		if err != nil {
			return nil, fmt.Errorf("update: check handle: %w", err)
		}
		if taken {
			return nil, student.ErrStudentAlreadyExists
		}
		if err := st.ChangeHandle(cmd.Handle); err != nil {
			return nil, err
		}
	}

	if cmd.Name != "" {
		if err := st.Rename(cmd.Name); err != nil {
			return nil, err
		}
	}
	if cmd.Email != "" {
		st.Email = cmd.Email
	}
	if cmd.Phone != "" {
		st.Phone = cmd.Phone
	}
	if cmd.EmailEnabled != nil {
		st.SetEmailEnabled(*cmd.EmailEnabled)
	}

	if err := m.studentRepo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return st, nil
}

// Remove deletes a student and drops their stored analytics.
func (m *StudentManager) Remove(ctx context.Context, cmd RemoveStudentCommand) error {
	if cmd.StudentID == "" {
		return errors.New("remove: student_id is required")
	}

	if err := m.profiles.Delete(ctx, cmd.StudentID); err != nil {
		m.log.Warn("failed to drop analytics for removed student",
			logger.StudentID(cmd.StudentID), logger.Err(err))
	}

	if err := m.studentRepo.Delete(ctx, cmd.StudentID); err != nil {
		return err
	}

	m.log.Info("student removed", logger.StudentID(cmd.StudentID))
	return nil
}
