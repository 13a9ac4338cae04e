// Package postgres implements the PostgreSQL persistence layer for
// CF Progress Hub.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, handle, name, email, phone, email_enabled,
	reminder_count, last_synced_at, last_synced_handle, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, handle, name, email, phone, email_enabled,
			reminder_count, last_synced_at, last_synced_handle, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Handle.String(),
		s.Name,
		s.Email,
		s.Phone,
		s.EmailEnabled,
		s.ReminderCount,
		nullableTime(s.LastSyncedAt),
		s.LastSyncedHandle.String(),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrStudentAlreadyExists
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.conn.QueryRow(ctx, query, id))
}

// GetByHandle returns a student by judge handle.
func (r *StudentRepository) GetByHandle(ctx context.Context, handle student.Handle) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE handle = $1`
	return r.scanStudent(r.conn.QueryRow(ctx, query, handle.String()))
}

// Update updates a student.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			handle = $1,
			name = $2,
			email = $3,
			phone = $4,
			email_enabled = $5,
			reminder_count = $6,
			last_synced_at = $7,
			last_synced_handle = $8,
			updated_at = $9
		WHERE id = $10
	`

	tag, err := r.conn.Exec(ctx, query,
		s.Handle.String(),
		s.Name,
		s.Email,
		s.Phone,
		s.EmailEnabled,
		s.ReminderCount,
		nullableTime(s.LastSyncedAt),
		s.LastSyncedHandle.String(),
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrStudentAlreadyExists
		}
		return fmt.Errorf("update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student. The profile snapshot goes with it via the
// foreign key cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

// GetAll returns students according to the list options, ordered by name.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := make([]any, 0, 2)

	if opts.OnlyEmailEnabled {
		query += ` WHERE email_enabled = TRUE`
	}
	query += ` ORDER BY name, handle`

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// ExistsByHandle checks whether a student with the handle exists.
func (r *StudentRepository) ExistsByHandle(ctx context.Context, handle student.Handle) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE handle = $1)`,
		handle.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check handle: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s            student.Student
		handle       string
		syncedHandle string
		lastSynced   *time.Time
	)

	err := row.Scan(
		&s.ID,
		&handle,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.EmailEnabled,
		&s.ReminderCount,
		&lastSynced,
		&syncedHandle,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}

	s.Handle = student.Handle(handle)
	s.LastSyncedHandle = student.Handle(syncedHandle)
	if lastSynced != nil {
		s.LastSyncedAt = *lastSynced
	}
	return &s, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
