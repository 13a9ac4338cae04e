package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// ListOptions controls listing of students.
type ListOptions struct {
	// Limit is the maximum number of students to return (0 = no limit).
	Limit int

	// Offset skips the first N students.
	Offset int

	// OnlyEmailEnabled restricts the list to students with reminders on.
	OnlyEmailEnabled bool
}

// Repository defines the persistence interface for students.
// Implementations live in the infrastructure layer.
type Repository interface {
	// Create persists a new student.
	// Returns ErrStudentAlreadyExists if a student with the same handle exists.
	Create(ctx context.Context, s *Student) error

	// GetByID retrieves a student by internal ID.
	// Returns ErrStudentNotFound if no such student exists.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByHandle retrieves a student by judge handle.
	// Returns ErrStudentNotFound if no such student exists.
	GetByHandle(ctx context.Context, handle Handle) (*Student, error)

	// Update persists changes to an existing student.
	// Returns ErrStudentNotFound if the student does not exist.
	Update(ctx context.Context, s *Student) error

	// Delete removes a student and all derived data.
	// Returns ErrStudentNotFound if the student does not exist.
	Delete(ctx context.Context, id string) error

	// GetAll retrieves students according to the options.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// Count returns the total number of students.
	Count(ctx context.Context) (int, error)

	// ExistsByHandle checks whether a student with the handle exists.
	ExistsByHandle(ctx context.Context, handle Handle) (bool, error)
}
