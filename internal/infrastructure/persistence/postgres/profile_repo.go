package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SNAPSHOT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ErrSnapshotNotFound is returned when a student has no stored analytics.
var ErrSnapshotNotFound = errors.New("postgres: profile snapshot not found")

// ProfileRepository stores derived analytics as one JSONB snapshot per
// student. Implements the command layer's ProfileStore.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Save upserts the snapshot for a student. The previous snapshot is fully
// replaced; analytics are rebuilt wholesale on each sync, never merged.
func (r *ProfileRepository) Save(ctx context.Context, studentID string, a *profile.Analytics) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}

	query := `
		INSERT INTO profile_snapshots (student_id, handle, analytics, synced_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			analytics = EXCLUDED.analytics,
			synced_at = EXCLUDED.synced_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.conn.Exec(ctx, query, studentID, a.Handle, payload, a.SyncedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save profile snapshot: %w", err)
	}
	return nil
}

// Get retrieves the snapshot for a student.
func (r *ProfileRepository) Get(ctx context.Context, studentID string) (*profile.Analytics, error) {
	var payload []byte
	err := r.conn.QueryRow(ctx,
		`SELECT analytics FROM profile_snapshots WHERE student_id = $1`,
		studentID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get profile snapshot: %w", err)
	}

	var a profile.Analytics
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("unmarshal analytics: %w", err)
	}
	return &a, nil
}

// Delete removes the snapshot for a student. Deleting a missing snapshot
// is not an error; the caller only cares that nothing remains.
func (r *ProfileRepository) Delete(ctx context.Context, studentID string) error {
	_, err := r.conn.Exec(ctx,
		`DELETE FROM profile_snapshots WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("delete profile snapshot: %w", err)
	}
	return nil
}

// StaleBefore lists student IDs whose snapshots were synced before the
// cutoff, oldest first. The worker uses this to prioritize re-syncs.
func (r *ProfileRepository) StaleBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	query := `
		SELECT student_id FROM profile_snapshots
		WHERE synced_at < $1
		ORDER BY synced_at
	`
	args := []any{cutoff}
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $2`
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale snapshots: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
