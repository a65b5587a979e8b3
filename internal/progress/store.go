package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/playdeck/internal/db"
)

// Store persists completions and badges per learner.
type Store struct {
	db *db.DB
}

// NewStore creates a new progress store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// AddCompletion records that learner completed an activity. It reports
// false when the completion was already on file.
func (s *Store) AddCompletion(ctx context.Context, learner string, r Record) (bool, error) {
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO completions (id, learner, activity_id, activity_type, section_id, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), learner, r.ActivityID, r.ActivityType, r.SectionID, r.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("recording completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording completion: %w", err)
	}
	return n == 1, nil
}

// Completions lists a learner's completions, oldest first.
func (s *Store) Completions(ctx context.Context, learner string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity_id, activity_type, section_id, completed_at
		 FROM completions WHERE learner = ? ORDER BY completed_at, activity_id`, learner)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ActivityID, &r.ActivityType, &r.SectionID, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddBadge unlocks a badge. It reports false when it was already unlocked.
func (s *Store) AddBadge(ctx context.Context, learner, badge string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO badges (id, learner, badge, unlocked_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), learner, badge, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("unlocking badge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlocking badge: %w", err)
	}
	return n == 1, nil
}

// Badges lists a learner's badges in unlock order.
func (s *Store) Badges(ctx context.Context, learner string) ([]BadgeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT badge, unlocked_at FROM badges WHERE learner = ? ORDER BY unlocked_at, rowid`, learner)
	if err != nil {
		return nil, fmt.Errorf("listing badges: %w", err)
	}
	defer rows.Close()

	var out []BadgeRecord
	for rows.Next() {
		var b BadgeRecord
		if err := rows.Scan(&b.Badge, &b.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scanning badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Learners lists every learner with stored progress.
func (s *Store) Learners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT learner FROM completions UNION SELECT learner FROM badges ORDER BY learner`)
	if err != nil {
		return nil, fmt.Errorf("listing learners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scanning learner: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountCompletions returns the number of stored completions across all
// learners.
func (s *Store) CountCompletions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting completions: %w", err)
	}
	return n, nil
}

// Reset deletes everything stored for learner.
func (s *Store) Reset(ctx context.Context, learner string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reset: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM completions WHERE learner = ?`, learner); err != nil {
		return fmt.Errorf("deleting completions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM badges WHERE learner = ?`, learner); err != nil {
		return fmt.Errorf("deleting badges: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}
	return nil
}
