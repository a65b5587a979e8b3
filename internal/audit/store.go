package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/playdeck/internal/db"
)

// ErrNotFound is returned by GetByID when no entry has the id.
var ErrNotFound = errors.New("audit entry not found")

// Store provides read and append operations for journal entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new entry. Missing ids and timestamps are filled in.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (
			id, timestamp, actor_type, actor_id, learner, action, scope, scope_id, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.DateTime),
		string(entry.ActorType),
		entry.ActorID,
		entry.Learner,
		string(entry.Action),
		string(entry.Scope),
		entry.ScopeID,
		entry.Summary,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, actor_type, actor_id, learner, action, scope, scope_id, summary
		FROM audit_entries WHERE id = ?`, id)

	return scanInto(row)
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	Learner string
	ActorID string
	Action  Action
	Scope   Scope
	ScopeID string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Learner != "" {
		clauses = append(clauses, "learner = ?")
		args = append(args, filter.Learner)
	}
	if filter.ActorID != "" {
		clauses = append(clauses, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.Scope != "" {
		clauses = append(clauses, "scope = ?")
		args = append(args, string(filter.Scope))
	}
	if filter.ScopeID != "" {
		clauses = append(clauses, "scope_id = ?")
		args = append(args, filter.ScopeID)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(time.DateTime))
	}

	query := "SELECT id, timestamp, actor_type, actor_id, learner, action, scope, scope_id, summary FROM audit_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

// Cutoff resolves a prune boundary. value is either an RFC 3339 time or
// an age counted back from now, written as a Go duration ("720h") or a
// whole number of days ("30d").
func Cutoff(value string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid age %q", value)
		}
		return now.AddDate(0, 0, -n), nil
	}
	age, err := time.ParseDuration(value)
	if err != nil || age < 0 {
		return time.Time{}, fmt.Errorf("%q is neither an RFC 3339 time nor an age like 720h or 30d", value)
	}
	return now.Add(-age), nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e                        Entry
		actorType, action, scope string
		ts                       string
	)

	err := sc.Scan(&e.ID, &ts, &actorType, &e.ActorID, &e.Learner, &action, &scope, &e.ScopeID, &e.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning audit entry: %w", err)
	}

	e.ActorType = ActorType(actorType)
	e.Action = Action(action)
	e.Scope = Scope(scope)

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		e.Timestamp = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		e.Timestamp = t
	}

	return &e, nil
}
