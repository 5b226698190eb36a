package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"summaryedit/internal/domain"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord is the metadata row of a persisted editor session.
type SessionRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry is one persisted document snapshot.
type HistoryEntry struct {
	Kind   string
	Target string
	Doc    domain.Document
}

// SessionSnapshot is everything needed to resume a session: its linear
// history and the cursor into it.
type SessionSnapshot struct {
	Session SessionRecord
	Entries []HistoryEntry
	Cursor  int
}

// SessionStore persists editor sessions in SQLite.
type SessionStore struct {
	db *DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save replaces the stored history of a session in one transaction.
func (s *SessionStore) Save(ctx context.Context, snap SessionSnapshot) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	created := snap.Session.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		snap.Session.ID, snap.Session.Title, created, now,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE session_id = ?`, snap.Session.ID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	for seq, e := range snap.Entries {
		data, err := json.Marshal(e.Doc)
		if err != nil {
			return fmt.Errorf("marshal snapshot %d: %w", seq, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO history_entries (session_id, seq, kind, target, snapshot_json) VALUES (?, ?, ?, ?, ?)`,
			snap.Session.ID, seq, e.Kind, e.Target, string(data),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %d: %w", seq, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history_state (session_id, cursor) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET cursor = excluded.cursor`,
		snap.Session.ID, snap.Cursor,
	)
	if err != nil {
		return fmt.Errorf("update history state: %w", err)
	}

	return tx.Commit()
}

// Load returns the stored session and its full history.
func (s *SessionStore) Load(ctx context.Context, id string) (*SessionSnapshot, error) {
	snap := &SessionSnapshot{}
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&snap.Session.ID, &snap.Session.Title, &snap.Session.CreatedAt, &snap.Session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT kind, target, snapshot_json FROM history_entries WHERE session_id = ? ORDER BY seq ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e HistoryEntry
		var data string
		if err := rows.Scan(&e.Kind, &e.Target, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &e.Doc); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.Conn().QueryRowContext(ctx,
		`SELECT cursor FROM history_state WHERE session_id = ?`, id,
	).Scan(&snap.Cursor)
	if err != nil {
		snap.Cursor = len(snap.Entries) - 1 // Fallback
	}
	return snap, nil
}

// List returns all stored sessions, most recently updated first.
func (s *SessionStore) List(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM sessions ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a session and its history.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}
