// Package recorder persists interaction sessions to sqlite so gesture
// streams can be replayed against a chart after the fact.
package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/chartkit/internal/coords"
	"github.com/banshee-data/chartkit/internal/geom"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the session store at path and migrates
// its schema to the latest version. Use ":memory:" for an ephemeral store.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Event kinds stored in the events table.
const (
	EventPointerDown   = "pointer_down"
	EventPointerMove   = "pointer_move"
	EventPointerUp     = "pointer_up"
	EventPointerCancel = "pointer_cancel"
	EventHover         = "hover"
	EventScroll        = "scroll"
	EventDoubleTap     = "double_tap"
	EventPinch         = "pinch"
	EventSelection     = "selection"
	EventProbePin      = "probe_pin"
	EventReset         = "reset"
)

// Session identifies one recorded interaction stream.
type Session struct {
	ID        string
	ChartID   string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Event is one recorded gesture event.
type Event struct {
	SessionID string
	Seq       int64
	Kind      string
	Pos       geom.Point
	Detail    map[string]any
	Timestamp time.Time
}

// StartSession creates a session row for a chart and returns its id.
func (db *DB) StartSession(chartID string) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO sessions (session_id, chart_id) VALUES (?, ?)`, id, chartID)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}

// EndSession marks a session as finished.
func (db *DB) EndSession(sessionID string) error {
	res, err := db.Exec(`UPDATE sessions SET ended_at = CURRENT_TIMESTAMP WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("unknown session %s", sessionID)
	}
	return err
}

// RecordEvent appends a gesture event to a session. Detail may be nil.
func (db *DB) RecordEvent(sessionID string, seq int64, kind string, pos geom.Point, detail map[string]any) error {
	var detailJSON []byte
	if detail != nil {
		var err error
		detailJSON, err = json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("failed to encode event detail: %w", err)
		}
	}
	_, err := db.Exec(
		`INSERT INTO events (session_id, seq, kind, pos_x, pos_y, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, seq, kind, pos.X, pos.Y, string(detailJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// RecordViewport appends the viewport bounds in effect after an event.
func (db *DB) RecordViewport(sessionID string, b coords.Bounds) error {
	_, err := db.Exec(
		`INSERT INTO viewports (session_id, x_min, x_max, y_min, y_max) VALUES (?, ?, ?, ?, ?)`,
		sessionID, b.XMin, b.XMax, b.YMin, b.YMax,
	)
	if err != nil {
		return fmt.Errorf("failed to record viewport: %w", err)
	}
	return nil
}

// SessionEvents returns a session's events in sequence order.
func (db *DB) SessionEvents(sessionID string) ([]Event, error) {
	rows, err := db.Query(
		`SELECT session_id, seq, kind, pos_x, pos_y, detail, timestamp
		 FROM events WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var detail sql.NullString
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Kind, &e.Pos.X, &e.Pos.Y, &detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if detail.Valid && detail.String != "" {
			if err := json.Unmarshal([]byte(detail.String), &e.Detail); err != nil {
				return nil, fmt.Errorf("failed to decode event detail: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastViewport returns the most recently recorded viewport for a session.
func (db *DB) LastViewport(sessionID string) (coords.Bounds, bool, error) {
	var b coords.Bounds
	err := db.QueryRow(
		`SELECT x_min, x_max, y_min, y_max FROM viewports
		 WHERE session_id = ? ORDER BY viewport_id DESC LIMIT 1`, sessionID).
		Scan(&b.XMin, &b.XMax, &b.YMin, &b.YMax)
	if err == sql.ErrNoRows {
		return coords.Bounds{}, false, nil
	}
	if err != nil {
		return coords.Bounds{}, false, fmt.Errorf("failed to query viewport: %w", err)
	}
	return b, true, nil
}

// AddNote attaches a free-form annotation to a recorded session.
func (db *DB) AddNote(sessionID, note string) error {
	_, err := db.Exec(
		`INSERT INTO session_notes (session_id, note) VALUES (?, ?)`,
		sessionID, note,
	)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

// Notes returns a session's annotations in insertion order.
func (db *DB) Notes(sessionID string) ([]string, error) {
	rows, err := db.Query(
		`SELECT note FROM session_notes WHERE session_id = ? ORDER BY note_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Sessions returns all sessions for a chart, newest first.
func (db *DB) Sessions(chartID string) ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, chart_id, started_at, ended_at
		 FROM sessions WHERE chart_id = ? ORDER BY started_at DESC`, chartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.ChartID, &s.StartedAt, &ended); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			s.EndedAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
