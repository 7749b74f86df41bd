package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the journal.
const (
	ActionInstall   = "install"
	ActionUninstall = "uninstall"
)

// Outcomes recorded in the journal.
const (
	OutcomeChanged   = "changed"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// DefaultLimit caps Recent when the caller passes a non-positive limit.
const DefaultLimit = 50

// Event is one row of install_events.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Kind       string    `json:"kind"`
	ConfigPath string    `json:"config_path"`
	Command    string    `json:"command,omitempty"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Message    string    `json:"message,omitempty"`
	Checksum   string    `json:"checksum,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Record inserts e, assigning an id and timestamp when absent.
func (j *Journal) Record(e Event) (Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.conn.Exec(`
		INSERT INTO install_events
			(id, action, kind, config_path, command, outcome, error_kind, message, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Action, e.Kind, e.ConfigPath, e.Command, e.Outcome, e.ErrorKind, e.Message, e.Checksum, e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("history: insert event: %w", err)
	}
	return e, nil
}

// Recent returns the newest events first, optionally filtered by target kind.
func (j *Journal) Recent(limit int, kind string) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT id, action, kind, config_path, command, outcome, error_kind, message, checksum, created_at
		FROM install_events`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Action, &e.Kind, &e.ConfigPath, &e.Command,
			&e.Outcome, &e.ErrorKind, &e.Message, &e.Checksum, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastChecksum returns the checksum recorded by the newest successful event
// for kind, or "" when there is none.
func (j *Journal) LastChecksum(kind string) (string, error) {
	var sum string
	err := j.conn.QueryRow(`
		SELECT checksum FROM install_events
		WHERE kind = ? AND outcome != ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1
	`, kind, OutcomeFailed).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("history: last checksum: %w", err)
	}
	return sum, nil
}
