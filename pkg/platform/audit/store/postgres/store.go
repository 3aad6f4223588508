// Package postgres persists audit events in the audit_events table created by
// the record store migration.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "condovote/pkg/platform/audit"
)

const eventColumns = `category, timestamp, subject, election_id, action, reason, request_id, actor_id`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts event under a fresh id. The stored category is derived from
// the action, whatever event.Category says.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, `+eventColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(),
		string(audit.AuditEvent(event.Action).Category()),
		event.Timestamp,
		event.Subject,
		event.ElectionID,
		event.Action,
		event.Reason,
		event.RequestID,
		event.ActorID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns a condominium's events, newest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	return s.list(ctx, `WHERE subject = $1`, subject)
}

// ListByAction returns events of one kind across condominiums, newest first.
func (s *Store) ListByAction(ctx context.Context, action audit.AuditEvent) ([]audit.Event, error) {
	return s.list(ctx, `WHERE action = $1`, string(action))
}

func (s *Store) list(ctx context.Context, where string, arg any) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM audit_events `+where+` ORDER BY timestamp DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var category string
		if err := rows.Scan(&category, &e.Timestamp, &e.Subject, &e.ElectionID,
			&e.Action, &e.Reason, &e.RequestID, &e.ActorID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
