package pending

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

const actionColumns = `id, kind, condominium_id, election_id, election, status, attempts, last_error, next_attempt_at, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Enqueue(ctx context.Context, a *models.PendingAction) (*models.PendingAction, error) {
	var election []byte
	if a.Election != nil {
		raw, err := json.Marshal(a.Election)
		if err != nil {
			return nil, fmt.Errorf("encode pending election: %w", err)
		}
		election = raw
	}
	var electionID sql.NullInt64
	if a.ElectionID != nil {
		electionID = sql.NullInt64{Int64: int64(*a.ElectionID), Valid: true}
	}
	query := `
		INSERT INTO pending_actions (id, action_key, kind, condominium_id, election_id, election, status, attempts, last_error, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'open', $7, $8, $9, $10, $11)
		ON CONFLICT (action_key) WHERE status = 'open' DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		a.ID.String(),
		a.Key(),
		string(a.Kind),
		a.CondominiumID.String(),
		electionID,
		election,
		a.Attempts,
		a.LastError,
		a.NextAttemptAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pending action: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert pending action rows affected: %w", err)
	}
	if n > 0 {
		stored := a.Clone()
		stored.Status = models.ActionOpen
		return stored, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM pending_actions WHERE action_key = $1 AND status = 'open'`, a.Key())
	existing, err := scanAction(row)
	if err != nil {
		return nil, fmt.Errorf("find open pending action %s: %w", a.Key(), err)
	}
	return existing, nil
}

func (s *PostgresStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PendingAction, error) {
	query := `SELECT ` + actionColumns + ` FROM pending_actions
		WHERE status = 'open' AND next_attempt_at <= $1
		ORDER BY next_attempt_at`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.list(ctx, query, args...)
}

func (s *PostgresStore) ListOpen(ctx context.Context) ([]*models.PendingAction, error) {
	return s.list(ctx, `SELECT `+actionColumns+` FROM pending_actions WHERE status = 'open' ORDER BY created_at`)
}

func (s *PostgresStore) MarkDone(ctx context.Context, aid id.ActionID, now time.Time) error {
	query := `UPDATE pending_actions SET status = 'done', updated_at = $2 WHERE id = $1 AND status = 'open'`
	return s.updateOpen(ctx, aid, query, aid.String(), now)
}

func (s *PostgresStore) MarkFailed(ctx context.Context, aid id.ActionID, reason string, nextAttempt, now time.Time) error {
	query := `
		UPDATE pending_actions
		SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3, updated_at = $4
		WHERE id = $1 AND status = 'open'
	`
	return s.updateOpen(ctx, aid, query, aid.String(), reason, nextAttempt, now)
}

func (s *PostgresStore) updateOpen(ctx context.Context, aid id.ActionID, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pending action: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pending action rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pending action %s: %w", aid, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.PendingAction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending actions: %w", err)
	}
	defer rows.Close()
	var out []*models.PendingAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending actions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAction(row scanner) (*models.PendingAction, error) {
	var (
		rawID, kind, rawCondo, status string
		electionID                    sql.NullInt64
		election                      []byte
		a                             models.PendingAction
	)
	err := row.Scan(&rawID, &kind, &rawCondo, &electionID, &election, &status,
		&a.Attempts, &a.LastError, &a.NextAttemptAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan pending action: %w", err)
	}
	if a.ID, err = id.ParseActionID(rawID); err != nil {
		return nil, fmt.Errorf("decode pending action id %q: %w", rawID, err)
	}
	if a.CondominiumID, err = id.ParseCondominiumID(rawCondo); err != nil {
		return nil, fmt.Errorf("decode pending action condominium %q: %w", rawCondo, err)
	}
	a.Kind = models.ActionKind(kind)
	a.Status = models.ActionStatus(status)
	if electionID.Valid {
		v := uint64(electionID.Int64)
		a.ElectionID = &v
	}
	if len(election) > 0 {
		var e models.Election
		if err := json.Unmarshal(election, &e); err != nil {
			return nil, fmt.Errorf("decode pending election: %w", err)
		}
		a.Election = &e
	}
	return &a, nil
}
