package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

// PostgresStore keeps users as JSONB documents with the commitment promoted
// to a column so write-once can be enforced by a conditional update.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	query := `
		INSERT INTO users (tax_code, commitment, document, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (tax_code) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, u.TaxCode.String(), u.Commitment, doc, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", u.TaxCode, sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *PostgresStore) FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.User, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM users WHERE tax_code = $1`, taxCode.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) FindCommitments(ctx context.Context, taxCodes []id.TaxCode) (map[id.TaxCode]string, error) {
	out := make(map[id.TaxCode]string, len(taxCodes))
	if len(taxCodes) == 0 {
		return out, nil
	}
	query := `
		SELECT tax_code, commitment FROM users
		WHERE tax_code = ANY($1) AND commitment IS NOT NULL
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(id.TaxCodeStrings(taxCodes)))
	if err != nil {
		return nil, fmt.Errorf("find commitments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taxCode, commitment string
		if err := rows.Scan(&taxCode, &commitment); err != nil {
			return nil, fmt.Errorf("scan commitment: %w", err)
		}
		out[id.TaxCode(taxCode)] = commitment
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commitments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetCommitment(ctx context.Context, taxCode id.TaxCode, commitment string) error {
	query := `
		UPDATE users
		SET commitment = $2,
			document = jsonb_set(document, '{commitment}', to_jsonb($2::text))
		WHERE tax_code = $1 AND (commitment IS NULL OR commitment = $2)
	`
	res, err := s.db.ExecContext(ctx, query, taxCode.String(), commitment)
	if err != nil {
		return fmt.Errorf("set commitment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set commitment rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.missingOr(ctx, taxCode, fmt.Errorf("user %s commitment: %w", taxCode, sentinel.ErrAlreadySet))
}

func (s *PostgresStore) AddCondominium(ctx context.Context, taxCode id.TaxCode, cid id.CondominiumID) error {
	query := `
		UPDATE users
		SET document = jsonb_set(
			document, '{condominiums}',
			COALESCE(document -> 'condominiums', '[]'::jsonb) || jsonb_build_array($2::text))
		WHERE tax_code = $1
		  AND NOT (COALESCE(document -> 'condominiums', '[]'::jsonb) @> jsonb_build_array($2::text))
	`
	res, err := s.db.ExecContext(ctx, query, taxCode.String(), cid.String())
	if err != nil {
		return fmt.Errorf("add condominium to user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add condominium rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.missingOr(ctx, taxCode, nil)
}

// missingOr returns ErrNotFound for an unknown user, else otherwise.
func (s *PostgresStore) missingOr(ctx context.Context, taxCode id.TaxCode, otherwise error) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE tax_code = $1)`, taxCode.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	return otherwise
}
