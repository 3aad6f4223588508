package condominium

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore keeps each condominium as one JSONB document with the
// lookup columns (tax codes, contract address) promoted beside it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Condominium) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode condominium: %w", err)
	}
	query := `
		INSERT INTO condominiums (id, tax_code, admin_tax_code, contract_address, document, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID.String(),
		c.TaxCode.String(),
		c.Admin.TaxCode.String(),
		c.ContractAddress,
		doc,
		c.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("condominium tax code %s: %w", c.TaxCode, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert condominium: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM condominiums WHERE id = $1`, cid.String())
	c, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find condominium: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.Condominium, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM condominiums WHERE tax_code = $1`, taxCode.String())
	c, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("condominium tax code %s: %w", taxCode, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find condominium by tax code: %w", err)
	}
	return c, nil
}

// AssignContract is a conditional update: it only writes while no address is
// stored, so the first confirmed deployment wins.
func (s *PostgresStore) AssignContract(ctx context.Context, cid id.CondominiumID, address string) error {
	query := `
		UPDATE condominiums
		SET contract_address = $2,
			document = jsonb_set(document, '{contractAddress}', to_jsonb($2::text))
		WHERE id = $1 AND contract_address IS NULL
	`
	res, err := s.db.ExecContext(ctx, query, cid.String(), address)
	if err != nil {
		return fmt.Errorf("assign contract: %w", err)
	}
	if applied, err := affected(res); err != nil || applied {
		return err
	}

	var current sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT contract_address FROM condominiums WHERE id = $1`, cid.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read contract address: %w", err)
	}
	if strings.EqualFold(current.String, address) {
		return nil
	}
	return fmt.Errorf("condominium %s contract: %w", cid, sentinel.ErrAlreadySet)
}

// AppendElection appends to the elections array unless an election with the
// same on-chain id is already present.
func (s *PostgresStore) AppendElection(ctx context.Context, cid id.CondominiumID, e models.Election) error {
	if e.OnChainID == nil {
		return fmt.Errorf("election %q has no on-chain id: %w", e.Name, sentinel.ErrInvalidState)
	}
	item, err := json.Marshal([]models.Election{e})
	if err != nil {
		return fmt.Errorf("encode election: %w", err)
	}
	probe := fmt.Sprintf(`[{"onChainId": %d}]`, *e.OnChainID)
	query := `
		UPDATE condominiums
		SET document = jsonb_set(document, '{elections}', COALESCE(document -> 'elections', '[]'::jsonb) || $2::jsonb)
		WHERE id = $1 AND NOT (COALESCE(document -> 'elections', '[]'::jsonb) @> $3::jsonb)
	`
	res, err := s.db.ExecContext(ctx, query, cid.String(), string(item), probe)
	if err != nil {
		return fmt.Errorf("append election: %w", err)
	}
	return s.conditionalResult(ctx, res, cid, "election", sentinel.ErrAlreadyUsed)
}

func (s *PostgresStore) AddResident(ctx context.Context, cid id.CondominiumID, r models.Resident) error {
	item, err := json.Marshal([]models.Resident{r})
	if err != nil {
		return fmt.Errorf("encode resident: %w", err)
	}
	probe, err := json.Marshal([]map[string]string{{"taxCode": r.TaxCode.String()}})
	if err != nil {
		return fmt.Errorf("encode resident probe: %w", err)
	}
	query := `
		UPDATE condominiums
		SET document = jsonb_set(document, '{residents}', COALESCE(document -> 'residents', '[]'::jsonb) || $2::jsonb)
		WHERE id = $1 AND NOT (COALESCE(document -> 'residents', '[]'::jsonb) @> $3::jsonb)
	`
	res, err := s.db.ExecContext(ctx, query, cid.String(), string(item), string(probe))
	if err != nil {
		return fmt.Errorf("add resident: %w", err)
	}
	return s.conditionalResult(ctx, res, cid, "resident", sentinel.ErrAlreadyUsed)
}

func (s *PostgresStore) ListForResident(ctx context.Context, taxCode id.TaxCode) ([]*models.Condominium, error) {
	probe, err := json.Marshal([]map[string]string{{"taxCode": taxCode.String()}})
	if err != nil {
		return nil, fmt.Errorf("encode resident probe: %w", err)
	}
	query := `
		SELECT document FROM condominiums
		WHERE admin_tax_code = $1 OR document -> 'residents' @> $2::jsonb
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, taxCode.String(), string(probe))
	if err != nil {
		return nil, fmt.Errorf("list condominiums for resident: %w", err)
	}
	defer rows.Close()

	var out []*models.Condominium
	for rows.Next() {
		c, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan condominium: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate condominiums: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ResidentsOf(ctx context.Context, cid id.CondominiumID) ([]models.Resident, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(document -> 'residents', '[]'::jsonb) FROM condominiums WHERE id = $1`,
		cid.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read residents: %w", err)
	}
	var residents []models.Resident
	if err := json.Unmarshal(raw, &residents); err != nil {
		return nil, fmt.Errorf("decode residents: %w", err)
	}
	return residents, nil
}

// conditionalResult distinguishes a missing document from a failed guard
// when a conditional update touched no rows.
func (s *PostgresStore) conditionalResult(ctx context.Context, res sql.Result, cid id.CondominiumID, what string, guardErr error) error {
	applied, err := affected(res)
	if err != nil || applied {
		return err
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM condominiums WHERE id = $1)`, cid.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check condominium: %w", err)
	}
	if !exists {
		return fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	return fmt.Errorf("condominium %s %s: %w", cid, what, guardErr)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Condominium, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var c models.Condominium
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode condominium: %w", err)
	}
	if c.Residents == nil {
		c.Residents = []models.Resident{}
	}
	if c.Elections == nil {
		c.Elections = []models.Election{}
	}
	return &c, nil
}
