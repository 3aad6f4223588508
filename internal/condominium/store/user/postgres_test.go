package user

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

type PostgresStoreSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.mock = mock
	s.store = NewPostgres(db)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresStoreSuite) TestCreateConflict() {
	u := newUser("RES01")
	s.mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (tax_code) DO NOTHING")).
		WithArgs("RES01", "", sqlmock.AnyArg(), u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.ErrorIs(s.store.Create(s.ctx, u), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestFindByTaxCode() {
	u := newUser("RES01")
	u.Commitment = "111"
	raw, err := json.Marshal(u)
	s.Require().NoError(err)
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM users WHERE tax_code = $1")).
		WithArgs("RES01").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(raw))

	found, err := s.store.FindByTaxCode(s.ctx, "RES01")
	s.Require().NoError(err)
	s.Equal("111", found.Commitment)
}

func (s *PostgresStoreSuite) TestFindCommitmentsUsesArrayParameter() {
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE tax_code = ANY($1) AND commitment IS NOT NULL")).
		WithArgs(pq.Array([]string{"RES01", "RES02"})).
		WillReturnRows(sqlmock.NewRows([]string{"tax_code", "commitment"}).AddRow("RES01", "111"))

	got, err := s.store.FindCommitments(s.ctx, []id.TaxCode{"RES01", "RES02"})
	s.Require().NoError(err)
	s.Equal(map[id.TaxCode]string{"RES01": "111"}, got)
}

func (s *PostgresStoreSuite) TestFindCommitmentsEmptyInput() {
	got, err := s.store.FindCommitments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresStoreSuite) TestSetCommitment() {
	update := regexp.QuoteMeta("WHERE tax_code = $1 AND (commitment IS NULL OR commitment = $2)")
	exists := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE tax_code = $1)")

	s.Run("first registration", func() {
		s.mock.ExpectExec(update).WithArgs("RES01", "111").WillReturnResult(sqlmock.NewResult(0, 1))
		s.NoError(s.store.SetCommitment(s.ctx, "RES01", "111"))
	})

	s.Run("different value is refused", func() {
		s.mock.ExpectExec(update).WithArgs("RES01", "222").WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectQuery(exists).WithArgs("RES01").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		s.ErrorIs(s.store.SetCommitment(s.ctx, "RES01", "222"), sentinel.ErrAlreadySet)
	})

	s.Run("unknown user", func() {
		s.mock.ExpectExec(update).WithArgs("NOPE", "111").WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectQuery(exists).WithArgs("NOPE").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		s.ErrorIs(s.store.SetCommitment(s.ctx, "NOPE", "111"), sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestAddCondominiumAlreadyListed() {
	cid := id.NewCondominiumID()
	s.mock.ExpectExec(regexp.QuoteMeta("'{condominiums}'")).
		WithArgs("ADM01", cid.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	s.NoError(s.store.AddCondominium(s.ctx, "ADM01", cid))
}
