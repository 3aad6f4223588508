package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newUser(taxCode string) *models.User {
	return &models.User{TaxCode: id.TaxCode(taxCode), Name: "User " + taxCode, CreatedAt: time.Now()}
}

func (s *UserStoreSuite) TestCreateAndFind() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("RES01")))
	s.ErrorIs(s.store.Create(s.ctx, newUser("RES01")), sentinel.ErrAlreadyUsed)

	u, err := s.store.FindByTaxCode(s.ctx, "RES01")
	s.Require().NoError(err)
	s.Equal("User RES01", u.Name)

	_, err = s.store.FindByTaxCode(s.ctx, "NOPE")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *UserStoreSuite) TestCommitmentIsWriteOnce() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("RES01")))

	s.Require().NoError(s.store.SetCommitment(s.ctx, "RES01", "111"))
	s.NoError(s.store.SetCommitment(s.ctx, "RES01", "111"))
	s.ErrorIs(s.store.SetCommitment(s.ctx, "RES01", "222"), sentinel.ErrAlreadySet)
	s.ErrorIs(s.store.SetCommitment(s.ctx, "NOPE", "111"), sentinel.ErrNotFound)

	u, err := s.store.FindByTaxCode(s.ctx, "RES01")
	s.Require().NoError(err)
	s.Equal("111", u.Commitment)
}

func (s *UserStoreSuite) TestFindCommitmentsSkipsMissing() {
	for _, tc := range []string{"RES01", "RES02", "RES03"} {
		s.Require().NoError(s.store.Create(s.ctx, newUser(tc)))
	}
	s.Require().NoError(s.store.SetCommitment(s.ctx, "RES01", "111"))
	s.Require().NoError(s.store.SetCommitment(s.ctx, "RES03", "333"))

	got, err := s.store.FindCommitments(s.ctx, []id.TaxCode{"RES01", "RES02", "RES03", "GHOST"})
	s.Require().NoError(err)
	s.Equal(map[id.TaxCode]string{"RES01": "111", "RES03": "333"}, got)
}

func (s *UserStoreSuite) TestAddCondominiumIgnoresRepeats() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("ADM01")))
	cid := id.NewCondominiumID()

	s.Require().NoError(s.store.AddCondominium(s.ctx, "ADM01", cid))
	s.Require().NoError(s.store.AddCondominium(s.ctx, "ADM01", cid))
	s.ErrorIs(s.store.AddCondominium(s.ctx, "NOPE", cid), sentinel.ErrNotFound)

	u, err := s.store.FindByTaxCode(s.ctx, "ADM01")
	s.Require().NoError(err)
	s.Equal([]id.CondominiumID{cid}, u.Condominiums)
}
