//go:build integration

package condominium_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condovote/internal/condominium/models"
	"condovote/internal/condominium/store/condominium"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
	"condovote/pkg/testutil/containers"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *condominium.PostgresStore
}

func TestPostgresIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = condominium.NewPostgres(s.postgres.DB)
}

func (s *PostgresIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "condominiums"))
}

func (s *PostgresIntegrationSuite) newCondominium(taxCode string) *models.Condominium {
	c, err := models.NewCondominium(id.NewCondominiumID(), "Condominio "+taxCode, id.TaxCode(taxCode),
		models.Admin{Name: "Admin", TaxCode: "ADM01"},
		[]models.Resident{{TaxCode: "RES01", Unit: "A1"}}, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return c
}

func (s *PostgresIntegrationSuite) TestDocumentLifecycle() {
	ctx := context.Background()
	c := s.newCondominium("CONDO1")
	s.Require().NoError(s.store.Create(ctx, c))
	s.ErrorIs(s.store.Create(ctx, s.newCondominium("CONDO1")), sentinel.ErrAlreadyUsed)

	s.Require().NoError(s.store.AddResident(ctx, c.ID, models.Resident{TaxCode: "RES02"}))
	s.ErrorIs(s.store.AddResident(ctx, c.ID, models.Resident{TaxCode: "RES02"}), sentinel.ErrAlreadyUsed)

	onChain := uint64(7)
	e := models.Election{Name: "Budget 2025", DurationSeconds: 3600,
		Options: []models.Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}}, OnChainID: &onChain}
	s.Require().NoError(s.store.AppendElection(ctx, c.ID, e))
	s.ErrorIs(s.store.AppendElection(ctx, c.ID, e), sentinel.ErrAlreadyUsed)

	s.Require().NoError(s.store.AssignContract(ctx, c.ID, "0xAAA"))
	s.ErrorIs(s.store.AssignContract(ctx, c.ID, "0xBBB"), sentinel.ErrAlreadySet)

	found, err := s.store.FindByTaxCode(ctx, "CONDO1")
	s.Require().NoError(err)
	s.Equal("0xAAA", found.ContractAddress)
	s.Len(found.Residents, 2)
	s.Len(found.Elections, 1)

	list, err := s.store.ListForResident(ctx, "RES02")
	s.Require().NoError(err)
	s.Len(list, 1)
}

// TestConcurrentAssignContract verifies exactly one distinct address wins when
// many writers race on an unprovisioned condominium.
func (s *PostgresIntegrationSuite) TestConcurrentAssignContract() {
	ctx := context.Background()
	c := s.newCondominium("CONDO2")
	s.Require().NoError(s.store.Create(ctx, c))

	const writers = 20
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := "0x" + string(rune('A'+i))
			if err := s.store.AssignContract(ctx, c.ID, addr); err == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
}
