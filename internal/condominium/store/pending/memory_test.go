package pending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

type PendingStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestPendingStoreSuite(t *testing.T) {
	suite.Run(t, new(PendingStoreSuite))
}

func (s *PendingStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func electionID(v uint64) *uint64 { return &v }

func (s *PendingStoreSuite) TestEnqueueIsIdempotentPerKey() {
	cid := id.NewCondominiumID()
	first, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(3), s.now))
	s.Require().NoError(err)

	again, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(3), s.now.Add(time.Minute)))
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	other, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(4), s.now))
	s.Require().NoError(err)
	s.NotEqual(first.ID, other.ID)

	open, err := s.store.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Len(open, 2)
}

func (s *PendingStoreSuite) TestDoneFreesTheKey() {
	cid := id.NewCondominiumID()
	first, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionProvisionContract, cid, nil, s.now))
	s.Require().NoError(err)
	s.Require().NoError(s.store.MarkDone(s.ctx, first.ID, s.now))
	s.ErrorIs(s.store.MarkDone(s.ctx, first.ID, s.now), sentinel.ErrNotFound)

	second, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionProvisionContract, cid, nil, s.now))
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
}

func (s *PendingStoreSuite) TestDoneActionsAreNotRetained() {
	cid := id.NewCondominiumID()
	for i := uint64(0); i < 50; i++ {
		a, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(i), s.now))
		s.Require().NoError(err)
		s.Require().NoError(s.store.MarkDone(s.ctx, a.ID, s.now))
	}
	kept, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionProvisionContract, cid, nil, s.now))
	s.Require().NoError(err)

	s.Len(s.store.actions, 1)
	due, err := s.store.ListDue(s.ctx, s.now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(kept.ID, due[0].ID)
}

func (s *PendingStoreSuite) TestListDueHonoursBackoff() {
	cid := id.NewCondominiumID()
	a, err := s.store.Enqueue(s.ctx, models.NewPendingAction(models.ActionProvisionContract, cid, nil, s.now))
	s.Require().NoError(err)
	s.Require().NoError(s.store.MarkFailed(s.ctx, a.ID, "ledger unreachable", s.now.Add(time.Minute), s.now))

	due, err := s.store.ListDue(s.ctx, s.now, 10)
	s.Require().NoError(err)
	s.Empty(due)

	due, err = s.store.ListDue(s.ctx, s.now.Add(time.Minute), 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(1, due[0].Attempts)
	s.Equal("ledger unreachable", due[0].LastError)
}

func (s *PendingStoreSuite) TestListDueLimitAndOrder() {
	for i := 0; i < 3; i++ {
		a := models.NewPendingAction(models.ActionProvisionContract, id.NewCondominiumID(), nil, s.now.Add(-time.Duration(i)*time.Minute))
		_, err := s.store.Enqueue(s.ctx, a)
		s.Require().NoError(err)
	}
	due, err := s.store.ListDue(s.ctx, s.now, 2)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.True(due[0].NextAttemptAt.Before(due[1].NextAttemptAt))
}

func (s *PendingStoreSuite) TestStoredElectionIsCopied() {
	e := models.Election{Name: "Budget", Options: []models.Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}}, OnChainID: electionID(9)}
	a := models.NewPendingAction(models.ActionPersistElection, id.NewCondominiumID(), electionID(9), s.now)
	a.Election = &e

	stored, err := s.store.Enqueue(s.ctx, a)
	s.Require().NoError(err)
	e.Options[0].Name = "changed"

	open, err := s.store.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(stored.ID, open[0].ID)
	s.Equal("Yes", open[0].Election.Options[0].Name)
}
