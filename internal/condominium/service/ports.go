package service

import (
	"context"
	"time"

	"condovote/internal/condominium/models"
	"condovote/internal/platform/lock"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// Ledger is the on-chain side of every saga. Writes return only after the
// transaction is confirmed. Failures are *ledger.Fault values.
type Ledger interface {
	DeployCondominiumContract(ctx context.Context, condominiumID string) (string, error)
	LookupCondominiumContract(ctx context.Context, condominiumID string) (string, error)
	CreateElection(ctx context.Context, contract, name string, options []models.Option, durationSeconds uint64) (uint64, error)
	AddMembers(ctx context.Context, contract string, electionID uint64, commitments []string) error
	SubmitVote(ctx context.Context, contract string, electionID, optionIndex uint64, proof models.Proof) (string, error)
	GetElectionStatus(ctx context.Context, contract string, electionID uint64) (*models.ElectionStatus, error)
	GetVoteCount(ctx context.Context, contract string, electionID, optionIndex uint64) (uint64, error)
	CloseElection(ctx context.Context, contract string, electionID uint64) (string, error)
}

type CondominiumStore interface {
	Create(ctx context.Context, c *models.Condominium) error
	FindByID(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error)
	FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.Condominium, error)
	AssignContract(ctx context.Context, cid id.CondominiumID, address string) error
	AppendElection(ctx context.Context, cid id.CondominiumID, e models.Election) error
	AddResident(ctx context.Context, cid id.CondominiumID, r models.Resident) error
	ListForResident(ctx context.Context, taxCode id.TaxCode) ([]*models.Condominium, error)
	ResidentsOf(ctx context.Context, cid id.CondominiumID) ([]models.Resident, error)
}

// UserStore links residents' accounts to their condominiums.
type UserStore interface {
	AddCondominium(ctx context.Context, taxCode id.TaxCode, cid id.CondominiumID) error
}

type CommitmentResolver interface {
	GetCommitments(ctx context.Context, residentIDs []id.TaxCode) (map[id.TaxCode]string, error)
}

type PendingStore interface {
	Enqueue(ctx context.Context, a *models.PendingAction) (*models.PendingAction, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PendingAction, error)
	ListOpen(ctx context.Context) ([]*models.PendingAction, error)
	MarkDone(ctx context.Context, aid id.ActionID, now time.Time) error
	MarkFailed(ctx context.Context, aid id.ActionID, reason string, nextAttempt, now time.Time) error
}

// Locker serializes provisioning of one condominium across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
