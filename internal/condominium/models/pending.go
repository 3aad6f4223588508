package models

import (
	"fmt"
	"time"

	id "condovote/pkg/domain"
)

// ActionKind names a ledger step that failed as a secondary step and is
// retried by the reconciler.
type ActionKind string

const (
	ActionProvisionContract ActionKind = "provision_contract"
	ActionPopulateMembers   ActionKind = "populate_members"
	ActionPersistElection   ActionKind = "persist_election"
)

type ActionStatus string

const (
	ActionOpen ActionStatus = "open"
	ActionDone ActionStatus = "done"
)

// PendingAction is a durable record of an unfinished ledger step.
//
// At most one open action exists per Key. Election is set for
// persist_election (the confirmed election to store) and ElectionID for the
// election-scoped kinds.
type PendingAction struct {
	ID            id.ActionID      `json:"id"`
	Kind          ActionKind       `json:"kind"`
	CondominiumID id.CondominiumID `json:"condominiumId"`
	ElectionID    *uint64          `json:"electionId,omitempty"`
	Election      *Election        `json:"election,omitempty"`
	Status        ActionStatus     `json:"status"`
	Attempts      int              `json:"attempts"`
	LastError     string           `json:"lastError,omitempty"`
	NextAttemptAt time.Time        `json:"nextAttemptAt"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// NewPendingAction builds an open action due immediately.
func NewPendingAction(kind ActionKind, cid id.CondominiumID, electionID *uint64, now time.Time) *PendingAction {
	return &PendingAction{
		ID:            id.NewActionID(),
		Kind:          kind,
		CondominiumID: cid,
		ElectionID:    electionID,
		Status:        ActionOpen,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Key identifies the step independent of attempts.
func (a *PendingAction) Key() string {
	return ActionKey(a.Kind, a.CondominiumID, a.ElectionID)
}

func ActionKey(kind ActionKind, cid id.CondominiumID, electionID *uint64) string {
	if electionID == nil {
		return fmt.Sprintf("%s/%s", kind, cid)
	}
	return fmt.Sprintf("%s/%s/%d", kind, cid, *electionID)
}

// Due reports whether the action should be attempted at now.
func (a *PendingAction) Due(now time.Time) bool {
	return a.Status == ActionOpen && !a.NextAttemptAt.After(now)
}

// ConsistencyWarning describes a secondary step that failed and left a known
// partial state. It is reported alongside a successful primary result.
type ConsistencyWarning struct {
	Kind          ActionKind       `json:"kind"`
	CondominiumID id.CondominiumID `json:"condominiumId"`
	ElectionID    *uint64          `json:"electionId,omitempty"`
	Reason        string           `json:"reason"`
}

// ReconciliationReport lists the partial states awaiting repair.
type ReconciliationReport struct {
	GeneratedAt         time.Time       `json:"generatedAt"`
	PendingProvisioning []PendingAction `json:"pendingProvisioning"`
	UnregisteredMembers []PendingAction `json:"unregisteredMembers"`
	AwaitingPersistence []PendingAction `json:"awaitingPersistence"`
}

// Total counts all open actions in the report.
func (r *ReconciliationReport) Total() int {
	return len(r.PendingProvisioning) + len(r.UnregisteredMembers) + len(r.AwaitingPersistence)
}

func (a *PendingAction) Clone() *PendingAction {
	if a == nil {
		return nil
	}
	out := *a
	if a.ElectionID != nil {
		v := *a.ElectionID
		out.ElectionID = &v
	}
	if a.Election != nil {
		e := a.Election.Clone()
		out.Election = &e
	}
	return &out
}
