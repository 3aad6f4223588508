package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryGovernance covers events with legal significance for the
	// condominium: registrations, elections, closures.
	CategoryGovernance EventCategory = "governance"

	// CategoryConsistency covers recorded divergences between the record
	// store and the ledger and their resolution. These feed the
	// reconciliation report and alerting.
	CategoryConsistency EventCategory = "consistency"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Vote events never carry the voter: Subject is the condominium and
// ElectionID the on-chain election.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	Subject    string // condominium id
	ElectionID string
	Action     string
	Reason     string
	RequestID  string
	// ActorID is the tax code of the resident who triggered the action,
	// when the action is attributable. Empty for votes.
	ActorID string
}

type AuditEvent string

const (
	EventCondominiumRegistered AuditEvent = "condominium_registered"
	EventContractProvisioned   AuditEvent = "contract_provisioned"
	EventResidentAdded         AuditEvent = "resident_added"
	EventCommitmentRegistered  AuditEvent = "commitment_registered"
	EventElectionCreated       AuditEvent = "election_created"
	EventMembersPopulated      AuditEvent = "members_populated"
	EventElectionClosed        AuditEvent = "election_closed"
	EventVoteForwarded         AuditEvent = "vote_forwarded"

	EventConsistencyWarning AuditEvent = "consistency_warning"
	EventPendingResolved    AuditEvent = "pending_action_resolved"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCondominiumRegistered: CategoryGovernance,
	EventContractProvisioned:   CategoryGovernance,
	EventResidentAdded:         CategoryGovernance,
	EventElectionCreated:       CategoryGovernance,
	EventElectionClosed:        CategoryGovernance,

	EventConsistencyWarning: CategoryConsistency,
	EventPendingResolved:    CategoryConsistency,

	EventCommitmentRegistered: CategoryOperations,
	EventMembersPopulated:     CategoryOperations,
	EventVoteForwarded:        CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists and lists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

// Sink receives a copy of every persisted event (e.g. a message broker).
type Sink interface {
	Send(ctx context.Context, event Event) error
}
