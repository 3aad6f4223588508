package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"condovote/internal/condominium/models"
	"condovote/pkg/platform/sentinel"
)

// InMemory is a deterministic ledger used for local development and tests.
// It mirrors the contract rules the orchestration depends on: one contract
// per condominium id, nullifiers used once per election, votes only while
// active and unexpired, close only after expiry.
type InMemory struct {
	mu        sync.Mutex
	now       func() time.Time
	contracts map[string]*memContract
	byCondo   map[string]string
	txCount   uint64
	failures  map[string]error
}

type memContract struct {
	condominiumID string
	elections     map[uint64]*memElection
	nextID        uint64
}

type memElection struct {
	name       string
	options    []models.Option
	counts     []uint64
	endTime    time.Time
	active     bool
	members    map[string]struct{}
	nullifiers map[string]struct{}
}

type MemoryOption func(*InMemory)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *InMemory) { m.now = now }
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	m := &InMemory{
		now:       time.Now,
		contracts: make(map[string]*memContract),
		byCondo:   make(map[string]string),
		failures:  make(map[string]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailNext makes the next call of op fail with err (a *Fault is returned as
// is; other errors are wrapped as unavailable).
func (m *InMemory) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

func (m *InMemory) injected(op string) error {
	err, ok := m.failures[op]
	if !ok {
		return nil
	}
	delete(m.failures, op)
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	return &Fault{Kind: KindUnavailable, Op: op, Err: err}
}

func (m *InMemory) nextTx() string {
	m.txCount++
	return fmt.Sprintf("0x%064x", m.txCount)
}

func (m *InMemory) DeployCondominiumContract(_ context.Context, condominiumID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("deploy_contract"); err != nil {
		return "", err
	}
	if addr, ok := m.byCondo[condominiumID]; ok {
		return addr, nil
	}
	addr := fmt.Sprintf("0x%040x", len(m.contracts)+1)
	m.contracts[addr] = &memContract{condominiumID: condominiumID, elections: make(map[uint64]*memElection), nextID: 1}
	m.byCondo[condominiumID] = addr
	m.nextTx()
	return addr, nil
}

func (m *InMemory) LookupCondominiumContract(_ context.Context, condominiumID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("lookup_contract"); err != nil {
		return "", err
	}
	if addr, ok := m.byCondo[condominiumID]; ok {
		return addr, nil
	}
	return "", sentinel.ErrNotFound
}

func (m *InMemory) CreateElection(_ context.Context, contract, name string, options []models.Option, durationSeconds uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("create_election"); err != nil {
		return 0, err
	}
	c, err := m.contract("create_election", contract)
	if err != nil {
		return 0, err
	}
	if len(options) == 0 || durationSeconds == 0 {
		return 0, rejected("create_election", fmt.Errorf("%w: invalid election parameters", ErrReverted))
	}
	id := c.nextID
	c.nextID++
	c.elections[id] = &memElection{
		name:       name,
		options:    append([]models.Option(nil), options...),
		counts:     make([]uint64, len(options)),
		endTime:    m.now().Add(time.Duration(durationSeconds) * time.Second),
		active:     true,
		members:    make(map[string]struct{}),
		nullifiers: make(map[string]struct{}),
	}
	m.nextTx()
	return id, nil
}

func (m *InMemory) AddMembers(_ context.Context, contract string, electionID uint64, commitments []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("add_members"); err != nil {
		return err
	}
	e, err := m.election("add_members", contract, electionID)
	if err != nil {
		return err
	}
	for _, cm := range commitments {
		e.members[cm] = struct{}{}
	}
	m.nextTx()
	return nil
}

func (m *InMemory) SubmitVote(_ context.Context, contract string, electionID, optionIndex uint64, proof models.Proof) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("submit_vote"); err != nil {
		return "", err
	}
	e, err := m.election("submit_vote", contract, electionID)
	if err != nil {
		return "", err
	}
	switch {
	case !e.active || !m.now().Before(e.endTime):
		return "", rejected("submit_vote", fmt.Errorf("%w: election is not open", ErrReverted))
	case optionIndex >= uint64(len(e.options)):
		return "", rejected("submit_vote", fmt.Errorf("%w: invalid option", ErrReverted))
	case len(e.members) == 0:
		return "", rejected("submit_vote", fmt.Errorf("%w: empty group", ErrReverted))
	}
	nullifier, err := proof.NullifierKey()
	if err != nil {
		return "", rejected("submit_vote", fmt.Errorf("%w: malformed nullifier: %v", ErrReverted, err))
	}
	if _, used := e.nullifiers[nullifier]; used {
		return "", rejected("submit_vote", fmt.Errorf("%w: nullifier already used", ErrReverted))
	}
	e.nullifiers[nullifier] = struct{}{}
	e.counts[optionIndex]++
	return m.nextTx(), nil
}

func (m *InMemory) GetElectionStatus(_ context.Context, contract string, electionID uint64) (*models.ElectionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("election_status"); err != nil {
		return nil, err
	}
	e, err := m.election("election_status", contract, electionID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(e.options))
	for i, o := range e.options {
		names[i] = o.Name
	}
	return &models.ElectionStatus{
		Name:       e.name,
		Options:    names,
		VoteCounts: append([]uint64(nil), e.counts...),
		EndTime:    e.endTime,
		Active:     e.active,
		GroupID:    fmt.Sprint(electionID),
		HasExpired: e.endTime.Before(m.now()),
	}, nil
}

func (m *InMemory) GetVoteCount(_ context.Context, contract string, electionID, optionIndex uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("vote_count"); err != nil {
		return 0, err
	}
	e, err := m.election("vote_count", contract, electionID)
	if err != nil {
		return 0, err
	}
	if optionIndex >= uint64(len(e.counts)) {
		return 0, rejected("vote_count", fmt.Errorf("%w: invalid option", ErrReverted))
	}
	return e.counts[optionIndex], nil
}

func (m *InMemory) CloseElection(_ context.Context, contract string, electionID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("close_election"); err != nil {
		return "", err
	}
	e, err := m.election("close_election", contract, electionID)
	if err != nil {
		return "", err
	}
	if !e.active || !e.endTime.Before(m.now()) {
		return "", rejected("close_election", fmt.Errorf("%w: election cannot be closed yet", ErrReverted))
	}
	e.active = false
	return m.nextTx(), nil
}

// Members returns the registered commitments of an election (tests).
func (m *InMemory) Members(contract string, electionID uint64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.election("members", contract, electionID)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(e.members))
	for cm := range e.members {
		out = append(out, cm)
	}
	return out
}

// Deployments counts deployed contracts (tests).
func (m *InMemory) Deployments() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contracts)
}

func (m *InMemory) contract(op, address string) (*memContract, error) {
	c, ok := m.contracts[address]
	if !ok {
		return nil, rejected(op, fmt.Errorf("%w: no contract at %s", ErrInvalidAddress, address))
	}
	return c, nil
}

func (m *InMemory) election(op, address string, electionID uint64) (*memElection, error) {
	c, err := m.contract(op, address)
	if err != nil {
		return nil, err
	}
	e, ok := c.elections[electionID]
	if !ok {
		return nil, rejected(op, fmt.Errorf("%w: %d", ErrUnknownElection, electionID))
	}
	return e, nil
}
