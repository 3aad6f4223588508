// Package ledger is the client of the on-chain voting system: a factory that
// deploys one voting contract per condominium, and the voting contracts that
// hold elections, membership groups and tallies.
//
// Every write submits a transaction and blocks until it is mined with the
// configured number of confirmations, bounded by ConfirmTimeout. Every error
// is a *Fault whose Kind separates network trouble from on-chain rejection.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"condovote/internal/condominium/models"
	"condovote/pkg/platform/circuit"
	"condovote/pkg/platform/sentinel"
)

// Backend is the subset of an Ethereum JSON-RPC client the ledger needs.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// Config is built once at start-up and passed in; nothing here reads the
// environment.
type Config struct {
	FactoryAddress   string
	SemaphoreAddress string
	PrivateKeyHex    string
	ChainID          int64
	// Confirmations is the number of blocks, including the inclusion block,
	// a transaction needs before a write returns.
	Confirmations  uint64
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	// DeployBlock bounds factory log scans from below.
	DeployBlock uint64
}

// EthClient implements the ledger operations over go-ethereum.
type EthClient struct {
	backend     Backend
	factory     *bind.BoundContract
	factoryAddr common.Address
	semaphore   common.Address
	key         *ecdsa.PrivateKey
	chainID     *big.Int
	cfg         Config

	// sendMu serializes transaction submission so concurrent writes never
	// reuse a pending nonce. Confirmation waits run outside it.
	sendMu sync.Mutex

	breaker *circuit.Breaker
	tracer  trace.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*EthClient)

func WithLogger(logger *slog.Logger) Option {
	return func(c *EthClient) { c.logger = logger }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *EthClient) { c.breaker = b }
}

// WithClock overrides the clock used for the client-side expiry check.
func WithClock(now func() time.Time) Option {
	return func(c *EthClient) { c.now = now }
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}
	return client, nil
}

// NewEthClient validates cfg and binds the factory contract.
func NewEthClient(backend Backend, cfg Config, opts ...Option) (*EthClient, error) {
	if backend == nil {
		return nil, fmt.Errorf("ledger backend is required")
	}
	if !common.IsHexAddress(cfg.FactoryAddress) {
		return nil, fmt.Errorf("invalid factory address %q", cfg.FactoryAddress)
	}
	if !common.IsHexAddress(cfg.SemaphoreAddress) {
		return nil, fmt.Errorf("invalid semaphore address %q", cfg.SemaphoreAddress)
	}
	key, err := crypto.HexToECDSA(trimHexPrefix(cfg.PrivateKeyHex))
	if err != nil {
		return nil, fmt.Errorf("parse ledger signing key: %w", err)
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("ledger chain id is required")
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = 1
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	factoryAddr := common.HexToAddress(cfg.FactoryAddress)
	c := &EthClient{
		backend:     backend,
		factory:     bind.NewBoundContract(factoryAddr, factoryABI, backend, backend, backend),
		factoryAddr: factoryAddr,
		semaphore:   common.HexToAddress(cfg.SemaphoreAddress),
		key:         key,
		chainID:     big.NewInt(cfg.ChainID),
		cfg:         cfg,
		breaker:     circuit.New("ledger", circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second)),
		tracer:      otel.Tracer("condovote/ledger"),
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the signer address used for transactions.
func (c *EthClient) Address() common.Address {
	return crypto.PubkeyToAddress(c.key.PublicKey)
}

// DeployCondominiumContract asks the factory for a new voting contract and
// returns its address as announced by CondominiumContractCreated.
func (c *EthClient) DeployCondominiumContract(ctx context.Context, condominiumID string) (string, error) {
	var address string
	err := c.do(ctx, "deploy_contract", c.factoryAddr.Hex(), func(ctx context.Context) error {
		receipt, err := c.transact(ctx, c.factory, methodCreateVoting, condominiumID, c.semaphore)
		if err != nil {
			return err
		}
		addr, err := contractCreatedAddress(receipt.Logs, c.factoryAddr)
		if err != nil {
			return err
		}
		address = addr.Hex()
		return nil
	})
	return address, err
}

// LookupCondominiumContract scans factory logs for an earlier deployment for
// condominiumID. It returns sentinel.ErrNotFound when none exists.
func (c *EthClient) LookupCondominiumContract(ctx context.Context, condominiumID string) (string, error) {
	var address string
	err := c.do(ctx, "lookup_contract", c.factoryAddr.Hex(), func(ctx context.Context) error {
		logs, err := c.backend.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(c.cfg.DeployBlock),
			Addresses: []common.Address{c.factoryAddr},
			Topics: [][]common.Hash{
				{factoryABI.Events[eventContractCreated].ID},
				{crypto.Keccak256Hash([]byte(condominiumID))},
			},
		})
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			return nil
		}
		addr, err := contractCreatedAddress([]*types.Log{&logs[0]}, c.factoryAddr)
		if err != nil {
			return err
		}
		address = addr.Hex()
		return nil
	})
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", sentinel.ErrNotFound
	}
	return address, nil
}

// CreateElection creates an election and returns the id from ElectionCreated.
func (c *EthClient) CreateElection(ctx context.Context, contract, name string, options []models.Option, durationSeconds uint64) (uint64, error) {
	var electionID uint64
	err := c.do(ctx, "create_election", contract, func(ctx context.Context) error {
		bound, addr, err := c.voting(contract)
		if err != nil {
			return err
		}
		tuples := make([]optionTuple, len(options))
		for i, o := range options {
			tuples[i] = optionTuple{ID: new(big.Int).SetUint64(o.ID), Name: o.Name}
		}
		receipt, err := c.transact(ctx, bound, methodCreateElection, name, tuples, new(big.Int).SetUint64(durationSeconds))
		if err != nil {
			return err
		}
		electionID, err = electionCreatedID(receipt.Logs, addr)
		return err
	})
	return electionID, err
}

// AddMembers registers identity commitments in the election's group.
func (c *EthClient) AddMembers(ctx context.Context, contract string, electionID uint64, commitments []string) error {
	return c.do(ctx, "add_members", contract, func(ctx context.Context) error {
		bound, _, err := c.voting(contract)
		if err != nil {
			return err
		}
		values := make([]*big.Int, 0, len(commitments))
		for _, s := range commitments {
			v, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return rejected("add_members", fmt.Errorf("commitment %q is not an integer", s))
			}
			values = append(values, v)
		}
		_, err = c.transact(ctx, bound, methodAddMembers, new(big.Int).SetUint64(electionID), values)
		return err
	})
}

// SubmitVote forwards a membership proof. Nullifier reuse is rejected by the
// contract and surfaces as KindRejected.
func (c *EthClient) SubmitVote(ctx context.Context, contract string, electionID, optionIndex uint64, proof models.Proof) (string, error) {
	var txRef string
	err := c.do(ctx, "submit_vote", contract, func(ctx context.Context) error {
		bound, _, err := c.voting(contract)
		if err != nil {
			return err
		}
		tuple, err := toProofTuple(proof)
		if err != nil {
			return rejected("submit_vote", err)
		}
		receipt, err := c.transact(ctx, bound, methodVote,
			new(big.Int).SetUint64(electionID), new(big.Int).SetUint64(optionIndex), tuple)
		if err != nil {
			return err
		}
		txRef = receipt.TxHash.Hex()
		return nil
	})
	return txRef, err
}

// GetElectionStatus reads getElectionDetails and derives HasExpired from the
// stored flag and the end time against the client clock.
func (c *EthClient) GetElectionStatus(ctx context.Context, contract string, electionID uint64) (*models.ElectionStatus, error) {
	var status *models.ElectionStatus
	err := c.do(ctx, "election_status", contract, func(ctx context.Context) error {
		bound, _, err := c.voting(contract)
		if err != nil {
			return err
		}
		var out []interface{}
		if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, methodDetails, new(big.Int).SetUint64(electionID)); err != nil {
			return err
		}
		status, err = decodeElectionDetails(out, c.now())
		return err
	})
	return status, err
}

// GetVoteCount reads the tally of one option.
func (c *EthClient) GetVoteCount(ctx context.Context, contract string, electionID, optionIndex uint64) (uint64, error) {
	var count uint64
	err := c.do(ctx, "vote_count", contract, func(ctx context.Context) error {
		bound, _, err := c.voting(contract)
		if err != nil {
			return err
		}
		var out []interface{}
		if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, methodVoteCount,
			new(big.Int).SetUint64(electionID), new(big.Int).SetUint64(optionIndex)); err != nil {
			return err
		}
		if len(out) != 1 {
			return rejected("vote_count", fmt.Errorf("unexpected output length %d", len(out)))
		}
		n := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
		if !n.IsUint64() {
			return rejected("vote_count", fmt.Errorf("vote count %s overflows", n))
		}
		count = n.Uint64()
		return nil
	})
	return count, err
}

// CloseElection closes an expired, active election.
func (c *EthClient) CloseElection(ctx context.Context, contract string, electionID uint64) (string, error) {
	var txRef string
	err := c.do(ctx, "close_election", contract, func(ctx context.Context) error {
		bound, _, err := c.voting(contract)
		if err != nil {
			return err
		}
		receipt, err := c.transact(ctx, bound, methodCloseElection, new(big.Int).SetUint64(electionID))
		if err != nil {
			return err
		}
		txRef = receipt.TxHash.Hex()
		return nil
	})
	return txRef, err
}

// do wraps an operation with the breaker, a span, metrics and classification.
func (c *EthClient) do(ctx context.Context, op, contract string, fn func(ctx context.Context) error) error {
	if !c.breaker.Allow() {
		return &Fault{Kind: KindUnavailable, Op: op, Err: ErrCircuitOpen}
	}
	ctx, span := c.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(
		attribute.String("ledger.contract", contract),
	))
	defer span.End()

	start := time.Now()
	err := classify(op, fn(ctx))
	observe(op, err, start)

	switch {
	case IsRetryable(err):
		if _, change := c.breaker.RecordFailure(); change.Opened {
			breakerOpen.Set(1)
			c.logger.WarnContext(ctx, "ledger circuit opened", "op", op, "error", err)
		}
	case KindOf(err) != KindCanceled:
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			breakerOpen.Set(0)
			c.logger.InfoContext(ctx, "ledger circuit closed", "op", op)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	return err
}

// transact submits method and waits for confirmation.
func (c *EthClient) transact(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (*types.Receipt, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	c.sendMu.Lock()
	tx, err := contract.Transact(opts, method, params...)
	c.sendMu.Unlock()
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "ledger transaction submitted", "method", method, "tx", tx.Hash().Hex())
	return c.waitConfirmed(ctx, tx)
}

// waitConfirmed blocks until tx is mined and buried under the configured
// number of confirmations, or until ConfirmTimeout / ctx ends.
func (c *EthClient) waitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: tx %s", ErrReverted, tx.Hash().Hex())
	}
	if c.cfg.Confirmations <= 1 || receipt.BlockNumber == nil {
		return receipt, nil
	}

	target := receipt.BlockNumber.Uint64() + c.cfg.Confirmations - 1
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		head, err := c.backend.BlockNumber(ctx)
		if err == nil && head >= target {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *EthClient) voting(contract string) (*bind.BoundContract, common.Address, error) {
	if !common.IsHexAddress(contract) {
		return nil, common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, contract)
	}
	addr := common.HexToAddress(contract)
	return bind.NewBoundContract(addr, votingABI, c.backend, c.backend, c.backend), addr, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
