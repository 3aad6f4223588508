package ledger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"condovote/internal/condominium/models"
)

type optionTuple struct {
	ID   *big.Int `abi:"id"`
	Name string   `abi:"name"`
}

type proofTuple struct {
	MerkleTreeDepth *big.Int                    `abi:"merkleTreeDepth"`
	MerkleTreeRoot  *big.Int                    `abi:"merkleTreeRoot"`
	Nullifier       *big.Int                    `abi:"nullifier"`
	Message         *big.Int                    `abi:"message"`
	Scope           *big.Int                    `abi:"scope"`
	Points          [models.ProofPoints]*big.Int `abi:"points"`
}

func toProofTuple(p models.Proof) (proofTuple, error) {
	depth, root, nullifier, message, scope, points, err := p.Ints()
	if err != nil {
		return proofTuple{}, err
	}
	return proofTuple{
		MerkleTreeDepth: depth,
		MerkleTreeRoot:  root,
		Nullifier:       nullifier,
		Message:         message,
		Scope:           scope,
		Points:          points,
	}, nil
}

// decodeElectionDetails converts getElectionDetails output. HasExpired is
// true when the contract says so or when endTime is already in the past.
func decodeElectionDetails(out []interface{}, now time.Time) (*models.ElectionStatus, error) {
	if len(out) != 7 {
		return nil, rejected("election_status", fmt.Errorf("unexpected output length %d", len(out)))
	}
	name := *abi.ConvertType(out[0], new(string)).(*string)
	options := *abi.ConvertType(out[1], new([]string)).(*[]string)
	counts := *abi.ConvertType(out[2], new([]*big.Int)).(*[]*big.Int)
	endTime := *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	active := *abi.ConvertType(out[4], new(bool)).(*bool)
	groupID := *abi.ConvertType(out[5], new(*big.Int)).(**big.Int)
	storedExpired := *abi.ConvertType(out[6], new(bool)).(*bool)

	voteCounts := make([]uint64, len(counts))
	for i, n := range counts {
		if !n.IsUint64() {
			return nil, rejected("election_status", fmt.Errorf("vote count %s overflows", n))
		}
		voteCounts[i] = n.Uint64()
	}
	if !endTime.IsInt64() {
		return nil, rejected("election_status", fmt.Errorf("end time %s overflows", endTime))
	}
	end := time.Unix(endTime.Int64(), 0).UTC()

	return &models.ElectionStatus{
		Name:       name,
		Options:    options,
		VoteCounts: voteCounts,
		EndTime:    end,
		Active:     active,
		GroupID:    groupID.String(),
		HasExpired: storedExpired || end.Before(now),
	}, nil
}

// contractCreatedAddress finds the factory's CondominiumContractCreated log
// and returns the announced address.
func contractCreatedAddress(logs []*types.Log, factory common.Address) (common.Address, error) {
	event := factoryABI.Events[eventContractCreated]
	for _, l := range logs {
		if l.Address != factory || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		values, err := event.Inputs.NonIndexed().Unpack(l.Data)
		if err != nil {
			return common.Address{}, err
		}
		if len(values) != 1 {
			return common.Address{}, fmt.Errorf("unexpected %s payload", eventContractCreated)
		}
		return *abi.ConvertType(values[0], new(common.Address)).(*common.Address), nil
	}
	return common.Address{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventContractCreated)
}

// electionCreatedID reads the indexed election id of ElectionCreated.
func electionCreatedID(logs []*types.Log, contract common.Address) (uint64, error) {
	event := votingABI.Events[eventElectionCreated]
	for _, l := range logs {
		if l.Address != contract || len(l.Topics) < 2 || l.Topics[0] != event.ID {
			continue
		}
		id := new(big.Int).SetBytes(l.Topics[1].Bytes())
		if !id.IsUint64() {
			return 0, fmt.Errorf("election id %s overflows", id)
		}
		return id.Uint64(), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrEventNotFound, eventElectionCreated)
}
