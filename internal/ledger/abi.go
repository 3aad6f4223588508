package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// factoryABIJSON describes the condominium factory: one voting contract per
// condominium, announced through CondominiumContractCreated whose indexed
// topic is the keccak hash of the condominium id.
const factoryABIJSON = `[
  {"type":"function","name":"createCondominiumVoting","stateMutability":"nonpayable",
   "inputs":[{"name":"condominiumId","type":"string"},{"name":"semaphoreAddress","type":"address"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"event","name":"CondominiumContractCreated","anonymous":false,
   "inputs":[{"name":"condominiumId","type":"string","indexed":true},
             {"name":"contractAddress","type":"address","indexed":false}]}
]`

// votingABIJSON describes the per-condominium voting contract.
const votingABIJSON = `[
  {"type":"function","name":"createElection","stateMutability":"nonpayable",
   "inputs":[{"name":"name","type":"string"},
             {"name":"options","type":"tuple[]","components":[{"name":"id","type":"uint256"},{"name":"name","type":"string"}]},
             {"name":"duration","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"closeElection","stateMutability":"nonpayable",
   "inputs":[{"name":"electionId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"vote","stateMutability":"nonpayable",
   "inputs":[{"name":"electionId","type":"uint256"},{"name":"optionIndex","type":"uint256"},
             {"name":"proof","type":"tuple","components":[
               {"name":"merkleTreeDepth","type":"uint256"},{"name":"merkleTreeRoot","type":"uint256"},
               {"name":"nullifier","type":"uint256"},{"name":"message","type":"uint256"},
               {"name":"scope","type":"uint256"},{"name":"points","type":"uint256[8]"}]}],
   "outputs":[]},
  {"type":"function","name":"addMembersToElection","stateMutability":"nonpayable",
   "inputs":[{"name":"electionId","type":"uint256"},{"name":"identityCommitments","type":"uint256[]"}],
   "outputs":[]},
  {"type":"function","name":"getElectionDetails","stateMutability":"view",
   "inputs":[{"name":"electionId","type":"uint256"}],
   "outputs":[{"name":"name","type":"string"},{"name":"options","type":"string[]"},
              {"name":"voteCounts","type":"uint256[]"},{"name":"endTime","type":"uint256"},
              {"name":"active","type":"bool"},{"name":"groupId","type":"uint256"},
              {"name":"hasExpired","type":"bool"}]},
  {"type":"function","name":"getVoteCount","stateMutability":"view",
   "inputs":[{"name":"electionId","type":"uint256"},{"name":"optionIndex","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"ElectionCreated","anonymous":false,
   "inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"name","type":"string","indexed":false}]},
  {"type":"event","name":"VoteCast","anonymous":false,
   "inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"optionIndex","type":"uint256","indexed":true}]},
  {"type":"event","name":"ElectionClosed","anonymous":false,
   "inputs":[{"name":"electionId","type":"uint256","indexed":true}]},
  {"type":"event","name":"MembersAdded","anonymous":false,
   "inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"memberCount","type":"uint256","indexed":false}]}
]`

const (
	methodCreateVoting   = "createCondominiumVoting"
	methodCreateElection = "createElection"
	methodCloseElection  = "closeElection"
	methodVote           = "vote"
	methodAddMembers     = "addMembersToElection"
	methodDetails        = "getElectionDetails"
	methodVoteCount      = "getVoteCount"

	eventContractCreated = "CondominiumContractCreated"
	eventElectionCreated = "ElectionCreated"
)

var (
	factoryABI = mustParseABI(factoryABIJSON)
	votingABI  = mustParseABI(votingABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("ledger: invalid ABI: " + err.Error())
	}
	return parsed
}
