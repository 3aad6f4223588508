package models

import "time"

// ElectionStatus is the ledger's view of an election. HasExpired combines the
// ledger's stored flag with EndTime against the client clock.
type ElectionStatus struct {
	Name       string
	Options    []string
	VoteCounts []uint64
	EndTime    time.Time
	Active     bool
	GroupID    string
	HasExpired bool
}

// CanClose reports whether the ledger would accept a close: the election is
// past its end and still active.
func (s *ElectionStatus) CanClose() bool {
	return s.HasExpired && s.Active
}

// OptionResult is one row of an election's results.
type OptionResult struct {
	OptionIndex int    `json:"optionIndex"`
	OptionName  string `json:"optionName"`
	VoteCount   uint64 `json:"voteCount"`
}

// ElectionResults merges ledger tallies with off-chain option names.
type ElectionResults struct {
	ElectionID  uint64         `json:"electionId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Active      bool           `json:"active"`
	HasExpired  bool           `json:"hasExpired"`
	EndTime     time.Time      `json:"endTime"`
	TotalVotes  uint64         `json:"totalVotes"`
	Results     []OptionResult `json:"results"`
}
