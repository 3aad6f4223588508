package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/sentinel"
)

var now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func newCondo(t *testing.T) *Condominium {
	t.Helper()
	c, err := NewCondominium(id.NewCondominiumID(), "Via Roma 1", "CONDO01",
		Admin{Name: "Admin", TaxCode: "ADM01"},
		[]Resident{{TaxCode: "RES01"}, {TaxCode: "RES02"}}, now)
	require.NoError(t, err)
	return c
}

func TestNewCondominium(t *testing.T) {
	t.Run("rejects missing name", func(t *testing.T) {
		_, err := NewCondominium(id.NewCondominiumID(), "  ", "C1", Admin{TaxCode: "A"}, nil, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects missing administrator", func(t *testing.T) {
		_, err := NewCondominium(id.NewCondominiumID(), "Condo", "C1", Admin{}, nil, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects duplicate residents", func(t *testing.T) {
		_, err := NewCondominium(id.NewCondominiumID(), "Condo", "C1", Admin{TaxCode: "A"},
			[]Resident{{TaxCode: "R1"}, {TaxCode: "R1"}}, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("starts unprovisioned with empty collections", func(t *testing.T) {
		c := newCondo(t)
		assert.False(t, c.Provisioned())
		assert.Empty(t, c.Elections)
		assert.Len(t, c.Residents, 2)
	})
}

func TestCondominium_AssignContractIsWriteOnce(t *testing.T) {
	c := newCondo(t)

	require.NoError(t, c.AssignContract("0xAAA"))
	assert.Equal(t, "0xAAA", c.ContractAddress)

	assert.NoError(t, c.AssignContract("0xaaa"), "same address is idempotent")
	assert.ErrorIs(t, c.AssignContract("0xBBB"), sentinel.ErrAlreadySet)
	assert.Equal(t, "0xAAA", c.ContractAddress)
}

func TestCondominium_Membership(t *testing.T) {
	c := newCondo(t)
	assert.True(t, c.IsMember("ADM01"))
	assert.True(t, c.IsAdmin("ADM01"))
	assert.True(t, c.IsMember("RES02"))
	assert.False(t, c.IsAdmin("RES02"))
	assert.False(t, c.IsMember("STRANGER"))
	assert.False(t, c.IsAdmin(""))
	assert.Equal(t, []id.TaxCode{"RES01", "RES02"}, c.ResidentTaxCodes())

	assert.ErrorIs(t, c.AddResident(Resident{TaxCode: "RES01"}), sentinel.ErrAlreadyUsed)
}

func TestCondominium_AppendElection(t *testing.T) {
	c := newCondo(t)
	e, err := NewElection("Budget 2025", "", []Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}}, 3600, now)
	require.NoError(t, err)

	t.Run("unconfirmed election is refused", func(t *testing.T) {
		err := c.AppendElection(*e)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("confirmed election is stored and findable", func(t *testing.T) {
		require.NoError(t, e.Confirm(7))
		require.NoError(t, c.AppendElection(*e))
		found, ok := c.ElectionByOnChainID(7)
		require.True(t, ok)
		assert.Len(t, found.Options, 2)
	})

	t.Run("duplicate on-chain id is refused", func(t *testing.T) {
		assert.ErrorIs(t, c.AppendElection(*e), sentinel.ErrAlreadyUsed)
	})
}

func TestNewElection(t *testing.T) {
	yesNo := []Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}}
	cases := []struct {
		name     string
		title    string
		options  []Option
		duration uint64
	}{
		{"empty name", " ", yesNo, 60},
		{"single option", "Vote", yesNo[:1], 60},
		{"non sequential ids", "Vote", []Option{{ID: 0, Name: "A"}, {ID: 2, Name: "B"}}, 60},
		{"blank option name", "Vote", []Option{{ID: 0, Name: "A"}, {ID: 1, Name: " "}}, 60},
		{"zero duration", "Vote", yesNo, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewElection(tc.title, "", tc.options, tc.duration, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}

	t.Run("confirm is once only", func(t *testing.T) {
		e, err := NewElection("Vote", "", yesNo, 60, now)
		require.NoError(t, err)
		assert.False(t, e.Confirmed())
		require.NoError(t, e.Confirm(3))
		assert.NoError(t, e.Confirm(3))
		assert.Error(t, e.Confirm(4))
		assert.True(t, e.HasOption(1))
		assert.False(t, e.HasOption(2))
	})

	t.Run("option name falls back to positional label", func(t *testing.T) {
		e, _ := NewElection("Vote", "", yesNo, 60, now)
		assert.Equal(t, "No", e.OptionName(1))
		assert.Equal(t, "Option 2", e.OptionName(2))
	})
}

func TestUser_Commitment(t *testing.T) {
	u := &User{TaxCode: "RES01"}
	require.NoError(t, u.SetCommitment("123"))
	assert.NoError(t, u.SetCommitment("123"))
	assert.ErrorIs(t, u.SetCommitment("456"), sentinel.ErrAlreadySet)
	assert.Equal(t, "123", u.Commitment)

	cid := id.NewCondominiumID()
	u.AddCondominium(cid)
	u.AddCondominium(cid)
	assert.Len(t, u.Condominiums, 1)
}

func TestParseCommitment(t *testing.T) {
	v, err := ParseCommitment("0x10")
	require.NoError(t, err)
	assert.Equal(t, "16", v)

	for _, bad := range []string{"", "abc", "-5", "0", "+5", "0x", "0b101", "0o17", "1_000", "0x_ff"} {
		_, err := ParseCommitment(bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), bad)
	}
}

func validProof() *Proof {
	return &Proof{
		MerkleTreeDepth: "20",
		MerkleTreeRoot:  "0x1234",
		Nullifier:       "99",
		Message:         "1",
		Scope:           "7",
		Points:          []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	}
}

func TestProof_Validate(t *testing.T) {
	require.NoError(t, validProof().Validate())

	var missing *Proof
	assert.True(t, dErrors.HasCode(missing.Validate(), dErrors.CodeValidation))

	noNullifier := validProof()
	noNullifier.Nullifier = ""
	assert.True(t, dErrors.HasCode(noNullifier.Validate(), dErrors.CodeValidation))

	shortPoints := validProof()
	shortPoints.Points = shortPoints.Points[:7]
	assert.True(t, dErrors.HasCode(shortPoints.Validate(), dErrors.CodeValidation))

	for _, bad := range []string{"0b11", "0o7", "1_0", "-1", "0x"} {
		p := validProof()
		p.Message = bad
		assert.True(t, dErrors.HasCode(p.Validate(), dErrors.CodeValidation), bad)
	}

	hex, dec := validProof(), validProof()
	hex.Nullifier, dec.Nullifier = "0XFF", "255"
	hk, err := hex.NullifierKey()
	require.NoError(t, err)
	dk, err := dec.NullifierKey()
	require.NoError(t, err)
	assert.Equal(t, dk, hk)

	depth, root, _, _, scope, points, err := validProof().Ints()
	require.NoError(t, err)
	assert.Equal(t, int64(20), depth.Int64())
	assert.Equal(t, int64(0x1234), root.Int64())
	assert.Equal(t, int64(7), scope.Int64())
	assert.Equal(t, int64(8), points[7].Int64())
}

func TestVoteRequest_Validate(t *testing.T) {
	var req VoteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"proof":{"merkleTreeDepth":"20","merkleTreeRoot":"1","nullifier":"2","message":"0","scope":"1","points":["1","2","3","4","5","6","7","8"]}}`), &req))
	err := req.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Nil(t, req.OptionIndex)

	req.OptionIndex = OptionIndexOf(0)
	require.NoError(t, req.Validate())
}

func TestPendingAction(t *testing.T) {
	cid := id.NewCondominiumID()
	seven := uint64(7)
	a := NewPendingAction(ActionPopulateMembers, cid, &seven, now)

	assert.Equal(t, "populate_members/"+cid.String()+"/7", a.Key())
	assert.True(t, a.Due(now))
	a.NextAttemptAt = now.Add(time.Minute)
	assert.False(t, a.Due(now))
	a.Status = ActionDone
	assert.False(t, a.Due(now.Add(time.Hour)))

	report := ReconciliationReport{PendingProvisioning: []PendingAction{*a}}
	assert.Equal(t, 1, report.Total())
}

func TestElectionStatus_CanClose(t *testing.T) {
	assert.True(t, (&ElectionStatus{HasExpired: true, Active: true}).CanClose())
	assert.False(t, (&ElectionStatus{HasExpired: false, Active: true}).CanClose())
	assert.False(t, (&ElectionStatus{HasExpired: true, Active: false}).CanClose())
}

func TestCondominium_CloneIsDeep(t *testing.T) {
	c := newCondo(t)
	onChain := uint64(7)
	c.Elections = append(c.Elections, Election{Name: "Budget", Options: []Option{{ID: 0, Name: "Yes"}}, OnChainID: &onChain})

	cp := c.Clone()
	cp.Residents[0].Name = "changed"
	cp.Elections[0].Options[0].Name = "changed"
	*cp.Elections[0].OnChainID = 9

	assert.Empty(t, c.Residents[0].Name)
	assert.Equal(t, "Yes", c.Elections[0].Options[0].Name)
	assert.Equal(t, uint64(7), *c.Elections[0].OnChainID)
}
