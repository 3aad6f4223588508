package models

import (
	"fmt"
	"math/big"
	"strings"

	dErrors "condovote/pkg/domain-errors"
)

// ProofPoints is the number of field elements in a Groth16 proof.
const ProofPoints = 8

// Proof is the zero-knowledge membership proof produced by the client-side
// prover. It is opaque here: fields are checked for presence and numeric
// form only, and forwarded to the ledger unchanged. Values are decimal or
// 0x-hex encoded unsigned integers.
type Proof struct {
	MerkleTreeDepth string   `json:"merkleTreeDepth"`
	MerkleTreeRoot  string   `json:"merkleTreeRoot"`
	Nullifier       string   `json:"nullifier"`
	Message         string   `json:"message"`
	Scope           string   `json:"scope"`
	Points          []string `json:"points"`
}

// Validate checks presence and numeric form of every field.
func (p *Proof) Validate() error {
	if p == nil {
		return dErrors.New(dErrors.CodeValidation, "proof is required")
	}
	fields := []struct {
		name  string
		value string
	}{
		{"merkleTreeDepth", p.MerkleTreeDepth},
		{"merkleTreeRoot", p.MerkleTreeRoot},
		{"nullifier", p.Nullifier},
		{"message", p.Message},
		{"scope", p.Scope},
	}
	for _, f := range fields {
		if _, err := parseUint(f.value); err != nil {
			return dErrors.New(dErrors.CodeValidation, "proof."+f.name+": "+err.Error())
		}
	}
	if len(p.Points) != ProofPoints {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("proof.points must have %d elements", ProofPoints))
	}
	for i, pt := range p.Points {
		if _, err := parseUint(pt); err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("proof.points[%d]: %s", i, err.Error()))
		}
	}
	return nil
}

// Ints returns the proof as integers in ledger order. Call Validate first.
func (p *Proof) Ints() (depth, root, nullifier, message, scope *big.Int, points [ProofPoints]*big.Int, err error) {
	vals := make([]*big.Int, 5)
	for i, s := range []string{p.MerkleTreeDepth, p.MerkleTreeRoot, p.Nullifier, p.Message, p.Scope} {
		if vals[i], err = parseUint(s); err != nil {
			return
		}
	}
	if len(p.Points) != ProofPoints {
		err = fmt.Errorf("proof has %d points", len(p.Points))
		return
	}
	for i, s := range p.Points {
		if points[i], err = parseUint(s); err != nil {
			return
		}
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], points, nil
}

// NullifierKey is the canonical decimal form of the nullifier, so that
// differently encoded copies of one proof compare equal.
func (p *Proof) NullifierKey() (string, error) {
	n, err := parseUint(p.Nullifier)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

func parseUint(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("is required")
	}
	n, ok := parseDecimalOrHex(s)
	if !ok || n.BitLen() > 256 {
		return nil, fmt.Errorf("must be an unsigned 256-bit integer")
	}
	return n, nil
}

// parseDecimalOrHex accepts plain decimal digits or 0x-prefixed hex digits.
// Signs, other base prefixes and digit separators are rejected.
func parseDecimalOrHex(s string) (*big.Int, bool) {
	base, digits := 10, s
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		base, digits = 16, rest
	}
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return nil, false
	}
	return new(big.Int).SetString(digits, base)
}
