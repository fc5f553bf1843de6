package domain

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// RandomnessProofVersion is the current layout of RandomnessProof.
const RandomnessProofVersion = 1

// RandomnessSourceKind names where an outcome's randomness came from.
type RandomnessSourceKind string

const (
	RandomnessSourceBeacon   RandomnessSourceKind = "beacon"
	RandomnessSourceFallback RandomnessSourceKind = "fallback"
)

// ErrMalformedProof is returned when a stored proof cannot be decoded.
var ErrMalformedProof = errors.New("malformed randomness proof")

// RandomnessProof is the versioned audit record of the randomness used to
// settle a wager.
type RandomnessProof struct {
	Version    int                  `json:"v"`
	Source     RandomnessSourceKind `json:"source"`
	Round      uint64               `json:"round,omitempty"`
	Randomness string               `json:"randomness"` // hex
	Signature  string               `json:"signature,omitempty"`
	RequestID  string               `json:"request_id"`
}

// Randomness is one draw together with its proof.
type Randomness struct {
	Value    []byte
	Proof    RandomnessProof
	Fallback bool
}

// Encode serializes the proof for storage.
func (p *RandomnessProof) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode randomness proof: %w", err)
	}
	return string(b), nil
}

// Validate checks that the proof is well formed for the current version.
func (p *RandomnessProof) Validate() error {
	if p.Version != RandomnessProofVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedProof, p.Version)
	}
	if p.Source != RandomnessSourceBeacon && p.Source != RandomnessSourceFallback {
		return fmt.Errorf("%w: unknown source %q", ErrMalformedProof, p.Source)
	}
	if p.Randomness == "" {
		return fmt.Errorf("%w: empty randomness", ErrMalformedProof)
	}
	if _, err := hex.DecodeString(p.Randomness); err != nil {
		return fmt.Errorf("%w: randomness is not hex", ErrMalformedProof)
	}
	return nil
}

// DecodeRandomnessProof parses a stored proof. It never substitutes a
// default: any failure wraps ErrMalformedProof.
func DecodeRandomnessProof(s string) (*RandomnessProof, error) {
	var p RandomnessProof
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
