package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// PayoutMultiplierBps is the single payout multiplier for a winning wager,
// in basis points of the bet (19600 = 1.96x).
const PayoutMultiplierBps = 19600

// BpsDenominator is 100% in basis points.
const BpsDenominator = 10000

// Choice is a bettor's pick for a two-sided wager.
type Choice string

const (
	ChoiceHeads Choice = "heads"
	ChoiceTails Choice = "tails"
)

// IsValid reports whether c is a selectable side.
func (c Choice) IsValid() bool {
	return c == ChoiceHeads || c == ChoiceTails
}

// CommitmentStatus is the lifecycle state of a wager commitment.
type CommitmentStatus string

const (
	CommitmentStatusPending   CommitmentStatus = "pending"
	CommitmentStatusDeposited CommitmentStatus = "deposited"
	CommitmentStatusResolved  CommitmentStatus = "resolved"
	CommitmentStatusExpired   CommitmentStatus = "expired"
)

// LiveStatuses are the statuses that count toward the one-per-bettor limit.
var LiveStatuses = []CommitmentStatus{CommitmentStatusPending, CommitmentStatusDeposited}

// IsLive reports whether the commitment is still open.
func (s CommitmentStatus) IsLive() bool {
	return s == CommitmentStatusPending || s == CommitmentStatusDeposited
}

// IsTerminal reports whether no further transition is possible.
func (s CommitmentStatus) IsTerminal() bool {
	return s == CommitmentStatusResolved || s == CommitmentStatusExpired
}

// CanTransitionTo reports whether s -> next is an edge of the state machine:
// pending->deposited, pending->expired, deposited->resolved, deposited->expired.
func (s CommitmentStatus) CanTransitionTo(next CommitmentStatus) bool {
	switch s {
	case CommitmentStatusPending:
		return next == CommitmentStatusDeposited || next == CommitmentStatusExpired
	case CommitmentStatusDeposited:
		return next == CommitmentStatusResolved || next == CommitmentStatusExpired
	}
	return false
}

// Commitment is a single commit-reveal wager.
type Commitment struct {
	ID                   uuid.UUID        `json:"id"`
	Bettor               string           `json:"bettor"`
	BetAmount            int64            `json:"bet_amount"` // native minor units
	Choice               Choice           `json:"choice"`
	Secret               []byte           `json:"-"` // plaintext, only held in memory
	SecretEnc            string           `json:"-"` // AES-256-GCM at rest
	Nonce                []byte           `json:"-"`
	CommitmentHash       string           `json:"commitment_hash"`
	ExpiresAt            time.Time        `json:"expires_at"`
	Status               CommitmentStatus `json:"status"`
	DepositTxRef         *string          `json:"deposit_tx_ref,omitempty"`
	Outcome              *Choice          `json:"outcome,omitempty"`
	Won                  *bool            `json:"won,omitempty"`
	PayoutAmount         int64            `json:"payout_amount"`
	PayoutTxRef          *string          `json:"payout_tx_ref,omitempty"`
	PayoutReservedAt     *time.Time       `json:"-"` // counted against the daily payout ceiling
	RandomnessProof      *RandomnessProof `json:"randomness_proof,omitempty"`
	IsFallbackRandomness bool             `json:"is_fallback_randomness"`
	ResolveLeaseUntil    *time.Time       `json:"-"`
	ResolvedAt           *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// IsExpiredAt reports whether the commitment's deadline has passed at now.
func (c *Commitment) IsExpiredAt(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// LeaseHeldAt reports whether a resolver holds an unexpired claim.
func (c *Commitment) LeaseHeldAt(now time.Time) bool {
	return c.ResolveLeaseUntil != nil && c.ResolveLeaseUntil.After(now)
}

// HasOutcome reports whether an outcome has been drawn and stored.
func (c *Commitment) HasOutcome() bool {
	return c.Outcome != nil && c.Won != nil
}

// Reveal is the material an auditor needs to recompute the commitment hash.
type Reveal struct {
	Secret         string `json:"secret"`
	Nonce          string `json:"nonce"`
	Choice         Choice `json:"choice"`
	BetAmount      int64  `json:"bet_amount"`
	CommitmentHash string `json:"commitment_hash"`
}

// Reveal returns the commit-reveal opening once the commitment is terminal.
// Live commitments, or ones whose secret is not loaded, return nil.
func (c *Commitment) Reveal() *Reveal {
	if !c.Status.IsTerminal() || len(c.Secret) == 0 {
		return nil
	}
	return &Reveal{
		Secret:         hex.EncodeToString(c.Secret),
		Nonce:          hex.EncodeToString(c.Nonce),
		Choice:         c.Choice,
		BetAmount:      c.BetAmount,
		CommitmentHash: c.CommitmentHash,
	}
}

// ComputeCommitmentHash returns hex(sha256(secret ‖ choice ‖ betAmount(8B BE) ‖ nonce)).
func ComputeCommitmentHash(secret []byte, choice Choice, betAmount int64, nonce []byte) string {
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], uint64(betAmount))

	h := sha256.New()
	h.Write(secret)
	h.Write([]byte(choice))
	h.Write(amt[:])
	h.Write(nonce)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyCommitment recomputes the hash from a reveal and compares it in constant time.
func VerifyCommitment(commitmentHash string, secret []byte, choice Choice, betAmount int64, nonce []byte) bool {
	expected := ComputeCommitmentHash(secret, choice, betAmount, nonce)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(commitmentHash)) == 1
}

// OutcomeFromRandomness maps randomness onto a side. The bettor's secret and
// the commitment id are mixed into the digest.
func OutcomeFromRandomness(randomness, secret []byte, id uuid.UUID) Choice {
	h := sha256.New()
	h.Write(randomness)
	h.Write(secret)
	h.Write(id[:])
	if h.Sum(nil)[0]%2 == 0 {
		return ChoiceHeads
	}
	return ChoiceTails
}

// PayoutFor returns the amount owed to a winner of betAmount.
func PayoutFor(betAmount int64) int64 {
	p := new(big.Int).Mul(big.NewInt(betAmount), big.NewInt(PayoutMultiplierBps))
	p.Quo(p, big.NewInt(BpsDenominator))
	return p.Int64()
}

// UsedTxRef marks a deposit transaction as credited. A TxRef appears at
// most once across all commitments.
type UsedTxRef struct {
	TxRef        string    `json:"tx_ref"`
	CommitmentID uuid.UUID `json:"commitment_id"`
	UsedAt       time.Time `json:"used_at"`
}
