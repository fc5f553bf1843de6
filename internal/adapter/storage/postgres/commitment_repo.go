package postgres

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const liveCommitmentIndex = "ux_live_commitment_per_bettor"

const commitmentColumns = `id, bettor, bet_amount, choice, secret_enc, nonce, commitment_hash, expires_at, status,
		deposit_tx_ref, outcome, won, payout_amount, payout_tx_ref, payout_reserved_at, randomness_proof,
		is_fallback_randomness, resolve_lease_until, resolved_at, created_at, updated_at`

// CommitmentRepo implements ports.CommitmentRepository.
type CommitmentRepo struct {
	pool Pool
}

// NewCommitmentRepo creates a new CommitmentRepo.
func NewCommitmentRepo(pool Pool) *CommitmentRepo {
	return &CommitmentRepo{pool: pool}
}

// Create inserts a new pending commitment within a transaction.
func (r *CommitmentRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	query := `INSERT INTO wager_commitments (id, bettor, bet_amount, choice, secret_enc, nonce, commitment_hash,
		expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.Bettor, c.BetAmount, c.Choice, c.SecretEnc, hex.EncodeToString(c.Nonce),
		c.CommitmentHash, c.ExpiresAt, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, liveCommitmentIndex) {
			return apperror.ErrLiveCommitmentExists()
		}
		return fmt.Errorf("insert commitment: %w", err)
	}
	return nil
}

// GetByID fetches a commitment by id (without locking).
func (r *CommitmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM wager_commitments WHERE id = $1`
	return scanCommitment(r.pool.QueryRow(ctx, query, id), "get commitment by id")
}

// GetByIDForUpdate fetches a commitment with pessimistic locking.
// This MUST be called within a transaction.
func (r *CommitmentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM wager_commitments WHERE id = $1 FOR UPDATE`
	return scanCommitment(tx.QueryRow(ctx, query, id), "get commitment for update")
}

// GetLiveByBettorForUpdate fetches the bettor's pending or deposited commitment, if any.
// This MUST be called within a transaction.
func (r *CommitmentRepo) GetLiveByBettorForUpdate(ctx context.Context, tx pgx.Tx, bettor string) (*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM wager_commitments
		WHERE bettor = $1 AND status IN ('pending', 'deposited') LIMIT 1 FOR UPDATE`
	return scanCommitment(tx.QueryRow(ctx, query, bettor), "get live commitment by bettor")
}

// MarkDeposited moves a pending commitment to deposited.
func (r *CommitmentRepo) MarkDeposited(ctx context.Context, tx pgx.Tx, id uuid.UUID, txRef string) error {
	query := `UPDATE wager_commitments SET status = 'deposited', deposit_tx_ref = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, txRef, id)
	if err != nil {
		return fmt.Errorf("mark commitment deposited: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending commitment not found: %s", id)
	}
	return nil
}

// SaveOutcome stores outcome fields on a deposited commitment.
func (r *CommitmentRepo) SaveOutcome(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	proof, err := encodeProof(c.RandomnessProof)
	if err != nil {
		return err
	}

	query := `UPDATE wager_commitments SET outcome = $1, won = $2, payout_amount = $3, randomness_proof = $4,
		is_fallback_randomness = $5, payout_reserved_at = $6, resolve_lease_until = $7, updated_at = NOW()
		WHERE id = $8 AND status = 'deposited'`

	tag, err := tx.Exec(ctx, query,
		choicePtr(c.Outcome), c.Won, c.PayoutAmount, proof,
		c.IsFallbackRandomness, c.PayoutReservedAt, c.ResolveLeaseUntil, c.ID,
	)
	if err != nil {
		return fmt.Errorf("save commitment outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposited commitment not found: %s", c.ID)
	}
	return nil
}

// SetPayoutTxRef records the payout transaction as soon as it is broadcast.
func (r *CommitmentRepo) SetPayoutTxRef(ctx context.Context, id uuid.UUID, txRef string) error {
	query := `UPDATE wager_commitments SET payout_tx_ref = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'deposited' AND payout_tx_ref IS NULL`

	tag, err := r.pool.Exec(ctx, query, txRef, id)
	if err != nil {
		return fmt.Errorf("set payout tx ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commitment %s not awaiting payout", id)
	}
	return nil
}

// MarkResolved moves a deposited commitment to resolved and releases the lease.
func (r *CommitmentRepo) MarkResolved(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	query := `UPDATE wager_commitments SET status = 'resolved', payout_tx_ref = $1, resolved_at = $2,
		resolve_lease_until = NULL, updated_at = NOW()
		WHERE id = $3 AND status = 'deposited'`

	tag, err := tx.Exec(ctx, query, c.PayoutTxRef, c.ResolvedAt, c.ID)
	if err != nil {
		return fmt.Errorf("mark commitment resolved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposited commitment not found: %s", c.ID)
	}
	return nil
}

// ExpireDue expires up to limit overdue live commitments. Winners awaiting
// payout are never expired. Rows locked by a concurrent resolver are skipped.
func (r *CommitmentRepo) ExpireDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `UPDATE wager_commitments SET status = 'expired', updated_at = $1
		WHERE id IN (
			SELECT id FROM wager_commitments
			WHERE status IN ('pending', 'deposited') AND expires_at < $1
				AND won IS NOT TRUE AND payout_tx_ref IS NULL
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id`

	rows, err := tx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("expire due commitments: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired ids: %w", err)
	}
	return ids, nil
}

func scanCommitment(row pgx.Row, op string) (*domain.Commitment, error) {
	c := &domain.Commitment{}
	var (
		nonceHex string
		outcome  *string
		proof    *string
	)
	err := row.Scan(
		&c.ID, &c.Bettor, &c.BetAmount, &c.Choice, &c.SecretEnc, &nonceHex, &c.CommitmentHash,
		&c.ExpiresAt, &c.Status, &c.DepositTxRef, &outcome, &c.Won, &c.PayoutAmount, &c.PayoutTxRef,
		&c.PayoutReservedAt, &proof, &c.IsFallbackRandomness, &c.ResolveLeaseUntil, &c.ResolvedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if c.Nonce, err = hex.DecodeString(nonceHex); err != nil {
		return nil, apperror.ErrCorruptRecord("commitment nonce", err)
	}
	if outcome != nil {
		o := domain.Choice(*outcome)
		c.Outcome = &o
	}
	if proof != nil && *proof != "" {
		if c.RandomnessProof, err = domain.DecodeRandomnessProof(*proof); err != nil {
			return nil, apperror.ErrCorruptRecord("randomness proof", err)
		}
	}
	return c, nil
}

func encodeProof(p *domain.RandomnessProof) (*string, error) {
	if p == nil {
		return nil, nil
	}
	s, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func choicePtr(c *domain.Choice) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
