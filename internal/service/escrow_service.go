package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/metrics"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	secretSize        = 32
	nonceSize         = 16
	sweepBatchSize    = 500
	payoutGasLimit    = 21000
	maxTxRefLength    = 128
	payoutRefAttempts = 3
)

// EscrowPolicy holds the wager limits and timings.
type EscrowPolicy struct {
	MinBet         int64
	MaxBet         int64
	TTL            time.Duration
	ResolveLease   time.Duration
	VerifyDeposits bool
	DrawTimeout    time.Duration
}

// EscrowServiceImpl implements ports.EscrowService.
type EscrowServiceImpl struct {
	commitments ports.CommitmentRepository
	txRefs      ports.TxRefRepository
	wallets     ports.WalletRepository
	transactor  ports.DBTransactor
	encSvc      ports.EncryptionService
	vault       ports.WalletVault
	safety      ports.SafetyService
	chain       ports.ChainClient
	randomness  ports.RandomnessSource
	policy      EscrowPolicy
	now         func() time.Time
	log         zerolog.Logger
}

// NewEscrowService creates a new EscrowServiceImpl. randomness may be nil,
// in which case every outcome uses the local fallback draw.
func NewEscrowService(
	commitments ports.CommitmentRepository,
	txRefs ports.TxRefRepository,
	wallets ports.WalletRepository,
	transactor ports.DBTransactor,
	encSvc ports.EncryptionService,
	vault ports.WalletVault,
	safety ports.SafetyService,
	chain ports.ChainClient,
	randomness ports.RandomnessSource,
	policy EscrowPolicy,
	log zerolog.Logger,
) *EscrowServiceImpl {
	return &EscrowServiceImpl{
		commitments: commitments,
		txRefs:      txRefs,
		wallets:     wallets,
		transactor:  transactor,
		encSvc:      encSvc,
		vault:       vault,
		safety:      safety,
		chain:       chain,
		randomness:  randomness,
		policy:      policy,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logger.Component(log, "escrow"),
	}
}

// CreateCommitment opens a wager for a bettor who has no live commitment.
func (s *EscrowServiceImpl) CreateCommitment(ctx context.Context, req ports.CreateCommitmentRequest) (*domain.Commitment, error) {
	if !common.IsHexAddress(req.Bettor) {
		return nil, apperror.Validation("bettor must be a 0x-prefixed address")
	}
	if !req.Choice.IsValid() {
		return nil, apperror.ErrInvalidChoice(string(req.Choice))
	}
	if req.BetAmount < s.policy.MinBet || req.BetAmount > s.policy.MaxBet {
		return nil, apperror.ErrInvalidBetAmount(s.policy.MinBet, s.policy.MaxBet)
	}
	bettor := common.HexToAddress(req.Bettor).Hex()

	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret: %w", err))
	}
	defer clear(secret)
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate nonce: %w", err))
	}

	secretEnc, err := s.encSvc.Encrypt(hex.EncodeToString(secret))
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt secret: %w", err))
	}

	now := s.now()
	c := &domain.Commitment{
		ID:             uuid.New(),
		Bettor:         bettor,
		BetAmount:      req.BetAmount,
		Choice:         req.Choice,
		SecretEnc:      secretEnc,
		Nonce:          nonce,
		CommitmentHash: domain.ComputeCommitmentHash(secret, req.Choice, req.BetAmount, nonce),
		ExpiresAt:      now.Add(s.policy.TTL),
		Status:         domain.CommitmentStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	live, err := s.commitments.GetLiveByBettorForUpdate(ctx, dbTx, bettor)
	if err != nil {
		return nil, appOrInternal(err, "lock live commitment")
	}
	if live != nil {
		return nil, apperror.ErrLiveCommitmentExists()
	}

	if err := s.commitments.Create(ctx, dbTx, c); err != nil {
		return nil, appOrInternal(err, "create commitment")
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	metrics.CommitmentTransitions.WithLabelValues(string(domain.CommitmentStatusPending)).Inc()
	s.log.Info().
		Str("commitment_id", c.ID.String()).
		Str("bettor", bettor).
		Int64("bet_amount", c.BetAmount).
		Time("expires_at", c.ExpiresAt).
		Msg("commitment created")
	return c, nil
}

// GetCommitment returns a commitment. Terminal commitments carry their
// decrypted secret so the reveal can be published.
func (s *EscrowServiceImpl) GetCommitment(ctx context.Context, id uuid.UUID) (*domain.Commitment, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status.IsTerminal() {
		if c.Secret, err = s.decryptSecret(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ConfirmDeposit credits a deposit transaction to a pending commitment.
func (s *EscrowServiceImpl) ConfirmDeposit(ctx context.Context, id uuid.UUID, txRef string) (*domain.Commitment, error) {
	txRef = strings.ToLower(strings.TrimSpace(txRef))
	if txRef == "" || len(txRef) > maxTxRefLength {
		return nil, apperror.Validation("tx_ref is required")
	}

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepositable(c); err != nil {
		return nil, err
	}

	used, err := s.txRefs.Exists(ctx, txRef)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check tx ref: %w", err))
	}
	if used {
		return nil, apperror.ErrTxRefAlreadyUsed()
	}

	if s.policy.VerifyDeposits {
		if err := s.verifyDeposit(ctx, c, txRef); err != nil {
			return nil, err
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lock(ctx, dbTx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepositable(locked); err != nil {
		return nil, err
	}

	now := s.now()
	inserted, err := s.txRefs.Insert(ctx, dbTx, &domain.UsedTxRef{TxRef: txRef, CommitmentID: id, UsedAt: now})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record tx ref: %w", err))
	}
	if !inserted {
		return nil, apperror.ErrTxRefAlreadyUsed()
	}

	if err := s.commitments.MarkDeposited(ctx, dbTx, id, txRef); err != nil {
		return nil, appOrInternal(err, "mark deposited")
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	locked.Status = domain.CommitmentStatusDeposited
	locked.DepositTxRef = &txRef
	locked.UpdatedAt = now

	metrics.CommitmentTransitions.WithLabelValues(string(domain.CommitmentStatusDeposited)).Inc()
	s.log.Info().Str("commitment_id", id.String()).Str("tx_ref", txRef).Msg("deposit confirmed")
	return locked, nil
}

func (s *EscrowServiceImpl) checkDepositable(c *domain.Commitment) error {
	if c.Status != domain.CommitmentStatusPending {
		return apperror.ErrInvalidTransition(string(c.Status), string(domain.CommitmentStatusDeposited))
	}
	if c.IsExpiredAt(s.now()) {
		return apperror.ErrCommitmentExpired()
	}
	return nil
}

func (s *EscrowServiceImpl) verifyDeposit(ctx context.Context, c *domain.Commitment, txRef string) error {
	hot, err := s.vault.Address(ctx, domain.WalletRoleHot)
	if err != nil {
		return err
	}

	dep, err := s.chain.GetDeposit(ctx, txRef)
	if err != nil {
		return err
	}
	switch {
	case dep == nil:
		return apperror.ErrDepositMismatch("transaction not found or not yet confirmed")
	case !dep.Success:
		return apperror.ErrDepositMismatch("transaction failed on chain")
	case !strings.EqualFold(dep.From, c.Bettor):
		return apperror.ErrDepositMismatch("sender is not the bettor")
	case !strings.EqualFold(dep.To, hot):
		return apperror.ErrDepositMismatch("recipient is not the game wallet")
	case dep.Value == nil || dep.Value.Cmp(big.NewInt(c.BetAmount)) < 0:
		return apperror.ErrDepositMismatch("value is below the bet amount")
	}
	return nil
}

// Resolve settles a deposited commitment: draws the outcome once, and pays
// a winner after the payout circuit breaker admits it. A retry after a
// failed payout reuses the stored outcome.
func (s *EscrowServiceImpl) Resolve(ctx context.Context, id uuid.UUID) (*domain.Commitment, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CommitmentStatusDeposited {
		return nil, apperror.ErrInvalidTransition(string(c.Status), string(domain.CommitmentStatusResolved))
	}

	secret, err := s.decryptSecret(c)
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	if !c.HasOutcome() {
		s.applyDraw(c, s.draw(ctx, c, secret), secret)
	}

	var treasury *big.Int
	if *c.Won && c.PayoutTxRef == nil && c.PayoutReservedAt == nil {
		bal, err := s.vault.GetBalance(ctx, domain.WalletRoleHot)
		if err != nil {
			return nil, err
		}
		treasury = bal.Native.Raw
	}

	claimed, err := s.claim(ctx, c, treasury)
	if err != nil || claimed.Status == domain.CommitmentStatusResolved {
		return claimed, err
	}

	return s.payout(ctx, claimed)
}

// claim locks the commitment, stores the outcome and either resolves a
// loser, finishes an already broadcast payout, or reserves the payout and
// takes the resolver lease.
func (s *EscrowServiceImpl) claim(ctx context.Context, drawn *domain.Commitment, treasury *big.Int) (*domain.Commitment, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	c, err := s.lock(ctx, dbTx, drawn.ID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CommitmentStatusDeposited {
		return nil, apperror.ErrInvalidTransition(string(c.Status), string(domain.CommitmentStatusResolved))
	}
	if !c.HasOutcome() {
		c.Outcome = drawn.Outcome
		c.Won = drawn.Won
		c.PayoutAmount = drawn.PayoutAmount
		c.RandomnessProof = drawn.RandomnessProof
		c.IsFallbackRandomness = drawn.IsFallbackRandomness
	}

	now := s.now()
	switch {
	case !*c.Won:
		c.ResolvedAt = &now
		if err := s.commitments.SaveOutcome(ctx, dbTx, c); err != nil {
			return nil, appOrInternal(err, "save outcome")
		}
		if err := s.commitments.MarkResolved(ctx, dbTx, c); err != nil {
			return nil, appOrInternal(err, "mark resolved")
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		s.resolved(c)
		return c, nil

	case c.PayoutTxRef != nil:
		return s.finish(ctx, dbTx, c, now)

	case c.LeaseHeldAt(now):
		return nil, apperror.ErrResolveInProgress()
	}

	if c.PayoutReservedAt == nil {
		if treasury == nil {
			// Outcome was stored by another resolver after our read.
			return nil, apperror.ErrResolveInProgress()
		}
		amount := big.NewInt(c.PayoutAmount)
		if err := s.safety.RecordPayoutTx(ctx, dbTx, amount, treasury); err != nil {
			if !apperror.IsKind(err, apperror.KindSafetyLimit) {
				return nil, err
			}
			if saveErr := s.commitments.SaveOutcome(ctx, dbTx, c); saveErr != nil {
				return nil, appOrInternal(saveErr, "save outcome")
			}
			if commitErr := dbTx.Commit(ctx); commitErr != nil {
				return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", commitErr))
			}
			metrics.PayoutsSent.WithLabelValues("refused").Inc()
			logger.Alert(s.log).
				Err(err).
				Str("commitment_id", c.ID.String()).
				Int64("payout", c.PayoutAmount).
				Msg("winner payout held by safety limit")
			return nil, err
		}
		c.PayoutReservedAt = &now
	}

	lease := now.Add(s.policy.ResolveLease)
	c.ResolveLeaseUntil = &lease
	if err := s.commitments.SaveOutcome(ctx, dbTx, c); err != nil {
		return nil, appOrInternal(err, "save outcome")
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return c, nil
}

// payout broadcasts the winner's payout under the lease and records it.
func (s *EscrowServiceImpl) payout(ctx context.Context, c *domain.Commitment) (*domain.Commitment, error) {
	log := s.log.With().Str("commitment_id", c.ID.String()).Int64("payout", c.PayoutAmount).Logger()

	txRef, err := s.vault.SignAndBroadcast(ctx, domain.WalletRoleHot, domain.TxCall{
		To:       c.Bettor,
		Value:    big.NewInt(c.PayoutAmount),
		GasLimit: payoutGasLimit,
	})
	if err != nil {
		metrics.PayoutsSent.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("payout broadcast failed")
		if !isTimeout(err) {
			s.releaseLease(ctx, c.ID)
		}
		return nil, err
	}
	metrics.PayoutsSent.WithLabelValues("sent").Inc()

	if err := s.recordPayoutRef(ctx, c.ID, txRef); err != nil {
		logger.Alert(log).Err(err).Str("tx_ref", txRef).Msg("payout sent but not recorded")
		return nil, apperror.InternalError(fmt.Errorf("record payout tx ref: %w", err))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.lock(ctx, dbTx, c.ID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, dbTx, locked, s.now())
}

// finish resolves a winner whose payout is recorded, inside dbTx.
func (s *EscrowServiceImpl) finish(ctx context.Context, dbTx pgx.Tx, c *domain.Commitment, now time.Time) (*domain.Commitment, error) {
	if c.Status != domain.CommitmentStatusDeposited {
		return nil, apperror.ErrInvalidTransition(string(c.Status), string(domain.CommitmentStatusResolved))
	}
	c.ResolvedAt = &now
	c.ResolveLeaseUntil = nil
	if err := s.commitments.MarkResolved(ctx, dbTx, c); err != nil {
		return nil, appOrInternal(err, "mark resolved")
	}
	if err := s.wallets.AddDistributed(ctx, dbTx, domain.WalletRoleHot, c.PayoutAmount); err != nil {
		return nil, appOrInternal(err, "add distributed")
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	c.Status = domain.CommitmentStatusResolved
	s.resolved(c)
	return c, nil
}

func (s *EscrowServiceImpl) recordPayoutRef(ctx context.Context, id uuid.UUID, txRef string) error {
	var err error
	for attempt := 0; attempt < payoutRefAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		if err = s.commitments.SetPayoutTxRef(ctx, id, txRef); err == nil {
			return nil
		}
	}
	return err
}

func (s *EscrowServiceImpl) releaseLease(ctx context.Context, id uuid.UUID) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("commitment_id", id.String()).Msg("failed to release resolver lease")
		return
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	c, err := s.commitments.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil || c == nil || c.Status != domain.CommitmentStatusDeposited || c.PayoutTxRef != nil {
		return
	}
	c.ResolveLeaseUntil = nil
	if err := s.commitments.SaveOutcome(ctx, dbTx, c); err != nil {
		s.log.Warn().Err(err).Str("commitment_id", id.String()).Msg("failed to release resolver lease")
		return
	}
	if err := dbTx.Commit(ctx); err != nil {
		s.log.Warn().Err(err).Str("commitment_id", id.String()).Msg("failed to release resolver lease")
	}
}

func (s *EscrowServiceImpl) resolved(c *domain.Commitment) {
	result := "lost"
	if c.Won != nil && *c.Won {
		result = "won"
	}
	source := string(domain.RandomnessSourceBeacon)
	if c.IsFallbackRandomness {
		source = string(domain.RandomnessSourceFallback)
	}
	metrics.CommitmentTransitions.WithLabelValues(string(domain.CommitmentStatusResolved)).Inc()
	metrics.WagerOutcomes.WithLabelValues(result, source).Inc()

	ev := s.log.Info().
		Str("commitment_id", c.ID.String()).
		Str("result", result).
		Bool("fallback_randomness", c.IsFallbackRandomness)
	if c.PayoutTxRef != nil {
		ev = ev.Str("payout_tx_ref", *c.PayoutTxRef)
	}
	ev.Msg("commitment resolved")
}

// draw fetches beacon randomness, falling back to a local HMAC over the
// bettor's secret and deposit when no beacon is configured or it fails.
func (s *EscrowServiceImpl) draw(ctx context.Context, c *domain.Commitment, secret []byte) *domain.Randomness {
	requestID := c.ID.String()
	if s.randomness != nil {
		drawCtx := ctx
		if s.policy.DrawTimeout > 0 {
			var cancel context.CancelFunc
			drawCtx, cancel = context.WithTimeout(ctx, s.policy.DrawTimeout)
			defer cancel()
		}
		r, err := s.randomness.Draw(drawCtx, requestID)
		if err == nil && r != nil && len(r.Value) > 0 {
			r.Proof.RequestID = requestID
			return r
		}
		s.log.Warn().Err(err).Str("commitment_id", requestID).Msg("randomness beacon unavailable, using fallback")
	}

	mac := hmac.New(sha256.New, secret)
	if c.DepositTxRef != nil {
		mac.Write([]byte(*c.DepositTxRef))
	}
	mac.Write(c.ID[:])
	value := mac.Sum(nil)

	return &domain.Randomness{
		Value: value,
		Proof: domain.RandomnessProof{
			Version:    domain.RandomnessProofVersion,
			Source:     domain.RandomnessSourceFallback,
			Randomness: hex.EncodeToString(value),
			RequestID:  requestID,
		},
		Fallback: true,
	}
}

func (s *EscrowServiceImpl) applyDraw(c *domain.Commitment, r *domain.Randomness, secret []byte) {
	outcome := domain.OutcomeFromRandomness(r.Value, secret, c.ID)
	won := outcome == c.Choice
	proof := r.Proof

	c.Outcome = &outcome
	c.Won = &won
	c.RandomnessProof = &proof
	c.IsFallbackRandomness = r.Fallback
	c.PayoutAmount = 0
	if won {
		c.PayoutAmount = domain.PayoutFor(c.BetAmount)
	}
}

// SweepExpired moves every overdue live commitment to expired, except
// winners awaiting payout. It returns the number expired.
func (s *EscrowServiceImpl) SweepExpired(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.sweepBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n < sweepBatchSize {
			break
		}
	}

	if total > 0 {
		metrics.CommitmentTransitions.WithLabelValues(string(domain.CommitmentStatusExpired)).Add(float64(total))
		metrics.ExpiredSwept.Add(float64(total))
		s.log.Info().Int("count", total).Msg("expired commitments swept")
	}
	return total, nil
}

func (s *EscrowServiceImpl) sweepBatch(ctx context.Context) (int, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ids, err := s.commitments.ExpireDue(ctx, dbTx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("expire due: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return len(ids), nil
}

func (s *EscrowServiceImpl) get(ctx context.Context, id uuid.UUID) (*domain.Commitment, error) {
	c, err := s.commitments.GetByID(ctx, id)
	if err != nil {
		return nil, appOrInternal(err, "get commitment")
	}
	if c == nil {
		return nil, apperror.ErrNotFound("commitment")
	}
	return c, nil
}

func (s *EscrowServiceImpl) lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Commitment, error) {
	c, err := s.commitments.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, appOrInternal(err, "lock commitment")
	}
	if c == nil {
		return nil, apperror.ErrNotFound("commitment")
	}
	return c, nil
}

func (s *EscrowServiceImpl) decryptSecret(c *domain.Commitment) ([]byte, error) {
	plain, err := s.encSvc.Decrypt(c.SecretEnc)
	if err != nil {
		return nil, apperror.ErrDecryptFailed(err)
	}
	secret, err := hex.DecodeString(plain)
	if err != nil || len(secret) != secretSize {
		return nil, apperror.ErrCorruptRecord("commitment secret", fmt.Errorf("decoded secret is malformed"))
	}
	return secret, nil
}

// appOrInternal passes AppErrors through and wraps anything else.
func appOrInternal(err error, op string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}

func isTimeout(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.ErrExternalTimeout("", nil).Code
}
