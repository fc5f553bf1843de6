package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/metrics"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SafetyRule is a named throttle.
type SafetyRule struct {
	DailyLimit  int
	MinInterval time.Duration
}

// SafetyPolicy holds the deploy-time limits of the safety layer.
type SafetyPolicy struct {
	LockoutUntil         time.Time // zero = no lockout
	PayoutCeilingBps     int64     // share of treasury payable per UTC day
	PayoutCeilingMax     int64     // absolute daily cap, 0 = none
	DailyTransferCeiling *big.Int  // nil = unlimited
	Rules                map[string]SafetyRule
}

// SafetyServiceImpl implements ports.SafetyService.
type SafetyServiceImpl struct {
	counters   ports.RateLimitRepository
	stats      ports.StatsRepository
	transactor ports.DBTransactor
	policy     SafetyPolicy
	now        func() time.Time
	log        zerolog.Logger
}

// NewSafetyService creates a new SafetyServiceImpl.
func NewSafetyService(
	counters ports.RateLimitRepository,
	stats ports.StatsRepository,
	transactor ports.DBTransactor,
	policy SafetyPolicy,
	log zerolog.Logger,
) *SafetyServiceImpl {
	return &SafetyServiceImpl{
		counters:   counters,
		stats:      stats,
		transactor: transactor,
		policy:     policy,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.Component(log, "safety"),
	}
}

// CheckAllowed reports whether one more action under scope is allowed now.
// It records nothing.
func (s *SafetyServiceImpl) CheckAllowed(ctx context.Context, scope string, dailyLimit int, minInterval time.Duration) (*domain.RateDecision, error) {
	if scope == "" {
		return nil, apperror.Validation("scope is required")
	}

	now := s.now()
	counter, err := s.counters.Get(ctx, scope)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get rate limit counter: %w", err))
	}
	if counter == nil {
		counter = &domain.RateLimitCounter{Scope: scope, DailyResetDate: domain.UTCDate(now)}
	}
	counter.RolloverTo(domain.UTCDate(now))

	decision := counter.Evaluate(now, s.policy.LockoutUntil, dailyLimit, minInterval)
	if !decision.Allowed {
		metrics.SafetyRejections.WithLabelValues("rate_limit").Inc()
	}
	return &decision, nil
}

// CheckRule evaluates scope against its configured rule.
func (s *SafetyServiceImpl) CheckRule(ctx context.Context, scope string) (*domain.RateDecision, error) {
	rule, ok := s.policy.Rules[scope]
	if !ok {
		return nil, apperror.ErrNotFound("safety rule")
	}
	return s.CheckAllowed(ctx, scope, rule.DailyLimit, rule.MinInterval)
}

// AcquireRule admits and counts one action under scope's configured rule in
// a single locked step.
func (s *SafetyServiceImpl) AcquireRule(ctx context.Context, scope string) (*domain.RateDecision, error) {
	rule, ok := s.policy.Rules[scope]
	if !ok {
		return nil, apperror.ErrNotFound("safety rule")
	}
	return s.TryAcquire(ctx, scope, rule.DailyLimit, rule.MinInterval)
}

// RecordAction counts one action under scope.
func (s *SafetyServiceImpl) RecordAction(ctx context.Context, scope string) error {
	if scope == "" {
		return apperror.Validation("scope is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()
	counter, err := s.lockCounter(ctx, dbTx, scope, now)
	if err != nil {
		return err
	}
	counter.Record(now)

	if err := s.counters.Upsert(ctx, dbTx, counter); err != nil {
		return apperror.InternalError(fmt.Errorf("save rate limit counter: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// TryAcquire checks and records one action under the counter's row lock, so
// concurrent callers cannot both pass the check. A refusal is returned as a
// decision, not an error.
func (s *SafetyServiceImpl) TryAcquire(ctx context.Context, scope string, dailyLimit int, minInterval time.Duration) (*domain.RateDecision, error) {
	if scope == "" {
		return nil, apperror.Validation("scope is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()
	counter, err := s.lockCounter(ctx, dbTx, scope, now)
	if err != nil {
		return nil, err
	}
	counter.RolloverTo(domain.UTCDate(now))

	decision := counter.Evaluate(now, s.policy.LockoutUntil, dailyLimit, minInterval)
	if !decision.Allowed {
		metrics.SafetyRejections.WithLabelValues("rate_limit").Inc()
		s.log.Info().Str("scope", scope).Str("reason", decision.Reason).Msg("action throttled")
		return &decision, nil
	}

	counter.Record(now)
	decision.Remaining--
	if err := s.counters.Upsert(ctx, dbTx, counter); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save rate limit counter: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return &decision, nil
}

func (s *SafetyServiceImpl) lockCounter(ctx context.Context, tx pgx.Tx, scope string, now time.Time) (*domain.RateLimitCounter, error) {
	today := domain.UTCDate(now)
	if err := s.counters.Seed(ctx, tx, scope, today); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("seed rate limit counter: %w", err))
	}
	counter, err := s.counters.GetForUpdate(ctx, tx, scope)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock rate limit counter: %w", err))
	}
	if counter == nil {
		counter = &domain.RateLimitCounter{Scope: scope, DailyResetDate: today}
	}
	return counter, nil
}

// PayoutCeiling returns the maximum total payable today for a treasury
// holding treasury raw units.
func (s *SafetyServiceImpl) PayoutCeiling(treasury *big.Int) *big.Int {
	ceiling := new(big.Int)
	if treasury != nil {
		ceiling.Mul(treasury, big.NewInt(s.policy.PayoutCeilingBps))
		ceiling.Quo(ceiling, big.NewInt(domain.BpsDenominator))
	}
	if s.policy.PayoutCeilingMax > 0 {
		if limit := big.NewInt(s.policy.PayoutCeilingMax); ceiling.Cmp(limit) > 0 {
			ceiling = limit
		}
	}
	return ceiling
}

// CheckPayoutCircuitBreaker fails when paying amount would push today's
// payouts past the ceiling.
func (s *SafetyServiceImpl) CheckPayoutCircuitBreaker(ctx context.Context, amount, treasury *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperror.Validation("payout amount must be positive")
	}

	now := s.now()
	stat, err := s.stats.Get(ctx, domain.StatKindPayout, domain.UTCDate(now))
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get payout stats: %w", err))
	}
	if stat == nil {
		stat = domain.NewDailyStat(domain.UTCDate(now))
	}
	return s.checkPayout(stat, amount, treasury)
}

// RecordPayoutTx re-checks the payout ceiling under the day's row lock and
// counts amount inside the caller's transaction.
func (s *SafetyServiceImpl) RecordPayoutTx(ctx context.Context, tx pgx.Tx, amount, treasury *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperror.Validation("payout amount must be positive")
	}

	now := s.now()
	stat, err := s.lockStat(ctx, tx, domain.StatKindPayout, now)
	if err != nil {
		return err
	}
	if err := s.checkPayout(stat, amount, treasury); err != nil {
		return err
	}

	stat.Add(amount, now)
	if err := s.stats.Upsert(ctx, tx, domain.StatKindPayout, stat); err != nil {
		return apperror.InternalError(fmt.Errorf("save payout stats: %w", err))
	}
	return nil
}

func (s *SafetyServiceImpl) checkPayout(stat *domain.DailyStat, amount, treasury *big.Int) error {
	ceiling := s.PayoutCeiling(treasury)
	if projected := stat.Projected(amount); projected.Cmp(ceiling) > 0 {
		metrics.SafetyRejections.WithLabelValues("payout_ceiling").Inc()
		logger.Alert(s.log).
			Str("amount", amount.String()).
			Str("paid_today", domain.RawString(stat.TotalAmount)).
			Str("ceiling", ceiling.String()).
			Msg("payout circuit breaker open")
		return apperror.ErrPayoutCircuitOpen()
	}
	return nil
}

// CheckTransferCeiling fails when moving amount between wallets would push
// today's transfer volume past the configured ceiling.
func (s *SafetyServiceImpl) CheckTransferCeiling(ctx context.Context, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperror.Validation("transfer amount must be positive")
	}
	if s.policy.DailyTransferCeiling == nil {
		return nil
	}

	today := domain.UTCDate(s.now())
	stat, err := s.stats.Get(ctx, domain.StatKindTransfer, today)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get transfer stats: %w", err))
	}
	if stat == nil {
		stat = domain.NewDailyStat(today)
	}
	return s.checkTransfer(stat, amount)
}

// RecordTransferTx re-checks and counts a wallet-to-wallet transfer inside
// the caller's transaction.
func (s *SafetyServiceImpl) RecordTransferTx(ctx context.Context, tx pgx.Tx, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperror.Validation("transfer amount must be positive")
	}

	now := s.now()
	stat, err := s.lockStat(ctx, tx, domain.StatKindTransfer, now)
	if err != nil {
		return err
	}
	if err := s.checkTransfer(stat, amount); err != nil {
		return err
	}

	stat.Add(amount, now)
	if err := s.stats.Upsert(ctx, tx, domain.StatKindTransfer, stat); err != nil {
		return apperror.InternalError(fmt.Errorf("save transfer stats: %w", err))
	}
	return nil
}

func (s *SafetyServiceImpl) checkTransfer(stat *domain.DailyStat, amount *big.Int) error {
	if s.policy.DailyTransferCeiling == nil {
		return nil
	}
	if stat.Projected(amount).Cmp(s.policy.DailyTransferCeiling) > 0 {
		metrics.SafetyRejections.WithLabelValues("transfer_ceiling").Inc()
		logger.Alert(s.log).
			Str("amount", amount.String()).
			Str("moved_today", domain.RawString(stat.TotalAmount)).
			Str("ceiling", s.policy.DailyTransferCeiling.String()).
			Msg("daily transfer ceiling reached")
		return apperror.ErrTransferCeiling()
	}
	return nil
}

func (s *SafetyServiceImpl) lockStat(ctx context.Context, tx pgx.Tx, kind domain.StatKind, now time.Time) (*domain.DailyStat, error) {
	today := domain.UTCDate(now)
	if err := s.stats.Seed(ctx, tx, kind, today); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("seed %s stats: %w", kind, err))
	}
	stat, err := s.stats.GetForUpdate(ctx, tx, kind, today)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.InternalError(fmt.Errorf("lock %s stats: %w", kind, err))
	}
	if stat == nil {
		stat = domain.NewDailyStat(today)
	}
	return stat, nil
}

// Policy returns the configured limits.
func (s *SafetyServiceImpl) Policy() SafetyPolicy {
	return s.policy
}
