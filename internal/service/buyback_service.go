package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/metrics"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BuybackPolicy holds the spend limits and cadence of the pipeline.
type BuybackPolicy struct {
	FeeReserve     *big.Int // native kept back for gas
	MaxPerCycle    *big.Int // nil = no cap
	MinSpend       *big.Int
	SlippageBps    int
	DailyLimit     int
	MinInterval    time.Duration
	ConfirmTimeout time.Duration
}

// BuybackLease is the lease held by every live cycle and every resume, so a
// record is only ever driven by one caller at a time.
const BuybackLease = "buyback-cycle"

// BuybackServiceImpl implements ports.BuybackService.
type BuybackServiceImpl struct {
	records  ports.BuybackRepository
	vault    ports.WalletVault
	chain    ports.ChainClient
	exchange ports.ExchangeClient
	safety   ports.SafetyService
	strategy BurnStrategy
	policy   BuybackPolicy
	lease    ports.LeaseLocker
	leaseTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewBuybackService creates a new BuybackServiceImpl.
func NewBuybackService(
	records ports.BuybackRepository,
	vault ports.WalletVault,
	chain ports.ChainClient,
	exchange ports.ExchangeClient,
	safety ports.SafetyService,
	strategy BurnStrategy,
	policy BuybackPolicy,
	log zerolog.Logger,
) *BuybackServiceImpl {
	return &BuybackServiceImpl{
		records:  records,
		vault:    vault,
		chain:    chain,
		exchange: exchange,
		safety:   safety,
		strategy: strategy,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Component(log, "buyback"),
	}
}

// WithLease makes live cycles and resumes hold BuybackLease for up to ttl.
func (s *BuybackServiceImpl) WithLease(lease ports.LeaseLocker, ttl time.Duration) *BuybackServiceImpl {
	s.lease = lease
	s.leaseTTL = ttl
	return s
}

// RunCycle spends the hot wallet's surplus native balance on the project
// token and burns what it bought. A cycle left unfinished by an earlier run
// is resumed instead of starting a new swap. With dryRun every check and
// quote runs but nothing is signed or recorded.
func (s *BuybackServiceImpl) RunCycle(ctx context.Context, dryRun bool) (*domain.BuybackResult, error) {
	result := &domain.BuybackResult{DryRun: dryRun}

	if !dryRun {
		release, ok, err := s.hold(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Skipped = true
			result.Reason = domain.SkipInProgress
			metrics.BuybackCycles.WithLabelValues("skipped").Inc()
			s.log.Info().Msg("buyback cycle skipped, another cycle holds the lease")
			return result, nil
		}
		defer release()
	}

	decision, err := s.admit(ctx, dryRun)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		result.Skipped = true
		result.Reason = domain.SkipRateLimited + ": " + decision.Reason
		metrics.BuybackCycles.WithLabelValues("skipped").Inc()
		s.log.Info().Bool("dry_run", dryRun).Str("reason", decision.Reason).Msg("buyback cycle throttled")
		return result, nil
	}

	pending, err := s.records.LatestResumable(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find resumable buyback: %w", err))
	}
	if pending != nil {
		if dryRun {
			result.Record = pending
			result.Resumed = true
			if !pending.SwapDone() {
				result.Reason = "would settle unconfirmed swap"
				return result, nil
			}
			result.Reason = "would resume unfinished cycle"
			return result, s.strategy.Plan(ctx, pending.TokenBought)
		}
		s.log.Warn().Str("buyback_id", pending.ID.String()).Str("status", string(pending.Status)).Msg("resuming unfinished buyback")
		return s.resume(ctx, pending)
	}

	balance, err := s.vault.GetBalance(ctx, domain.WalletRoleHot)
	if err != nil {
		return nil, err
	}
	spendable := s.spendable(balance.Native.Raw)
	result.Spendable = spendable
	if spendable.Sign() <= 0 || (s.policy.MinSpend != nil && spendable.Cmp(s.policy.MinSpend) < 0) {
		result.Skipped = true
		result.Reason = domain.SkipInsufficientBalance
		metrics.BuybackCycles.WithLabelValues("skipped").Inc()
		s.log.Info().Bool("dry_run", dryRun).Str("spendable", spendable.String()).Msg("buyback skipped, nothing to spend")
		return result, nil
	}

	quote, err := s.exchange.Quote(ctx, domain.QuoteRequest{
		BuyToken:    s.chain.TokenAddress(),
		AmountIn:    spendable,
		Taker:       balance.Address,
		SlippageBps: s.policy.SlippageBps,
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkQuote(quote, spendable); err != nil {
		metrics.BuybackCycles.WithLabelValues("rejected").Inc()
		return nil, err
	}
	result.Quote = quote

	if dryRun {
		if err := s.strategy.Plan(ctx, quote.AmountOut); err != nil {
			return nil, err
		}
		metrics.BuybackCycles.WithLabelValues("dry_run").Inc()
		s.log.Info().
			Str("spend", spendable.String()).
			Str("expected_out", quote.AmountOut.String()).
			Str("strategy", string(s.strategy.Kind())).
			Msg("buyback dry run")
		return result, nil
	}

	rec, err := s.swap(ctx, balance.Address, spendable, quote)
	result.Record = rec
	if err != nil {
		return result, err
	}
	if err := s.burn(ctx, rec); err != nil {
		return result, err
	}
	return result, nil
}

// ResumeCycle finishes the record with id without a new swap.
func (s *BuybackServiceImpl) ResumeCycle(ctx context.Context, id uuid.UUID) (*domain.BuybackResult, error) {
	release, ok, err := s.hold(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrBuybackInProgress()
	}
	defer release()

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get buyback: %w", err))
	}
	if rec == nil {
		return nil, apperror.ErrNotFound("buyback")
	}
	if !rec.IsResumable() {
		return nil, apperror.ErrBuybackNotResumable(string(rec.Status))
	}
	return s.resume(ctx, rec)
}

func (s *BuybackServiceImpl) resume(ctx context.Context, rec *domain.BuybackRecord) (*domain.BuybackResult, error) {
	result := &domain.BuybackResult{Record: rec, Resumed: true}
	if !rec.SwapDone() {
		hot, err := s.vault.Address(ctx, domain.WalletRoleHot)
		if err != nil {
			return result, err
		}
		s.log.Warn().Str("buyback_id", rec.ID.String()).Str("tx_ref", *rec.SwapTxRef).Msg("settling unconfirmed swap")
		if err := s.settleSwap(ctx, rec, hot); err != nil {
			return result, err
		}
	}
	if err := s.burn(ctx, rec); err != nil {
		return result, err
	}
	return result, nil
}

// hold takes BuybackLease. Without a lease locker every caller holds it.
func (s *BuybackServiceImpl) hold(ctx context.Context) (func(), bool, error) {
	if s.lease == nil {
		return func() {}, true, nil
	}
	token, ok, err := s.lease.Acquire(ctx, BuybackLease, s.leaseTTL)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("acquire buyback lease: %w", err))
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		if err := s.lease.Release(context.WithoutCancel(ctx), BuybackLease, token); err != nil {
			s.log.Warn().Err(err).Msg("buyback lease release failed")
		}
	}, true, nil
}

func (s *BuybackServiceImpl) admit(ctx context.Context, dryRun bool) (*domain.RateDecision, error) {
	if dryRun {
		return s.safety.CheckAllowed(ctx, domain.ScopeBuybackCycle, s.policy.DailyLimit, s.policy.MinInterval)
	}
	return s.safety.TryAcquire(ctx, domain.ScopeBuybackCycle, s.policy.DailyLimit, s.policy.MinInterval)
}

func (s *BuybackServiceImpl) spendable(native *big.Int) *big.Int {
	spend := new(big.Int)
	if native != nil {
		spend.Set(native)
	}
	if s.policy.FeeReserve != nil {
		spend.Sub(spend, s.policy.FeeReserve)
	}
	if spend.Sign() < 0 {
		spend.SetInt64(0)
	}
	if s.policy.MaxPerCycle != nil && s.policy.MaxPerCycle.Sign() > 0 && spend.Cmp(s.policy.MaxPerCycle) > 0 {
		spend.Set(s.policy.MaxPerCycle)
	}
	return spend
}

// checkQuote refuses quotes that cannot run or would send other than spend.
func (s *BuybackServiceImpl) checkQuote(q *domain.SwapQuote, spend *big.Int) error {
	if q == nil || !q.Executable || q.AmountOut == nil || q.AmountOut.Sign() <= 0 || q.To == "" {
		return apperror.ErrQuoteNotExecutable()
	}
	if q.Value != nil && q.Value.Cmp(spend) != 0 {
		return apperror.ErrQuoteValueMismatch(q.Value.String(), spend.String())
	}
	if q.ExpiresAt != nil && !q.ExpiresAt.After(s.now()) {
		return apperror.ErrQuoteNotExecutable()
	}
	return nil
}

// swap executes the quote from the hot wallet, sending exactly spend. The
// record is persisted before the broadcast and again after every step.
func (s *BuybackServiceImpl) swap(ctx context.Context, hot string, spend *big.Int, quote *domain.SwapQuote) (*domain.BuybackRecord, error) {
	now := s.now()
	rec := &domain.BuybackRecord{
		ID:         uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
		AssetSpent: new(big.Int).Set(spend),
		Status:     domain.BuybackStatusPending,
		Strategy:   s.strategy.Kind(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create buyback: %w", err))
	}
	log := s.log.With().Str("buyback_id", rec.ID.String()).Logger()

	before, err := s.chain.TokenBalance(ctx, hot)
	if err != nil {
		return rec, s.fail(ctx, rec, err)
	}
	rec.HotTokenBefore = before

	txRef, err := s.vault.SignAndBroadcast(ctx, domain.WalletRoleHot, domain.TxCall{
		To:       quote.To,
		Value:    spend,
		Data:     quote.Data,
		GasLimit: quote.GasLimit,
	})
	if err != nil {
		return rec, s.fail(ctx, rec, err)
	}
	rec.SwapTxRef = &txRef
	if err := s.save(ctx, rec); err != nil {
		return rec, err
	}

	if err := s.settleSwap(ctx, rec, hot); err != nil {
		return rec, err
	}
	if quote.MinAmountOut != nil && rec.TokenBought.Cmp(quote.MinAmountOut) < 0 {
		log.Warn().Str("bought", rec.TokenBought.String()).Str("min_out", quote.MinAmountOut.String()).Msg("swap filled below quoted minimum")
	}
	return rec, nil
}

// settleSwap reads the outcome of rec's broadcast swap and records what it
// bought against the hot wallet balance taken before the broadcast. A swap
// whose receipt never arrived stays unsettled so a later resume can finish it.
func (s *BuybackServiceImpl) settleSwap(ctx context.Context, rec *domain.BuybackRecord, hot string) error {
	txRef := *rec.SwapTxRef
	log := s.log.With().Str("buyback_id", rec.ID.String()).Str("tx_ref", txRef).Logger()

	receipt, err := waitReceipt(ctx, s.chain, txRef, s.policy.ConfirmTimeout)
	if err != nil {
		return s.fail(ctx, rec, err)
	}
	if !receipt.Success {
		rec.SwapSettled = true
		rec.TokenBought = new(big.Int)
		return s.fail(ctx, rec, apperror.ErrTxReverted(txRef))
	}

	after, err := s.chain.TokenBalance(ctx, hot)
	if err != nil {
		return s.fail(ctx, rec, err)
	}
	bought := new(big.Int).Sub(after, rec.HotTokenBefore)
	rec.SwapSettled = true
	if bought.Sign() <= 0 {
		rec.TokenBought = new(big.Int)
		logger.Alert(log).Msg("swap confirmed but no tokens arrived")
		return s.fail(ctx, rec, apperror.ErrSwapNoOutput(txRef))
	}

	rec.TokenBought = bought
	rec.Status = domain.BuybackStatusSwapped
	rec.Error = nil
	if err := s.save(ctx, rec); err != nil {
		return err
	}
	log.Info().Str("spent", domain.RawString(rec.AssetSpent)).Str("bought", bought.String()).Msg("swap confirmed")
	return nil
}

func (s *BuybackServiceImpl) burn(ctx context.Context, rec *domain.BuybackRecord) error {
	if err := s.strategy.Burn(ctx, rec, rec.TokenBought); err != nil {
		return s.fail(ctx, rec, err)
	}
	rec.Status = domain.BuybackStatusBurned
	rec.Error = nil
	if err := s.save(ctx, rec); err != nil {
		return err
	}
	metrics.BuybackCycles.WithLabelValues("burned").Inc()
	s.log.Info().
		Str("buyback_id", rec.ID.String()).
		Str("bought", domain.RawString(rec.TokenBought)).
		Str("burned", domain.RawString(rec.TokenBurned)).
		Msg("buyback cycle complete")
	return nil
}

func (s *BuybackServiceImpl) save(ctx context.Context, rec *domain.BuybackRecord) error {
	rec.UpdatedAt = s.now()
	if err := s.records.Update(ctx, rec); err != nil {
		logger.Alert(s.log).Err(err).Str("buyback_id", rec.ID.String()).Msg("failed to persist buyback step")
		return apperror.InternalError(fmt.Errorf("update buyback: %w", err))
	}
	return nil
}

// fail records cause on rec and returns it.
func (s *BuybackServiceImpl) fail(ctx context.Context, rec *domain.BuybackRecord, cause error) error {
	rec.Fail(cause, s.now())
	metrics.BuybackCycles.WithLabelValues("failed").Inc()
	s.log.Error().Err(cause).Str("buyback_id", rec.ID.String()).Msg("buyback cycle failed")
	if err := s.records.Update(ctx, rec); err != nil {
		logger.Alert(s.log).Err(err).Str("buyback_id", rec.ID.String()).Msg("failed to persist buyback failure")
	}
	return cause
}
