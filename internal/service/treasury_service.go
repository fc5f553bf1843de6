package service

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/metrics"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/rs/zerolog"
)

// SafetyLimits exposes the configured limits the treasury view reports.
type SafetyLimits interface {
	PayoutCeiling(treasury *big.Int) *big.Int
	Policy() SafetyPolicy
}

// TreasuryServiceImpl implements ports.TreasuryService.
type TreasuryServiceImpl struct {
	vault    ports.WalletVault
	cache    ports.BalanceCache
	counters ports.RateLimitRepository
	stats    ports.StatsRepository
	limits   SafetyLimits
	native   domain.Asset
	cacheTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewTreasuryService creates a new TreasuryServiceImpl. cache may be nil.
func NewTreasuryService(
	vault ports.WalletVault,
	cache ports.BalanceCache,
	counters ports.RateLimitRepository,
	stats ports.StatsRepository,
	limits SafetyLimits,
	native domain.Asset,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		vault:    vault,
		cache:    cache,
		counters: counters,
		stats:    stats,
		limits:   limits,
		native:   native,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Component(log, "treasury"),
	}
}

// Balances returns a reading for every wallet that exists. Cached readings
// are used when fresh; they never feed a safety decision.
func (s *TreasuryServiceImpl) Balances(ctx context.Context) ([]domain.WalletBalance, error) {
	balances := make([]domain.WalletBalance, 0, len(domain.WalletRoles))
	for _, role := range domain.WalletRoles {
		b, err := s.balance(ctx, role)
		if err != nil {
			if apperror.IsKind(err, apperror.KindValidation) {
				continue // role has no wallet yet
			}
			return nil, err
		}
		metrics.WalletBalance.WithLabelValues(string(role), b.Native.Asset.Symbol).Set(metrics.Display(b.Native.Raw, b.Native.Asset.Decimals))
		metrics.WalletBalance.WithLabelValues(string(role), b.Token.Asset.Symbol).Set(metrics.Display(b.Token.Raw, b.Token.Asset.Decimals))
		balances = append(balances, *b)
	}
	return balances, nil
}

func (s *TreasuryServiceImpl) balance(ctx context.Context, role domain.WalletRole) (*domain.WalletBalance, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, role)
		if err != nil {
			s.log.Warn().Err(err).Str("role", string(role)).Msg("balance cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	fresh, err := s.vault.GetBalance(ctx, role)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, fresh, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("role", string(role)).Msg("balance cache write failed")
		}
	}
	return fresh, nil
}

// Snapshot assembles balances with today's payout and transfer totals and
// the throttle counters.
func (s *TreasuryServiceImpl) Snapshot(ctx context.Context) (*domain.TreasurySnapshot, error) {
	balances, err := s.Balances(ctx)
	if err != nil {
		return nil, err
	}

	today := domain.UTCDate(s.now())
	payouts, err := s.stat(ctx, domain.StatKindPayout, today)
	if err != nil {
		return nil, err
	}
	transfers, err := s.stat(ctx, domain.StatKindTransfer, today)
	if err != nil {
		return nil, err
	}

	treasury := new(big.Int)
	for _, b := range balances {
		if b.Role == domain.WalletRoleHot && b.Native.Raw != nil {
			treasury.Set(b.Native.Raw)
		}
	}

	policy := s.limits.Policy()
	counters := make([]domain.RateLimitCounter, 0, len(policy.Rules)+2)
	for _, scope := range s.scopes(policy) {
		c, err := s.counters.Get(ctx, scope)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get rate limit counter: %w", err))
		}
		if c == nil {
			continue
		}
		c.RolloverTo(today)
		counters = append(counters, *c)
	}

	snap := &domain.TreasurySnapshot{
		Date:          today,
		Balances:      balances,
		Payouts:       payouts,
		PayoutCeiling: s.native.Amount(s.limits.PayoutCeiling(treasury)),
		Transfers:     transfers,
		Counters:      counters,
	}
	if !policy.LockoutUntil.IsZero() && s.now().Before(policy.LockoutUntil) {
		lockout := policy.LockoutUntil
		snap.LockoutUntil = &lockout
	}
	return snap, nil
}

func (s *TreasuryServiceImpl) stat(ctx context.Context, kind domain.StatKind, date string) (*domain.DailyStat, error) {
	stat, err := s.stats.Get(ctx, kind, date)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get %s stats: %w", kind, err))
	}
	if stat == nil {
		stat = domain.NewDailyStat(date)
	}
	return stat, nil
}

func (s *TreasuryServiceImpl) scopes(policy SafetyPolicy) []string {
	scopes := []string{domain.ScopeBuybackCycle, domain.ScopeWalletTransfer}
	named := make([]string, 0, len(policy.Rules))
	for name := range policy.Rules {
		if name != domain.ScopeBuybackCycle && name != domain.ScopeWalletTransfer {
			named = append(named, name)
		}
	}
	sort.Strings(named)
	return append(scopes, named...)
}
