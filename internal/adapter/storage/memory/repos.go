package memory

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

// NewWalletRepo creates a WalletRepo over s.
func NewWalletRepo(s *Store) *WalletRepo { return &WalletRepo{s: s} }

func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wallets[w.Role]; ok {
		return apperror.ErrWalletExists(string(w.Role))
	}
	for _, existing := range r.s.wallets {
		if existing.PublicKey == w.PublicKey {
			return apperror.ErrWalletExists(string(w.Role))
		}
	}
	c := cloneWallet(w)
	if c.CachedNativeBalance == nil {
		c.CachedNativeBalance = new(big.Int)
	}
	if c.CachedTokenBalance == nil {
		c.CachedTokenBalance = new(big.Int)
	}
	r.s.wallets[w.Role] = c
	onRollback(tx, func() { delete(r.s.wallets, w.Role) })
	return nil
}

func (r *WalletRepo) GetByRole(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if w, ok := r.s.wallets[role]; ok {
		return cloneWallet(w), nil
	}
	return nil, nil
}

func (r *WalletRepo) GetByRoleForUpdate(ctx context.Context, tx pgx.Tx, role domain.WalletRole) (*domain.Wallet, error) {
	return r.GetByRole(ctx, role)
}

func (r *WalletRepo) UpdateCachedBalances(ctx context.Context, role domain.WalletRole, native, token *big.Int, syncedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[role]
	if !ok {
		return fmt.Errorf("wallet not found: %s", role)
	}
	w.CachedNativeBalance = cloneInt(native)
	w.CachedTokenBalance = cloneInt(token)
	w.LastSync = cloneTime(&syncedAt)
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *WalletRepo) AddDistributed(ctx context.Context, tx pgx.Tx, role domain.WalletRole, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[role]
	if !ok {
		return fmt.Errorf("wallet not found: %s", role)
	}
	w.TotalDistributed += amount
	onRollback(tx, func() { w.TotalDistributed -= amount })
	return nil
}

// CommitmentRepo implements ports.CommitmentRepository.
type CommitmentRepo struct{ s *Store }

// NewCommitmentRepo creates a CommitmentRepo over s.
func NewCommitmentRepo(s *Store) *CommitmentRepo { return &CommitmentRepo{s: s} }

func (r *CommitmentRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.commitments[c.ID]; ok {
		return fmt.Errorf("insert commitment: duplicate id %s", c.ID)
	}
	for _, existing := range r.s.commitments {
		if existing.Bettor == c.Bettor && existing.Status.IsLive() {
			return apperror.ErrLiveCommitmentExists()
		}
	}
	r.s.commitments[c.ID] = cloneCommitment(c)
	onRollback(tx, func() { delete(r.s.commitments, c.ID) })
	return nil
}

func (r *CommitmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Commitment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.commitments[id]; ok {
		return cloneCommitment(c), nil
	}
	return nil, nil
}

func (r *CommitmentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Commitment, error) {
	return r.GetByID(ctx, id)
}

func (r *CommitmentRepo) GetLiveByBettorForUpdate(ctx context.Context, tx pgx.Tx, bettor string) (*domain.Commitment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.commitments {
		if c.Bettor == bettor && c.Status.IsLive() {
			return cloneCommitment(c), nil
		}
	}
	return nil, nil
}

// update applies fn to the stored row when cond holds, and restores the
// previous row if tx rolls back. Callers hold s.mu.
func (r *CommitmentRepo) update(tx pgx.Tx, id uuid.UUID, cond func(*domain.Commitment) bool, fn func(*domain.Commitment)) bool {
	cur, ok := r.s.commitments[id]
	if !ok || !cond(cur) {
		return false
	}
	prev := cloneCommitment(cur)
	fn(cur)
	cur.UpdatedAt = time.Now().UTC()
	onRollback(tx, func() { r.s.commitments[id] = prev })
	return true
}

func (r *CommitmentRepo) MarkDeposited(ctx context.Context, tx pgx.Tx, id uuid.UUID, txRef string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ok := r.update(tx, id,
		func(c *domain.Commitment) bool { return c.Status == domain.CommitmentStatusPending },
		func(c *domain.Commitment) {
			c.Status = domain.CommitmentStatusDeposited
			c.DepositTxRef = &txRef
		})
	if !ok {
		return fmt.Errorf("pending commitment not found: %s", id)
	}
	return nil
}

func (r *CommitmentRepo) SaveOutcome(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	src := cloneCommitment(c)
	ok := r.update(tx, c.ID,
		func(cur *domain.Commitment) bool { return cur.Status == domain.CommitmentStatusDeposited },
		func(cur *domain.Commitment) {
			cur.Outcome = src.Outcome
			cur.Won = src.Won
			cur.PayoutAmount = src.PayoutAmount
			cur.RandomnessProof = src.RandomnessProof
			cur.IsFallbackRandomness = src.IsFallbackRandomness
			cur.PayoutReservedAt = src.PayoutReservedAt
			cur.ResolveLeaseUntil = src.ResolveLeaseUntil
		})
	if !ok {
		return fmt.Errorf("deposited commitment not found: %s", c.ID)
	}
	return nil
}

func (r *CommitmentRepo) SetPayoutTxRef(ctx context.Context, id uuid.UUID, txRef string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ok := r.update(nil, id,
		func(c *domain.Commitment) bool {
			return c.Status == domain.CommitmentStatusDeposited && c.PayoutTxRef == nil
		},
		func(c *domain.Commitment) { c.PayoutTxRef = &txRef })
	if !ok {
		return fmt.Errorf("commitment %s not awaiting payout", id)
	}
	return nil
}

func (r *CommitmentRepo) MarkResolved(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payoutRef, resolvedAt := cloneString(c.PayoutTxRef), cloneTime(c.ResolvedAt)
	ok := r.update(tx, c.ID,
		func(cur *domain.Commitment) bool { return cur.Status == domain.CommitmentStatusDeposited },
		func(cur *domain.Commitment) {
			cur.Status = domain.CommitmentStatusResolved
			cur.PayoutTxRef = payoutRef
			cur.ResolvedAt = resolvedAt
			cur.ResolveLeaseUntil = nil
		})
	if !ok {
		return fmt.Errorf("deposited commitment not found: %s", c.ID)
	}
	return nil
}

func (r *CommitmentRepo) ExpireDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var due []*domain.Commitment
	for _, c := range r.s.commitments {
		if c.Status.IsLive() && c.ExpiresAt.Before(now) &&
			(c.Won == nil || !*c.Won) && c.PayoutTxRef == nil {
			due = append(due, c)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ExpiresAt.Before(due[j].ExpiresAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, c := range due {
		r.update(tx, c.ID,
			func(*domain.Commitment) bool { return true },
			func(cur *domain.Commitment) { cur.Status = domain.CommitmentStatusExpired })
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// TxRefRepo implements ports.TxRefRepository.
type TxRefRepo struct{ s *Store }

// NewTxRefRepo creates a TxRefRepo over s.
func NewTxRefRepo(s *Store) *TxRefRepo { return &TxRefRepo{s: s} }

func (r *TxRefRepo) Insert(ctx context.Context, tx pgx.Tx, ref *domain.UsedTxRef) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.txRefs[ref.TxRef]; ok {
		return false, nil
	}
	c := *ref
	r.s.txRefs[ref.TxRef] = &c
	onRollback(tx, func() { delete(r.s.txRefs, ref.TxRef) })
	return true, nil
}

func (r *TxRefRepo) Exists(ctx context.Context, txRef string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.txRefs[txRef]
	return ok, nil
}

// RateLimitRepo implements ports.RateLimitRepository.
type RateLimitRepo struct{ s *Store }

// NewRateLimitRepo creates a RateLimitRepo over s.
func NewRateLimitRepo(s *Store) *RateLimitRepo { return &RateLimitRepo{s: s} }

func (r *RateLimitRepo) Seed(ctx context.Context, tx pgx.Tx, scope, today string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.counters[scope]; ok {
		return nil
	}
	r.s.counters[scope] = &domain.RateLimitCounter{Scope: scope, DailyResetDate: today, UpdatedAt: time.Now().UTC()}
	onRollback(tx, func() { delete(r.s.counters, scope) })
	return nil
}

func (r *RateLimitRepo) Get(ctx context.Context, scope string) (*domain.RateLimitCounter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.counters[scope]; ok {
		return cloneCounter(c), nil
	}
	return nil, nil
}

func (r *RateLimitRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, scope string) (*domain.RateLimitCounter, error) {
	return r.Get(ctx, scope)
}

func (r *RateLimitRepo) Upsert(ctx context.Context, tx pgx.Tx, c *domain.RateLimitCounter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, existed := r.s.counters[c.Scope]
	r.s.counters[c.Scope] = cloneCounter(c)
	onRollback(tx, func() {
		if existed {
			r.s.counters[c.Scope] = prev
		} else {
			delete(r.s.counters, c.Scope)
		}
	})
	return nil
}

// StatsRepo implements ports.StatsRepository.
type StatsRepo struct{ s *Store }

// NewStatsRepo creates a StatsRepo over s.
func NewStatsRepo(s *Store) *StatsRepo { return &StatsRepo{s: s} }

func (r *StatsRepo) table(kind domain.StatKind) (map[string]*domain.DailyStat, error) {
	t, ok := r.s.stats[kind]
	if !ok {
		return nil, fmt.Errorf("unknown stat kind %q", kind)
	}
	return t, nil
}

func (r *StatsRepo) Seed(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	if _, ok := t[date]; ok {
		return nil
	}
	t[date] = domain.NewDailyStat(date)
	onRollback(tx, func() { delete(t, date) })
	return nil
}

func (r *StatsRepo) Get(ctx context.Context, kind domain.StatKind, date string) (*domain.DailyStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	if s, ok := t[date]; ok {
		return cloneStat(s), nil
	}
	return nil, nil
}

func (r *StatsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) (*domain.DailyStat, error) {
	return r.Get(ctx, kind, date)
}

func (r *StatsRepo) Upsert(ctx context.Context, tx pgx.Tx, kind domain.StatKind, s *domain.DailyStat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	prev, existed := t[s.Date]
	t[s.Date] = cloneStat(s)
	onRollback(tx, func() {
		if existed {
			t[s.Date] = prev
		} else {
			delete(t, s.Date)
		}
	})
	return nil
}

// BuybackRepo implements ports.BuybackRepository.
type BuybackRepo struct{ s *Store }

// NewBuybackRepo creates a BuybackRepo over s.
func NewBuybackRepo(s *Store) *BuybackRepo { return &BuybackRepo{s: s} }

func (r *BuybackRepo) Create(ctx context.Context, b *domain.BuybackRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.buybacks[b.ID]; ok {
		return fmt.Errorf("insert buyback record: duplicate id %s", b.ID)
	}
	r.s.buybacks[b.ID] = cloneBuyback(b)
	return nil
}

func (r *BuybackRepo) Update(ctx context.Context, b *domain.BuybackRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.buybacks[b.ID]; !ok {
		return fmt.Errorf("buyback record not found: %s", b.ID)
	}
	r.s.buybacks[b.ID] = cloneBuyback(b)
	return nil
}

func (r *BuybackRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BuybackRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.buybacks[id]; ok {
		return cloneBuyback(b), nil
	}
	return nil, nil
}

func (r *BuybackRepo) LatestResumable(ctx context.Context) (*domain.BuybackRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *domain.BuybackRecord
	for _, b := range r.s.buybacks {
		if !b.IsResumable() {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneBuyback(latest), nil
}
