package dto

import (
	"time"

	"wager-treasury/internal/core/domain"
)

// CreateWagerRequest is the request body for opening a wager.
type CreateWagerRequest struct {
	Bettor    string `json:"bettor" binding:"required,eth_address"`
	BetAmount int64  `json:"bet_amount" binding:"required,gt=0"`
	Choice    string `json:"choice" binding:"required,oneof=heads tails"`
}

// DepositRequest is the request body for crediting a bettor's deposit.
type DepositRequest struct {
	TxRef string `json:"tx_ref" binding:"required,tx_ref"`
}

// WagerResponse is the response body for a commitment. Reveal is only
// present once the wager is terminal.
type WagerResponse struct {
	ID                   string                  `json:"id"`
	Bettor               string                  `json:"bettor"`
	BetAmount            int64                   `json:"bet_amount"`
	Choice               string                  `json:"choice"`
	Status               string                  `json:"status"`
	CommitmentHash       string                  `json:"commitment_hash"`
	ExpiresAt            string                  `json:"expires_at"`
	DepositTxRef         *string                 `json:"deposit_tx_ref,omitempty"`
	Outcome              *string                 `json:"outcome,omitempty"`
	Won                  *bool                   `json:"won,omitempty"`
	PayoutAmount         int64                   `json:"payout_amount"`
	PayoutTxRef          *string                 `json:"payout_tx_ref,omitempty"`
	IsFallbackRandomness bool                    `json:"is_fallback_randomness"`
	RandomnessProof      *domain.RandomnessProof `json:"randomness_proof,omitempty"`
	Reveal               *domain.Reveal          `json:"reveal,omitempty"`
	ResolvedAt           *string                 `json:"resolved_at,omitempty"`
	CreatedAt            string                  `json:"created_at"`
}

// NewWagerResponse maps a commitment to its response body.
func NewWagerResponse(c *domain.Commitment) WagerResponse {
	resp := WagerResponse{
		ID:                   c.ID.String(),
		Bettor:               c.Bettor,
		BetAmount:            c.BetAmount,
		Choice:               string(c.Choice),
		Status:               string(c.Status),
		CommitmentHash:       c.CommitmentHash,
		ExpiresAt:            formatTime(c.ExpiresAt),
		DepositTxRef:         c.DepositTxRef,
		Won:                  c.Won,
		PayoutAmount:         c.PayoutAmount,
		PayoutTxRef:          c.PayoutTxRef,
		IsFallbackRandomness: c.IsFallbackRandomness,
		RandomnessProof:      c.RandomnessProof,
		Reveal:               c.Reveal(),
		ResolvedAt:           formatTimePtr(c.ResolvedAt),
		CreatedAt:            formatTime(c.CreatedAt),
	}
	if c.Outcome != nil {
		o := string(*c.Outcome)
		resp.Outcome = &o
	}
	return resp
}

// SweepResponse reports how many wagers an expiry sweep closed.
type SweepResponse struct {
	Expired int `json:"expired"`
}

// AmountResponse carries a raw amount with its human-scaled value.
type AmountResponse struct {
	Raw     string `json:"raw"`
	Display string `json:"display"`
	Symbol  string `json:"symbol"`
}

// NewAmountResponse maps a domain amount.
func NewAmountResponse(a domain.Amount) AmountResponse {
	return AmountResponse{
		Raw:     domain.RawString(a.Raw),
		Display: a.Display().String(),
		Symbol:  a.Asset.Symbol,
	}
}

// BalanceResponse is the response for a wallet balance query.
type BalanceResponse struct {
	Role     string         `json:"role"`
	Address  string         `json:"address"`
	Native   AmountResponse `json:"native"`
	Token    AmountResponse `json:"token"`
	SyncedAt string         `json:"synced_at"`
}

// NewBalanceResponse maps a wallet balance.
func NewBalanceResponse(b *domain.WalletBalance) BalanceResponse {
	return BalanceResponse{
		Role:     string(b.Role),
		Address:  b.Address,
		Native:   NewAmountResponse(b.Native),
		Token:    NewAmountResponse(b.Token),
		SyncedAt: formatTime(b.SyncedAt),
	}
}

// DailyStatResponse is one day of payout or transfer totals.
type DailyStatResponse struct {
	Date    string  `json:"date"`
	Total   string  `json:"total"`
	Count   int     `json:"count"`
	Largest string  `json:"largest"`
	LastAt  *string `json:"last_at,omitempty"`
}

func newDailyStatResponse(s *domain.DailyStat) DailyStatResponse {
	return DailyStatResponse{
		Date:    s.Date,
		Total:   domain.RawString(s.TotalAmount),
		Count:   s.Count,
		Largest: domain.RawString(s.LargestAmount),
		LastAt:  formatTimePtr(s.LastAt),
	}
}

// SnapshotResponse is the operator view of the treasury.
type SnapshotResponse struct {
	Date          string                    `json:"date"`
	Balances      []BalanceResponse         `json:"balances"`
	Payouts       DailyStatResponse         `json:"payouts"`
	PayoutCeiling AmountResponse            `json:"payout_ceiling"`
	Transfers     DailyStatResponse         `json:"transfers"`
	Counters      []domain.RateLimitCounter `json:"counters"`
	LockoutUntil  *string                   `json:"lockout_until,omitempty"`
}

// NewSnapshotResponse maps a treasury snapshot.
func NewSnapshotResponse(s *domain.TreasurySnapshot) SnapshotResponse {
	balances := make([]BalanceResponse, 0, len(s.Balances))
	for i := range s.Balances {
		balances = append(balances, NewBalanceResponse(&s.Balances[i]))
	}
	return SnapshotResponse{
		Date:          s.Date,
		Balances:      balances,
		Payouts:       newDailyStatResponse(s.Payouts),
		PayoutCeiling: NewAmountResponse(s.PayoutCeiling),
		Transfers:     newDailyStatResponse(s.Transfers),
		Counters:      s.Counters,
		LockoutUntil:  formatTimePtr(s.LockoutUntil),
	}
}

// BuybackRecordResponse is one persisted buyback cycle.
type BuybackRecordResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Strategy      string  `json:"strategy"`
	AssetSpent    string  `json:"asset_spent"`
	TokenBought   string  `json:"token_bought"`
	TokenBurned   string  `json:"token_burned"`
	SwapTxRef     *string `json:"swap_tx_ref,omitempty"`
	TransferTxRef *string `json:"transfer_tx_ref,omitempty"`
	BurnTxRef     *string `json:"burn_tx_ref,omitempty"`
	Error         *string `json:"error,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// BuybackResultResponse is the response for a buyback run or resume.
type BuybackResultResponse struct {
	DryRun      bool                   `json:"dry_run"`
	Skipped     bool                   `json:"skipped"`
	Resumed     bool                   `json:"resumed"`
	Reason      string                 `json:"reason,omitempty"`
	Spendable   *string                `json:"spendable,omitempty"`
	ExpectedOut *string                `json:"expected_out,omitempty"`
	Record      *BuybackRecordResponse `json:"record,omitempty"`
}

// NewBuybackResultResponse maps a buyback result.
func NewBuybackResultResponse(r *domain.BuybackResult) BuybackResultResponse {
	resp := BuybackResultResponse{
		DryRun:  r.DryRun,
		Skipped: r.Skipped,
		Resumed: r.Resumed,
		Reason:  r.Reason,
	}
	if r.Spendable != nil {
		s := r.Spendable.String()
		resp.Spendable = &s
	}
	if r.Quote != nil && r.Quote.AmountOut != nil {
		s := r.Quote.AmountOut.String()
		resp.ExpectedOut = &s
	}
	if rec := r.Record; rec != nil {
		resp.Record = &BuybackRecordResponse{
			ID:            rec.ID.String(),
			Status:        string(rec.Status),
			Strategy:      string(rec.Strategy),
			AssetSpent:    domain.RawString(rec.AssetSpent),
			TokenBought:   domain.RawString(rec.TokenBought),
			TokenBurned:   domain.RawString(rec.TokenBurned),
			SwapTxRef:     rec.SwapTxRef,
			TransferTxRef: rec.TransferTxRef,
			BurnTxRef:     rec.BurnTxRef,
			Error:         rec.Error,
			CreatedAt:     formatTime(rec.CreatedAt),
			UpdatedAt:     formatTime(rec.UpdatedAt),
		}
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
