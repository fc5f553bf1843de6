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

	"github.com/rs/zerolog"
)

// BurnStrategy destroys the tokens a buyback cycle bought.
type BurnStrategy interface {
	Kind() domain.BurnStrategyKind
	// Plan runs the strategy's limit checks for amount without moving funds.
	Plan(ctx context.Context, amount *big.Int) error
	// Burn destroys amount, updating rec with every step taken.
	Burn(ctx context.Context, rec *domain.BuybackRecord, amount *big.Int) error
}

// BurnDeps are the collaborators shared by both strategies.
type BurnDeps struct {
	Vault          ports.WalletVault
	Chain          ports.ChainClient
	Safety         ports.SafetyService
	Records        ports.BuybackRepository
	Transactor     ports.DBTransactor
	TokenDecimals  int32
	MaxBurnPerTx   *big.Int
	ConfirmTimeout time.Duration
	Log            zerolog.Logger
}

// NewBurnStrategy selects the burn path once, at startup.
func NewBurnStrategy(airlock bool, deps BurnDeps) BurnStrategy {
	deps.Log = logger.Component(deps.Log, "burn")
	if airlock {
		return &AirlockBurn{deps: deps}
	}
	return &DirectBurn{deps: deps}
}

// AirlockBurn moves bought tokens into the isolated burn wallet and burns
// that wallet's entire balance, so a fault in the burn step can only touch
// tokens parked there.
type AirlockBurn struct {
	deps BurnDeps
}

func (a *AirlockBurn) Kind() domain.BurnStrategyKind { return domain.BurnStrategyAirlock }

func (a *AirlockBurn) Plan(ctx context.Context, amount *big.Int) error {
	if err := a.deps.Safety.CheckTransferCeiling(ctx, amount); err != nil {
		return err
	}
	return checkBurnCap(amount, a.deps.MaxBurnPerTx)
}

func (a *AirlockBurn) Burn(ctx context.Context, rec *domain.BuybackRecord, amount *big.Int) error {
	log := a.deps.Log.With().Str("buyback_id", rec.ID.String()).Logger()

	burnAddr, err := a.deps.Vault.Address(ctx, domain.WalletRoleBurn)
	if err != nil {
		return err
	}
	token := a.deps.Chain.TokenAddress()

	if rec.TransferTxRef == nil {
		if err := a.reserveTransfer(ctx, amount); err != nil {
			return err
		}

		data, err := a.deps.Chain.EncodeTokenTransfer(burnAddr, amount)
		if err != nil {
			return err
		}
		txRef, err := a.deps.Vault.SignAndBroadcast(ctx, domain.WalletRoleHot, domain.TxCall{To: token, Data: data})
		if err != nil {
			return err
		}
		rec.TransferTxRef = &txRef
		rec.UpdatedAt = time.Now().UTC()
		if err := a.deps.Records.Update(ctx, rec); err != nil {
			return appOrInternal(err, "save transfer step")
		}
		if err := confirm(ctx, a.deps.Chain, txRef, a.deps.ConfirmTimeout); err != nil {
			return err
		}
		log.Info().Str("tx_ref", txRef).Str("amount", amount.String()).Msg("tokens moved to burn wallet")
	}

	balance, err := a.deps.Chain.TokenBalance(ctx, burnAddr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		logger.Alert(log).
			Str("balance", balance.String()).
			Str("expected", amount.String()).
			Msg("burn wallet holds less than was transferred")
		return apperror.ErrAirlockShortfall(balance.String(), amount.String())
	}
	if surplus := new(big.Int).Sub(balance, amount); surplus.Sign() > 0 {
		log.Warn().Str("surplus", surplus.String()).Msg("burn wallet holds leftover tokens, burning them too")
	}
	if err := checkBurnCap(balance, a.deps.MaxBurnPerTx); err != nil {
		logger.Alert(log).Err(err).Str("balance", balance.String()).Msg("burn aborted, tokens parked in burn wallet")
		return err
	}

	burnRef, err := burnTokens(ctx, a.deps, domain.WalletRoleBurn, balance)
	if err != nil {
		return err
	}
	rec.BurnTxRef = &burnRef
	rec.TokenBurned = new(big.Int).Set(balance)

	remaining, err := a.deps.Chain.TokenBalance(ctx, burnAddr)
	if err != nil {
		return err
	}
	if remaining.Sign() != 0 {
		logger.Alert(log).Str("remaining", remaining.String()).Msg("burn wallet not empty after burn")
		return apperror.ErrBurnWalletNotEmpty(remaining.String())
	}
	return nil
}

func (a *AirlockBurn) reserveTransfer(ctx context.Context, amount *big.Int) error {
	dbTx, err := a.deps.Transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := a.deps.Safety.RecordTransferTx(ctx, dbTx, amount); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// DirectBurn burns from the hot wallet. Only the tokens this cycle bought
// may be burned.
type DirectBurn struct {
	deps BurnDeps
}

func (d *DirectBurn) Kind() domain.BurnStrategyKind { return domain.BurnStrategyDirect }

func (d *DirectBurn) Plan(_ context.Context, amount *big.Int) error {
	return checkBurnCap(amount, d.deps.MaxBurnPerTx)
}

func (d *DirectBurn) Burn(ctx context.Context, rec *domain.BuybackRecord, amount *big.Int) error {
	log := d.deps.Log.With().Str("buyback_id", rec.ID.String()).Logger()

	if rec.TokenBought == nil || amount.Cmp(rec.TokenBought) > 0 {
		logger.Alert(log).Str("amount", amount.String()).Msg("burn exceeds tokens bought this cycle")
		return apperror.ErrDrainGuard()
	}
	if err := checkBurnCap(amount, d.deps.MaxBurnPerTx); err != nil {
		logger.Alert(log).Err(err).Msg("burn aborted")
		return err
	}

	hot, err := d.deps.Vault.Address(ctx, domain.WalletRoleHot)
	if err != nil {
		return err
	}
	held, err := d.deps.Chain.TokenBalance(ctx, hot)
	if err != nil {
		return err
	}
	if held.Cmp(amount) <= 0 {
		logger.Alert(log).Str("held", held.String()).Str("amount", amount.String()).Msg("burn would leave the hot wallet without tokens")
		return apperror.ErrDrainGuard()
	}

	burnRef, err := burnTokens(ctx, d.deps, domain.WalletRoleHot, amount)
	if err != nil {
		return err
	}
	rec.BurnTxRef = &burnRef
	rec.TokenBurned = new(big.Int).Set(amount)
	return nil
}

func burnTokens(ctx context.Context, deps BurnDeps, role domain.WalletRole, amount *big.Int) (string, error) {
	data, err := deps.Chain.EncodeTokenBurn(amount)
	if err != nil {
		return "", err
	}
	txRef, err := deps.Vault.SignAndBroadcast(ctx, role, domain.TxCall{To: deps.Chain.TokenAddress(), Data: data})
	if err != nil {
		return "", err
	}
	if err := confirm(ctx, deps.Chain, txRef, deps.ConfirmTimeout); err != nil {
		return "", err
	}
	metrics.TokensBurned.Add(metrics.Display(amount, deps.TokenDecimals))
	deps.Log.Info().Str("role", string(role)).Str("tx_ref", txRef).Str("amount", amount.String()).Msg("tokens burned")
	return txRef, nil
}

// checkBurnCap fails closed: without a positive cap nothing may be burned.
func checkBurnCap(amount, limit *big.Int) error {
	if limit == nil || limit.Sign() <= 0 || amount.Cmp(limit) > 0 {
		metrics.SafetyRejections.WithLabelValues("burn_cap").Inc()
		return apperror.ErrBurnCapExceeded(amount.String(), domain.RawString(limit))
	}
	return nil
}

// waitReceipt waits for txRef's receipt within timeout.
func waitReceipt(ctx context.Context, chain ports.ChainClient, txRef string, timeout time.Duration) (*domain.TxReceipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chain.WaitConfirmed(ctx, txRef)
}

// confirm waits for txRef within timeout and fails if it reverted.
func confirm(ctx context.Context, chain ports.ChainClient, txRef string, timeout time.Duration) error {
	receipt, err := waitReceipt(ctx, chain, txRef, timeout)
	if err != nil {
		return err
	}
	if !receipt.Success {
		return apperror.ErrTxReverted(txRef)
	}
	return nil
}
