// Package evm implements the chain collaborator over an EVM JSON-RPC node.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

const receiptPollInterval = time.Second

// Backend is the subset of the node API the client uses. *ethclient.Client
// and the simulated backend both satisfy it.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client implements ports.ChainClient.
type Client struct {
	backend      Backend
	chainID      *big.Int
	token        common.Address
	maxGasPrice  *big.Int
	callTimeout  time.Duration
	pollInterval time.Duration
	log          zerolog.Logger
}

// Dial connects to the configured RPC node.
func Dial(ctx context.Context, cfg config.ChainConfig, log zerolog.Logger) (*Client, *ethclient.Client, error) {
	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	c, err := NewClient(rpc, cfg, log)
	if err != nil {
		rpc.Close()
		return nil, nil, err
	}

	log.Info().
		Int64("chain_id", cfg.ChainID).
		Str("rpc_url", cfg.RPCURL).
		Str("token", c.token.Hex()).
		Msg("Connected to chain")

	return c, rpc, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, cfg config.ChainConfig, log zerolog.Logger) (*Client, error) {
	c := &Client{
		backend:      backend,
		chainID:      big.NewInt(cfg.ChainID),
		callTimeout:  cfg.CallTimeout,
		pollInterval: receiptPollInterval,
		log:          log.With().Str("component", "chain").Logger(),
	}
	if cfg.TokenAddress != "" {
		if !common.IsHexAddress(cfg.TokenAddress) {
			return nil, fmt.Errorf("invalid token address %q", cfg.TokenAddress)
		}
		c.token = common.HexToAddress(cfg.TokenAddress)
	}
	if cfg.MaxGasPrice != "" {
		ceiling, ok := new(big.Int).SetString(cfg.MaxGasPrice, 10)
		if !ok || ceiling.Sign() <= 0 {
			return nil, fmt.Errorf("invalid max gas price %q", cfg.MaxGasPrice)
		}
		c.maxGasPrice = ceiling
	}
	return c, nil
}

// ChainID returns the configured chain id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// TokenAddress returns the project token contract address.
func (c *Client) TokenAddress() string {
	return c.token.Hex()
}

// NativeBalance reads the latest native balance of address.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	bal, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, chainError("balance", err)
	}
	return bal, nil
}

// TokenBalance reads the project token balance of address.
func (c *Client) TokenBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	data, err := tokenABI.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.token, Data: data}, nil)
	if err != nil {
		return nil, chainError("token balance", err)
	}
	values, err := tokenABI.Unpack("balanceOf", out)
	if err != nil || len(values) != 1 {
		return nil, apperror.ErrExternal("chain", fmt.Errorf("decode balanceOf: %v", err))
	}
	bal, ok := values[0].(*big.Int)
	if !ok {
		return nil, apperror.ErrExternal("chain", fmt.Errorf("balanceOf returned %T", values[0]))
	}
	return bal, nil
}

// BuildTx fills nonce, gas limit and gas price for an unsigned call. The
// suggested gas price is capped at the configured maximum.
func (c *Client) BuildTx(ctx context.Context, from string, call domain.TxCall) (*types.Transaction, error) {
	sender, err := parseAddress(from)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(call.To)
	if err != nil {
		return nil, err
	}
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	nonce, err := c.backend.PendingNonceAt(ctx, sender)
	if err != nil {
		return nil, chainError("nonce", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, chainError("gas price", err)
	}
	if c.maxGasPrice != nil && gasPrice.Cmp(c.maxGasPrice) > 0 {
		c.log.Warn().
			Str("suggested", gasPrice.String()).
			Str("max", c.maxGasPrice.String()).
			Msg("Suggested gas price exceeds maximum")
		gasPrice = new(big.Int).Set(c.maxGasPrice)
	}

	gasLimit := call.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  sender,
			To:    &to,
			Value: value,
			Data:  call.Data,
		})
		if err != nil {
			return nil, chainError("estimate gas", err)
		}
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     call.Data,
	}), nil
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return chainError("send transaction", err)
	}
	c.log.Info().
		Str("tx_hash", tx.Hash().Hex()).
		Uint64("nonce", tx.Nonce()).
		Msg("Transaction submitted")
	return nil
}

// WaitConfirmed polls for the receipt of txRef until ctx ends. A reverted
// transaction is an external error.
func (c *Client) WaitConfirmed(ctx context.Context, txRef string) (*domain.TxReceipt, error) {
	hash := common.HexToHash(txRef)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			r := &domain.TxReceipt{
				TxRef:       txRef,
				Success:     receipt.Status == types.ReceiptStatusSuccessful,
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
			}
			if !r.Success {
				return r, apperror.ErrTxReverted(txRef)
			}
			return r, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, chainError("receipt", err)
		}

		select {
		case <-ctx.Done():
			return nil, apperror.ErrExternalTimeout("chain", fmt.Errorf("waiting for %s: %w", txRef, ctx.Err()))
		case <-ticker.C:
		}
	}
}

// GetDeposit looks up a native transfer. Unknown or pending transactions
// return nil, nil.
func (c *Client) GetDeposit(ctx context.Context, txRef string) (*domain.Deposit, error) {
	hash := common.HexToHash(txRef)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tx, pending, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, chainError("transaction", err)
	}
	if pending {
		return nil, nil
	}

	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, chainError("receipt", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return nil, apperror.ErrExternal("chain", fmt.Errorf("recover sender: %w", err))
	}

	d := &domain.Deposit{
		TxRef:   txRef,
		From:    sender.Hex(),
		Value:   new(big.Int).Set(tx.Value()),
		Success: receipt.Status == types.ReceiptStatusSuccessful,
	}
	if tx.To() != nil {
		d.To = tx.To().Hex()
	}
	return d, nil
}

// EncodeTokenTransfer packs transfer(to, amount).
func (c *Client) EncodeTokenTransfer(to string, amount *big.Int) ([]byte, error) {
	recipient, err := parseAddress(to)
	if err != nil {
		return nil, err
	}
	return tokenABI.Pack("transfer", recipient, amount)
}

// EncodeTokenBurn packs burn(amount).
func (c *Client) EncodeTokenBurn(amount *big.Int) ([]byte, error) {
	return tokenABI.Pack("burn", amount)
}

// Ping implements ports.HealthChecker.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	_, err := c.backend.BlockNumber(ctx)
	return err
}

// Name returns the dependency name.
func (c *Client) Name() string {
	return "chain"
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, apperror.Validation(fmt.Sprintf("invalid address %q", s))
	}
	return common.HexToAddress(s), nil
}

func chainError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrExternalTimeout("chain", fmt.Errorf("%s: %w", op, err))
	}
	return apperror.ErrExternal("chain", fmt.Errorf("%s: %w", op, err))
}
