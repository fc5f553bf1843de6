package ports

import (
	"context"
	"math/big"

	"wager-treasury/internal/core/domain"

	"github.com/ethereum/go-ethereum/core/types"
)

// ChainClient is the ledger-chain collaborator. Every call is a network
// round trip and callers bound it with a context deadline.
type ChainClient interface {
	ChainID() *big.Int
	TokenAddress() string
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, address string) (*big.Int, error)
	// BuildTx fills nonce, gas and fee fields for an unsigned call from `from`.
	BuildTx(ctx context.Context, from string, call domain.TxCall) (*types.Transaction, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitConfirmed(ctx context.Context, txRef string) (*domain.TxReceipt, error)
	GetDeposit(ctx context.Context, txRef string) (*domain.Deposit, error)
	EncodeTokenTransfer(to string, amount *big.Int) ([]byte, error)
	EncodeTokenBurn(amount *big.Int) ([]byte, error)
}

// ExchangeClient prices native-to-token swaps.
type ExchangeClient interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.SwapQuote, error)
}

// RandomnessSource draws verifiable randomness for settling a wager.
type RandomnessSource interface {
	Draw(ctx context.Context, requestID string) (*domain.Randomness, error)
}
