package ports

import (
	"context"
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EncryptionService handles AES-256-GCM encryption/decryption with the application key.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService handles JWT token operations for the caller surface.
type TokenService interface {
	Generate(subject, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// Caller roles carried in tokens.
const (
	RoleBot      = "bot"      // wager flow only
	RoleOperator = "operator" // treasury, buyback and safety endpoints too
)

// --- Service Ports (Business Logic) ---

// WalletVault custodies the role-isolated signing wallets.
type WalletVault interface {
	Create(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error)
	Import(ctx context.Context, role domain.WalletRole, rawSecret []byte) (*domain.Wallet, error)
	// Load decrypts the role's key with passphrase and verifies it against the
	// stored public key. The key itself never leaves the vault.
	Load(ctx context.Context, role domain.WalletRole, passphrase string) (*domain.Wallet, error)
	Address(ctx context.Context, role domain.WalletRole) (string, error)
	GetBalance(ctx context.Context, role domain.WalletRole) (*domain.WalletBalance, error)
	Sign(ctx context.Context, role domain.WalletRole, tx *types.Transaction) (*types.Transaction, error)
	SignAndBroadcast(ctx context.Context, role domain.WalletRole, call domain.TxCall) (string, error)
}

// EscrowService runs the commit-reveal wager state machine.
type EscrowService interface {
	CreateCommitment(ctx context.Context, req CreateCommitmentRequest) (*domain.Commitment, error)
	GetCommitment(ctx context.Context, id uuid.UUID) (*domain.Commitment, error)
	ConfirmDeposit(ctx context.Context, id uuid.UUID, txRef string) (*domain.Commitment, error)
	Resolve(ctx context.Context, id uuid.UUID) (*domain.Commitment, error)
	SweepExpired(ctx context.Context) (int, error)
}

// CreateCommitmentRequest holds validated input for opening a wager.
type CreateCommitmentRequest struct {
	Bettor    string
	BetAmount int64
	Choice    domain.Choice
}

// SafetyService is the rate limiter and circuit breaker consulted before
// money moves.
type SafetyService interface {
	CheckAllowed(ctx context.Context, scope string, dailyLimit int, minInterval time.Duration) (*domain.RateDecision, error)
	// CheckRule evaluates a scope using its configured limits.
	CheckRule(ctx context.Context, scope string) (*domain.RateDecision, error)
	RecordAction(ctx context.Context, scope string) error
	// AcquireRule is TryAcquire with the scope's configured limits.
	AcquireRule(ctx context.Context, scope string) (*domain.RateDecision, error)
	// TryAcquire checks and records in one transaction.
	TryAcquire(ctx context.Context, scope string, dailyLimit int, minInterval time.Duration) (*domain.RateDecision, error)
	CheckPayoutCircuitBreaker(ctx context.Context, amount, treasury *big.Int) error
	// RecordPayoutTx re-checks the ceiling under the day's row lock and
	// records the payout inside the caller's transaction.
	RecordPayoutTx(ctx context.Context, tx pgx.Tx, amount, treasury *big.Int) error
	CheckTransferCeiling(ctx context.Context, amount *big.Int) error
	RecordTransferTx(ctx context.Context, tx pgx.Tx, amount *big.Int) error
}

// BuybackService converts collected fees into the project token and burns it.
type BuybackService interface {
	RunCycle(ctx context.Context, dryRun bool) (*domain.BuybackResult, error)
	ResumeCycle(ctx context.Context, id uuid.UUID) (*domain.BuybackResult, error)
}

// TreasuryService assembles the operator view of the treasury.
type TreasuryService interface {
	Balances(ctx context.Context) ([]domain.WalletBalance, error)
	Snapshot(ctx context.Context) (*domain.TreasurySnapshot, error)
}
