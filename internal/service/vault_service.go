package service

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// VaultService implements ports.WalletVault. Private keys exist in memory
// only for the duration of a single signing call.
type VaultService struct {
	wallets    ports.WalletRepository
	transactor ports.DBTransactor
	chain      ports.ChainClient
	passphrase string
	native     domain.Asset
	token      domain.Asset
	log        zerolog.Logger
}

// NewVaultService creates a new VaultService. passphrase unlocks every
// stored wallet for signing.
func NewVaultService(
	wallets ports.WalletRepository,
	transactor ports.DBTransactor,
	chain ports.ChainClient,
	passphrase string,
	native, token domain.Asset,
	log zerolog.Logger,
) *VaultService {
	return &VaultService{
		wallets:    wallets,
		transactor: transactor,
		chain:      chain,
		passphrase: passphrase,
		native:     native,
		token:      token,
		log:        logger.Component(log, "vault"),
	}
}

// Create generates a fresh key for role.
func (s *VaultService) Create(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate key: %w", err))
	}
	defer zeroKey(key)

	return s.store(ctx, role, key)
}

// Import stores an existing raw 32-byte secp256k1 secret for role.
func (s *VaultService) Import(ctx context.Context, role domain.WalletRole, rawSecret []byte) (*domain.Wallet, error) {
	key, err := crypto.ToECDSA(rawSecret)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid private key: %v", err))
	}
	defer zeroKey(key)

	return s.store(ctx, role, key)
}

func (s *VaultService) store(ctx context.Context, role domain.WalletRole, key *ecdsa.PrivateKey) (*domain.Wallet, error) {
	if !role.IsValid() {
		return nil, apperror.ErrInvalidRole(string(role))
	}
	if s.passphrase == "" {
		return nil, apperror.Validation("vault passphrase is not configured")
	}

	secret := crypto.FromECDSA(key)
	defer clear(secret)

	envelope, err := EncryptSecret(secret, s.passphrase)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		Role:                role,
		PublicKey:           crypto.PubkeyToAddress(key.PublicKey).Hex(),
		EncryptedSecret:     hex.EncodeToString(envelope),
		CachedNativeBalance: new(big.Int),
		CachedTokenBalance:  new(big.Int),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	existing, err := s.wallets.GetByRoleForUpdate(ctx, dbTx, role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrWalletExists(string(role))
	}

	if err := s.wallets.Create(ctx, dbTx, wallet); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("role", string(role)).Str("address", wallet.PublicKey).Msg("wallet stored")
	return wallet, nil
}

// Load decrypts the role's key with passphrase and checks that it derives
// the stored address.
func (s *VaultService) Load(ctx context.Context, role domain.WalletRole, passphrase string) (*domain.Wallet, error) {
	wallet, key, err := s.unlock(ctx, role, passphrase)
	if err != nil {
		return nil, err
	}
	zeroKey(key)
	return wallet, nil
}

// Address returns the checksummed address for role.
func (s *VaultService) Address(ctx context.Context, role domain.WalletRole) (string, error) {
	wallet, err := s.wallet(ctx, role)
	if err != nil {
		return "", err
	}
	return wallet.PublicKey, nil
}

// GetBalance reads native and token balances from the chain and refreshes
// the cached values on the wallet row.
func (s *VaultService) GetBalance(ctx context.Context, role domain.WalletRole) (*domain.WalletBalance, error) {
	wallet, err := s.wallet(ctx, role)
	if err != nil {
		return nil, err
	}

	native, err := s.chain.NativeBalance(ctx, wallet.PublicKey)
	if err != nil {
		return nil, err
	}

	token := new(big.Int)
	if tokenAddr := s.chain.TokenAddress(); tokenAddr != "" && common.HexToAddress(tokenAddr) != (common.Address{}) {
		if token, err = s.chain.TokenBalance(ctx, wallet.PublicKey); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := s.wallets.UpdateCachedBalances(ctx, role, native, token, now); err != nil {
		s.log.Warn().Err(err).Str("role", string(role)).Msg("failed to cache wallet balances")
	}

	return &domain.WalletBalance{
		Role:     role,
		Address:  wallet.PublicKey,
		Native:   s.native.Amount(native),
		Token:    s.token.Amount(token),
		SyncedAt: now,
	}, nil
}

// Sign signs tx with the role's key for the configured chain.
func (s *VaultService) Sign(ctx context.Context, role domain.WalletRole, tx *types.Transaction) (*types.Transaction, error) {
	var signed *types.Transaction
	err := s.withKey(ctx, role, func(_ *domain.Wallet, key *ecdsa.PrivateKey) error {
		var err error
		signed, err = types.SignTx(tx, types.LatestSignerForChainID(s.chain.ChainID()), key)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("sign tx: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signed, nil
}

// SignAndBroadcast builds, signs and sends call from the role's wallet and
// returns the transaction hash.
func (s *VaultService) SignAndBroadcast(ctx context.Context, role domain.WalletRole, call domain.TxCall) (string, error) {
	wallet, err := s.wallet(ctx, role)
	if err != nil {
		return "", err
	}

	unsigned, err := s.chain.BuildTx(ctx, wallet.PublicKey, call)
	if err != nil {
		return "", err
	}

	signed, err := s.Sign(ctx, role, unsigned)
	if err != nil {
		return "", err
	}

	if err := s.chain.SendTransaction(ctx, signed); err != nil {
		return "", err
	}

	txRef := signed.Hash().Hex()
	s.log.Info().
		Str("role", string(role)).
		Str("to", call.To).
		Str("value", domain.RawString(call.Value)).
		Str("tx_ref", txRef).
		Msg("transaction broadcast")
	return txRef, nil
}

func (s *VaultService) withKey(ctx context.Context, role domain.WalletRole, fn func(*domain.Wallet, *ecdsa.PrivateKey) error) error {
	wallet, key, err := s.unlock(ctx, role, s.passphrase)
	if err != nil {
		return err
	}
	defer zeroKey(key)
	return fn(wallet, key)
}

func (s *VaultService) unlock(ctx context.Context, role domain.WalletRole, passphrase string) (*domain.Wallet, *ecdsa.PrivateKey, error) {
	wallet, err := s.wallet(ctx, role)
	if err != nil {
		return nil, nil, err
	}

	envelope, err := hex.DecodeString(wallet.EncryptedSecret)
	if err != nil {
		return nil, nil, apperror.ErrCorruptRecord("wallet secret", err)
	}

	secret, err := DecryptSecret(envelope, passphrase)
	if err != nil {
		logger.Alert(s.log).Err(err).Str("role", string(role)).Msg("wallet secret failed to decrypt")
		return nil, nil, apperror.ErrDecryptFailed(err)
	}
	defer clear(secret)

	key, err := crypto.ToECDSA(secret)
	if err != nil {
		logger.Alert(s.log).Err(err).Str("role", string(role)).Msg("wallet secret is not a valid key")
		return nil, nil, apperror.ErrKeyMismatch(string(role))
	}

	derived := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if !strings.EqualFold(derived, wallet.PublicKey) {
		zeroKey(key)
		logger.Alert(s.log).
			Str("role", string(role)).
			Str("stored", wallet.PublicKey).
			Str("derived", derived).
			Msg("wallet key does not match stored address")
		return nil, nil, apperror.ErrKeyMismatch(string(role))
	}

	return wallet, key, nil
}

func (s *VaultService) wallet(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error) {
	if !role.IsValid() {
		return nil, apperror.ErrInvalidRole(string(role))
	}
	wallet, err := s.wallets.GetByRole(ctx, role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}

func zeroKey(key *ecdsa.PrivateKey) {
	if key != nil && key.D != nil {
		clear(key.D.Bits())
	}
}
