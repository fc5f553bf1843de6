// Command vault provisions and checks the treasury signing wallets and mints
// caller tokens.
//
//	vault [-config path] create <hot|cold|burn>
//	vault [-config path] import <hot|cold|burn>   (hex secret on stdin)
//	vault [-config path] verify
//	vault [-config path] token <subject> <bot|operator>
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/adapter/chain/evm"
	pgStorage "wager-treasury/internal/adapter/storage/postgres"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/service"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, args, log); err != nil {
		log.Error().Err(err).Str("command", args[0]).Msg("vault command failed")
		cancel()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vault [-config path] <create|import|verify|token> [args]\n")
	flag.PrintDefaults()
}

func run(ctx context.Context, cfg *config.Config, args []string, log zerolog.Logger) error {
	if args[0] == "token" {
		if len(args) != 3 {
			return errors.New("token requires <subject> <role>")
		}
		return mintToken(cfg.JWT, args[1], args[2])
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pgStorage.Migrate(ctx, pool, log); err != nil {
		return err
	}

	chain, rpc, err := evm.Dial(ctx, cfg.Chain, log)
	if err != nil {
		return err
	}
	defer rpc.Close()

	native := domain.Asset{Symbol: cfg.Chain.NativeSymbol, Decimals: cfg.Chain.NativeDecimals}
	token := domain.Asset{Symbol: cfg.Chain.TokenSymbol, Decimals: cfg.Chain.TokenDecimals}
	vault := service.NewVaultService(
		pgStorage.NewWalletRepo(pool),
		pgStorage.NewTransactor(pool),
		chain,
		cfg.Vault.Passphrase,
		native,
		token,
		log,
	)

	switch args[0] {
	case "create":
		role, err := roleArg(args)
		if err != nil {
			return err
		}
		w, err := vault.Create(ctx, role)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", w.Role, w.PublicKey)
		return nil

	case "import":
		role, err := roleArg(args)
		if err != nil {
			return err
		}
		secret, err := readSecret()
		if err != nil {
			return err
		}
		defer clear(secret)
		w, err := vault.Import(ctx, role, secret)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", w.Role, w.PublicKey)
		return nil

	case "verify":
		return verify(ctx, vault, cfg.Vault.Passphrase)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func roleArg(args []string) (domain.WalletRole, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%s requires a wallet role", args[0])
	}
	role := domain.WalletRole(args[1])
	if !role.IsValid() {
		return "", apperror.ErrInvalidRole(args[1])
	}
	return role, nil
}

// readSecret reads one hex line from stdin so the key stays out of argv and
// shell history.
func readSecret() ([]byte, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("reading secret from stdin: %w", err)
	}
	secret, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(line), "0x"))
	if err != nil {
		return nil, fmt.Errorf("secret must be hex: %w", err)
	}
	return secret, nil
}

func verify(ctx context.Context, vault ports.WalletVault, passphrase string) error {
	var failed bool
	for _, role := range domain.WalletRoles {
		w, err := vault.Load(ctx, role, passphrase)
		switch {
		case apperror.IsKind(err, apperror.KindValidation):
			fmt.Printf("%s\tmissing\n", role)
		case err != nil:
			fmt.Printf("%s\tFAILED\t%v\n", role, err)
			failed = true
		default:
			fmt.Printf("%s\tok\t%s\n", role, w.PublicKey)
		}
	}
	if failed {
		return errors.New("one or more wallets failed verification")
	}
	return nil
}

func mintToken(cfg config.JWTConfig, subject, role string) error {
	if role != ports.RoleBot && role != ports.RoleOperator {
		return fmt.Errorf("role must be %s or %s", ports.RoleBot, ports.RoleOperator)
	}
	tokenSvc := service.NewJWTTokenService(cfg.Secret, cfg.Expiry, cfg.Issuer)
	tok, expiresAt, err := tokenSvc.Generate(subject, role)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n# expires %s\n", tok, expiresAt.UTC().Format(time.RFC3339))
	return nil
}
