package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/adapter/chain/evm"
	"wager-treasury/internal/adapter/exchange"
	httpHandler "wager-treasury/internal/adapter/http/handler"
	"wager-treasury/internal/adapter/randomness"
	pgStorage "wager-treasury/internal/adapter/storage/postgres"
	redisStorage "wager-treasury/internal/adapter/storage/redis"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/service"
	"wager-treasury/internal/worker"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Wager Treasury Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if err := pgStorage.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Connect to the chain
	chain, rpc, err := evm.Dial(ctx, cfg.Chain, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to chain")
	}
	defer rpc.Close()

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	commitmentRepo := pgStorage.NewCommitmentRepo(pool)
	txRefRepo := pgStorage.NewTxRefRepo(pool)
	rateLimitRepo := pgStorage.NewRateLimitRepo(pool)
	statsRepo := pgStorage.NewStatsRepo(pool)
	buybackRepo := pgStorage.NewBuybackRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	leaseLock := redisStorage.NewLeaseLock(rdb)
	balanceCache := redisStorage.NewBalanceCache(rdb)

	native := domain.Asset{Symbol: cfg.Chain.NativeSymbol, Decimals: cfg.Chain.NativeDecimals}
	token := domain.Asset{Symbol: cfg.Chain.TokenSymbol, Decimals: cfg.Chain.TokenDecimals}

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	vault := service.NewVaultService(walletRepo, transactor, chain, cfg.Vault.Passphrase, native, token, log)
	missing := verifyWallets(ctx, vault, cfg.Vault.Passphrase, log)

	safetyPolicy, err := newSafetyPolicy(cfg.Safety)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid safety configuration")
	}
	safetySvc := service.NewSafetyService(rateLimitRepo, statsRepo, transactor, safetyPolicy, log)

	var beacon ports.RandomnessSource
	if cfg.Randomness.URL != "" {
		beacon = randomness.NewBeacon(cfg.Randomness, &http.Client{Timeout: cfg.Randomness.Timeout}, log)
	} else {
		log.Warn().Msg("No randomness beacon configured, outcomes use the local fallback draw")
	}

	escrowSvc := service.NewEscrowService(
		commitmentRepo,
		txRefRepo,
		walletRepo,
		transactor,
		encSvc,
		vault,
		safetySvc,
		chain,
		beacon,
		service.EscrowPolicy{
			MinBet:         cfg.Escrow.MinBet,
			MaxBet:         cfg.Escrow.MaxBet,
			TTL:            cfg.Escrow.TTL,
			ResolveLease:   cfg.Escrow.ResolveLease,
			VerifyDeposits: cfg.Chain.VerifyDeposits,
			DrawTimeout:    cfg.Randomness.Timeout,
		},
		log,
	)

	treasurySvc := service.NewTreasuryService(vault, balanceCache, rateLimitRepo, statsRepo, safetySvc, native, cfg.Vault.BalanceCacheTTL, log)

	var buybackSvc ports.BuybackService
	if cfg.Buyback.Enabled {
		if cfg.Buyback.AirlockEnabled && missing[domain.WalletRoleBurn] {
			log.Fatal().Msg("Airlock burn selected but no burn wallet is provisioned")
		}
		svc, err := newBuybackService(cfg, buybackRepo, vault, chain, safetySvc, transactor, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid buyback configuration")
		}
		buybackSvc = svc.WithLease(leaseLock, buybackBudget(cfg))
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		EscrowSvc:      escrowSvc,
		SafetySvc:      safetySvc,
		TreasurySvc:    treasurySvc,
		Vault:          vault,
		BuybackSvc:     buybackSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, chain},
		Logger:         log,
	})

	// Background jobs
	jobs := []*worker.Periodic{
		worker.NewPeriodic("expiry-sweeper", cfg.Escrow.SweepInterval, cfg.Escrow.SweepInterval, func(ctx context.Context) error {
			_, err := escrowSvc.SweepExpired(ctx)
			return err
		}, leaseLock, log),
	}
	if buybackSvc != nil && cfg.Buyback.Interval > 0 {
		// The service holds its own cycle lease across every entry point.
		jobs = append(jobs, worker.NewPeriodic("buyback", cfg.Buyback.Interval, buybackBudget(cfg), func(ctx context.Context) error {
			_, err := buybackSvc.RunCycle(ctx, false)
			return err
		}, nil, log))
	}
	for _, job := range jobs {
		job.Start()
	}

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	for _, job := range jobs {
		job.Stop()
	}

	log.Info().Msg("Server exited")
}

// verifyWallets unlocks every role once so a wrong passphrase or a corrupted
// key is reported at startup rather than on the first payout. It returns the
// roles with no wallet.
func verifyWallets(ctx context.Context, vault ports.WalletVault, passphrase string, log zerolog.Logger) map[domain.WalletRole]bool {
	missing := make(map[domain.WalletRole]bool)
	for _, role := range domain.WalletRoles {
		w, err := vault.Load(ctx, role, passphrase)
		switch {
		case apperror.IsKind(err, apperror.KindValidation):
			missing[role] = true
			log.Warn().Str("role", string(role)).Msg("Wallet not provisioned")
		case err != nil:
			log.Fatal().Err(err).Str("role", string(role)).Msg("Wallet failed verification")
		default:
			log.Info().Str("role", string(role)).Str("address", w.PublicKey).Msg("Wallet verified")
		}
	}
	return missing
}

// buybackBudget bounds one cycle: swap, transfer and burn confirmations.
func buybackBudget(cfg *config.Config) time.Duration {
	return 3*cfg.Chain.ConfirmTimeout + time.Minute
}

func newSafetyPolicy(cfg config.SafetyConfig) (service.SafetyPolicy, error) {
	lockout, err := cfg.Lockout()
	if err != nil {
		return service.SafetyPolicy{}, err
	}
	ceiling, err := optionalRaw("safety.daily_transfer_ceiling", cfg.DailyTransferCeiling)
	if err != nil {
		return service.SafetyPolicy{}, err
	}
	rules := make(map[string]service.SafetyRule, len(cfg.Rules))
	for name, r := range cfg.Rules {
		rules[name] = service.SafetyRule{DailyLimit: r.DailyLimit, MinInterval: r.MinInterval}
	}
	return service.SafetyPolicy{
		LockoutUntil:         lockout,
		PayoutCeilingBps:     cfg.PayoutCeilingBps,
		PayoutCeilingMax:     cfg.PayoutCeilingMax,
		DailyTransferCeiling: ceiling,
		Rules:                rules,
	}, nil
}

func newBuybackService(
	cfg *config.Config,
	records ports.BuybackRepository,
	vault ports.WalletVault,
	chain ports.ChainClient,
	safety ports.SafetyService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) (*service.BuybackServiceImpl, error) {
	burnCap, err := cfg.Buyback.BurnCap()
	if err != nil {
		return nil, err
	}
	raw := map[string]string{
		"buyback.fee_reserve":   cfg.Buyback.FeeReserve,
		"buyback.max_per_cycle": cfg.Buyback.MaxPerCycle,
		"buyback.min_spend":     cfg.Buyback.MinSpend,
	}
	parsed := make(map[string]*big.Int, len(raw))
	for key, s := range raw {
		v, err := optionalRaw(key, s)
		if err != nil {
			return nil, err
		}
		parsed[key] = v
	}

	strategy := service.NewBurnStrategy(cfg.Buyback.AirlockEnabled, service.BurnDeps{
		Vault:          vault,
		Chain:          chain,
		Safety:         safety,
		Records:        records,
		Transactor:     transactor,
		TokenDecimals:  cfg.Chain.TokenDecimals,
		MaxBurnPerTx:   burnCap,
		ConfirmTimeout: cfg.Chain.ConfirmTimeout,
		Log:            log,
	})
	log.Info().Str("strategy", string(strategy.Kind())).Dur("interval", cfg.Buyback.Interval).Msg("Buyback enabled")

	exchangeClient := exchange.NewClient(cfg.Exchange, &http.Client{Timeout: cfg.Exchange.Timeout}, log)

	return service.NewBuybackService(records, vault, chain, exchangeClient, safety, strategy, service.BuybackPolicy{
		FeeReserve:     parsed["buyback.fee_reserve"],
		MaxPerCycle:    parsed["buyback.max_per_cycle"],
		MinSpend:       parsed["buyback.min_spend"],
		SlippageBps:    cfg.Buyback.SlippageBps,
		DailyLimit:     cfg.Buyback.DailyLimit,
		MinInterval:    cfg.Buyback.MinInterval,
		ConfirmTimeout: cfg.Chain.ConfirmTimeout,
	}, log), nil
}

// optionalRaw parses a raw base-10 amount. An empty value is nil.
func optionalRaw(key, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := domain.ParseRaw(s)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	return v, nil
}
