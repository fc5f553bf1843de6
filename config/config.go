package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	AES        AESConfig        `mapstructure:"aes"`
	Log        LogConfig        `mapstructure:"log"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Vault      VaultConfig      `mapstructure:"vault"`
	Escrow     EscrowConfig     `mapstructure:"escrow"`
	Randomness RandomnessConfig `mapstructure:"randomness"`
	Safety     SafetyConfig     `mapstructure:"safety"`
	Buyback    BuybackConfig    `mapstructure:"buyback"`
	Exchange   ExchangeConfig   `mapstructure:"exchange"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for commitment secrets at rest
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// ChainConfig describes the EVM chain the treasury operates on.
type ChainConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	ChainID        int64         `mapstructure:"chain_id"`
	NativeSymbol   string        `mapstructure:"native_symbol"`
	NativeDecimals int32         `mapstructure:"native_decimals"`
	TokenAddress   string        `mapstructure:"token_address"`
	TokenSymbol    string        `mapstructure:"token_symbol"`
	TokenDecimals  int32         `mapstructure:"token_decimals"`
	GasLimit       uint64        `mapstructure:"gas_limit"`
	MaxGasPrice    string        `mapstructure:"max_gas_price"` // wei, empty = uncapped
	CallTimeout    time.Duration `mapstructure:"call_timeout"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	VerifyDeposits bool          `mapstructure:"verify_deposits"`
}

type VaultConfig struct {
	Passphrase      string        `mapstructure:"passphrase"`
	BalanceCacheTTL time.Duration `mapstructure:"balance_cache_ttl"` // 0 = no caching
}

type EscrowConfig struct {
	MinBet        int64         `mapstructure:"min_bet"`
	MaxBet        int64         `mapstructure:"max_bet"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	ResolveLease  time.Duration `mapstructure:"resolve_lease"`
}

type RandomnessConfig struct {
	URL     string        `mapstructure:"url"` // empty = always use local fallback
	Timeout time.Duration `mapstructure:"timeout"`
}

// RuleConfig is a named throttle checked through the safety service.
type RuleConfig struct {
	DailyLimit  int           `mapstructure:"daily_limit"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

type SafetyConfig struct {
	LockoutUntil         string                `mapstructure:"lockout_until"` // RFC3339, empty = none
	PayoutCeilingBps     int64                 `mapstructure:"payout_ceiling_bps"`
	PayoutCeilingMax     int64                 `mapstructure:"payout_ceiling_max"`
	DailyTransferCeiling string                `mapstructure:"daily_transfer_ceiling"` // raw token units
	Rules                map[string]RuleConfig `mapstructure:"rules"`
}

// Lockout parses LockoutUntil. A zero time means no lockout.
func (s SafetyConfig) Lockout() (time.Time, error) {
	if s.LockoutUntil == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.LockoutUntil)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing safety.lockout_until: %w", err)
	}
	return t.UTC(), nil
}

type BuybackConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Interval       time.Duration `mapstructure:"interval"`
	AirlockEnabled bool          `mapstructure:"airlock_enabled"`
	FeeReserve     string        `mapstructure:"fee_reserve"`   // raw native units kept for gas
	MaxPerCycle    string        `mapstructure:"max_per_cycle"` // raw native units
	MinSpend       string        `mapstructure:"min_spend"`     // raw native units
	MaxBurnPerTx   string        `mapstructure:"max_burn_per_tx"`
	SlippageBps    int           `mapstructure:"slippage_bps"`
	DailyLimit     int           `mapstructure:"daily_limit"`
	MinInterval    time.Duration `mapstructure:"min_interval"`
}

// BurnCap parses MaxBurnPerTx, which must be a positive raw amount.
func (b BuybackConfig) BurnCap() (*big.Int, error) {
	v, ok := new(big.Int).SetString(b.MaxBurnPerTx, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("buyback.max_burn_per_tx must be a positive integer, got %q", b.MaxBurnPerTx)
	}
	return v, nil
}

type ExchangeConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WTS_ (Wager Treasury Service).
// Nested keys use underscore: WTS_DATABASE_HOST, WTS_VAULT_PASSPHRASE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wager_treasury")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "720h")
	v.SetDefault("jwt.issuer", "wager-treasury")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("chain.rpc_url", "http://localhost:8545")
	v.SetDefault("chain.chain_id", 1)
	v.SetDefault("chain.native_symbol", "ETH")
	v.SetDefault("chain.native_decimals", 18)
	v.SetDefault("chain.token_symbol", "TOKEN")
	v.SetDefault("chain.token_decimals", 18)
	v.SetDefault("chain.gas_limit", 300000)
	v.SetDefault("chain.call_timeout", "15s")
	v.SetDefault("chain.confirm_timeout", "90s")
	v.SetDefault("chain.verify_deposits", true)

	v.SetDefault("vault.passphrase", "")
	v.SetDefault("vault.balance_cache_ttl", "15s")

	v.SetDefault("escrow.min_bet", 1000)
	v.SetDefault("escrow.max_bet", 1000000000)
	v.SetDefault("escrow.ttl", "120s")
	v.SetDefault("escrow.sweep_interval", "30s")
	v.SetDefault("escrow.resolve_lease", "2m")

	v.SetDefault("randomness.url", "")
	v.SetDefault("randomness.timeout", "5s")

	v.SetDefault("safety.lockout_until", "")
	v.SetDefault("safety.payout_ceiling_bps", 2000) // 20% of treasury per day
	v.SetDefault("safety.payout_ceiling_max", 0)    // 0 = no absolute cap
	v.SetDefault("safety.daily_transfer_ceiling", "")

	v.SetDefault("buyback.enabled", false)
	v.SetDefault("buyback.interval", "6h")
	v.SetDefault("buyback.airlock_enabled", true)
	v.SetDefault("buyback.fee_reserve", "10000000000000000")                // 0.01 native
	v.SetDefault("buyback.max_per_cycle", "1000000000000000000")            // 1 native
	v.SetDefault("buyback.min_spend", "1000000000000000")                   // 0.001 native
	v.SetDefault("buyback.max_burn_per_tx", "1000000000000000000000000000") // 1e9 tokens
	v.SetDefault("buyback.slippage_bps", 100)
	v.SetDefault("buyback.daily_limit", 4)
	v.SetDefault("buyback.min_interval", "3h")

	v.SetDefault("exchange.base_url", "")
	v.SetDefault("exchange.api_key", "")
	v.SetDefault("exchange.timeout", "10s")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WTS_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if _, err := cfg.Safety.Lockout(); err != nil {
		return nil, err
	}
	if cfg.Buyback.Enabled {
		if _, err := cfg.Buyback.BurnCap(); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
