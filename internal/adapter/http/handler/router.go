package handler

import (
	"wager-treasury/internal/adapter/http/middleware"
	redisStore "wager-treasury/internal/adapter/storage/redis"
	"wager-treasury/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	EscrowSvc      ports.EscrowService
	SafetySvc      ports.SafetyService
	TreasurySvc    ports.TreasuryService
	Vault          ports.WalletVault
	BuybackSvc     ports.BuybackService // nil = buyback endpoints reject
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10))
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", Metrics())

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	anyCaller := middleware.RequireRole(ports.RoleBot, ports.RoleOperator)
	operator := middleware.RequireRole(ports.RoleOperator)

	v1 := r.Group("/api/v1", jwtAuth)

	wagerHandler := NewWagerHandler(deps.EscrowSvc)
	wagers := v1.Group("/wagers", anyCaller)
	{
		wagers.POST("", rl("wager_write"), wagerHandler.Create)
		wagers.GET("/:id", rl("wager_read"), wagerHandler.Get)
		wagers.POST("/:id/deposit", rl("wager_write"), wagerHandler.Deposit)
		wagers.POST("/:id/resolve", rl("wager_write"), wagerHandler.Resolve)
		wagers.POST("/sweep", operator, rl("treasury"), wagerHandler.Sweep)
	}

	safetyHandler := NewSafetyHandler(deps.SafetySvc)
	safety := v1.Group("/safety", anyCaller)
	{
		safety.GET("/:scope", rl("safety"), safetyHandler.Check)
		safety.POST("/:scope", rl("safety"), safetyHandler.Record)
	}

	treasuryHandler := NewTreasuryHandler(deps.TreasurySvc, deps.Vault, deps.BuybackSvc)
	treasury := v1.Group("/treasury", operator)
	{
		treasury.GET("/snapshot", rl("treasury"), treasuryHandler.Snapshot)
		treasury.GET("/wallets/:role/balance", rl("treasury"), treasuryHandler.Balance)
		treasury.POST("/buyback", rl("buyback"), treasuryHandler.RunBuyback)
		treasury.POST("/buyback/:id/resume", rl("buyback"), treasuryHandler.ResumeBuyback)
	}

	return r
}
