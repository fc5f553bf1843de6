package handler

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wager-treasury/internal/adapter/http/dto"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/internal/core/ports/mocks"
	"wager-treasury/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testBettor = "0x52908400098527886E0F7030069857D2E4169EE7"

func testCommitment(status domain.CommitmentStatus) *domain.Commitment {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &domain.Commitment{
		ID:             uuid.New(),
		Bettor:         testBettor,
		BetAmount:      1000,
		Choice:         domain.ChoiceHeads,
		CommitmentHash: "ab12",
		ExpiresAt:      now.Add(time.Hour),
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "body: %s", w.Body.String())
	return data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Wager Handler Tests ---

func TestWagerHandler_Create_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	created := testCommitment(domain.CommitmentStatusPending)
	escrow.EXPECT().CreateCommitment(gomock.Any(), ports.CreateCommitmentRequest{
		Bettor:    testBettor,
		BetAmount: 1000,
		Choice:    domain.ChoiceHeads,
	}).Return(created, nil)

	c, w := newContext(http.MethodPost, "/api/v1/wagers", dto.CreateWagerRequest{
		Bettor: testBettor, BetAmount: 1000, Choice: "heads",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, created.ID.String(), data["id"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "ab12", data["commitment_hash"])
	assert.NotContains(t, data, "reveal")
}

func TestWagerHandler_Create_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewWagerHandler(mocks.NewMockEscrowService(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/wagers", map[string]any{
		"bettor": "not-an-address", "bet_amount": 10, "choice": "heads",
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperror.KindValidation), decodeError(t, w)["error_kind"])
}

func TestWagerHandler_Create_LiveCommitmentConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	escrow.EXPECT().CreateCommitment(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrLiveCommitmentExists())

	c, w := newContext(http.MethodPost, "/api/v1/wagers", dto.CreateWagerRequest{
		Bettor: testBettor, BetAmount: 1000, Choice: "tails",
	})
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(apperror.KindStateConflict), decodeError(t, w)["error_kind"])
}

func TestWagerHandler_Get_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewWagerHandler(mocks.NewMockEscrowService(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/wagers/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWagerHandler_Get_IncludesReveal(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	resolved := testCommitment(domain.CommitmentStatusResolved)
	resolved.Secret = []byte{0xde, 0xad}
	resolved.Nonce = []byte{0x01}
	outcome := domain.ChoiceTails
	won := false
	resolved.Outcome = &outcome
	resolved.Won = &won

	escrow.EXPECT().GetCommitment(gomock.Any(), resolved.ID).Return(resolved, nil)

	c, w := newContext(http.MethodGet, "/api/v1/wagers/"+resolved.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: resolved.ID.String()}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "tails", data["outcome"])
	reveal, ok := data["reveal"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dead", reveal["secret"])
}

func TestWagerHandler_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	txRef := "0x8f14e45fceea167a5a36dedd4bea2543e2a5a5ad1b4f1d9b1e2f9a0c1d3e4f50"
	deposited := testCommitment(domain.CommitmentStatusDeposited)
	deposited.DepositTxRef = &txRef
	escrow.EXPECT().ConfirmDeposit(gomock.Any(), deposited.ID, txRef).Return(deposited, nil)

	c, w := newContext(http.MethodPost, "/", dto.DepositRequest{TxRef: txRef})
	c.Params = gin.Params{{Key: "id", Value: deposited.ID.String()}}
	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, txRef, decodeData(t, w)["deposit_tx_ref"])
}

func TestWagerHandler_Deposit_ReplayRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	id := uuid.New()
	txRef := "0x8f14e45fceea167a5a36dedd4bea2543e2a5a5ad1b4f1d9b1e2f9a0c1d3e4f50"
	escrow.EXPECT().ConfirmDeposit(gomock.Any(), id, txRef).Return(nil, apperror.ErrTxRefAlreadyUsed())

	c, w := newContext(http.MethodPost, "/", dto.DepositRequest{TxRef: txRef})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Deposit(c)

	assert.Equal(t, apperror.ErrTxRefAlreadyUsed().HTTPStatus, w.Code)
}

func TestWagerHandler_Resolve_CircuitOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	id := uuid.New()
	escrow.EXPECT().Resolve(gomock.Any(), id).Return(nil, apperror.ErrPayoutCircuitOpen())

	c, w := newContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Resolve(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, string(apperror.KindSafetyLimit), decodeError(t, w)["error_kind"])
}

func TestWagerHandler_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	escrow := mocks.NewMockEscrowService(ctrl)
	h := NewWagerHandler(escrow)

	escrow.EXPECT().SweepExpired(gomock.Any()).Return(7, nil)

	c, w := newContext(http.MethodPost, "/api/v1/wagers/sweep", nil)
	h.Sweep(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decodeData(t, w)["expired"])
}

// --- Treasury Handler Tests ---

func TestTreasuryHandler_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault := mocks.NewMockWalletVault(ctrl)
	h := NewTreasuryHandler(mocks.NewMockTreasuryService(ctrl), vault, nil)

	native := domain.Asset{Symbol: "ETH", Decimals: 18}
	token := domain.Asset{Symbol: "TKN", Decimals: 6}
	vault.EXPECT().GetBalance(gomock.Any(), domain.WalletRoleHot).Return(&domain.WalletBalance{
		Role:    domain.WalletRoleHot,
		Address: testBettor,
		Native:  native.Amount(big.NewInt(1_500_000_000_000_000_000)),
		Token:   token.Amount(big.NewInt(2_500_000)),
	}, nil)

	c, w := newContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "role", Value: "hot"}}
	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	nativeResp := data["native"].(map[string]any)
	assert.Equal(t, "1500000000000000000", nativeResp["raw"])
	assert.Equal(t, "1.5", nativeResp["display"])
	assert.Equal(t, "2.5", data["token"].(map[string]any)["display"])
}

func TestTreasuryHandler_Balance_InvalidRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTreasuryHandler(mocks.NewMockTreasuryService(ctrl), mocks.NewMockWalletVault(ctrl), nil)

	c, w := newContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "role", Value: "savings"}}
	h.Balance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTreasuryHandler_Snapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	treasury := mocks.NewMockTreasuryService(ctrl)
	h := NewTreasuryHandler(treasury, mocks.NewMockWalletVault(ctrl), nil)

	payouts := domain.NewDailyStat("2026-03-10")
	payouts.Add(big.NewInt(1960), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	treasury.EXPECT().Snapshot(gomock.Any()).Return(&domain.TreasurySnapshot{
		Date:          "2026-03-10",
		Payouts:       payouts,
		Transfers:     domain.NewDailyStat("2026-03-10"),
		PayoutCeiling: domain.Asset{Symbol: "ETH"}.Amount(big.NewInt(20000)),
	}, nil)

	c, w := newContext(http.MethodGet, "/", nil)
	h.Snapshot(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "1960", data["payouts"].(map[string]any)["total"])
	assert.Equal(t, "20000", data["payout_ceiling"].(map[string]any)["raw"])
}

func TestTreasuryHandler_RunBuyback(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantDryRun bool
		wantStatus int
	}{
		{"defaults to dry run", "", true, http.StatusOK},
		{"live run", "?dry_run=false", false, http.StatusOK},
		{"bad flag", "?dry_run=maybe", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			buyback := mocks.NewMockBuybackService(ctrl)
			h := NewTreasuryHandler(mocks.NewMockTreasuryService(ctrl), mocks.NewMockWalletVault(ctrl), buyback)

			if tt.wantStatus == http.StatusOK {
				buyback.EXPECT().RunCycle(gomock.Any(), tt.wantDryRun).Return(&domain.BuybackResult{
					DryRun:  tt.wantDryRun,
					Skipped: true,
					Reason:  domain.SkipInsufficientBalance,
				}, nil)
			}

			c, w := newContext(http.MethodPost, "/api/v1/treasury/buyback"+tt.query, nil)
			h.RunBuyback(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				data := decodeData(t, w)
				assert.Equal(t, tt.wantDryRun, data["dry_run"])
				assert.Equal(t, domain.SkipInsufficientBalance, data["reason"])
			}
		})
	}
}

func TestTreasuryHandler_BuybackDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTreasuryHandler(mocks.NewMockTreasuryService(ctrl), mocks.NewMockWalletVault(ctrl), nil)

	c, w := newContext(http.MethodPost, "/api/v1/treasury/buyback", nil)
	h.RunBuyback(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTreasuryHandler_ResumeBuyback_NotResumable(t *testing.T) {
	ctrl := gomock.NewController(t)
	buyback := mocks.NewMockBuybackService(ctrl)
	h := NewTreasuryHandler(mocks.NewMockTreasuryService(ctrl), mocks.NewMockWalletVault(ctrl), buyback)

	id := uuid.New()
	buyback.EXPECT().ResumeCycle(gomock.Any(), id).Return(nil, apperror.ErrBuybackNotResumable("burned"))

	c, w := newContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.ResumeBuyback(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Safety Handler Tests ---

func TestSafetyHandler_Check(t *testing.T) {
	ctrl := gomock.NewController(t)
	safety := mocks.NewMockSafetyService(ctrl)
	h := NewSafetyHandler(safety)

	safety.EXPECT().CheckRule(gomock.Any(), "bot:post").Return(&domain.RateDecision{Allowed: true, Remaining: 4}, nil)

	c, w := newContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "scope", Value: "bot:post"}}
	h.Check(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["allowed"])
	assert.Equal(t, float64(4), data["remaining"])
}

func TestSafetyHandler_Check_InvalidScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewSafetyHandler(mocks.NewMockSafetyService(ctrl))

	c, w := newContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "scope", Value: "a b"}}
	h.Check(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSafetyHandler_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	safety := mocks.NewMockSafetyService(ctrl)
	h := NewSafetyHandler(safety)

	safety.EXPECT().AcquireRule(gomock.Any(), "bot:post").Return(&domain.RateDecision{Allowed: true, Remaining: 1}, nil)

	c, w := newContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "scope", Value: "bot:post"}}
	h.Record(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["remaining"])
}

func TestSafetyHandler_Record_Throttled(t *testing.T) {
	ctrl := gomock.NewController(t)
	safety := mocks.NewMockSafetyService(ctrl)
	h := NewSafetyHandler(safety)

	safety.EXPECT().AcquireRule(gomock.Any(), "bot:post").Return(&domain.RateDecision{Reason: domain.ReasonMinInterval}, nil)

	c, w := newContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "scope", Value: "bot:post"}}
	h.Record(c)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, domain.ReasonMinInterval, decodeError(t, w)["message"])
}

// --- Router Tests ---

type routerTestDeps struct {
	router *gin.Engine
	tokens *mocks.MockTokenService
	escrow *mocks.MockEscrowService
	health *mocks.MockHealthChecker
}

func setupRouter(t *testing.T) *routerTestDeps {
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		tokens: mocks.NewMockTokenService(ctrl),
		escrow: mocks.NewMockEscrowService(ctrl),
		health: mocks.NewMockHealthChecker(ctrl),
	}
	d.router = SetupRouter(RouterDeps{
		EscrowSvc:      d.escrow,
		SafetySvc:      mocks.NewMockSafetyService(ctrl),
		TreasurySvc:    mocks.NewMockTreasuryService(ctrl),
		Vault:          mocks.NewMockWalletVault(ctrl),
		TokenSvc:       d.tokens,
		HealthCheckers: []ports.HealthChecker{d.health},
		Logger:         zerolog.Nop(),
	})
	return d
}

func (d *routerTestDeps) as(role string) {
	d.tokens.EXPECT().Validate("tok").Return(&ports.TokenClaims{Subject: "caller", Role: role}, nil).AnyTimes()
}

func (d *routerTestDeps) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func TestRouter_RequiresToken(t *testing.T) {
	d := setupRouter(t)

	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/wagers/sweep", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_BotCannotUseOperatorRoutes(t *testing.T) {
	d := setupRouter(t)
	d.as(ports.RoleBot)

	assert.Equal(t, http.StatusForbidden, d.do(http.MethodPost, "/api/v1/wagers/sweep").Code)
	assert.Equal(t, http.StatusForbidden, d.do(http.MethodGet, "/api/v1/treasury/snapshot").Code)
	assert.Equal(t, http.StatusForbidden, d.do(http.MethodPost, "/api/v1/treasury/buyback").Code)
}

func TestRouter_OperatorSweeps(t *testing.T) {
	d := setupRouter(t)
	d.as(ports.RoleOperator)
	d.escrow.EXPECT().SweepExpired(gomock.Any()).Return(2, nil)

	w := d.do(http.MethodPost, "/api/v1/wagers/sweep")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_BotResolvesWager(t *testing.T) {
	d := setupRouter(t)
	d.as(ports.RoleBot)

	c := testCommitment(domain.CommitmentStatusResolved)
	d.escrow.EXPECT().Resolve(gomock.Any(), c.ID).Return(c, nil)

	w := d.do(http.MethodPost, "/api/v1/wagers/"+c.ID.String()+"/resolve")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	d := setupRouter(t)
	d.health.EXPECT().Name().Return("postgres").AnyTimes()
	d.health.EXPECT().Ping(gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = httptest.NewRecorder()
	d.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_HealthDegraded(t *testing.T) {
	d := setupRouter(t)
	d.health.EXPECT().Name().Return("redis").AnyTimes()
	d.health.EXPECT().Ping(gomock.Any()).Return(assert.AnError)

	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
