package handler

import (
	"strconv"

	"wager-treasury/internal/adapter/http/dto"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/response"

	"github.com/gin-gonic/gin"
)

// TreasuryHandler handles the operator treasury endpoints.
type TreasuryHandler struct {
	treasury ports.TreasuryService
	vault    ports.WalletVault
	buyback  ports.BuybackService // nil = buyback disabled
}

// NewTreasuryHandler creates a new TreasuryHandler.
func NewTreasuryHandler(treasury ports.TreasuryService, vault ports.WalletVault, buyback ports.BuybackService) *TreasuryHandler {
	return &TreasuryHandler{treasury: treasury, vault: vault, buyback: buyback}
}

// Snapshot handles GET /api/v1/treasury/snapshot.
func (h *TreasuryHandler) Snapshot(c *gin.Context) {
	snap, err := h.treasury.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewSnapshotResponse(snap))
}

// Balance handles GET /api/v1/treasury/wallets/:role/balance. It always
// reads the chain.
func (h *TreasuryHandler) Balance(c *gin.Context) {
	role := domain.WalletRole(c.Param("role"))
	if !role.IsValid() {
		response.Error(c, apperror.ErrInvalidRole(string(role)))
		return
	}

	balance, err := h.vault.GetBalance(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewBalanceResponse(balance))
}

// RunBuyback handles POST /api/v1/treasury/buyback?dry_run=true|false.
// dry_run defaults to true.
func (h *TreasuryHandler) RunBuyback(c *gin.Context) {
	if h.buyback == nil {
		response.Error(c, apperror.Validation("buyback is disabled"))
		return
	}

	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "true"))
	if err != nil {
		response.Error(c, apperror.Validation("dry_run must be true or false"))
		return
	}

	result, err := h.buyback.RunCycle(c.Request.Context(), dryRun)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewBuybackResultResponse(result))
}

// ResumeBuyback handles POST /api/v1/treasury/buyback/:id/resume.
func (h *TreasuryHandler) ResumeBuyback(c *gin.Context) {
	if h.buyback == nil {
		response.Error(c, apperror.Validation("buyback is disabled"))
		return
	}

	id, ok := pathUUID(c)
	if !ok {
		return
	}

	result, err := h.buyback.ResumeCycle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewBuybackResultResponse(result))
}
