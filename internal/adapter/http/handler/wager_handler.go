package handler

import (
	"wager-treasury/internal/adapter/http/dto"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WagerHandler handles the commit-reveal wager endpoints.
type WagerHandler struct {
	escrow ports.EscrowService
}

// NewWagerHandler creates a new WagerHandler.
func NewWagerHandler(escrow ports.EscrowService) *WagerHandler {
	return &WagerHandler{escrow: escrow}
}

// Create handles POST /api/v1/wagers.
func (h *WagerHandler) Create(c *gin.Context) {
	var req dto.CreateWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	commitment, err := h.escrow.CreateCommitment(c.Request.Context(), ports.CreateCommitmentRequest{
		Bettor:    req.Bettor,
		BetAmount: req.BetAmount,
		Choice:    domain.Choice(req.Choice),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewWagerResponse(commitment))
}

// Get handles GET /api/v1/wagers/:id.
func (h *WagerHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	commitment, err := h.escrow.GetCommitment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWagerResponse(commitment))
}

// Deposit handles POST /api/v1/wagers/:id/deposit.
func (h *WagerHandler) Deposit(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	commitment, err := h.escrow.ConfirmDeposit(c.Request.Context(), id, req.TxRef)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWagerResponse(commitment))
}

// Resolve handles POST /api/v1/wagers/:id/resolve.
func (h *WagerHandler) Resolve(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	commitment, err := h.escrow.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWagerResponse(commitment))
}

// Sweep handles POST /api/v1/wagers/sweep.
func (h *WagerHandler) Sweep(c *gin.Context) {
	n, err := h.escrow.SweepExpired(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SweepResponse{Expired: n})
}

// pathUUID parses the :id parameter, writing a validation error on failure.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
