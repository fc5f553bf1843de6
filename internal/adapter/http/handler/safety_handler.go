package handler

import (
	"wager-treasury/internal/adapter/http/dto"
	"wager-treasury/internal/core/ports"
	"wager-treasury/pkg/apperror"
	"wager-treasury/pkg/response"

	"github.com/gin-gonic/gin"
)

// SafetyHandler exposes throttle checks for configured rules.
type SafetyHandler struct {
	safety ports.SafetyService
}

// NewSafetyHandler creates a new SafetyHandler.
func NewSafetyHandler(safety ports.SafetyService) *SafetyHandler {
	return &SafetyHandler{safety: safety}
}

// Check handles GET /api/v1/safety/:scope. It only reads the counter.
func (h *SafetyHandler) Check(c *gin.Context) {
	scope := c.Param("scope")
	if !dto.IsSafeID(scope) {
		response.Error(c, apperror.Validation("invalid scope"))
		return
	}

	decision, err := h.safety.CheckRule(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, decision)
}

// Record handles POST /api/v1/safety/:scope. The action is counted only
// when the scope's rule admits it, under the counter's row lock.
func (h *SafetyHandler) Record(c *gin.Context) {
	scope := c.Param("scope")
	if !dto.IsSafeID(scope) {
		response.Error(c, apperror.Validation("invalid scope"))
		return
	}

	decision, err := h.safety.AcquireRule(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !decision.Allowed {
		response.Error(c, apperror.ErrRateLimited(decision.Reason))
		return
	}

	response.OK(c, decision)
}
