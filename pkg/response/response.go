package response

import (
	"errors"
	"net/http"
	"time"

	"wager-treasury/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the standard error envelope. Retryable tells a caller
// that the same request may succeed later without changes, such as a payout
// held by a safety limit or an exchange outage.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	success(c, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data any) {
	success(c, http.StatusCreated, data)
}

// Error sends an error response. An *apperror.AppError anywhere in err's
// chain sets the code and status; anything else is a 500 whose detail is
// attached to the gin context for the request logger and never sent.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		appErr = apperror.New(apperror.KindInternal, "SYS_000", "Internal server error", http.StatusInternalServerError)
	} else if appErr.HTTPStatus >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	noStore(c)
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		ErrorKind: string(appErr.Kind),
		Message:   appErr.Message,
		Retryable: retryable(appErr.Kind),
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

func success(c *gin.Context, status int, data any) {
	noStore(c)
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

func retryable(kind apperror.Kind) bool {
	return kind == apperror.KindExternal || kind == apperror.KindSafetyLimit
}

// noStore keeps balances and reveals out of intermediary caches.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
