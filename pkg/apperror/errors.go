package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError into the service's failure taxonomy.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindStateConflict Kind = "state_conflict"
	KindIntegrity     Kind = "integrity"
	KindSafetyLimit   Kind = "safety_limit"
	KindExternal      Kind = "external_service"
	KindInternal      Kind = "internal"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Kind       Kind   `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(kind Kind, code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kind,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kind,
		Err:        err,
	}
}

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ---- Validation (VAL) ----

// Validation returns a generic validation error with a custom message.
func Validation(message string) *AppError {
	return New(KindValidation, "VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidBetAmount(min, max int64) *AppError {
	return New(KindValidation, "VAL_002", fmt.Sprintf("Bet amount must be between %d and %d", min, max), http.StatusBadRequest)
}

func ErrInvalidChoice(choice string) *AppError {
	return New(KindValidation, "VAL_003", fmt.Sprintf("Invalid choice %q", choice), http.StatusBadRequest)
}

func ErrTxRefAlreadyUsed() *AppError {
	return New(KindValidation, "VAL_004", "Transaction reference has already been used", http.StatusBadRequest)
}

func ErrDepositMismatch(reason string) *AppError {
	return New(KindValidation, "VAL_005", "Deposit does not match commitment: "+reason, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New(KindValidation, "VAL_006", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidRole(role string) *AppError {
	return New(KindValidation, "VAL_007", fmt.Sprintf("Unknown wallet role %q", role), http.StatusBadRequest)
}

// ---- State conflicts (STATE) ----

func ErrLiveCommitmentExists() *AppError {
	return New(KindStateConflict, "STATE_001", "Bettor already has an open commitment", http.StatusConflict)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New(KindStateConflict, "STATE_002", fmt.Sprintf("Cannot move commitment from %s to %s", from, to), http.StatusConflict)
}

func ErrWalletExists(role string) *AppError {
	return New(KindStateConflict, "STATE_003", fmt.Sprintf("Wallet for role %s already exists", role), http.StatusConflict)
}

func ErrCommitmentExpired() *AppError {
	return New(KindStateConflict, "STATE_004", "Commitment has expired", http.StatusConflict)
}

func ErrResolveInProgress() *AppError {
	return New(KindStateConflict, "STATE_005", "Commitment is being resolved by another worker", http.StatusConflict)
}

func ErrBuybackNotResumable(status string) *AppError {
	return New(KindStateConflict, "STATE_006", fmt.Sprintf("Buyback in status %s cannot be resumed", status), http.StatusConflict)
}

func ErrBuybackInProgress() *AppError {
	return New(KindStateConflict, "STATE_007", "Another buyback cycle is in progress", http.StatusConflict)
}

// ---- Integrity (INT) ----

func ErrKeyMismatch(role string) *AppError {
	return New(KindIntegrity, "INT_001", fmt.Sprintf("Derived key does not match stored public key for %s wallet", role), http.StatusInternalServerError)
}

func ErrDecryptFailed(err error) *AppError {
	return Wrap(KindIntegrity, "INT_002", "Secret authentication failed", http.StatusInternalServerError, err)
}

func ErrBurnWalletNotEmpty(remaining string) *AppError {
	return New(KindIntegrity, "INT_003", "Burn wallet not empty after burn: "+remaining, http.StatusInternalServerError)
}

func ErrCorruptRecord(entity string, err error) *AppError {
	return Wrap(KindIntegrity, "INT_004", fmt.Sprintf("Stored %s could not be decoded", entity), http.StatusInternalServerError, err)
}

func ErrAirlockShortfall(have, want string) *AppError {
	return New(KindIntegrity, "INT_005", fmt.Sprintf("Burn wallet holds %s, expected at least %s", have, want), http.StatusInternalServerError)
}

func ErrSwapNoOutput(txRef string) *AppError {
	return New(KindIntegrity, "INT_006", "Swap confirmed without token output: "+txRef, http.StatusInternalServerError)
}

// ---- Safety limits (SAFE) ----

func ErrPayoutCircuitOpen() *AppError {
	return New(KindSafetyLimit, "SAFE_001", "Daily payout ceiling would be exceeded", http.StatusUnprocessableEntity)
}

func ErrBurnCapExceeded(amount, limit string) *AppError {
	return New(KindSafetyLimit, "SAFE_002", fmt.Sprintf("Burn of %s exceeds per-transaction cap %s", amount, limit), http.StatusUnprocessableEntity)
}

func ErrDrainGuard() *AppError {
	return New(KindSafetyLimit, "SAFE_003", "Direct burn would empty the operating wallet", http.StatusUnprocessableEntity)
}

func ErrTransferCeiling() *AppError {
	return New(KindSafetyLimit, "SAFE_004", "Daily transfer ceiling would be exceeded", http.StatusUnprocessableEntity)
}

func ErrRateLimited(reason string) *AppError {
	return New(KindSafetyLimit, "SAFE_005", reason, http.StatusTooManyRequests)
}

// ErrRateLimitExceeded is returned by the HTTP rate limiter.
func ErrRateLimitExceeded() *AppError {
	return New(KindSafetyLimit, "SAFE_006", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- External services (EXT) ----

func ErrExternal(service string, err error) *AppError {
	return Wrap(KindExternal, "EXT_001", service+" request failed", http.StatusBadGateway, err)
}

func ErrExternalTimeout(service string, err error) *AppError {
	return Wrap(KindExternal, "EXT_002", service+" request timed out", http.StatusGatewayTimeout, err)
}

func ErrQuoteNotExecutable() *AppError {
	return New(KindExternal, "EXT_003", "Exchange quote is not executable", http.StatusBadGateway)
}

func ErrQuoteValueMismatch(value, spend string) *AppError {
	return New(KindExternal, "EXT_005", fmt.Sprintf("Exchange quote sends %s, cycle spends %s", value, spend), http.StatusBadGateway)
}

func ErrTxReverted(txRef string) *AppError {
	return New(KindExternal, "EXT_004", "Transaction reverted: "+txRef, http.StatusBadGateway)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(KindValidation, "AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(KindValidation, "AUTH_002", "Caller role may not use this endpoint", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(KindInternal, "SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap(KindInternal, "SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(KindInternal, "SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
