package apierror

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable error code. The set is closed: every
// caller-facing failure in the stamping protocol maps to exactly one of these,
// never to a free-form message.
type Code string

const (
	// Authentication
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	CodeUserNotFound     Code = "USER_NOT_FOUND"

	// Authorization
	CodeNotAuthorized Code = "NOT_AUTHORIZED"

	// Token lifecycle
	CodeInvalidQR        Code = "INVALID_QR"
	CodeExpiredToken     Code = "EXPIRED_TOKEN"
	CodeTokenAlreadyUsed Code = "TOKEN_ALREADY_USED"

	// Business rules
	CodeSelfStamp      Code = "SELF_STAMP"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeCardFull       Code = "CARD_FULL"
	CodeRewardNotReady Code = "REWARD_NOT_READY"

	// Referential
	CodeBusinessInactive   Code = "BUSINESS_INACTIVE"
	CodeBusinessNotFound   Code = "BUSINESS_NOT_FOUND"
	CodeProgramNotFound    Code = "PROGRAM_NOT_FOUND"
	CodeCustomerNotFound   Code = "CUSTOMER_NOT_FOUND"
	CodeMembershipNotFound Code = "MEMBERSHIP_NOT_FOUND"

	// Generic
	CodeConflict Code = "CONFLICT"
	CodeInternal Code = "INTERNAL"
)

// DomainError carries a taxonomy code plus a human-readable default message.
// Services return these; handlers translate them to HTTP without inspecting
// message text.
type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string { return string(e.Code) + ": " + e.Message }

// E builds a DomainError for a code with its default message.
func E(code Code) *DomainError {
	return &DomainError{Code: code, Message: defaultMessages[code]}
}

var defaultMessages = map[Code]string{
	CodeNotAuthenticated:   "Authentication required",
	CodeUserNotFound:       "No profile found for this account — please sign in again",
	CodeNotAuthorized:      "You do not have permission to act for this business",
	CodeInvalidQR:          "Unrecognized QR code",
	CodeExpiredToken:       "This QR code has expired — ask the customer to refresh it",
	CodeTokenAlreadyUsed:   "This QR code was already used — ask the customer to refresh it",
	CodeSelfStamp:          "You cannot stamp your own card",
	CodeRateLimited:        "Please wait before stamping the same customer again",
	CodeCardFull:           "This card is already full — redeem the reward first",
	CodeRewardNotReady:     "This card does not have enough stamps to redeem yet",
	CodeBusinessInactive:   "This business is not active",
	CodeBusinessNotFound:   "Business not found",
	CodeProgramNotFound:    "Loyalty program not found",
	CodeCustomerNotFound:   "Customer not found",
	CodeMembershipNotFound: "Membership not found",
	CodeConflict:           "The operation conflicts with existing data",
	CodeInternal:           "Internal server error",
}

// httpStatus maps each code to its HTTP status in one place so handlers stay
// free of per-error switch statements.
var httpStatus = map[Code]int{
	CodeNotAuthenticated:   http.StatusUnauthorized,
	CodeUserNotFound:       http.StatusUnauthorized,
	CodeNotAuthorized:      http.StatusForbidden,
	CodeInvalidQR:          http.StatusUnprocessableEntity,
	CodeExpiredToken:       http.StatusGone,
	CodeTokenAlreadyUsed:   http.StatusConflict,
	CodeSelfStamp:          http.StatusUnprocessableEntity,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeCardFull:           http.StatusConflict,
	CodeRewardNotReady:     http.StatusConflict,
	CodeBusinessInactive:   http.StatusUnprocessableEntity,
	CodeBusinessNotFound:   http.StatusNotFound,
	CodeProgramNotFound:    http.StatusNotFound,
	CodeCustomerNotFound:   http.StatusNotFound,
	CodeMembershipNotFound: http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeInternal:           http.StatusInternalServerError,
}

// Status returns the HTTP status for a code (500 for unknown).
func Status(code Code) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromError extracts the DomainError from err. Unknown errors collapse to
// CodeInternal so internals are never leaked to clients.
func FromError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return E(CodeInternal)
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code Code) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
