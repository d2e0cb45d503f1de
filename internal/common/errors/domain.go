package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that errors.Is works across WithCause copies.
func (e *domainError) Is(target error) bool {
	var other *domainError
	if errors.As(target, &other) {
		return e.code == other.code
	}
	return false
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrUnauthorized = NewDomainError(
		"UNAUTHORIZED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"unauthorized",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrInvalidTokenSigningMethod = NewDomainError(
		"INVALID_TOKEN_SIGNING_METHOD",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token signing method",
	)

	ErrMissingTokenClaims = NewDomainError(
		"MISSING_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"missing required token claims",
	)

	ErrRoleForbidden = NewDomainError(
		"ROLE_FORBIDDEN",
		CategoryForbidden,
		http.StatusForbidden,
		"your role is not allowed to access this resource",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrSenderNotFound = NewDomainError(
		"SENDER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"sender not found",
	)

	ErrReceiverNotFound = NewDomainError(
		"RECEIVER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"receiver not found",
	)

	ErrReceiverIDRequired = NewDomainError(
		"RECEIVER_ID_REQUIRED",
		CategoryValidation,
		http.StatusBadRequest,
		"receiver id is required",
	)

	ErrUserIDRequired = NewDomainError(
		"USER_ID_REQUIRED",
		CategoryValidation,
		http.StatusBadRequest,
		"user id is required",
	)

	ErrEmptyMessageContent = NewDomainError(
		"EMPTY_MESSAGE_CONTENT",
		CategoryValidation,
		http.StatusBadRequest,
		"message content cannot be empty",
	)

	ErrMessageTooLong = NewDomainError(
		"MESSAGE_TOO_LONG",
		CategoryValidation,
		http.StatusBadRequest,
		"message content is too long",
	)

	ErrMessagingNotAllowed = NewDomainError(
		"MESSAGING_NOT_ALLOWED",
		CategoryForbidden,
		http.StatusForbidden,
		"you can only chat with users who have accepted applications",
	)

	ErrMessageNotFound = NewDomainError(
		"MESSAGE_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"message not found",
	)

	ErrMessageNotOwned = NewDomainError(
		"MESSAGE_NOT_OWNED",
		CategoryForbidden,
		http.StatusForbidden,
		"message was not sent by you",
	)

	ErrMessageStoreFailed = NewDomainError(
		"MESSAGE_STORE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to store message",
	)

	ErrMessageFetchFailed = NewDomainError(
		"MESSAGE_FETCH_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to fetch messages",
	)

	ErrEligibilityCheckFailed = NewDomainError(
		"ELIGIBILITY_CHECK_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to check messaging eligibility",
	)

	ErrJobNotFound = NewDomainError(
		"JOB_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"job not found",
	)

	ErrApplicationNotFound = NewDomainError(
		"APPLICATION_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"application not found",
	)

	ErrApplicationExists = NewDomainError(
		"APPLICATION_EXISTS",
		CategoryConflict,
		http.StatusConflict,
		"you have already applied for this job",
	)

	ErrInvalidApplicationStatus = NewDomainError(
		"INVALID_APPLICATION_STATUS",
		CategoryValidation,
		http.StatusBadRequest,
		"status must be pending, accepted or rejected",
	)

	ErrApplicationForbidden = NewDomainError(
		"APPLICATION_FORBIDDEN",
		CategoryForbidden,
		http.StatusForbidden,
		"application belongs to another recruiter's job",
	)

	ErrOnlyStudentsApply = NewDomainError(
		"ONLY_STUDENTS_APPLY",
		CategoryForbidden,
		http.StatusForbidden,
		"only students can apply for jobs",
	)

	ErrApplicationStoreFailed = NewDomainError(
		"APPLICATION_STORE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to store application",
	)

	ErrRateLimited = NewDomainError(
		"RATE_LIMITED",
		CategoryExternal,
		http.StatusTooManyRequests,
		"messages are sent too frequently",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrInvalidPayload = NewDomainError(
		"INVALID_PAYLOAD",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid payload",
	)

	ErrUnknownEventType = NewDomainError(
		"UNKNOWN_EVENT_TYPE",
		CategoryValidation,
		http.StatusBadRequest,
		"unknown event type",
	)

	ErrJoinIdentityMismatch = NewDomainError(
		"JOIN_IDENTITY_MISMATCH",
		CategoryForbidden,
		http.StatusForbidden,
		"cannot join as another user",
	)

	ErrNotJoined = NewDomainError(
		"NOT_JOINED",
		CategoryValidation,
		http.StatusBadRequest,
		"join before sending messages",
	)

	ErrMarshalError = NewDomainError(
		"MARSHAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to marshal data",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
