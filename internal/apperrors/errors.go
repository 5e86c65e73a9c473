package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind classifies a failure independently of how it is shown to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidCredentials
	KindTwoFactorRequired
	KindInvalidCode
	KindExpired
	KindLocked
	KindPermissionDenied
	KindNotFound
	KindTokenExpired
	KindTokenInvalid
	KindInvalidInput
	KindTooManyRequests
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindInvalidCredentials: "invalid_credentials",
	KindTwoFactorRequired:  "2fa_required",
	KindInvalidCode:        "invalid_code",
	KindExpired:            "expired",
	KindLocked:             "locked",
	KindPermissionDenied:   "permission_denied",
	KindNotFound:           "not_found",
	KindTokenExpired:       "token_expired",
	KindTokenInvalid:       "token_invalid",
	KindInvalidInput:       "invalid_input",
	KindTooManyRequests:    "too_many_requests",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified failure. Err keeps the internal cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

func InvalidCredentials(cause error) *Error { return New(KindInvalidCredentials, cause) }
func TwoFactorRequired() *Error             { return New(KindTwoFactorRequired, nil) }
func InvalidCode(cause error) *Error        { return New(KindInvalidCode, cause) }
func Expired(cause error) *Error            { return New(KindExpired, cause) }
func Locked(cause error) *Error             { return New(KindLocked, cause) }
func PermissionDenied() *Error              { return New(KindPermissionDenied, nil) }
func NotFound(cause error) *Error           { return New(KindNotFound, cause) }
func TokenExpired(cause error) *Error       { return New(KindTokenExpired, cause) }
func TokenInvalid(cause error) *Error       { return New(KindTokenInvalid, cause) }
func TooManyRequests() *Error               { return New(KindTooManyRequests, nil) }
func Internal(cause error) *Error           { return New(KindInternal, cause) }

// InvalidInput creates a validation error whose message is safe to show.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// InvalidInputFrom wraps a validation failure, keeping its message public.
func InvalidInputFrom(cause error) *Error {
	return &Error{Kind: KindInvalidInput, Message: cause.Error(), Err: cause}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// GRPCCode maps err to a gRPC status code.
func GRPCCode(err error) codes.Code {
	switch KindOf(err) {
	case KindInvalidCredentials, KindTwoFactorRequired, KindTokenExpired, KindTokenInvalid, KindInvalidCode, KindExpired:
		return codes.Unauthenticated
	case KindLocked, KindPermissionDenied:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindInvalidInput:
		return codes.InvalidArgument
	case KindTooManyRequests:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// HTTPStatus maps err to an HTTP status code regardless of flow.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidCredentials, KindTwoFactorRequired, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	case KindInvalidCode, KindExpired, KindInvalidInput:
		return http.StatusBadRequest
	case KindLocked, KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
