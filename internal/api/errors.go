package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failed API call. The set is closed: everything a
// call can go wrong with maps onto exactly one of these, so callers above
// the service layer never branch on HTTP status codes.
type Kind string

const (
	// KindAuth is a rejected token (HTTP 401). The client clears the
	// session and redirects before the caller sees this error.
	KindAuth Kind = "auth"
	// KindForbidden is a valid user attempting a disallowed action (403).
	// The session stays intact.
	KindForbidden Kind = "forbidden"
	// KindNotFound is a 404, called out separately because on a management
	// endpoint it usually means a misconfigured URL, not missing data.
	KindNotFound Kind = "not_found"
	// KindValidation is any other non-2xx whose body carries a server
	// error message, passed through verbatim.
	KindValidation Kind = "validation"
	// KindServer is a non-2xx without a usable error message.
	KindServer Kind = "server"
	// KindMalformed is a 2xx whose body is not the expected JSON.
	KindMalformed Kind = "malformed"
	// KindNetwork is a request that never reached the server.
	KindNetwork Kind = "network"
)

// Error is the classified failure every service operation returns. Message
// is short and user-presentable, never a raw payload or stack trace.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message strings mirror what the portal UI shows next to a failed widget.
const (
	msgUnauthorized  = "Unauthorized - Please login again"
	msgForbidden     = "Forbidden - You do not have permission to access this resource"
	msgNotFound      = "Endpoint not found - Please check if the server is running and the API endpoint exists"
	msgNotJSON       = "Server did not return JSON response"
	msgInvalidJSON   = "Invalid JSON response from server"
	msgNetworkFailed = "Network error occurred - Please check if the server is running"
)

func authError() *Error {
	return &Error{Kind: KindAuth, Message: msgUnauthorized}
}

func forbiddenError(message string) *Error {
	if message == "" {
		message = msgForbidden
	}
	return &Error{Kind: KindForbidden, Message: message}
}

func notFoundError(message string) *Error {
	if message == "" {
		message = msgNotFound
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func serverError(status int) *Error {
	return &Error{Kind: KindServer, Message: fmt.Sprintf("Server error: %d %s", status, http.StatusText(status))}
}

func malformedError(message string, cause error) *Error {
	return &Error{Kind: KindMalformed, Message: message, Cause: cause}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: msgNetworkFailed, Cause: cause}
}
