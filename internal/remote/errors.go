package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a RemoteError.
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"       // 401, 403
	CodeNotFound     ErrorCode = "NOT_FOUND"          // 404
	CodeRateLimited  ErrorCode = "RATE_LIMITED"       // 429
	CodeRequest      ErrorCode = "REQUEST_FAILED"     // other 4xx
	CodeServer       ErrorCode = "SERVER_ERROR"       // 5xx
	CodeMalformed    ErrorCode = "MALFORMED_RESPONSE" // undecodable body
	CodeNetwork      ErrorCode = "NETWORK_ERROR"      // transport failure
)

var (
	// ErrUnauthorized is matched by RemoteErrors caused by missing or
	// expired credentials.
	ErrUnauthorized = errors.New("remote: unauthorized")

	// ErrNotFound is matched by RemoteErrors for missing resources.
	ErrNotFound = errors.New("remote: not found")

	// ErrMalformed is matched by RemoteErrors for responses that could not
	// be decoded.
	ErrMalformed = errors.New("remote: malformed response")
)

// RemoteError is a failed call to the remote store.
type RemoteError struct {
	// Op names the failed operation, e.g. "list projects"
	Op string

	// StatusCode is the HTTP status, 0 for transport and decode failures
	StatusCode int

	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: %s (%d): %s", e.Op, e.Code, e.StatusCode, msg)
	}
	return fmt.Sprintf("remote %s: %s: %s", e.Op, e.Code, msg)
}

// Unwrap exposes the matching sentinel and the underlying cause.
func (e *RemoteError) Unwrap() []error {
	var errs []error
	switch e.Code {
	case CodeUnauthorized:
		errs = append(errs, ErrUnauthorized)
	case CodeNotFound:
		errs = append(errs, ErrNotFound)
	case CodeMalformed:
		errs = append(errs, ErrMalformed)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// codeForStatus maps an HTTP status to an ErrorCode.
func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthorized
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= 500:
		return CodeServer
	default:
		return CodeRequest
	}
}

// IsCode checks if err is a RemoteError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var rErr *RemoteError
	if errors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}
