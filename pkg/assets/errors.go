package assets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a session token
	// and the client holds none (after Logout, or before a successful Login).
	ErrNotAuthenticated = errors.New("assets: no active session")

	// ErrNoSelector is returned by Remove and UpdateBulk when no target
	// selector is set. An empty selector would address the whole archive.
	ErrNoSelector = errors.New("assets: no target selector given")

	// ErrMissingArgument is wrapped by validation failures for required inputs.
	ErrMissingArgument = errors.New("assets: missing required argument")
)

const maxBodySnippet = 512

// ProtocolError reports a response the client could not interpret: the body was
// not JSON, or it lacked the fields the operation depends on.
type ProtocolError struct {
	Op     string
	Reason string
	Body   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AuthenticationError is a well-formed login rejection. Reason carries the
// server supplied loginFaultMessage.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "could not login"
	}
	return "could not login: " + e.Reason
}

// TransportError wraps connection failures and non-2xx responses. StatusCode is
// zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s: http response status %d: %s", e.Op, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s: http response status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: http request: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsProtocolError reports whether err is or wraps a *ProtocolError.
func IsProtocolError(err error) bool {
	var target *ProtocolError
	return errors.As(err, &target)
}

// IsAuthenticationError reports whether err is or wraps an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by a *TransportError in err's
// chain, or 0.
func StatusCode(err error) int {
	var target *TransportError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return strings.TrimSpace(string(body))
}

func missing(op, field string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrMissingArgument, field)
}
