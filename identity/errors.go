package identity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for identity operations.
var (
	// ErrInvalidCredentials is returned by Login for a wrong
	// identifier/password combination.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrAccountDisabled is returned by Login for a known but disabled
	// account.
	ErrAccountDisabled = errors.New("identity: account disabled")

	// ErrRefreshTokenInvalid is returned by Refresh when the service
	// rejects the refresh token. The session cannot be recovered.
	ErrRefreshTokenInvalid = errors.New("identity: refresh token invalid")

	// ErrUnauthorized is the generic rejected-credential signal with no
	// further detail available.
	ErrUnauthorized = errors.New("identity: unauthorized")

	// ErrNetwork wraps transport-level failures. The session core treats
	// it like a rejected refresh token during bootstrap and refresh:
	// fail closed rather than retry.
	ErrNetwork = errors.New("identity: network error")
)

// ValidationError carries field-level validation failures from Register or
// Login (e.g. duplicate username, malformed email). Intended for display;
// the session core never interprets it.
type ValidationError struct {
	// Fields maps a field name to a human-readable message.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "identity: validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("identity: validation failed: %s", strings.Join(names, ", "))
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}
