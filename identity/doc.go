// Package identity defines the contract with the remote identity service:
// the four operations the session core needs (login, register, refresh,
// fetch current user), the User and TokenPair types they exchange, and the
// structured error kinds callers display or react to.
//
// HTTPClient is the JSON-over-HTTP implementation. The session manager only
// depends on the Client interface, so a different transport is one new
// implementation away.
package identity
