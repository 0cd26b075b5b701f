// Package token holds the two-tier credential state of a session: a
// short-lived access token kept only in process memory, and a long-lived
// refresh token written through to a durable Vault so a session can be
// resumed after a restart.
//
// The Store never returns errors. Vault failures (quota, permissions,
// missing file) degrade to "no token available" on reads and best-effort
// on writes; the access token never reaches the Vault.
package token
