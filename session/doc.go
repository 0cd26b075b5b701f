// Package session orchestrates the client-side authentication lifecycle:
// bootstrap from a persisted refresh token, login, registration, logout,
// and recovery from rejected credentials.
//
// The hard guarantee lives in Coordinator: any number of concurrent callers
// discovering an expired access token at the same moment produce exactly
// one network refresh, and every caller observes the same outcome, after
// the new tokens are already stored. Manager builds on it to keep the
// Loading/Authenticated/Unauthenticated state machine, the current user,
// and the derived authz.Model consistent under concurrency.
package session
