package session

import "errors"

// ErrNoCredentials means no refresh token is available: there is no
// session to resume or recover.
var ErrNoCredentials = errors.New("session: no credentials")
