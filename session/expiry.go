package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenStale reports whether the access token is expired or will be
// within leeway. The claims are read without signature verification: this
// is a freshness hint for proactive refresh, not an authenticity check;
// the identity service remains the authority. Opaque (non-JWT) tokens and
// tokens without an exp claim are assumed fresh until the server rejects
// them.
func accessTokenStale(token string, leeway time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < leeway
}
