package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenStale(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		leeway time.Duration
		want   bool
	}{
		{
			name:   "expired",
			token:  signedToken(t, -time.Minute),
			leeway: 30 * time.Second,
			want:   true,
		},
		{
			name:   "expiring within leeway",
			token:  signedToken(t, 10*time.Second),
			leeway: 30 * time.Second,
			want:   true,
		},
		{
			name:   "fresh",
			token:  signedToken(t, time.Hour),
			leeway: 30 * time.Second,
			want:   false,
		},
		{
			name:   "opaque token",
			token:  "not-a-jwt",
			leeway: 30 * time.Second,
			want:   false,
		},
		{
			name:   "empty token",
			token:  "",
			leeway: 30 * time.Second,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accessTokenStale(tt.token, tt.leeway); got != tt.want {
				t.Errorf("accessTokenStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessTokenStaleNoExpClaim(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// No exp claim: assume fresh until the server says otherwise.
	if accessTokenStale(tok, 30*time.Second) {
		t.Error("token without exp claim reported stale")
	}
}
