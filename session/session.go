package session

import "github.com/casewise/sessionkit/identity"

// Status is the session state machine's phase. A session starts Loading
// and settles into Authenticated or Unauthenticated after bootstrap; it
// moves between those two afterward.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time snapshot of the session state. User is
// non-nil exactly when Status is StatusAuthenticated.
type Session struct {
	Status Status
	User   *identity.User
}

// Authenticated reports whether the snapshot carries an authenticated user.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}
