package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/casewise/sessionkit/authz"
	"github.com/casewise/sessionkit/identity"
	"github.com/casewise/sessionkit/observe"
	"github.com/casewise/sessionkit/token"
)

// Options configures a Manager. The zero value is usable.
type Options struct {
	// Logger receives structured session events. Default: no-op.
	Logger observe.Logger

	// Meter, when set, enables session metrics on it.
	Meter metric.Meter

	// Tracer, when set, wraps refresh cycles in spans.
	Tracer trace.Tracer

	// Notifier is the unauthorized-signal registry the manager binds to.
	// Default: a fresh Notifier, reachable via Manager.Notifier.
	Notifier *Notifier

	// ExpiryLeeway is how close to its exp claim an access token may get
	// before AccessToken refreshes it proactively. Default: 30s.
	ExpiryLeeway time.Duration

	// OnIdentityChange, when set, runs after every identity change with
	// the new user (nil on teardown). This is the hook for clearing
	// application caches keyed to the previous identity.
	OnIdentityChange func(user *identity.User)
}

// Manager owns the session state machine and is its only writer. All other
// components receive read-only snapshots or narrow mutation paths.
type Manager struct {
	client   identity.Client
	store    *token.Store
	coord    *Coordinator
	notifier *Notifier
	logger   observe.Logger
	metrics  observe.Metrics
	leeway   time.Duration
	onChange func(user *identity.User)

	mu     sync.RWMutex
	status Status
	user   *identity.User
	model  *authz.Model
}

// NewManager creates a Manager over an identity client and token store.
// The manager starts in StatusLoading; call Bootstrap to settle it. A nil
// store gets an in-memory one.
func NewManager(client identity.Client, store *token.Store, opts Options) *Manager {
	if store == nil {
		store = token.NewStore(nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}

	metrics := observe.NopMetrics()
	if opts.Meter != nil {
		if m, err := observe.NewMetrics(opts.Meter); err == nil {
			metrics = m
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = NewNotifier()
	}

	leeway := opts.ExpiryLeeway
	if leeway == 0 {
		leeway = 30 * time.Second
	}

	m := &Manager{
		client:   client,
		store:    store,
		coord:    NewCoordinator(logger, metrics, opts.Tracer),
		notifier: notifier,
		logger:   logger.WithComponent("session"),
		metrics:  metrics,
		leeway:   leeway,
		onChange: opts.OnIdentityChange,
		status:   StatusLoading,
		model:    authz.AnonymousModel(),
	}

	// Registration is idempotent: re-binding the same manager replaces
	// the previous handler rather than stacking.
	notifier.Register(func() {
		_ = m.HandleUnauthorized(context.Background())
	})

	return m
}

// Notifier returns the unauthorized-signal registry bound to this manager.
// Network interceptors call Trigger on it when the server rejects a
// credential.
func (m *Manager) Notifier() *Notifier {
	return m.notifier
}

// Close unregisters the manager from its notifier. Further Trigger calls
// become no-ops; the session state itself is left as is.
func (m *Manager) Close() {
	m.notifier.Unregister()
}

// Snapshot returns the current session state. User is non-nil exactly when
// Status is StatusAuthenticated.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Session{Status: m.status, User: m.user}
}

// Permissions returns the authorization model derived from the current
// user. Never nil; an unauthenticated session yields the anonymous model.
// The returned model is immutable: it is replaced, not updated, on
// identity changes.
func (m *Manager) Permissions() *authz.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

// Bootstrap settles the initial Loading state, once per process start.
// With no persisted refresh token it goes straight to Unauthenticated
// without touching the network. Otherwise it refreshes and then fetches
// the current user; the order is fixed, because a refreshed but unverified
// access token is not sufficient to claim authentication. Any failure
// clears the stored tokens and settles Unauthenticated; the error is
// returned for callers that want to inspect it, but an expired session at
// startup is an expected outcome, not a display-worthy failure.
func (m *Manager) Bootstrap(ctx context.Context) error {
	if !m.store.HasCredentials() {
		m.logger.Debug(ctx, "bootstrap without credentials")
		m.teardown(ctx)
		return nil
	}

	accessToken, err := m.refresh(ctx)
	if err != nil {
		return err // refreshFlight already tore down
	}

	user, err := m.client.CurrentUser(ctx, accessToken)
	if err != nil {
		m.logger.Warn(ctx, "bootstrap user fetch failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		m.teardown(ctx)
		return err
	}

	m.setAuthenticated(ctx, user)
	m.logger.Info(ctx, "session resumed",
		observe.Field{Key: "user_id", Value: user.ID},
	)
	return nil
}

// Login authenticates with the identity service. On success the token pair
// is stored and the session becomes Authenticated. On failure the session
// state is untouched and the structured error is returned for display. A
// failed login while already authenticated does not log the user out.
func (m *Manager) Login(ctx context.Context, identifier, password string) error {
	pair, user, err := m.client.Login(ctx, identifier, password)
	if err != nil {
		m.logger.Debug(ctx, "login failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return err
	}

	m.store.SetAccess(pair.Access)
	m.store.SetRefresh(pair.Refresh)
	m.setAuthenticated(ctx, user)
	m.logger.Info(ctx, "login succeeded",
		observe.Field{Key: "user_id", Value: user.ID},
	)
	return nil
}

// Register creates an account. It never establishes a session: the
// identity service returns no tokens from registration, and the caller is
// expected to Login separately. That two-step contract is deliberate.
func (m *Manager) Register(ctx context.Context, reg identity.Registration) (*identity.User, error) {
	user, err := m.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "registration succeeded",
		observe.Field{Key: "user_id", Value: user.ID},
	)
	return user, nil
}

// Logout clears both tokens, discards the user, and settles
// Unauthenticated. Idempotent: calling it on an unauthenticated session
// only re-clears storage.
func (m *Manager) Logout() {
	m.teardown(context.Background())
}

// HandleUnauthorized is the rejected-credential path, shared by every
// caller through the notifier. It funnels into the same single-flight
// coordinator as Bootstrap; a second refresh path would reintroduce the
// exact race the coordinator exists to prevent. On success the new access
// token is stored and nil is returned: the caller should retry its
// request. On failure the session is torn down, exactly once per cycle.
func (m *Manager) HandleUnauthorized(ctx context.Context) error {
	_, err := m.refresh(ctx)
	return err
}

// AccessToken returns an access token suitable for an immediate request,
// refreshing through the coordinator when none is held or the held one is
// within the expiry leeway. The freshness check reads the token's exp
// claim without verifying it; opaque tokens skip the proactive path.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if tok, ok := m.store.Access(); ok && !accessTokenStale(tok, m.leeway) {
		return tok, nil
	}
	return m.refresh(ctx)
}

// EnsureAuthenticated makes sure the session is usable: an authenticated
// session gets a fresh access token, a Loading one is bootstrapped, and an
// unauthenticated one fails with ErrNoCredentials.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	switch m.Snapshot().Status {
	case StatusAuthenticated:
		_, err := m.AccessToken(ctx)
		return err
	case StatusLoading:
		if err := m.Bootstrap(ctx); err != nil {
			return err
		}
		if !m.Snapshot().Authenticated() {
			return ErrNoCredentials
		}
		return nil
	default:
		return ErrNoCredentials
	}
}

// refresh runs one coordinated refresh cycle and returns the new access
// token.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	return m.coord.Do(ctx, m.refreshFlight)
}

// refreshFlight is the body of a refresh cycle. It runs at most once per
// cycle, so its side effects (storing rotated tokens before waiters are
// released, tearing down on failure) happen exactly once no matter how
// many callers piled onto the cycle.
func (m *Manager) refreshFlight(ctx context.Context) (string, error) {
	refreshToken, ok := m.store.Refresh()
	if !ok {
		m.teardown(ctx)
		return "", ErrNoCredentials
	}

	pair, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		// A rejected refresh token is unrecoverable, and a network
		// failure fails closed the same way. Retry policy belongs to
		// the caller.
		m.logger.Warn(ctx, "refresh rejected",
			observe.Field{Key: "error", Value: err.Error()},
		)
		m.teardown(ctx)
		return "", err
	}

	// Rotated refresh tokens must hit storage before any waiter is
	// released, so a cycle started immediately after settlement never
	// sees the stale value.
	if pair.Refresh != "" {
		m.store.SetRefresh(pair.Refresh)
	}
	m.store.SetAccess(pair.Access)
	return pair.Access, nil
}

// setAuthenticated installs a new identity: status, user, and the derived
// authorization model change together under one lock.
func (m *Manager) setAuthenticated(ctx context.Context, user *identity.User) {
	m.mu.Lock()
	from := m.status
	m.status = StatusAuthenticated
	m.user = user
	m.model = authz.NewModel(user.Permissions, user.Rank)
	m.mu.Unlock()

	m.metrics.RecordTransition(ctx, from.String(), StatusAuthenticated.String())
	if m.onChange != nil {
		m.onChange(user)
	}
}

// teardown clears all credentials and settles Unauthenticated. Transition
// side effects fire only when the state actually changed, so repeated
// teardowns (a second Logout, a failed cycle after a failed bootstrap) are
// silent.
func (m *Manager) teardown(ctx context.Context) {
	m.store.Clear()

	m.mu.Lock()
	from := m.status
	changed := m.status != StatusUnauthenticated || m.user != nil
	m.status = StatusUnauthenticated
	m.user = nil
	m.model = authz.AnonymousModel()
	m.mu.Unlock()

	if !changed {
		return
	}
	m.metrics.RecordTransition(ctx, from.String(), StatusUnauthenticated.String())
	m.logger.Info(ctx, "session cleared",
		observe.Field{Key: "from", Value: from.String()},
	)
	if m.onChange != nil {
		m.onChange(nil)
	}
}
