package session

import "sync"

// Notifier lets any caller, typically a network-layer interceptor that
// just saw a 401, signal a rejected credential and have the session react
// uniformly. It holds at most one handler: registering a new one replaces
// the previous, mirroring a single active session, not a pub/sub system.
type Notifier struct {
	mu      sync.Mutex
	handler func()
}

// NewNotifier creates a Notifier with no handler.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register installs the handler, replacing any previous one.
func (n *Notifier) Register(handler func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// Unregister removes the handler. Called on teardown so a disposed
// manager is never invoked.
func (n *Notifier) Unregister() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = nil
}

// Trigger invokes the current handler, if any. It never panics: it is
// called from deep inside network-error paths where a second failure
// would mask the original one.
func (n *Notifier) Trigger() {
	n.mu.Lock()
	handler := n.handler
	n.mu.Unlock()

	if handler == nil {
		return
	}
	defer func() { _ = recover() }()
	handler()
}
