package session

import "testing"

func TestNotifierTriggerWithoutHandler(t *testing.T) {
	n := NewNotifier()
	n.Trigger() // must be a safe no-op
}

func TestNotifierRegisterReplaces(t *testing.T) {
	n := NewNotifier()

	var first, second int
	n.Register(func() { first++ })
	n.Register(func() { second++ })

	n.Trigger()

	if first != 0 {
		t.Errorf("replaced handler ran %d times, want 0", first)
	}
	if second != 1 {
		t.Errorf("active handler ran %d times, want 1", second)
	}
}

func TestNotifierUnregister(t *testing.T) {
	n := NewNotifier()

	var calls int
	n.Register(func() { calls++ })
	n.Unregister()
	n.Trigger()

	if calls != 0 {
		t.Errorf("handler ran %d times after Unregister, want 0", calls)
	}
}

func TestNotifierContainsPanic(t *testing.T) {
	n := NewNotifier()
	n.Register(func() { panic("handler bound to disposed state") })

	// Trigger is called from network-error paths; a panic here would
	// mask the original failure.
	n.Trigger()

	// The notifier must remain usable afterward.
	var calls int
	n.Register(func() { calls++ })
	n.Trigger()
	if calls != 1 {
		t.Errorf("handler ran %d times after recovery, want 1", calls)
	}
}
