package auth

import "sync"

// StateChange describes a sign-in or sign-out. Present is true after a
// sign-in, false after a sign-out. SessionID is the guest session the
// browser carried when the change happened, which subscribers such as the
// cart reconciler use to find the local cart.
type StateChange struct {
	UserID    string
	SessionID string
	Present   bool
}

// Notifier fans auth state changes out to registered listeners. Listeners
// run synchronously on the calling goroutine, in registration order, so a
// subscriber that must finish before the sign-in response goes out (cart
// reconciliation) simply registers first.
type Notifier struct {
	mu        sync.RWMutex
	listeners []func(StateChange)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Subscribe(fn func(StateChange)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Notifier) SignedIn(userID, sessionID string) {
	n.notify(StateChange{UserID: userID, SessionID: sessionID, Present: true})
}

func (n *Notifier) SignedOut(userID, sessionID string) {
	n.notify(StateChange{UserID: userID, SessionID: sessionID, Present: false})
}

func (n *Notifier) notify(change StateChange) {
	n.mu.RLock()
	listeners := make([]func(StateChange), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}
