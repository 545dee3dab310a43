package cart

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Reconciler keeps a signed-in user's durable cart consistent with whatever
// was accumulated anonymously, and routes every mutation to the right
// store(s). Mutations are written to the guest store first; the durable store
// is written best-effort and may lag until the next successful write.
type Reconciler struct {
	guest  GuestStore
	remote RemoteStore
	log    *log.Entry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReconciler(guest GuestStore, remote RemoteStore) *Reconciler {
	return &Reconciler{
		guest:  guest,
		remote: remote,
		log:    log.WithField("component", "cart"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// lock serializes mutations per user (or per session for guests). Quantity
// updates are read-modify-write, so concurrent calls on the same cart would
// otherwise lose updates. Lock entries are never evicted: one small entry
// per scope seen since startup. Switch to an evicting keyed lock if guest
// session volume ever makes this matter.
func (r *Reconciler) lock(key string) func() {
	r.mu.Lock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func scopeKey(sessionID, userID string) string {
	if userID != "" {
		return "user:" + userID
	}
	return "session:" + sessionID
}

// localState reads the guest cart, treating a missing or unreadable blob as
// an empty cart.
func (r *Reconciler) localState(ctx context.Context, sessionID string) State {
	state, err := r.guest.Get(ctx, sessionID)
	if err != nil {
		r.log.WithError(err).WithField("session_id", sessionID).
			Warn("guest cart unreadable, starting from empty")
		return EmptyState()
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	return state
}

// saveLocal writes the guest cart back. The in-memory view already reflects
// the mutation, so a write failure only means the next page load may be
// stale.
func (r *Reconciler) saveLocal(ctx context.Context, sessionID string, state State) {
	if err := r.guest.Set(ctx, sessionID, state); err != nil {
		r.log.WithError(err).WithField("session_id", sessionID).
			Warn("failed to persist guest cart")
	}
}

func stateOf(items []LineItem) State {
	return State{Items: items, TotalPrice: total(items)}
}

func remoteLines(records []RemoteItem) []LineItem {
	items := make([]LineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.LineItem)
	}
	return items
}

// MergeOnSignIn folds the anonymous cart into the user's durable cart and
// returns the unified view. Remote entries matching a local line keep their
// quantity; local lines missing remotely cause exactly one durable write
// each. The merge is at-most-once, not atomic: a failed write aborts the
// remaining steps after earlier writes have already committed, and the error
// is returned to the caller without retry.
func (r *Reconciler) MergeOnSignIn(ctx context.Context, sessionID, userID string) (State, error) {
	unlock := r.lock(scopeKey(sessionID, userID))
	defer unlock()

	local := r.localState(ctx, sessionID)

	records, err := r.remote.ListCartItems(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("fetch remote cart: %w", err)
	}

	merged := 0
	for _, item := range local.Items {
		if idx := indexOfRemote(records, item.Key()); idx >= 0 {
			continue
		}
		id, err := r.remote.CreateCartItem(ctx, userID, item)
		if err != nil {
			return State{}, fmt.Errorf("merge cart item %q: %w", item.ProductID, err)
		}
		records = append(records, RemoteItem{ID: id, LineItem: item})
		merged++
	}

	unified := stateOf(remoteLines(records))
	r.saveLocal(ctx, sessionID, unified)

	r.log.WithFields(log.Fields{
		"user_id": userID,
		"merged":  merged,
		"items":   len(unified.Items),
	}).Info("guest cart merged into user cart")

	return unified, nil
}

// AddItem merges the new item into the cart by identity (product + color +
// size). When authenticated the durable store is updated too; a durable
// write failure never rolls back the local mutation.
func (r *Reconciler) AddItem(ctx context.Context, sessionID, userID string, item LineItem) (State, error) {
	if err := item.validate(); err != nil {
		return State{}, err
	}

	unlock := r.lock(scopeKey(sessionID, userID))
	defer unlock()

	local := r.localState(ctx, sessionID)
	state := stateOf(addLine(local.Items, item))
	r.saveLocal(ctx, sessionID, state)

	if userID != "" {
		r.addRemote(ctx, userID, item)
	}

	return state, nil
}

func (r *Reconciler) addRemote(ctx context.Context, userID string, item LineItem) {
	records, err := r.remote.ListCartItems(ctx, userID)
	if err != nil {
		r.log.WithError(err).WithField("user_id", userID).
			Warn("remote cart fetch failed, durable cart may lag")
		return
	}

	if idx := indexOfRemote(records, item.Key()); idx >= 0 {
		rec := records[idx]
		err = r.remote.UpdateCartItemQuantity(ctx, userID, rec.ID, rec.Quantity+item.Quantity)
	} else {
		_, err = r.remote.CreateCartItem(ctx, userID, item)
	}
	if err != nil {
		r.log.WithError(err).WithFields(log.Fields{
			"user_id":    userID,
			"product_id": item.ProductID,
		}).Warn("remote cart write failed, durable cart may lag")
	}
}

// RemoveItem deletes the whole line matching key, never a quantity
// decrement. Removing a missing line is a no-op.
func (r *Reconciler) RemoveItem(ctx context.Context, sessionID, userID string, key Key) (State, error) {
	unlock := r.lock(scopeKey(sessionID, userID))
	defer unlock()

	local := r.localState(ctx, sessionID)
	state := stateOf(removeLine(local.Items, key))
	r.saveLocal(ctx, sessionID, state)

	if userID != "" {
		r.removeRemote(ctx, userID, key)
	}

	return state, nil
}

func (r *Reconciler) removeRemote(ctx context.Context, userID string, key Key) {
	records, err := r.remote.ListCartItems(ctx, userID)
	if err != nil {
		r.log.WithError(err).WithField("user_id", userID).
			Warn("remote cart fetch failed, durable cart may lag")
		return
	}
	idx := indexOfRemote(records, key)
	if idx < 0 {
		return
	}
	if err := r.remote.DeleteCartItem(ctx, userID, records[idx].ID); err != nil {
		r.log.WithError(err).WithFields(log.Fields{
			"user_id":    userID,
			"product_id": key.ProductID,
		}).Warn("remote cart delete failed, durable cart may lag")
	}
}

// ClearCart empties the cart, deleting the persisted guest key itself. With
// a user id it also deletes every durable record; that failure is returned
// so callers (checkout) know the durable cart is stale.
func (r *Reconciler) ClearCart(ctx context.Context, sessionID, userID string) (State, error) {
	unlock := r.lock(scopeKey(sessionID, userID))
	defer unlock()

	if err := r.guest.Delete(ctx, sessionID); err != nil {
		r.log.WithError(err).WithField("session_id", sessionID).
			Warn("failed to delete guest cart")
	}

	if userID != "" {
		if err := r.remote.ClearCartItems(ctx, userID); err != nil {
			return EmptyState(), fmt.Errorf("clear remote cart: %w", err)
		}
	}

	return EmptyState(), nil
}

// CurrentCart returns the visible cart: the durable cart for signed-in
// users, the guest cart otherwise.
func (r *Reconciler) CurrentCart(ctx context.Context, sessionID, userID string) (State, error) {
	if userID == "" {
		return r.localState(ctx, sessionID), nil
	}
	records, err := r.remote.ListCartItems(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("fetch remote cart: %w", err)
	}
	return stateOf(remoteLines(records)), nil
}

func indexOfRemote(records []RemoteItem, key Key) int {
	for i, rec := range records {
		if rec.Key() == key {
			return i
		}
	}
	return -1
}
