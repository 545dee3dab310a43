package cart

import (
	"context"
	"errors"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
)

// LineItem is one row in a cart. Two line items are the same logical item
// only when product, color and size all match.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Key identifies a logical line item within a cart.
type Key struct {
	ProductID string
	Color     string
	Size      string
}

func (li LineItem) Key() Key {
	return Key{ProductID: li.ProductID, Color: li.Color, Size: li.Size}
}

func (li LineItem) validate() error {
	if li.ProductID == "" {
		return ErrInvalidProduct
	}
	if li.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// State is a cart as seen by the storefront. TotalPrice is always recomputed
// from the items, never carried forward.
type State struct {
	Items      []LineItem `json:"items"`
	TotalPrice int        `json:"total_price"`
}

func EmptyState() State {
	return State{Items: []LineItem{}}
}

// ItemCount returns the number of units across all lines.
func (s State) ItemCount() int {
	n := 0
	for _, li := range s.Items {
		n += li.Quantity
	}
	return n
}

func total(items []LineItem) int {
	sum := 0
	for _, li := range items {
		sum += li.UnitPrice * li.Quantity
	}
	return sum
}

func findItem(items []LineItem, key Key) int {
	for i, li := range items {
		if li.Key() == key {
			return i
		}
	}
	return -1
}

// addLine merges item into items: a line with the same key has its quantity
// incremented, otherwise the item is appended in insertion order.
func addLine(items []LineItem, item LineItem) []LineItem {
	if i := findItem(items, item.Key()); i >= 0 {
		items[i].Quantity += item.Quantity
		return items
	}
	return append(items, item)
}

// removeLine drops the whole line matching key. Removing a missing line is a
// no-op.
func removeLine(items []LineItem, key Key) []LineItem {
	out := items[:0]
	for _, li := range items {
		if li.Key() != key {
			out = append(out, li)
		}
	}
	return out
}

// RemoteItem is a durable cart record: a line item plus the opaque id the
// backing store assigned to it.
type RemoteItem struct {
	ID string `json:"id"`
	LineItem
}

// GuestStore persists one serialized cart per browsing session. A missing or
// unreadable cart is reported as empty by callers, never as a page failure.
type GuestStore interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Set(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

// RemoteStore is the durable per-user cart collection in the document store.
type RemoteStore interface {
	ListCartItems(ctx context.Context, userID string) ([]RemoteItem, error)
	CreateCartItem(ctx context.Context, userID string, item LineItem) (string, error)
	UpdateCartItemQuantity(ctx context.Context, userID, recordID string, quantity int) error
	DeleteCartItem(ctx context.Context, userID, recordID string) error
	ClearCartItems(ctx context.Context, userID string) error
}
