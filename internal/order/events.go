package order

import (
	"time"

	"github.com/example/shopfront/internal/cart"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderCancelled = "OrderCancelled"
)

// OrderPlacedEvent carries everything the notification pipeline needs to
// mail a confirmation, so consumers never have to call back into the store.
type OrderPlacedEvent struct {
	OrderID      string          `json:"order_id"`
	UserID       string          `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Items        []cart.LineItem `json:"items"`
	Total        int             `json:"total"`
	PlacedAt     time.Time       `json:"placed_at"`
}

type OrderCancelledEvent struct {
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	CancelledAt  time.Time `json:"cancelled_at"`
}
