package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/shopfront/internal/email"
	"github.com/example/shopfront/internal/order"
)

// Sender is the slice of the email service the handler needs.
type Sender interface {
	SendOrderConfirmation(to, customerName, orderID string, total int, items []email.OrderItem) error
	SendOrderCancellation(to, customerName, orderID string) error
}

// Handler turns order events into customer emails. Events carry the
// customer's email, name and the item snapshot, so no store lookups happen
// here.
type Handler struct {
	sender Sender
	log    *logrus.Entry
}

// NewHandler creates a new notification handler
func NewHandler(sender Sender, log *logrus.Logger) *Handler {
	return &Handler{
		sender: sender,
		log:    log.WithField("component", "notifier"),
	}
}

// HandleEvent processes a single event from Kafka. Unknown event types are
// skipped silently so new producers can roll out ahead of this consumer.
func (h *Handler) HandleEvent(_ context.Context, eventType string, _, value []byte) error {
	switch eventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(value)
	case order.EventOrderCancelled:
		return h.handleOrderCancelled(value)
	default:
		return nil
	}
}

func (h *Handler) handleOrderPlaced(value []byte) error {
	var e order.OrderPlacedEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
	}
	if e.Email == "" {
		h.log.WithField("order_id", e.OrderID).Warn("OrderPlaced event has no email, skipping")
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}

	if err := h.sender.SendOrderConfirmation(e.Email, e.CustomerName, e.OrderID, e.Total, items); err != nil {
		return fmt.Errorf("failed to send confirmation for order %s: %w", e.OrderID, err)
	}

	h.log.WithFields(logrus.Fields{
		"order_id": e.OrderID,
		"email":    e.Email,
	}).Info("order confirmation sent")
	return nil
}

func (h *Handler) handleOrderCancelled(value []byte) error {
	var e order.OrderCancelledEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return fmt.Errorf("failed to unmarshal OrderCancelled event: %w", err)
	}
	if e.Email == "" {
		h.log.WithField("order_id", e.OrderID).Warn("OrderCancelled event has no email, skipping")
		return nil
	}

	if err := h.sender.SendOrderCancellation(e.Email, e.CustomerName, e.OrderID); err != nil {
		return fmt.Errorf("failed to send cancellation for order %s: %w", e.OrderID, err)
	}

	h.log.WithFields(logrus.Fields{
		"order_id": e.OrderID,
		"email":    e.Email,
	}).Info("order cancellation sent")
	return nil
}
