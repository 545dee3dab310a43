package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/email"
	"github.com/example/shopfront/internal/order"
)

type sentConfirmation struct {
	to           string
	customerName string
	orderID      string
	total        int
	items        []email.OrderItem
}

type sentCancellation struct {
	to           string
	customerName string
	orderID      string
}

type fakeSender struct {
	confirmations []sentConfirmation
	cancellations []sentCancellation
	err           error
}

func (s *fakeSender) SendOrderConfirmation(to, customerName, orderID string, total int, items []email.OrderItem) error {
	if s.err != nil {
		return s.err
	}
	s.confirmations = append(s.confirmations, sentConfirmation{to, customerName, orderID, total, items})
	return nil
}

func (s *fakeSender) SendOrderCancellation(to, customerName, orderID string) error {
	if s.err != nil {
		return s.err
	}
	s.cancellations = append(s.cancellations, sentCancellation{to, customerName, orderID})
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewHandler(sender, log), sender
}

func marshalEvent(t *testing.T, event any) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestHandler_OrderPlaced_SendsConfirmation(t *testing.T) {
	handler, sender := newTestHandler(t)

	payload := marshalEvent(t, order.OrderPlacedEvent{
		OrderID:      "order-1",
		UserID:       "user-1",
		CustomerName: "Ali Khan",
		Email:        "ali@example.com",
		Items: []cart.LineItem{
			{ProductID: "p1", Name: "Denim Jacket", UnitPrice: 4500, Quantity: 2, Color: "blue", Size: "M"},
		},
		Total:    9000,
		PlacedAt: time.Now(),
	})

	err := handler.HandleEvent(context.Background(), order.EventOrderPlaced, []byte("order-1"), payload)
	require.NoError(t, err)

	require.Len(t, sender.confirmations, 1)
	got := sender.confirmations[0]
	assert.Equal(t, "ali@example.com", got.to)
	assert.Equal(t, "Ali Khan", got.customerName)
	assert.Equal(t, "order-1", got.orderID)
	assert.Equal(t, 9000, got.total)
	require.Len(t, got.items, 1)
	assert.Equal(t, "Denim Jacket", got.items[0].Name)
	assert.Equal(t, "blue", got.items[0].Color)
	assert.Equal(t, 4500, got.items[0].Price)
}

func TestHandler_OrderCancelled_SendsCancellation(t *testing.T) {
	handler, sender := newTestHandler(t)

	payload := marshalEvent(t, order.OrderCancelledEvent{
		OrderID:      "order-2",
		UserID:       "user-1",
		CustomerName: "Ali Khan",
		Email:        "ali@example.com",
		CancelledAt:  time.Now(),
	})

	err := handler.HandleEvent(context.Background(), order.EventOrderCancelled, []byte("order-2"), payload)
	require.NoError(t, err)

	require.Len(t, sender.cancellations, 1)
	assert.Equal(t, "order-2", sender.cancellations[0].orderID)
}

func TestHandler_UnknownEventType_Skipped(t *testing.T) {
	handler, sender := newTestHandler(t)

	err := handler.HandleEvent(context.Background(), "SomethingElse", nil, []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, sender.confirmations)
	assert.Empty(t, sender.cancellations)
}

func TestHandler_MissingEmail_Skipped(t *testing.T) {
	handler, sender := newTestHandler(t)

	payload := marshalEvent(t, order.OrderPlacedEvent{OrderID: "order-3"})

	err := handler.HandleEvent(context.Background(), order.EventOrderPlaced, nil, payload)
	require.NoError(t, err)
	assert.Empty(t, sender.confirmations)
}

func TestHandler_MalformedPayload(t *testing.T) {
	handler, _ := newTestHandler(t)

	err := handler.HandleEvent(context.Background(), order.EventOrderPlaced, nil, []byte("not json"))
	assert.Error(t, err)
}

func TestHandler_SendFailurePropagates(t *testing.T) {
	handler, sender := newTestHandler(t)
	sender.err = errors.New("smtp down")

	payload := marshalEvent(t, order.OrderPlacedEvent{
		OrderID: "order-4",
		Email:   "ali@example.com",
	})

	err := handler.HandleEvent(context.Background(), order.EventOrderPlaced, nil, payload)
	assert.Error(t, err)
}
