package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/infrastructure/store"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotOwner         = errors.New("order belongs to another user")
	ErrAlreadyCancelled = errors.New("order is already cancelled")

	// ErrCartNotCleared reports that the order was placed and persisted but
	// the cart could not be cleared afterwards. Callers get the order back
	// alongside this error and should surface the leftover cart.
	ErrCartNotCleared = errors.New("order placed but cart was not cleared")
)

// Publisher is the slice of the event producer this service needs.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, event any) error
}

// CheckoutDetails is the customer-facing checkout form.
type CheckoutDetails struct {
	CustomerName string        `json:"customer_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Address      store.Address `json:"address"`
}

func (d CheckoutDetails) validate() error {
	if d.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if d.Email == "" {
		return errors.New("email is required")
	}
	if d.Address.Street == "" || d.Address.City == "" || d.Address.Province == "" {
		return errors.New("street, city and province are required")
	}
	return nil
}

type Service struct {
	orders    store.OrderStore
	products  store.ProductStore
	carts     *cart.Reconciler
	publisher Publisher
	log       *logrus.Entry
}

func NewService(orders store.OrderStore, products store.ProductStore, carts *cart.Reconciler, publisher Publisher, log *logrus.Logger) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		carts:     carts,
		publisher: publisher,
		log:       log.WithField("component", "order"),
	}
}

// PlaceOrder snapshots the current cart into a durable order, publishes an
// OrderPlaced event and then clears the cart. The order record is the source
// of truth: event publish failures are logged but do not fail checkout, and
// a cart clear failure comes back as ErrCartNotCleared with the order.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, userID string, details CheckoutDetails) (*store.Order, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}

	state, err := s.carts.CurrentCart(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	o := &store.Order{
		UserID:       userID,
		CustomerName: details.CustomerName,
		Email:        details.Email,
		Phone:        details.Phone,
		Address:      details.Address,
		Items:        state.Items,
		Total:        state.TotalPrice,
		Status:       store.OrderStatusPlaced,
	}
	if err := s.orders.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(ctx, o.ID, EventOrderPlaced, OrderPlacedEvent{
		OrderID:      o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Items:        o.Items,
		Total:        o.Total,
		PlacedAt:     o.CreatedAt,
	})

	s.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"total":    o.Total,
	}).Info("order placed")

	if _, err := s.carts.ClearCart(ctx, sessionID, userID); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Error("cart not cleared after checkout")
		return o, fmt.Errorf("%w: %v", ErrCartNotCleared, err)
	}

	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string, isAdmin bool) (*store.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]*store.Order, error) {
	return s.orders.ListOrdersForUser(ctx, userID)
}

// Page is one window of the admin order listing.
type Page struct {
	Orders []*store.Order `json:"orders"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListAllOrders returns every order newest first, optionally filtered by
// customer email, paged by offset and limit.
func (s *Service) ListAllOrders(ctx context.Context, email string, offset, limit int) (*Page, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		matched := make([]*store.Order, 0, len(orders))
		for _, o := range orders {
			if strings.ToLower(o.Email) == email {
				matched = append(matched, o)
			}
		}
		orders = matched
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total := len(orders)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &Page{Orders: orders[offset:end], Total: total, Offset: offset, Limit: limit}, nil
}

// CancelOrder marks an order cancelled. Owners may cancel their own orders;
// admins may cancel any.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID string, isAdmin bool) (*store.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrNotOwner
	}
	if o.Status == store.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, store.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	o.Status = store.OrderStatusCancelled

	s.publish(ctx, o.ID, EventOrderCancelled, OrderCancelledEvent{
		OrderID:      o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		CancelledAt:  time.Now(),
	})

	s.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  o.UserID,
	}).Info("order cancelled")

	return o, nil
}

func (s *Service) publish(ctx context.Context, key, eventType string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, eventType, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event_type": eventType,
			"key":        key,
		}).Warn("failed to publish event")
	}
}

// Stats is the back-office dashboard summary.
type Stats struct {
	TotalOrders     int            `json:"total_orders"`
	CancelledOrders int            `json:"cancelled_orders"`
	TotalRevenue    int            `json:"total_revenue"`
	OrdersByDay     map[string]int `json:"orders_by_day"`
	ProductsByCat   map[string]int `json:"products_by_category"`
}

// GetStats aggregates order and catalog totals for the admin dashboard.
// Revenue counts placed orders only; OrdersByDay keys are YYYY-MM-DD.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	stats := &Stats{
		OrdersByDay:   make(map[string]int),
		ProductsByCat: make(map[string]int),
	}
	for _, o := range orders {
		stats.TotalOrders++
		stats.OrdersByDay[o.CreatedAt.Format("2006-01-02")]++
		if o.Status == store.OrderStatusCancelled {
			stats.CancelledOrders++
			continue
		}
		stats.TotalRevenue += o.Total
	}

	products, err := s.products.ListProducts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		stats.ProductsByCat[p.Category]++
	}

	return stats, nil
}
