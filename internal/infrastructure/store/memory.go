package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopfront/internal/cart"
)

// MemoryStore is the in-process document store used in development and
// tests. It mirrors the semantics of the hosted backends, not their
// performance.
type MemoryStore struct {
	mu        sync.RWMutex
	products  map[string]*Product
	orders    map[string]*Order
	users     map[string]*User
	cartItems map[string][]cart.RemoteItem // userID -> records
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]*Product),
		orders:    make(map[string]*Order),
		users:     make(map[string]*User),
		cartItems: make(map[string][]cart.RemoteItem),
	}
}

// Products

func (s *MemoryStore) CreateProduct(_ context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	copied := *p
	s.products[p.ID] = &copied
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) ListProducts(_ context.Context, category string) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		copied := *p
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	copied := *p
	s.products[p.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// Orders

func (s *MemoryStore) CreateOrder(_ context.Context, o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *MemoryStore) ListOrdersForUser(_ context.Context, userID string) ([]*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*Order
	for _, o := range s.orders {
		if o.UserID == userID {
			copied := *o
			orders = append(orders, &copied)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *MemoryStore) ListAllOrders(_ context.Context) ([]*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		copied := *o
		orders = append(orders, &copied)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func sortOrdersNewestFirst(orders []*Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

// Cart records

func (s *MemoryStore) ListCartItems(_ context.Context, userID string) ([]cart.RemoteItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.cartItems[userID]
	out := make([]cart.RemoteItem, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) CreateCartItem(_ context.Context, userID string, item cart.LineItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.cartItems[userID] = append(s.cartItems[userID], cart.RemoteItem{ID: id, LineItem: item})
	return id, nil
}

func (s *MemoryStore) UpdateCartItemQuantity(_ context.Context, userID, recordID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.cartItems[userID] {
		if rec.ID == recordID {
			s.cartItems[userID][i].Quantity = quantity
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteCartItem(_ context.Context, userID, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.cartItems[userID]
	for i, rec := range records {
		if rec.ID == recordID {
			s.cartItems[userID] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ClearCartItems(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cartItems, userID)
	return nil
}
