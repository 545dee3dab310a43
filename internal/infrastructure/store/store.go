package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/shopfront/internal/cart"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidCategory = errors.New("unknown product category")
)

// Categories match the storefront's fixed catalog sections.
var Categories = []string{"kids", "men", "women", "perfume"}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog record. The document backends accept only validated
// records; malformed documents are rejected at this boundary instead of
// leaking optional fields upward.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("product price must not be negative")
	}
	if !ValidCategory(p.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	return nil
}

// Address is the shipping address collected at checkout.
type Address struct {
	Building string `json:"building,omitempty"`
	Colony   string `json:"colony,omitempty"`
	Street   string `json:"street"`
	Province string `json:"province"`
	City     string `json:"city"`
	Area     string `json:"area,omitempty"`
	Label    string `json:"label"` // home or office
}

const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

// Order is a durable order record: customer contact, shipping address and a
// snapshot of the cart at checkout time.
type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      Address         `json:"address"`
	Items        []cart.LineItem `json:"items"`
	Total        int             `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (o *Order) Validate() error {
	if o.UserID == "" {
		return errors.New("order user_id is required")
	}
	if len(o.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	if o.CustomerName == "" {
		return errors.New("customer name is required")
	}
	return nil
}

// User is an account record. Theme is the persisted UI preference; it lives
// on the profile rather than in ambient global state.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Birthday     string    `json:"birthday,omitempty"` // YYYY-MM-DD
	Role         string    `json:"role"`
	Theme        string    `json:"theme"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("user email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("user password hash is required")
	}
	return nil
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	// ListProducts returns all products, or only one category when category
	// is non-empty.
	ListProducts(ctx context.Context, category string) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]*Order, error)
	// ListAllOrders returns every order, newest first.
	ListAllOrders(ctx context.Context) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
}

// DocumentStore is the full surface of the hosted document database this
// service delegates persistence to. Backends are interchangeable; nothing
// above this interface knows which one is configured.
type DocumentStore interface {
	ProductStore
	OrderStore
	UserStore
	cart.RemoteStore
}
