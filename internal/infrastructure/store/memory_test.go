package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/cart"
)

// ============================================================
// Products
// ============================================================

func TestMemoryStore_ProductCRUD(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	p := &Product{Name: "Denim Jacket", Price: 4500, Category: "men", Colors: []string{"blue"}, Sizes: []string{"M", "L"}}
	require.NoError(t, mem.CreateProduct(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Denim Jacket", got.Name)

	got.Price = 3999
	require.NoError(t, mem.UpdateProduct(ctx, got))

	updated, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3999, updated.Price)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, mem.DeleteProduct(ctx, p.ID))
	_, err = mem.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ProductValidation(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	err := mem.CreateProduct(ctx, &Product{Name: "Thing", Price: 100, Category: "gadgets"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	err = mem.CreateProduct(ctx, &Product{Price: 100, Category: "men"})
	assert.Error(t, err)

	err = mem.CreateProduct(ctx, &Product{Name: "Thing", Price: -1, Category: "men"})
	assert.Error(t, err)
}

func TestMemoryStore_ListProducts_CategoryFilter(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, mem.CreateProduct(ctx, &Product{Name: "A", Price: 1, Category: "kids"}))
	require.NoError(t, mem.CreateProduct(ctx, &Product{Name: "B", Price: 1, Category: "men"}))
	require.NoError(t, mem.CreateProduct(ctx, &Product{Name: "C", Price: 1, Category: "kids"}))

	all, err := mem.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kids, err := mem.ListProducts(ctx, "kids")
	require.NoError(t, err)
	assert.Len(t, kids, 2)
}

func TestMemoryStore_GetProduct_CopyIsIsolated(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	p := &Product{Name: "A", Price: 1, Category: "kids"}
	require.NoError(t, mem.CreateProduct(ctx, p))

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

// ============================================================
// Orders
// ============================================================

func testOrder(userID string) *Order {
	return &Order{
		UserID:       userID,
		CustomerName: "Ali Khan",
		Email:        "ali@example.com",
		Address:      Address{Street: "Street 4", Province: "Punjab", City: "Lahore", Label: "home"},
		Items:        []cart.LineItem{{ProductID: "p1", Name: "Denim Jacket", UnitPrice: 4500, Quantity: 2}},
		Total:        9000,
		Status:       OrderStatusPlaced,
	}
}

func TestMemoryStore_OrderLifecycle(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	o := testOrder("user-1")
	require.NoError(t, mem.CreateOrder(ctx, o))
	require.NotEmpty(t, o.ID)

	got, err := mem.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 9000, got.Total)

	require.NoError(t, mem.UpdateOrderStatus(ctx, o.ID, OrderStatusCancelled))

	got, err = mem.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, got.Status)

	assert.ErrorIs(t, mem.UpdateOrderStatus(ctx, "missing", OrderStatusCancelled), ErrNotFound)
}

func TestMemoryStore_ListOrders_NewestFirst(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	first := testOrder("user-1")
	require.NoError(t, mem.CreateOrder(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := testOrder("user-1")
	require.NoError(t, mem.CreateOrder(ctx, second))

	mine, err := mem.ListOrdersForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	other, err := mem.ListOrdersForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

// ============================================================
// Users
// ============================================================

func TestMemoryStore_UserCRUD(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	u := &User{Email: "test@example.com", PasswordHash: "hash", Name: "Test", Role: "user", Theme: "light", IsActive: true}
	require.NoError(t, mem.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	byID, err := mem.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)

	byEmail, err := mem.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID.Theme = "dark"
	require.NoError(t, mem.UpdateUser(ctx, byID))

	updated, err := mem.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)

	_, err = mem.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================
// Cart records
// ============================================================

func TestMemoryStore_CartItems(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	id1, err := mem.CreateCartItem(ctx, "user-1", cart.LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1, Color: "blue", Size: "M"})
	require.NoError(t, err)
	id2, err := mem.CreateCartItem(ctx, "user-1", cart.LineItem{ProductID: "p2", UnitPrice: 200, Quantity: 2})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	records, err := mem.ListCartItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, mem.UpdateCartItemQuantity(ctx, "user-1", id1, 5))
	records, err = mem.ListCartItems(ctx, "user-1")
	require.NoError(t, err)
	for _, rec := range records {
		if rec.ID == id1 {
			assert.Equal(t, 5, rec.Quantity)
		}
	}

	require.NoError(t, mem.DeleteCartItem(ctx, "user-1", id2))
	records, err = mem.ListCartItems(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, mem.ClearCartItems(ctx, "user-1"))
	records, err = mem.ListCartItems(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_CartItems_ScopedToUser(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	_, err := mem.CreateCartItem(ctx, "user-1", cart.LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1})
	require.NoError(t, err)
	_, err = mem.CreateCartItem(ctx, "user-2", cart.LineItem{ProductID: "p2", UnitPrice: 200, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, mem.ClearCartItems(ctx, "user-1"))

	records, err := mem.ListCartItems(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.ErrorIs(t, mem.UpdateCartItemQuantity(ctx, "user-1", "missing", 1), ErrNotFound)
	assert.ErrorIs(t, mem.DeleteCartItem(ctx, "user-1", "missing"), ErrNotFound)
}
