package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/example/shopfront/internal/cart"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ConnectPostgres opens and pings a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MigratePostgres applies the embedded schema migrations.
func MigratePostgres(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

// PostgresStore implements DocumentStore on PostgreSQL. Document-shaped
// fields (colors, sizes, address, order items) are stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Products

func (s *PostgresStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return err
	}
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, image, category, description, colors, sizes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, colors, sizes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, image, category, description, colors, sizes, created_at, updated_at
		 FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *PostgresStore) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	query := `SELECT id, name, price, image, category, description, colors, sizes, created_at, updated_at
	          FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()

	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return err
	}
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $2, price = $3, image = $4, category = $5, description = $6, colors = $7, sizes = $8, updated_at = $9
		 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, colors, sizes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRowAffected(res)
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var colors, sizes []byte
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Category, &p.Description,
		&colors, &sizes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if err := json.Unmarshal(colors, &p.Colors); err != nil {
		return nil, fmt.Errorf("decode product colors: %w", err)
	}
	if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
		return nil, fmt.Errorf("decode product sizes: %w", err)
	}
	return &p, nil
}

// Orders

func (s *PostgresStore) CreateOrder(ctx context.Context, o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	address, err := json.Marshal(o.Address)
	if err != nil {
		return err
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, customer_name, email, phone, address, items, total, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.UserID, o.CustomerName, o.Email, o.Phone, address, items, o.Total, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, customer_name, email, phone, address, items, total, status, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (s *PostgresStore) ListOrdersForUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.listOrders(ctx,
		`SELECT id, user_id, customer_name, email, phone, address, items, total, status, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *PostgresStore) ListAllOrders(ctx context.Context) ([]*Order, error) {
	return s.listOrders(ctx,
		`SELECT id, user_id, customer_name, email, phone, address, items, total, status, created_at, updated_at
		 FROM orders ORDER BY created_at DESC`)
}

func (s *PostgresStore) listOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRowAffected(res)
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var address, items []byte
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Email, &o.Phone,
		&address, &items, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("decode order address: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, phone, birthday, role, theme, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Birthday, u.Role, u.Theme, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, birthday, role, theme, is_active, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, birthday, role, theme, is_active, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users
		 SET email = $2, password_hash = $3, name = $4, phone = $5, birthday = $6, role = $7, theme = $8, is_active = $9, updated_at = $10
		 WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Birthday, u.Role, u.Theme, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRowAffected(res)
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Birthday,
		&u.Role, &u.Theme, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// Cart records

func (s *PostgresStore) ListCartItems(ctx context.Context, userID string) ([]cart.RemoteItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, name, unit_price, quantity, image, color, size
		 FROM cart_items WHERE user_id = $1 ORDER BY added_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	records := []cart.RemoteItem{}
	for rows.Next() {
		var rec cart.RemoteItem
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Name, &rec.UnitPrice,
			&rec.Quantity, &rec.Image, &rec.Color, &rec.Size); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) CreateCartItem(ctx context.Context, userID string, item cart.LineItem) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, name, unit_price, quantity, image, color, size, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, userID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Image, item.Color, item.Size, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("insert cart item: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateCartItemQuantity(ctx context.Context, userID, recordID string, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE id = $1 AND user_id = $2`,
		recordID, userID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return requireRowAffected(res)
}

func (s *PostgresStore) DeleteCartItem(ctx context.Context, userID, recordID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, recordID, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return requireRowAffected(res)
}

func (s *PostgresStore) ClearCartItems(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
