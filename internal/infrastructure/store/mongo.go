package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/shopfront/internal/cart"
)

// MongoStore implements DocumentStore on MongoDB. Records keep their string
// ids in _id; no ObjectIDs are exposed upward.
type MongoStore struct {
	products  *mongo.Collection
	cartItems *mongo.Collection
	orders    *mongo.Collection
	users     *mongo.Collection
}

// ConnectMongo opens and pings a MongoDB connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		products:  db.Collection("products"),
		cartItems: db.Collection("cart_items"),
		orders:    db.Collection("orders"),
		users:     db.Collection("users"),
	}
}

type mongoProduct struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Price       int       `bson:"price"`
	Image       string    `bson:"image"`
	Category    string    `bson:"category"`
	Description string    `bson:"description"`
	Colors      []string  `bson:"colors"`
	Sizes       []string  `bson:"sizes"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (mp mongoProduct) toProduct() *Product {
	return &Product{
		ID:          mp.ID,
		Name:        mp.Name,
		Price:       mp.Price,
		Image:       mp.Image,
		Category:    mp.Category,
		Description: mp.Description,
		Colors:      mp.Colors,
		Sizes:       mp.Sizes,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
}

// Products

func (s *MongoStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.products.InsertOne(ctx, mongoProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Colors:      p.Colors,
		Sizes:       p.Sizes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	var mp mongoProduct
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&mp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return mp.toProduct(), nil
}

func (s *MongoStore) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := s.products.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*Product
	for cursor.Next(ctx) {
		var mp mongoProduct
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, mp.toProduct())
	}
	return products, cursor.Err()
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()

	res, err := s.products.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"price":       p.Price,
		"image":       p.Image,
		"category":    p.Category,
		"description": p.Description,
		"colors":      p.Colors,
		"sizes":       p.Sizes,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Orders

type mongoOrder struct {
	ID           string          `bson:"_id"`
	UserID       string          `bson:"user_id"`
	CustomerName string          `bson:"customer_name"`
	Email        string          `bson:"email"`
	Phone        string          `bson:"phone"`
	Address      Address         `bson:"address"`
	Items        []cart.LineItem `bson:"items"`
	Total        int             `bson:"total"`
	Status       string          `bson:"status"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

func (mo mongoOrder) toOrder() *Order {
	return &Order{
		ID:           mo.ID,
		UserID:       mo.UserID,
		CustomerName: mo.CustomerName,
		Email:        mo.Email,
		Phone:        mo.Phone,
		Address:      mo.Address,
		Items:        mo.Items,
		Total:        mo.Total,
		Status:       mo.Status,
		CreatedAt:    mo.CreatedAt,
		UpdatedAt:    mo.UpdatedAt,
	}
}

func (s *MongoStore) CreateOrder(ctx context.Context, o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := s.orders.InsertOne(ctx, mongoOrder{
		ID:           o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		Address:      o.Address,
		Items:        o.Items,
		Total:        o.Total,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	var mo mongoOrder
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&mo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return mo.toOrder(), nil
}

func (s *MongoStore) ListOrdersForUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) ListAllOrders(ctx context.Context) ([]*Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *MongoStore) findOrders(ctx context.Context, filter bson.M) ([]*Order, error) {
	cursor, err := s.orders.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*Order
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, mo.toOrder())
	}
	return orders, cursor.Err()
}

func (s *MongoStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

type mongoUser struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Name         string    `bson:"name"`
	Phone        string    `bson:"phone"`
	Birthday     string    `bson:"birthday"`
	Role         string    `bson:"role"`
	Theme        string    `bson:"theme"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (mu mongoUser) toUser() *User {
	return &User{
		ID:           mu.ID,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Name:         mu.Name,
		Phone:        mu.Phone,
		Birthday:     mu.Birthday,
		Role:         mu.Role,
		Theme:        mu.Theme,
		IsActive:     mu.IsActive,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.users.InsertOne(ctx, mongoUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Phone:        u.Phone,
		Birthday:     u.Birthday,
		Role:         u.Role,
		Theme:        u.Theme,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*User, error) {
	var mu mongoUser
	err := s.users.FindOne(ctx, filter).Decode(&mu)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mu.toUser(), nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"name":          u.Name,
		"phone":         u.Phone,
		"birthday":      u.Birthday,
		"role":          u.Role,
		"theme":         u.Theme,
		"is_active":     u.IsActive,
		"updated_at":    u.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Cart records

type mongoCartItem struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ProductID string    `bson:"product_id"`
	Name      string    `bson:"name"`
	UnitPrice int       `bson:"unit_price"`
	Quantity  int       `bson:"quantity"`
	Image     string    `bson:"image"`
	Color     string    `bson:"color"`
	Size      string    `bson:"size"`
	AddedAt   time.Time `bson:"added_at"`
}

func (s *MongoStore) ListCartItems(ctx context.Context, userID string) ([]cart.RemoteItem, error) {
	cursor, err := s.cartItems.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"added_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer cursor.Close(ctx)

	records := []cart.RemoteItem{}
	for cursor.Next(ctx) {
		var mc mongoCartItem
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("failed to decode cart item: %w", err)
		}
		records = append(records, cart.RemoteItem{
			ID: mc.ID,
			LineItem: cart.LineItem{
				ProductID: mc.ProductID,
				Name:      mc.Name,
				UnitPrice: mc.UnitPrice,
				Quantity:  mc.Quantity,
				Image:     mc.Image,
				Color:     mc.Color,
				Size:      mc.Size,
			},
		})
	}
	return records, cursor.Err()
}

func (s *MongoStore) CreateCartItem(ctx context.Context, userID string, item cart.LineItem) (string, error) {
	id := uuid.New().String()
	_, err := s.cartItems.InsertOne(ctx, mongoCartItem{
		ID:        id,
		UserID:    userID,
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  item.Quantity,
		Image:     item.Image,
		Color:     item.Color,
		Size:      item.Size,
		AddedAt:   time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert cart item: %w", err)
	}
	return id, nil
}

func (s *MongoStore) UpdateCartItemQuantity(ctx context.Context, userID, recordID string, quantity int) error {
	res, err := s.cartItems.UpdateOne(ctx,
		bson.M{"_id": recordID, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteCartItem(ctx context.Context, userID, recordID string) error {
	res, err := s.cartItems.DeleteOne(ctx, bson.M{"_id": recordID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ClearCartItems(ctx context.Context, userID string) error {
	_, err := s.cartItems.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}
