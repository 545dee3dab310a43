package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/example/shopfront/internal/cart"
)

// DynamoConfig names the DynamoDB tables backing each collection.
type DynamoConfig struct {
	ProductsTable string
	CartTable     string
	OrdersTable   string
	UsersTable    string
}

// DynamoStore implements DocumentStore on DynamoDB.
//
// Table layout:
//   - products: partition key id; GSI1 (gsi1pk, created_at) with a fixed
//     partition value to list the whole catalog in insertion order.
//   - cart_items: partition key user_id, sort key id.
//   - orders: partition key id; GSI1 (gsi1pk, created_at) for the
//     back-office listing; UserIndex (user_id, created_at) for order
//     history.
//   - users: partition key id; EmailIndex (email) for login lookups.
type DynamoStore struct {
	client *dynamodb.Client
	cfg    DynamoConfig
}

func NewDynamoStore(client *dynamodb.Client, cfg DynamoConfig) *DynamoStore {
	return &DynamoStore{client: client, cfg: cfg}
}

const (
	gsi1Products = "PRODUCTS"
	gsi1Orders   = "ORDERS"
)

type dynamoProduct struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Price       int    `dynamodbav:"price"`
	Image       string `dynamodbav:"image"`
	Category    string `dynamodbav:"category"`
	Description string `dynamodbav:"description"`
	Colors      string `dynamodbav:"colors"` // JSON array
	Sizes       string `dynamodbav:"sizes"`  // JSON array
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
	GSI1PK      string `dynamodbav:"gsi1pk"`
}

func (dp dynamoProduct) toProduct() (*Product, error) {
	p := &Product{
		ID:          dp.ID,
		Name:        dp.Name,
		Price:       dp.Price,
		Image:       dp.Image,
		Category:    dp.Category,
		Description: dp.Description,
	}
	if err := json.Unmarshal([]byte(dp.Colors), &p.Colors); err != nil {
		return nil, fmt.Errorf("decode product colors: %w", err)
	}
	if err := json.Unmarshal([]byte(dp.Sizes), &p.Sizes); err != nil {
		return nil, fmt.Errorf("decode product sizes: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, dp.CreatedAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, dp.UpdatedAt)
	return p, nil
}

func fromProduct(p *Product) (dynamoProduct, error) {
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return dynamoProduct{}, err
	}
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return dynamoProduct{}, err
	}
	return dynamoProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Colors:      string(colors),
		Sizes:       string(sizes),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339Nano),
		GSI1PK:      gsi1Products,
	}, nil
}

// Products

func (s *DynamoStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	item, err := fromProduct(p)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cfg.ProductsTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put product: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.cfg.ProductsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var dp dynamoProduct
	if err := attributevalue.UnmarshalMap(result.Item, &dp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return dp.toProduct()
}

func (s *DynamoStore) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.ProductsTable),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: gsi1Products},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if category != "" {
		input.FilterExpression = aws.String("category = :cat")
		input.ExpressionAttributeValues[":cat"] = &types.AttributeValueMemberS{Value: category}
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*Product, 0, len(result.Items))
	for _, item := range result.Items {
		var dp dynamoProduct
		if err := attributevalue.UnmarshalMap(item, &dp); err != nil {
			continue
		}
		p, err := dp.toProduct()
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *DynamoStore) UpdateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	existing, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()

	item, err := fromProduct(p)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cfg.ProductsTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (s *DynamoStore) DeleteProduct(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.ProductsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// Orders

type dynamoOrder struct {
	ID           string `dynamodbav:"id"`
	UserID       string `dynamodbav:"user_id"`
	CustomerName string `dynamodbav:"customer_name"`
	Email        string `dynamodbav:"email"`
	Phone        string `dynamodbav:"phone"`
	Address      string `dynamodbav:"address"` // JSON object
	Items        string `dynamodbav:"items"`   // JSON array
	Total        int    `dynamodbav:"total"`
	Status       string `dynamodbav:"status"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
	GSI1PK       string `dynamodbav:"gsi1pk"`
}

func (do dynamoOrder) toOrder() (*Order, error) {
	o := &Order{
		ID:           do.ID,
		UserID:       do.UserID,
		CustomerName: do.CustomerName,
		Email:        do.Email,
		Phone:        do.Phone,
		Total:        do.Total,
		Status:       do.Status,
	}
	if err := json.Unmarshal([]byte(do.Address), &o.Address); err != nil {
		return nil, fmt.Errorf("decode order address: %w", err)
	}
	if err := json.Unmarshal([]byte(do.Items), &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	o.CreatedAt, _ = time.Parse(time.RFC3339Nano, do.CreatedAt)
	o.UpdatedAt, _ = time.Parse(time.RFC3339Nano, do.UpdatedAt)
	return o, nil
}

func (s *DynamoStore) CreateOrder(ctx context.Context, o *Order) error {
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

	av, err := attributevalue.MarshalMap(dynamoOrder{
		ID:           o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		Address:      string(address),
		Items:        string(items),
		Total:        o.Total,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339Nano),
		GSI1PK:       gsi1Orders,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cfg.OrdersTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put order: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.cfg.OrdersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var do dynamoOrder
	if err := attributevalue.UnmarshalMap(result.Item, &do); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return do.toOrder()
}

func (s *DynamoStore) ListOrdersForUser(ctx context.Context, userID string) ([]*Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.OrdersTable),
		IndexName:              aws.String("UserIndex"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.unmarshalOrders(result.Items), nil
}

func (s *DynamoStore) ListAllOrders(ctx context.Context) ([]*Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.OrdersTable),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: gsi1Orders},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.unmarshalOrders(result.Items), nil
}

func (s *DynamoStore) unmarshalOrders(items []map[string]types.AttributeValue) []*Order {
	orders := make([]*Order, 0, len(items))
	for _, item := range items {
		var do dynamoOrder
		if err := attributevalue.UnmarshalMap(item, &do); err != nil {
			continue
		}
		o, err := do.toOrder()
		if err != nil {
			continue
		}
		orders = append(orders, o)
	}
	return orders
}

func (s *DynamoStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.cfg.OrdersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #st = :status, updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":now":    &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// Users

type dynamoUser struct {
	ID           string `dynamodbav:"id"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"password_hash"`
	Name         string `dynamodbav:"name"`
	Phone        string `dynamodbav:"phone"`
	Birthday     string `dynamodbav:"birthday"`
	Role         string `dynamodbav:"role"`
	Theme        string `dynamodbav:"theme"`
	IsActive     bool   `dynamodbav:"is_active"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

func (du dynamoUser) toUser() *User {
	u := &User{
		ID:           du.ID,
		Email:        du.Email,
		PasswordHash: du.PasswordHash,
		Name:         du.Name,
		Phone:        du.Phone,
		Birthday:     du.Birthday,
		Role:         du.Role,
		Theme:        du.Theme,
		IsActive:     du.IsActive,
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, du.CreatedAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, du.UpdatedAt)
	return u
}

func fromUser(u *User) dynamoUser {
	return dynamoUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Phone:        u.Phone,
		Birthday:     u.Birthday,
		Role:         u.Role,
		Theme:        u.Theme,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (s *DynamoStore) CreateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	av, err := attributevalue.MarshalMap(fromUser(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cfg.UsersTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put user: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetUser(ctx context.Context, id string) (*User, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.cfg.UsersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var du dynamoUser
	if err := attributevalue.UnmarshalMap(result.Item, &du); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return du.toUser(), nil
}

func (s *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.UsersTable),
		IndexName:              aws.String("EmailIndex"),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, ErrNotFound
	}

	var du dynamoUser
	if err := attributevalue.UnmarshalMap(result.Items[0], &du); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return du.toUser(), nil
}

func (s *DynamoStore) UpdateUser(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()

	av, err := attributevalue.MarshalMap(fromUser(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cfg.UsersTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Cart records

type dynamoCartItem struct {
	UserID    string `dynamodbav:"user_id"`
	ID        string `dynamodbav:"id"`
	ProductID string `dynamodbav:"product_id"`
	Name      string `dynamodbav:"name"`
	UnitPrice int    `dynamodbav:"unit_price"`
	Quantity  int    `dynamodbav:"quantity"`
	Image     string `dynamodbav:"image"`
	Color     string `dynamodbav:"color"`
	Size      string `dynamodbav:"size"`
	AddedAt   string `dynamodbav:"added_at"`
}

func (s *DynamoStore) ListCartItems(ctx context.Context, userID string) ([]cart.RemoteItem, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.CartTable),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	records := make([]cart.RemoteItem, 0, len(result.Items))
	for _, item := range result.Items {
		var dc dynamoCartItem
		if err := attributevalue.UnmarshalMap(item, &dc); err != nil {
			continue
		}
		records = append(records, cart.RemoteItem{
			ID: dc.ID,
			LineItem: cart.LineItem{
				ProductID: dc.ProductID,
				Name:      dc.Name,
				UnitPrice: dc.UnitPrice,
				Quantity:  dc.Quantity,
				Image:     dc.Image,
				Color:     dc.Color,
				Size:      dc.Size,
			},
		})
	}
	return records, nil
}

func (s *DynamoStore) CreateCartItem(ctx context.Context, userID string, item cart.LineItem) (string, error) {
	id := uuid.New().String()
	av, err := attributevalue.MarshalMap(dynamoCartItem{
		UserID:    userID,
		ID:        id,
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  item.Quantity,
		Image:     item.Image,
		Color:     item.Color,
		Size:      item.Size,
		AddedAt:   time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cart item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.CartTable),
		Item:      av,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put cart item: %w", err)
	}
	return id, nil
}

func (s *DynamoStore) UpdateCartItemQuantity(ctx context.Context, userID, recordID string, quantity int) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.cfg.CartTable),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: recordID},
		},
		UpdateExpression: aws.String("SET quantity = :qty"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", quantity)},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *DynamoStore) DeleteCartItem(ctx context.Context, userID, recordID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.CartTable),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: recordID},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (s *DynamoStore) ClearCartItems(ctx context.Context, userID string) error {
	records, err := s.ListCartItems(ctx, userID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.cfg.CartTable),
			Key: map[string]types.AttributeValue{
				"user_id": &types.AttributeValueMemberS{Value: userID},
				"id":      &types.AttributeValueMemberS{Value: rec.ID},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete cart item %s: %w", rec.ID, err)
		}
	}
	return nil
}
