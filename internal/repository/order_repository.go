package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (m *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	if _, err := m.collection.InsertOne(ctx, order); err != nil {
		// The unique sparse index on payment_session_id backstops webhook
		// redelivery racing a first delivery.
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoOrderRepository) GetByPaymentSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"payment_session_id": sessionID})
}

func (m *mongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var order domain.Order
	err := m.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return m.list(ctx, bson.M{"user_id": userID})
}

func (m *mongoOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return m.list(ctx, bson.M{})
}

func (m *mongoOrderRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoOrderRepository) SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error) {
	return m.setStatus(ctx, id, bson.M{"is_paid": true, "paid_at": at, "updated_at": at})
}

func (m *mongoOrderRepository) SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error) {
	return m.setStatus(ctx, id, bson.M{"is_delivered": true, "delivered_at": at, "updated_at": at})
}

func (m *mongoOrderRepository) setStatus(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order domain.Order
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "payment_session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
