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

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection("carts")}
}

func (m *mongoCartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	return m.findOne(ctx, bson.M{"user_id": userID})
}

func (m *mongoCartRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Cart, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoCartRepository) findOne(ctx context.Context, filter bson.M) (*domain.Cart, error) {
	var cart domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

func (m *mongoCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	cart.Version = 1
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	for i := range cart.Items {
		if cart.Items[i].ID.IsZero() {
			cart.Items[i].ID = primitive.NewObjectID()
		}
	}

	if _, err := m.collection.InsertOne(ctx, cart); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCart
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (m *mongoCartRepository) Replace(ctx context.Context, cart *domain.Cart) error {
	readVersion := cart.Version
	cart.Version = readVersion + 1
	cart.UpdatedAt = time.Now()
	for i := range cart.Items {
		if cart.Items[i].ID.IsZero() {
			cart.Items[i].ID = primitive.NewObjectID()
		}
	}

	filter := bson.M{"_id": cart.ID, "version": readVersion}
	result, err := m.collection.ReplaceOne(ctx, filter, cart)
	if err != nil {
		cart.Version = readVersion
		return fmt.Errorf("failed to replace cart: %w", err)
	}
	if result.MatchedCount == 0 {
		cart.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}

func (m *mongoCartRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *mongoCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Abandoned carts (e.g. a checkout session whose webhook
			// never arrives) expire instead of piling up forever.
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
