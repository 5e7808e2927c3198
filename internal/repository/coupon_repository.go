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

type mongoCouponRepository struct {
	collection *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) CouponRepository {
	return &mongoCouponRepository{collection: db.Collection("coupons")}
}

func (m *mongoCouponRepository) FindValid(ctx context.Context, name string, now time.Time) (*domain.Coupon, error) {
	filter := bson.M{"name": name, "expire": bson.M{"$gt": now}}

	var coupon domain.Coupon
	err := m.collection.FindOne(ctx, filter).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (m *mongoCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	if coupon.ID.IsZero() {
		coupon.ID = primitive.NewObjectID()
	}

	if _, err := m.collection.InsertOne(ctx, coupon); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCoupon
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (m *mongoCouponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []domain.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

func (m *mongoCouponRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create coupon indexes: %w", err)
	}
	return nil
}
