package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates every collection index the repositories rely
// on. Called once at startup; CreateMany is idempotent for identical
// definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		CreateIndexes(ctx context.Context) error
	}{
		&mongoCartRepository{collection: db.Collection("carts")},
		&mongoOrderRepository{collection: db.Collection("orders")},
		&mongoCouponRepository{collection: db.Collection("coupons")},
		&mongoUserRepository{collection: db.Collection("users")},
	}

	for _, repo := range indexed {
		if err := repo.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
