package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection("products")}
}

func (m *mongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// AdjustStock submits all deltas as a single unordered bulk write so an
// order's inventory effect lands as one batch, not item by item.
func (m *mongoProductRepository) AdjustStock(ctx context.Context, deltas []domain.StockDelta) (int64, error) {
	if len(deltas) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, len(deltas))
	for i, d := range deltas {
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": d.ProductID}).
			SetUpdate(bson.M{"$inc": bson.M{"quantity": -d.Quantity, "sold": d.Quantity}})
	}

	result, err := m.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return result.MatchedCount, nil
}
