package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Sold      int                `bson:"sold" json:"sold"`
	Colors    []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// StockDelta is one entry of an inventory batch: stock decreases and the
// sold counter increases by Quantity for the given product.
type StockDelta struct {
	ProductID primitive.ObjectID
	Quantity  int
}
