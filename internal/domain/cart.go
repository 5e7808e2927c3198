package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart is the mutable pre-checkout basket. One active cart per user,
// enforced by a unique index on user_id.
type Cart struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID             primitive.ObjectID `bson:"user_id" json:"userId"`
	Items              []CartItem         `bson:"items" json:"items"`
	TotalPrice         float64            `bson:"total_price" json:"totalPrice"`
	TotalAfterDiscount *float64           `bson:"total_after_discount,omitempty" json:"totalAfterDiscount,omitempty"`
	Version            int64              `bson:"version" json:"-"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartItem carries the unit price snapshotted at add time. Catalog price
// changes never touch an open cart.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}
