package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type ShippingAddress struct {
	Details    string `bson:"details,omitempty" json:"details,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
}

// Order is the immutable record of a checkout. Items are a snapshot copy
// of the cart at creation time; orders are never deleted.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"user_id" json:"userId"`
	Items            []CartItem         `bson:"items" json:"items"`
	TaxPrice         float64            `bson:"tax_price" json:"taxPrice"`
	ShippingPrice    float64            `bson:"shipping_price" json:"shippingPrice"`
	ShippingAddress  ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	TotalOrderPrice  float64            `bson:"total_order_price" json:"totalOrderPrice"`
	PaymentMethod    PaymentMethod      `bson:"payment_method_type" json:"paymentMethodType"`
	PaymentSessionID string             `bson:"payment_session_id,omitempty" json:"-"`
	IsPaid           bool               `bson:"is_paid" json:"isPaid"`
	PaidAt           *time.Time         `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsDelivered      bool               `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt      *time.Time         `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}
