package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a named percentage discount, valid while now < Expire.
type Coupon struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Discount float64            `bson:"discount" json:"discount"`
	Expire   time.Time          `bson:"expire" json:"expire"`
}

func (c Coupon) Valid(now time.Time) bool {
	return now.Before(c.Expire)
}
