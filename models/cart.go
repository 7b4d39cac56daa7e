package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a product reference with a quantity. A cart never holds two
// items for the same product.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is a user's staging area before checkout. Exactly one cart exists per
// user, enforced by a unique index on userId.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Products  []CartItem         `bson:"products" json:"products"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedCartItem is a cart line joined against the current catalog. When the
// referenced product has been deleted, Name is "Unknown" and Price is 0.
type ResolvedCartItem struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Price    int64              `json:"price"`
	Img      string             `json:"img"`
	Quantity int                `json:"quantity"`
}

// ResolvedCart is the cart view returned to clients.
type ResolvedCart struct {
	Products  []ResolvedCartItem `json:"products"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}
