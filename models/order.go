package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is set externally (admin or payment callback); the service does
// not drive transitions itself.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DefaultPaymentMethod is used when the caller does not name one.
const DefaultPaymentMethod = "M-Pesa"

// OrderItem is a frozen order line. PriceAtPurchase is snapshotted at
// creation time and never follows later catalog price changes.
type OrderItem struct {
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	PriceAtPurchase int64              `bson:"priceAtPurchase" json:"priceAtPurchase"`
	Name            string             `bson:"name" json:"name"`
}

// Order is an immutable purchase record. Only Status may change after
// creation.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalAmount   int64              `bson:"totalAmount" json:"totalAmount"`
	Status        OrderStatus        `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	OrderDate     time.Time          `bson:"orderDate" json:"orderDate"`
}

// ResolvedOrderItem joins an order line against the current catalog for the
// admin listing. Product is nil when the referenced product no longer exists.
type ResolvedOrderItem struct {
	Product         *ProductSummary `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase int64           `json:"priceAtPurchase"`
}

// ProductSummary is the subset of product fields shown on order listings.
type ProductSummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Img   string             `json:"img"`
	Price int64              `json:"price"`
}

// UserSummary is the subset of user fields shown on the admin order listing.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

// ResolvedOrder is an order with user and product references resolved.
type ResolvedOrder struct {
	ID            primitive.ObjectID  `json:"_id"`
	User          *UserSummary        `json:"user"`
	Items         []ResolvedOrderItem `json:"items"`
	TotalAmount   int64               `json:"totalAmount"`
	Status        OrderStatus         `json:"status"`
	PaymentMethod string              `json:"paymentMethod"`
	OrderDate     time.Time           `json:"orderDate"`
}
