package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the fixed set of product categories the catalog accepts.
type Category string

const (
	CategorySmartphone  Category = "Smartphone"
	CategorySmartTV     Category = "Smart TV"
	CategoryLaptop      Category = "Laptop"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"
)

// Valid reports whether c is one of the allowed categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySmartphone, CategorySmartTV, CategoryLaptop, CategoryAccessories, CategoryOther:
		return true
	}
	return false
}

// Product is a sellable catalog item. Prices are stored as integers in the
// smallest currency unit.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Price     int64              `bson:"price" json:"price"`
	OldPrice  *int64             `bson:"oldPrice,omitempty" json:"oldPrice,omitempty"`
	Category  Category           `bson:"category" json:"category"`
	Img       string             `bson:"img" json:"img"`
	Details   []string           `bson:"details" json:"details"`
	InStock   bool               `bson:"inStock" json:"inStock"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
