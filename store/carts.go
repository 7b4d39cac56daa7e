package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mobistore/models"
)

// Carts is the cart repository. Every mutation is a single atomic update so
// two concurrent requests for the same user cannot lose each other's writes;
// the unique index on userId arbitrates concurrent lazy creation.
type Carts struct {
	col *mongo.Collection
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{col: db.Collection("carts")}
}

func (s *Carts) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// Replace overwrites the full product list, creating the cart if the user has
// none yet. Returns the stored cart.
func (s *Carts) Replace(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	update := bson.M{"$set": bson.M{"products": items, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cart models.Cart
	err := s.col.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&cart)
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// SetQuantity updates the quantity of an item already in the cart using the
// positional operator. Returns false when the cart has no such item.
func (s *Carts) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (bool, error) {
	filter := bson.M{"userId": userID, "products.productId": productID}
	update := bson.M{"$set": bson.M{
		"products.$.quantity": quantity,
		"updatedAt":           time.Now().UTC(),
	}}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translate(err)
	}
	return res.MatchedCount > 0, nil
}

// AddItem appends an item the cart does not yet hold. The filter guards
// against duplicate product lines; the upsert creates the cart lazily. When
// the cart exists and already contains the product, the upsert collides with
// the userId unique index and ErrDuplicate is returned — the caller then
// retries SetQuantity.
func (s *Carts) AddItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) error {
	filter := bson.M{
		"userId":             userID,
		"products.productId": bson.M{"$ne": item.ProductID},
	}
	update := bson.M{
		"$push": bson.M{"products": item},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return translate(err)
}

// RemoveItem pulls the product line from the cart. A missing cart or missing
// item is not an error.
func (s *Carts) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$pull": bson.M{"products": bson.M{"productId": productID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return translate(err)
}
