package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mobistore/models"
)

// Reviews is the review repository. The unique (productId, userId) index
// keeps a user to one review per product even under concurrent submits.
type Reviews struct {
	col *mongo.Collection
}

func NewReviews(db *mongo.Database) *Reviews {
	return &Reviews{col: db.Collection("reviews")}
}

// Insert stores a review. Returns ErrDuplicate when the user already
// reviewed the product.
func (s *Reviews) Insert(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *Reviews) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
