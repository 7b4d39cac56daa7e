package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mobistore/models"
)

// Orders is the order repository. Orders are written once; only the status
// field is ever updated afterwards.
type Orders struct {
	col *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{col: db.Collection("orders")}
}

func (s *Orders) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *Orders) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Orders) FindAll(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
