package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mobistore/models"
)

// Products is the catalog repository.
type Products struct {
	col *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{col: db.Collection("products")}
}

func (s *Products) Insert(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *Products) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Products) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByIDs returns the products that still exist, keyed by id. Missing ids
// are simply absent from the map; resolution of dangling references is the
// caller's concern.
func (s *Products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cursor.Err()
}

func (s *Products) Update(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":     p.Name,
		"price":    p.Price,
		"oldPrice": p.OldPrice,
		"category": p.Category,
		"img":      p.Img,
		"details":  p.Details,
		"inStock":  p.InStock,
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Products) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
