package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mobistore/models"
)

// Users is the account repository.
type Users struct {
	col *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{col: db.Collection("users")}
}

// Insert stores a new user. Returns ErrDuplicate when the email is taken.
func (s *Users) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByIDs returns existing users keyed by id; missing ids are absent.
func (s *Users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		out[user.ID] = user
	}
	return out, cursor.Err()
}
