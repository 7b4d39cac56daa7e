package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
)

// ReviewStore is the slice of the review repository the service needs.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
}

// ReviewService validates and stores product reviews.
type ReviewService struct {
	reviews ReviewStore
	catalog Catalog
	log     *zap.Logger
}

func NewReviewService(reviews ReviewStore, catalog Catalog, log *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, catalog: catalog, log: log}
}

// Add stores a review. The unique (productId, userId) index backs the
// one-review-per-user-per-product rule under concurrent submits.
func (s *ReviewService) Add(ctx context.Context, userID, productID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errs.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, errs.Validation("comment is required")
	}

	_, err := s.catalog.FindByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("product not found")
	}
	if err != nil {
		return nil, errs.Internal("failed to add review", err)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.reviews.Insert(ctx, review)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, errs.Conflict("you have already reviewed this product")
	}
	if err != nil {
		return nil, errs.Internal("failed to add review", err)
	}
	review.ID = id
	return review, nil
}

// ListByProduct returns a product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	reviews, err := s.reviews.FindByProduct(ctx, productID)
	if err != nil {
		return nil, errs.Internal("failed to load reviews", err)
	}
	return reviews, nil
}
