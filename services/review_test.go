package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
)

type fakeReviews struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (f *fakeReviews) Insert(_ context.Context, review *models.Review) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	stored := *review
	stored.ID = primitive.NewObjectID()
	f.reviews = append(f.reviews, stored)
	return stored.ID, nil
}

func (f *fakeReviews) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestReviewService(reviews ReviewStore, catalog Catalog) *ReviewService {
	return NewReviewService(reviews, catalog, zap.NewNop())
}

func TestReviewService_Add(t *testing.T) {
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestReviewService(&fakeReviews{}, newFakeCatalog(phone))
	userID := primitive.NewObjectID()

	review, err := svc.Add(context.Background(), userID, phone.ID, 5, "  great phone  ")
	require.NoError(t, err)
	assert.False(t, review.ID.IsZero())
	assert.Equal(t, "great phone", review.Comment)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewService_AddValidation(t *testing.T) {
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestReviewService(&fakeReviews{}, newFakeCatalog(phone))
	userID := primitive.NewObjectID()

	tests := []struct {
		name    string
		rating  int
		comment string
		kind    errs.Kind
	}{
		{name: "rating too low", rating: 0, comment: "ok", kind: errs.KindValidation},
		{name: "rating too high", rating: 6, comment: "ok", kind: errs.KindValidation},
		{name: "blank comment", rating: 3, comment: "   ", kind: errs.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), userID, phone.ID, tt.rating, tt.comment)
			assert.True(t, errs.IsKind(err, tt.kind))
		})
	}
}

func TestReviewService_AddUnknownProduct(t *testing.T) {
	svc := newTestReviewService(&fakeReviews{}, newFakeCatalog())

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 4, "nice")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestReviewService_AddSecondReviewConflicts(t *testing.T) {
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestReviewService(&fakeReviews{}, newFakeCatalog(phone))
	userID := primitive.NewObjectID()

	_, err := svc.Add(context.Background(), userID, phone.ID, 4, "nice")
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), userID, phone.ID, 2, "changed my mind")
	assert.True(t, errs.IsKind(err, errs.KindConflict))
}

func TestReviewService_ListByProduct(t *testing.T) {
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	reviews := &fakeReviews{}
	svc := newTestReviewService(reviews, newFakeCatalog(phone))

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), phone.ID, 5, "great")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), primitive.NewObjectID(), phone.ID, 3, "decent")
	require.NoError(t, err)

	list, err := svc.ListByProduct(context.Background(), phone.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	other, err := svc.ListByProduct(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, other)
}
