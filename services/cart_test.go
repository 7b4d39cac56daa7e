package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/models"
)

func newTestCartService(carts CartStore, catalog Catalog) *CartService {
	return NewCartService(carts, catalog, zap.NewNop())
}

func TestCartService_GetWithoutCartReturnsEmptyList(t *testing.T) {
	svc := newTestCartService(newFakeCarts(), newFakeCatalog())

	cart, err := svc.Get(context.Background(), primitive.NewObjectID())

	require.NoError(t, err)
	assert.Empty(t, cart.Products)
	assert.NotNil(t, cart.Products)
}

func TestCartService_UpsertThenGetShowsSingleEntry(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000, Img: "iphone.jpg"}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone))

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 3)
	require.NoError(t, err)

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, phone.ID, cart.Products[0].ID)
	assert.Equal(t, "iPhone 15 Pro", cart.Products[0].Name)
	assert.Equal(t, int64(145000), cart.Products[0].Price)
	assert.Equal(t, 3, cart.Products[0].Quantity)
}

func TestCartService_UpsertExistingItemUpdatesInPlace(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone))

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 1)
	require.NoError(t, err)
	cart, err := svc.UpsertItem(context.Background(), userID, phone.ID, 5)
	require.NoError(t, err)

	require.Len(t, cart.Products, 1)
	assert.Equal(t, 5, cart.Products[0].Quantity)
}

func TestCartService_UpsertZeroQuantityOnAbsentItemIsNoop(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone))

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpsertItem(context.Background(), userID, primitive.NewObjectID(), 0)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, 2, cart.Products[0].Quantity)
}

func TestCartService_UpsertZeroQuantityRemovesItem(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	tv := models.Product{ID: primitive.NewObjectID(), Name: "Samsung Smart TV", Price: 85000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone, tv))

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 2)
	require.NoError(t, err)
	_, err = svc.UpsertItem(context.Background(), userID, tv.ID, 1)
	require.NoError(t, err)

	cart, err := svc.UpsertItem(context.Background(), userID, phone.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, tv.ID, cart.Products[0].ID)
}

func TestCartService_ReplaceIsFullReplaceNotMerge(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	tv := models.Product{ID: primitive.NewObjectID(), Name: "Samsung Smart TV", Price: 85000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone, tv))

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 4)
	require.NoError(t, err)

	cart, err := svc.Replace(context.Background(), userID, []CartItemInput{
		{ProductID: tv.ID, Quantity: 2},
	})
	require.NoError(t, err)

	require.Len(t, cart.Products, 1)
	assert.Equal(t, tv.ID, cart.Products[0].ID)
	assert.Equal(t, 2, cart.Products[0].Quantity)
}

func TestCartService_ReplaceDefaultsQuantityAndCollapsesDuplicates(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone))

	cart, err := svc.Replace(context.Background(), userID, []CartItemInput{
		{ProductID: phone.ID},              // omitted quantity defaults to 1
		{ProductID: phone.ID, Quantity: 3}, // duplicate ref, last quantity wins
	})
	require.NoError(t, err)

	require.Len(t, cart.Products, 1)
	assert.Equal(t, 3, cart.Products[0].Quantity)
}

func TestCartService_ClearIsIdempotent(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone))

	// Clear a cart that was never created.
	require.NoError(t, svc.Clear(context.Background(), userID))
	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Products)

	// Clear a cart with contents.
	_, err = svc.UpsertItem(context.Background(), userID, phone.ID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), userID))

	cart, err = svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Products)
}

func TestCartService_DeletedProductResolvesToUnknown(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000, Img: "iphone.jpg"}
	catalog := newFakeCatalog(phone)
	svc := newTestCartService(newFakeCarts(), catalog)

	_, err := svc.UpsertItem(context.Background(), userID, phone.ID, 2)
	require.NoError(t, err)

	catalog.delete(phone.ID)

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, "Unknown", cart.Products[0].Name)
	assert.Equal(t, int64(0), cart.Products[0].Price)
	assert.Equal(t, "", cart.Products[0].Img)
	assert.Equal(t, 2, cart.Products[0].Quantity)
}

func TestCartService_ConcurrentUpsertsOnDisjointProductsBothPersist(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	tv := models.Product{ID: primitive.NewObjectID(), Name: "Samsung Smart TV", Price: 85000}
	svc := newTestCartService(newFakeCarts(), newFakeCatalog(phone, tv))

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	for _, p := range []models.Product{phone, tv} {
		wg.Add(1)
		go func(productID primitive.ObjectID) {
			defer wg.Done()
			_, err := svc.UpsertItem(context.Background(), userID, productID, 1)
			errc <- err
		}(p.ID)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Products, 2)
	seen := map[primitive.ObjectID]int{}
	for _, p := range cart.Products {
		seen[p.ID] = p.Quantity
	}
	assert.Equal(t, 1, seen[phone.ID])
	assert.Equal(t, 1, seen[tv.ID])
}

// stallingCarts forces the append path to collide, exercising the
// duplicate-key fallback: SetQuantity reports no match once even though the
// item exists, as happens when a concurrent writer lands between the two
// store calls.
type stallingCarts struct {
	*fakeCarts
	missed bool
}

func (s *stallingCarts) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (bool, error) {
	if !s.missed {
		s.missed = true
		return false, nil
	}
	return s.fakeCarts.SetQuantity(ctx, userID, productID, quantity)
}

func TestCartService_UpsertRecoversFromAppendCollision(t *testing.T) {
	userID := primitive.NewObjectID()
	phone := models.Product{ID: primitive.NewObjectID(), Name: "iPhone 15 Pro", Price: 145000}
	carts := &stallingCarts{fakeCarts: newFakeCarts()}
	svc := newTestCartService(carts, newFakeCatalog(phone))

	// The item is already present, but the first SetQuantity misses it.
	require.NoError(t, carts.fakeCarts.AddItem(context.Background(), userID, models.CartItem{ProductID: phone.ID, Quantity: 1}))

	cart, err := svc.UpsertItem(context.Background(), userID, phone.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)
	assert.Equal(t, 7, cart.Products[0].Quantity)
}
