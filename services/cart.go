// Package services holds the business logic between the HTTP handlers and
// the Mongo repositories: cart reconciliation, order materialization and
// review submission.
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
)

// CartStore is the slice of the cart repository the reconciliation service
// needs. Mutations must be atomic at the store layer (see store.Carts).
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Replace(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (bool, error)
	AddItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) error
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error
}

// Catalog resolves product references for cart and order views.
type Catalog interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// CartItemInput is a normalized cart line from the API boundary.
type CartItemInput struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// CartService merges client cart mutations with the persisted cart and
// resolves product references against the catalog.
type CartService struct {
	carts   CartStore
	catalog Catalog
	log     *zap.Logger
}

func NewCartService(carts CartStore, catalog Catalog, log *zap.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, log: log}
}

// Get returns the user's resolved cart. A user without a cart gets an empty
// product list, not an error.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.ResolvedCart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.ResolvedCart{Products: []models.ResolvedCartItem{}}, nil
	}
	if err != nil {
		return nil, errs.Internal("failed to load cart", err)
	}
	return s.resolve(ctx, cart)
}

// Replace overwrites the stored product list with the submitted one — a full
// replace, never a merge. Quantities below 1 default to 1, duplicate product
// references collapse into one line (last quantity wins).
func (s *CartService) Replace(ctx context.Context, userID primitive.ObjectID, items []CartItemInput) (*models.ResolvedCart, error) {
	mapped := make([]models.CartItem, 0, len(items))
	index := make(map[primitive.ObjectID]int, len(items))
	for _, it := range items {
		quantity := it.Quantity
		if quantity < 1 {
			quantity = 1
		}
		if i, ok := index[it.ProductID]; ok {
			mapped[i].Quantity = quantity
			continue
		}
		index[it.ProductID] = len(mapped)
		mapped = append(mapped, models.CartItem{ProductID: it.ProductID, Quantity: quantity})
	}

	cart, err := s.replaceWithRetry(ctx, userID, mapped)
	if err != nil {
		return nil, errs.Internal("failed to save cart", err)
	}
	return s.resolve(ctx, cart)
}

// UpsertItem applies a single-item mutation: quantity > 0 updates in place or
// appends, quantity <= 0 removes the item (a no-op when it is absent). The
// returned cart is the reconciled view.
func (s *CartService) UpsertItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.ResolvedCart, error) {
	if quantity <= 0 {
		if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
			return nil, errs.Internal("failed to update cart item", err)
		}
		return s.Get(ctx, userID)
	}

	matched, err := s.carts.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, errs.Internal("failed to update cart item", err)
	}
	if !matched {
		err = s.carts.AddItem(ctx, userID, models.CartItem{ProductID: productID, Quantity: quantity})
		if errors.Is(err, store.ErrDuplicate) {
			// The item landed concurrently; fall back to an in-place update.
			_, err = s.carts.SetQuantity(ctx, userID, productID, quantity)
		}
		if err != nil {
			return nil, errs.Internal("failed to update cart item", err)
		}
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart, creating an empty one when none exists yet.
// Idempotent.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.replaceWithRetry(ctx, userID, nil); err != nil {
		return errs.Internal("failed to clear cart", err)
	}
	return nil
}

// replaceWithRetry absorbs the upsert race: two concurrent first-time writes
// for one user contend on the unique userId index, and the loser succeeds on
// a retry against the now-existing document.
func (s *CartService) replaceWithRetry(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	cart, err := s.carts.Replace(ctx, userID, items)
	if errors.Is(err, store.ErrDuplicate) {
		cart, err = s.carts.Replace(ctx, userID, items)
	}
	return cart, err
}

func (s *CartService) resolve(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Products))
	for _, item := range cart.Products {
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Internal("failed to load cart", err)
	}

	resolved := make([]models.ResolvedCartItem, 0, len(cart.Products))
	for _, item := range cart.Products {
		line := models.ResolvedCartItem{
			ID:       item.ProductID,
			Name:     "Unknown",
			Quantity: item.Quantity,
		}
		if p, ok := products[item.ProductID]; ok {
			line.Name = p.Name
			line.Price = p.Price
			line.Img = p.Img
		} else {
			s.log.Debug("cart references deleted product",
				zap.String("product_id", item.ProductID.Hex()))
		}
		resolved = append(resolved, line)
	}

	return &models.ResolvedCart{Products: resolved, UpdatedAt: cart.UpdatedAt}, nil
}
