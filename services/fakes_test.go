package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mobistore/models"
	"mobistore/store"
)

// fakeCarts mirrors the atomicity of store.Carts: every method mutates the
// document under one lock, and AddItem reports ErrDuplicate when the product
// line already exists, like the guarded upsert does.
type fakeCarts struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyCart(cart), nil
}

func (f *fakeCarts) Replace(_ context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		cart = &models.Cart{ID: primitive.NewObjectID(), UserID: userID}
		f.carts[userID] = cart
	}
	cart.Products = append([]models.CartItem(nil), items...)
	if cart.Products == nil {
		cart.Products = []models.CartItem{}
	}
	cart.UpdatedAt = time.Now().UTC()
	return copyCart(cart), nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, userID, productID primitive.ObjectID, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return false, nil
	}
	for i := range cart.Products {
		if cart.Products[i].ProductID == productID {
			cart.Products[i].Quantity = quantity
			cart.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCarts) AddItem(_ context.Context, userID primitive.ObjectID, item models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		f.carts[userID] = &models.Cart{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Products:  []models.CartItem{item},
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	}
	for _, p := range cart.Products {
		if p.ProductID == item.ProductID {
			return store.ErrDuplicate
		}
	}
	cart.Products = append(cart.Products, item)
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, userID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil
	}
	kept := cart.Products[:0]
	for _, p := range cart.Products {
		if p.ProductID != productID {
			kept = append(kept, p)
		}
	}
	cart.Products = kept
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

func copyCart(cart *models.Cart) *models.Cart {
	c := *cart
	c.Products = append([]models.CartItem(nil), cart.Products...)
	if c.Products == nil {
		c.Products = []models.CartItem{}
	}
	return &c
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCatalog) delete(id primitive.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (f *fakeOrders) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *order
	stored.ID = primitive.NewObjectID()
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders = append(f.orders, stored)
	return stored.ID, nil
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortOrdersDesc(out)
	return out, nil
}

func (f *fakeOrders) FindAll(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.Order(nil), f.orders...)
	if out == nil {
		out = []models.Order{}
	}
	sortOrdersDesc(out)
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func sortOrdersDesc(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
