package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
)

// OrderStore is the slice of the order repository the materializer needs.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// UserDirectory resolves user references for the admin order listing and
// confirmation emails.
type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// Mailer sends the order confirmation. Failures are logged, never surfaced.
type Mailer interface {
	SendOrderConfirmation(toEmail string, order models.Order) error
}

// OrderItemInput is a normalized order line from the API boundary. Price is
// nil when the caller did not assert one.
type OrderItemInput struct {
	ProductID primitive.ObjectID
	Quantity  int
	Price     *int64
	Name      string
}

// CreateOrderInput carries the client-asserted checkout payload.
type CreateOrderInput struct {
	Items         []OrderItemInput
	TotalAmount   *int64
	PaymentMethod string
}

// OrderService converts finalized item lists into immutable orders with
// price-at-purchase snapshots. It never reads or clears the user's cart:
// clearing is the caller's responsibility via the cart endpoints.
type OrderService struct {
	orders  OrderStore
	catalog Catalog
	users   UserDirectory
	mailer  Mailer
	log     *zap.Logger
}

func NewOrderService(orders OrderStore, catalog Catalog, users UserDirectory, mailer Mailer, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, users: users, mailer: mailer, log: log}
}

// Create materializes an order. Each line's priceAtPurchase is the asserted
// price when present, the current catalog price otherwise, and 0 when the
// product is gone. The total is the caller's when supplied, else the sum of
// the snapshotted lines.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, errs.Validation("no items provided")
	}

	ids := make([]primitive.ObjectID, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Internal("failed to create order", err)
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var computedTotal int64
	for _, it := range in.Items {
		quantity := it.Quantity
		if quantity < 1 {
			quantity = 1
		}

		line := models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  quantity,
			Name:      it.Name,
		}
		product, known := products[it.ProductID]
		switch {
		case it.Price != nil:
			line.PriceAtPurchase = *it.Price
		case known:
			line.PriceAtPurchase = product.Price
		}
		if line.Name == "" && known {
			line.Name = product.Name
		}

		computedTotal += line.PriceAtPurchase * int64(quantity)
		items = append(items, line)
	}

	total := computedTotal
	if in.TotalAmount != nil && *in.TotalAmount > 0 {
		total = *in.TotalAmount
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}

	order := &models.Order{
		UserID:        userID,
		Items:         items,
		TotalAmount:   total,
		Status:        models.StatusPending,
		PaymentMethod: paymentMethod,
		OrderDate:     time.Now().UTC(),
	}

	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, errs.Internal("failed to create order", err)
	}
	order.ID = id

	s.log.Info("order created",
		zap.String("order_id", id.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Int64("total_amount", total))

	s.sendConfirmation(ctx, order)

	return order, nil
}

// ListMine returns the user's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("failed to load orders", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first, with user and product
// references resolved for display. Dangling product references become nil
// product summaries; the listing itself never fails over them.
func (s *OrderService) ListAll(ctx context.Context) ([]models.ResolvedOrder, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, errs.Internal("failed to load orders", err)
	}

	var userIDs, productIDs []primitive.ObjectID
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, errs.Internal("failed to load orders", err)
	}
	products, err := s.catalog.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, errs.Internal("failed to load orders", err)
	}

	resolved := make([]models.ResolvedOrder, 0, len(orders))
	for _, o := range orders {
		ro := models.ResolvedOrder{
			ID:            o.ID,
			TotalAmount:   o.TotalAmount,
			Status:        o.Status,
			PaymentMethod: o.PaymentMethod,
			OrderDate:     o.OrderDate,
		}
		if u, ok := users[o.UserID]; ok {
			ro.User = &models.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
		}
		ro.Items = make([]models.ResolvedOrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			line := models.ResolvedOrderItem{
				Quantity:        it.Quantity,
				PriceAtPurchase: it.PriceAtPurchase,
			}
			if p, ok := products[it.ProductID]; ok {
				line.Product = &models.ProductSummary{ID: p.ID, Name: p.Name, Img: p.Img, Price: p.Price}
			}
			ro.Items = append(ro.Items, line)
		}
		resolved = append(resolved, ro)
	}

	return resolved, nil
}

// UpdateStatus writes an externally-driven status change. Only the known
// statuses are accepted; no transition rules are applied here.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	if !status.Valid() {
		return errs.Validation("invalid order status")
	}
	err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return errs.NotFound("order not found")
	}
	if err != nil {
		return errs.Internal("failed to update order status", err)
	}
	return nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.log.Warn("could not load user for order confirmation",
			zap.String("order_id", order.ID.Hex()), zap.Error(err))
		return
	}

	snapshot := *order
	go func() {
		if err := s.mailer.SendOrderConfirmation(user.Email, snapshot); err != nil {
			s.log.Warn("failed to send order confirmation",
				zap.String("order_id", snapshot.ID.Hex()), zap.Error(err))
		}
	}()
}
