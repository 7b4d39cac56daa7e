package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/middleware"
	"mobistore/models"
	"mobistore/services"
	"mobistore/utils"
)

// OrderController exposes the order materialization endpoints.
type OrderController struct {
	orders *services.OrderService
	log    *zap.Logger
}

func NewOrderController(orders *services.OrderService, log *zap.Logger) *OrderController {
	return &OrderController{orders: orders, log: log}
}

// orderItemRequest accepts the storefront's loose item shape (_id or
// productId, price or priceAtPurchase, name or title) and normalizes it.
type orderItemRequest struct {
	ID              string `json:"_id"`
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	Price           *int64 `json:"price"`
	PriceAtPurchase *int64 `json:"priceAtPurchase"`
	Name            string `json:"name"`
	Title           string `json:"title"`
}

func (r orderItemRequest) normalize() (services.OrderItemInput, error) {
	ref := r.ID
	if ref == "" {
		ref = r.ProductID
	}
	if ref == "" {
		return services.OrderItemInput{}, errs.Validation("productId required")
	}
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return services.OrderItemInput{}, errs.Validation("invalid product id")
	}

	price := r.Price
	if price == nil {
		price = r.PriceAtPurchase
	}
	name := r.Name
	if name == "" {
		name = r.Title
	}
	return services.OrderItemInput{ProductID: id, Quantity: r.Quantity, Price: price, Name: name}, nil
}

// CreateOrder materializes an order from the client-asserted item list. It
// deliberately does not read or clear the caller's server-side cart: the
// storefront clears it with DELETE /api/cart/clear after a successful order.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	var body struct {
		Items         []orderItemRequest `json:"items"`
		TotalAmount   *int64             `json:"totalAmount"`
		PaymentMethod string             `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	if len(body.Items) == 0 {
		utils.Error(w, errs.Validation("no items provided"))
		return
	}

	input := services.CreateOrderInput{
		TotalAmount:   body.TotalAmount,
		PaymentMethod: body.PaymentMethod,
	}
	for _, it := range body.Items {
		item, err := it.normalize()
		if err != nil {
			utils.Error(w, err)
			return
		}
		input.Items = append(input.Items, item)
	}

	order, err := oc.orders.Create(r.Context(), userID, input)
	if err != nil {
		oc.log.Error("create order failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

// MyOrders returns the caller's order history, newest first.
func (oc *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	orders, err := oc.orders.ListMine(r.Context(), userID)
	if err != nil {
		oc.log.Error("list orders failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

// AllOrders returns every order with user and product references resolved.
// Admin only.
func (oc *OrderController) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.orders.ListAll(r.Context())
	if err != nil {
		oc.log.Error("list all orders failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

// UpdateStatus writes an externally-driven order status change. Admin only.
func (oc *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, errs.Validation("invalid order id"))
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}

	if err := oc.orders.UpdateStatus(r.Context(), id, body.Status); err != nil {
		oc.log.Error("update order status failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.Msg(w, http.StatusOK, "order status updated")
}
