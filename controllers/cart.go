package controllers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/middleware"
	"mobistore/services"
	"mobistore/utils"
)

// CartController exposes the cart reconciliation endpoints.
type CartController struct {
	carts *services.CartService
	log   *zap.Logger
}

func NewCartController(carts *services.CartService, log *zap.Logger) *CartController {
	return &CartController{carts: carts, log: log}
}

// cartItemRequest accepts both the storefront's "_id" shape and the explicit
// "productId" shape; normalization to one canonical form happens here, before
// the service sees the input.
type cartItemRequest struct {
	ID        string `json:"_id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (r cartItemRequest) normalize() (services.CartItemInput, error) {
	ref := r.ID
	if ref == "" {
		ref = r.ProductID
	}
	if ref == "" {
		return services.CartItemInput{}, errs.Validation("productId required")
	}
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return services.CartItemInput{}, errs.Validation("invalid product id")
	}
	return services.CartItemInput{ProductID: id, Quantity: r.Quantity}, nil
}

// GetCart returns the caller's resolved cart.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	cart, err := cc.carts.Get(r.Context(), userID)
	if err != nil {
		cc.log.Error("get cart failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cart)
}

// SaveCart replaces the caller's entire cart with the submitted list.
func (cc *CartController) SaveCart(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	var body struct {
		Products []cartItemRequest `json:"products"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}

	items := make([]services.CartItemInput, 0, len(body.Products))
	for _, p := range body.Products {
		item, err := p.normalize()
		if err != nil {
			utils.Error(w, err)
			return
		}
		items = append(items, item)
	}

	cart, err := cc.carts.Replace(r.Context(), userID, items)
	if err != nil {
		cc.log.Error("save cart failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cart)
}

// UpdateItem upserts a single cart line: quantity > 0 sets it, quantity <= 0
// removes it.
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	var body cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	item, err := body.normalize()
	if err != nil {
		utils.Error(w, err)
		return
	}

	cart, err := cc.carts.UpsertItem(r.Context(), userID, item.ProductID, body.Quantity)
	if err != nil {
		cc.log.Error("update cart item failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cart)
}

// ClearCart empties the caller's cart.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := cc.carts.Clear(r.Context(), userID); err != nil {
		cc.log.Error("clear cart failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.Msg(w, http.StatusOK, "Cart cleared")
}
