package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/middleware"
	"mobistore/services"
	"mobistore/utils"
)

// ReviewController exposes the product review endpoints.
type ReviewController struct {
	reviews *services.ReviewService
	log     *zap.Logger
}

func NewReviewController(reviews *services.ReviewService, log *zap.Logger) *ReviewController {
	return &ReviewController{reviews: reviews, log: log}
}

// Add stores the caller's review of a product.
func (rc *ReviewController) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	var body struct {
		ID        string `json:"_id"`
		ProductID string `json:"productId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}

	ref := body.ProductID
	if ref == "" {
		ref = body.ID
	}
	productID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		utils.Error(w, errs.Validation("invalid product id"))
		return
	}

	review, err := rc.reviews.Add(r.Context(), userID, productID, body.Rating, body.Comment)
	if err != nil {
		rc.log.Error("add review failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, review)
}

// ListByProduct returns a product's reviews. Public.
func (rc *ReviewController) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		utils.Error(w, errs.Validation("invalid product id"))
		return
	}

	reviews, err := rc.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		rc.log.Error("list reviews failed", zap.Error(err))
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, reviews)
}
