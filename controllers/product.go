package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
	"mobistore/utils"
)

// ProductController exposes the catalog endpoints.
type ProductController struct {
	products *store.Products
	log      *zap.Logger
}

func NewProductController(products *store.Products, log *zap.Logger) *ProductController {
	return &ProductController{products: products, log: log}
}

type productRequest struct {
	Name     string          `json:"name"`
	Price    int64           `json:"price"`
	OldPrice *int64          `json:"oldPrice"`
	Category models.Category `json:"category"`
	Img      string          `json:"img"`
	Details  []string        `json:"details"`
	InStock  *bool           `json:"inStock"`
}

func (r productRequest) validate() error {
	if r.Name == "" || r.Img == "" {
		return errs.Validation("name and img are required")
	}
	if r.Price <= 0 {
		return errs.Validation("price must be greater than zero")
	}
	if !r.Category.Valid() {
		return errs.Validation("invalid category")
	}
	return nil
}

func (r productRequest) toModel() models.Product {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	details := r.Details
	if details == nil {
		details = []string{}
	}
	return models.Product{
		Name:     r.Name,
		Price:    r.Price,
		OldPrice: r.OldPrice,
		Category: r.Category,
		Img:      r.Img,
		Details:  details,
		InStock:  inStock,
	}
}

// GetProducts returns the full catalog. Public.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.products.FindAll(r.Context())
	if err != nil {
		pc.log.Error("list products failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to load products", err))
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

// GetProductByID returns one product. Public.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, errs.Validation("invalid product id"))
		return
	}

	product, err := pc.products.FindByID(r.Context(), id)
	if err == store.ErrNotFound {
		utils.Error(w, errs.NotFound("product not found"))
		return
	}
	if err != nil {
		pc.log.Error("get product failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to load product", err))
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// CreateProduct adds a catalog item. Admin only.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	if err := body.validate(); err != nil {
		utils.Error(w, err)
		return
	}

	product := body.toModel()
	product.CreatedAt = time.Now().UTC()

	id, err := pc.products.Insert(r.Context(), &product)
	if err != nil {
		pc.log.Error("create product failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to add product", err))
		return
	}
	product.ID = id
	utils.JSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces a catalog item's fields. Admin only.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, errs.Validation("invalid product id"))
		return
	}

	var body productRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	if err := body.validate(); err != nil {
		utils.Error(w, err)
		return
	}

	product := body.toModel()
	err = pc.products.Update(r.Context(), id, &product)
	if err == store.ErrNotFound {
		utils.Error(w, errs.NotFound("product not found"))
		return
	}
	if err != nil {
		pc.log.Error("update product failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to update product", err))
		return
	}
	product.ID = id
	utils.JSON(w, http.StatusOK, product)
}

// DeleteProduct hard-deletes a catalog item. Admin only. Carts and orders
// referencing it keep their entries and resolve to degraded views.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, errs.Validation("invalid product id"))
		return
	}

	err = pc.products.Delete(r.Context(), id)
	if err == store.ErrNotFound {
		utils.Error(w, errs.NotFound("product not found"))
		return
	}
	if err != nil {
		pc.log.Error("delete product failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to delete product", err))
		return
	}
	utils.Msg(w, http.StatusOK, "Product deleted successfully")
}
