package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"mobistore/controllers"
	"mobistore/middleware"
)

// Register wires all routes under /api. authMW is the bearer-token
// middleware; admin routes additionally pass through middleware.AdminOnly.
func Register(
	router *mux.Router,
	authMW func(http.Handler) http.Handler,
	userC *controllers.UserController,
	productC *controllers.ProductController,
	cartC *controllers.CartController,
	orderC *controllers.OrderController,
	reviewC *controllers.ReviewController,
	paymentC *controllers.PaymentController,
) {
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes (public)
	api.HandleFunc("/auth/register", userC.Register).Methods("POST")
	api.HandleFunc("/auth/login", userC.Login).Methods("POST")
	api.HandleFunc("/auth/google-login", userC.GoogleLogin).Methods("POST")

	// Catalog reads (public)
	api.HandleFunc("/products", productC.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", productC.GetProductByID).Methods("GET")

	// Catalog mutation (admin)
	adminProducts := api.PathPrefix("/products").Subrouter()
	adminProducts.Use(authMW, middleware.AdminOnly)
	adminProducts.HandleFunc("/add", productC.CreateProduct).Methods("POST")
	adminProducts.HandleFunc("/{id}", productC.UpdateProduct).Methods("PUT")
	adminProducts.HandleFunc("/{id}", productC.DeleteProduct).Methods("DELETE")

	// Cart routes (user)
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(authMW)
	cart.HandleFunc("", cartC.GetCart).Methods("GET")
	cart.HandleFunc("", cartC.SaveCart).Methods("POST")
	cart.HandleFunc("/item", cartC.UpdateItem).Methods("PUT")
	cart.HandleFunc("/clear", cartC.ClearCart).Methods("DELETE")

	// Order routes (user, admin where marked)
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(authMW)
	orders.HandleFunc("/create", orderC.CreateOrder).Methods("POST")
	orders.HandleFunc("/my-orders", orderC.MyOrders).Methods("GET")
	orders.Handle("/all", middleware.AdminOnly(http.HandlerFunc(orderC.AllOrders))).Methods("GET")
	orders.Handle("/{id}/status", middleware.AdminOnly(http.HandlerFunc(orderC.UpdateStatus))).Methods("PATCH")

	// Review routes
	api.HandleFunc("/reviews/{productId}", reviewC.ListByProduct).Methods("GET")
	reviews := api.PathPrefix("/reviews").Subrouter()
	reviews.Use(authMW)
	reviews.HandleFunc("", reviewC.Add).Methods("POST")

	// Payment initiation (user)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(authMW)
	payments.HandleFunc("/stk-push", paymentC.STKPush).Methods("POST")
}
