package main

import (
	"context"
	stdlog "log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mobistore/config"
	"mobistore/controllers"
	"mobistore/logger"
	"mobistore/middleware"
	"mobistore/payments"
	"mobistore/routes"
	"mobistore/services"
	"mobistore/store"
	"mobistore/utils"
)

func main() {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		stdlog.Fatalf("failed to build logger: %v", err)
	}
	defer log.Sync()

	ctx := context.Background()
	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Error("failed to disconnect from mongodb", zap.Error(err))
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	// Repositories
	productStore := store.NewProducts(db)
	cartStore := store.NewCarts(db)
	orderStore := store.NewOrders(db)
	userStore := store.NewUsers(db)
	reviewStore := store.NewReviews(db)

	// Email is optional: without an API key orders simply skip confirmation.
	var mailer services.Mailer
	if es := utils.NewEmailService(cfg.Email); es != nil {
		mailer = es
	}

	// Services
	cartService := services.NewCartService(cartStore, productStore, log)
	orderService := services.NewOrderService(orderStore, productStore, userStore, mailer, log)
	reviewService := services.NewReviewService(reviewStore, productStore, log)
	mpesaClient := payments.NewClient(cfg.Mpesa, log)

	// Controllers
	userController := controllers.NewUserController(userStore, []byte(cfg.JWT.Secret), log)
	productController := controllers.NewProductController(productStore, log)
	cartController := controllers.NewCartController(cartService, log)
	orderController := controllers.NewOrderController(orderService, log)
	reviewController := controllers.NewReviewController(reviewService, log)
	paymentController := controllers.NewPaymentController(mpesaClient, log)

	router := mux.NewRouter()
	router.Use(middleware.CORS)

	authMW := middleware.Auth([]byte(cfg.JWT.Secret), log)
	routes.Register(router, authMW,
		userController, productController, cartController,
		orderController, reviewController, paymentController)

	log.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
