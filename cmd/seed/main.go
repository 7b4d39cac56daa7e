// Command seed loads the sample catalog and creates the admin account if it
// does not exist. Products are wiped and re-inserted; users are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"mobistore/config"
	"mobistore/models"
	"mobistore/store"
)

func int64ptr(v int64) *int64 { return &v }

var sampleProducts = []interface{}{
	models.Product{
		Name:      "iPhone 15 Pro",
		Price:     145000,
		OldPrice:  int64ptr(160000),
		Category:  models.CategorySmartphone,
		Img:       "https://images.unsplash.com/photo-1696446701796-da61225697cc?auto=format&fit=crop&q=80&w=800",
		Details:   []string{"A17 Pro Chip", "Titanium Design", "48MP Camera"},
		InStock:   true,
		CreatedAt: time.Now().UTC(),
	},
	models.Product{
		Name:      "Samsung Galaxy S24 Ultra",
		Price:     135000,
		OldPrice:  int64ptr(150000),
		Category:  models.CategorySmartphone,
		Img:       "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?auto=format&fit=crop&q=80&w=800",
		Details:   []string{"200MP Camera", "S-Pen Included", "Snapdragon 8 Gen 3"},
		InStock:   true,
		CreatedAt: time.Now().UTC(),
	},
	models.Product{
		Name:      "MacBook Air M2",
		Price:     125000,
		OldPrice:  int64ptr(140000),
		Category:  models.CategoryLaptop,
		Img:       "https://images.unsplash.com/photo-1611186871348-b1ec696e52c9?auto=format&fit=crop&q=80&w=800",
		Details:   []string{"Apple M2 Chip", "8GB RAM", "256GB SSD"},
		InStock:   true,
		CreatedAt: time.Now().UTC(),
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	products := db.Collection("products")
	if _, err := products.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("failed to clear products: %v", err)
	}
	if _, err := products.InsertMany(ctx, sampleProducts); err != nil {
		log.Fatalf("failed to seed products: %v", err)
	}
	log.Println("products seeded")

	users := store.NewUsers(db)
	const adminEmail = "mobilestorekenya@gmail.com"

	_, err = users.FindByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		log.Println("admin user already exists")
	case errors.Is(err, store.ErrNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte("mobile@store"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		admin := &models.User{
			Username:  "AdminMSK",
			Email:     adminEmail,
			Password:  string(hashed),
			Role:      models.RoleAdmin,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := users.Insert(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		log.Println("admin user created")
	default:
		log.Fatalf("failed to look up admin user: %v", err)
	}
}
