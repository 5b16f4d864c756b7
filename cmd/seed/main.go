// Seeds the admin user. Users are only ever created here; the HTTP surface
// has no register endpoint.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/hortti/inventory/internal/models"
	"github.com/hortti/inventory/internal/repo"
	"github.com/hortti/inventory/pkg/config"
	pkgdb "github.com/hortti/inventory/pkg/db"
	"github.com/hortti/inventory/pkg/hash"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	username := config.EnvDefault("SEED_USERNAME", "admin")
	password := config.EnvDefault("SEED_PASSWORD", "admin123")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	rep := &repo.GormRepo{DB: db}
	user := &models.User{Username: username, PasswordHash: pwHash}

	if err := rep.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			log.Printf("user %q already exists, nothing to do", username)
			return
		}
		log.Fatalf("seed user: %v", err)
	}

	log.Printf("seeded user %q (%s)", username, user.ID)
}
