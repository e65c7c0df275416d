// Command seed wipes the users and sweets tables and loads the demo data
// set: one admin, one regular user and a small catalog.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/candylab/sweetshop-api/internal/domain/entity"
	"github.com/candylab/sweetshop-api/internal/infrastructure/postgres"
	"github.com/candylab/sweetshop-api/pkg/config"
	"github.com/candylab/sweetshop-api/pkg/logger"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

type seedSweet struct {
	name        string
	category    string
	price       string
	quantity    int
	description string
}

var users = []seedUser{
	{"Admin User", "admin@sweetshop.com", "admin123", entity.RoleAdmin},
	{"John Doe", "user@sweetshop.com", "user123", entity.RoleUser},
}

var catalog = []seedSweet{
	{"Milk Chocolate Bar", "Chocolate", "2.99", 50, "Creamy milk chocolate bar made with premium cocoa beans"},
	{"Gummy Bears", "Gummy", "1.99", 100, "Colorful fruit-flavored gummy bears in assorted flavors"},
	{"Strawberry Lollipop", "Lollipop", "0.99", 75, "Sweet strawberry-flavored lollipop on a stick"},
	{"Dark Chocolate Truffles", "Chocolate", "8.99", 25, "Luxurious dark chocolate truffles with rich cocoa flavor"},
	{"Sour Patch Kids", "Candy", "3.49", 60, "Sour then sweet chewy candy in fun kid shapes"},
	{"Marshmallow Clouds", "Marshmallow", "2.49", 40, "Fluffy vanilla marshmallows that melt in your mouth"},
	{"Peppermint Hard Candy", "Hard Candy", "1.79", 80, "Refreshing peppermint hard candy with cooling sensation"},
	{"Caramel Chews", "Other", "4.29", 35, "Soft and chewy caramel candies with rich buttery flavor"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	if _, err := pool.Exec(ctx, `TRUNCATE sweets, users`); err != nil {
		log.Fatal().Err(err).Msg("clear existing data")
	}
	log.Info().Msg("cleared existing data")

	userRepo := postgres.NewUserRepository(pool)
	now := time.Now()
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash password")
		}
		err = userRepo.Create(&entity.User{
			ID:           uuid.New().String(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("create user")
		}
		log.Info().Str("email", u.email).Str("role", u.role).Msg("created user")
	}

	sweetRepo := postgres.NewSweetRepository(pool)
	for _, s := range catalog {
		err := sweetRepo.Create(&entity.Sweet{
			ID:          uuid.New().String(),
			Name:        s.name,
			Category:    s.category,
			Price:       decimal.RequireFromString(s.price),
			Quantity:    s.quantity,
			Description: s.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", s.name).Msg("create sweet")
		}
	}
	log.Info().Int("count", len(catalog)).Msg("created sample sweets")
}
