package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/swiftlogi/marketplace/internal/config"
	"github.com/swiftlogi/marketplace/internal/job"
	"github.com/swiftlogi/marketplace/internal/order"
	"github.com/swiftlogi/marketplace/internal/product"
	"github.com/swiftlogi/marketplace/internal/user"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	if err := bootstrapSchema(db); err != nil {
		log.Fatalf("schema bootstrap: %v", err)
	}

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, []byte(cfg.JWTSecret))

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService, userService)

	orderService := order.NewService(order.NewPostgresRepository(db))
	orderHandler := order.NewHandler(orderService)

	jobHandler := job.NewHandler(job.NewService(orderService))

	// public routes go on before the jwt middleware so browsing and auth
	// never need a token
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	jobHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	productHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	jobHandler.RegisterProtectedRoutes(app)

	log.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s -> %d (%s)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(fmt.Errorf("database unreachable: %w", err))
	}

	return db
}

func bootstrapSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'buyer',
			wallet_balance NUMERIC NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0,
			seller_id INT NOT NULL,
			seller_name TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			image_data TEXT,
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			buyer_id INT NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			total_price NUMERIC NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'placed',
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
