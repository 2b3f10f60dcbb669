package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"fleet-tracking-service/internal/adapters/feed"
	"fleet-tracking-service/internal/adapters/repositories"
	"fleet-tracking-service/internal/api"
	"fleet-tracking-service/internal/config"
	"fleet-tracking-service/internal/platform/auth"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, poll feed, JWT) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/fleet.json")
	port := config.Get("PORT", "8080")
	jwtSecret := config.MustGet("JWT_SECRET")
	tokenExpiry := config.GetDuration("TOKEN_EXPIRY", 12*time.Hour)
	pollInterval := config.GetDuration("FEED_POLL_INTERVAL", 2*time.Second)

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed registration data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	tokens, err := auth.NewTokenService(jwtSecret, tokenExpiry)
	if err != nil {
		log.Fatal(err)
	}

	runRepo := repositories.NewSqliteRunRepository(db)
	userRepo := repositories.NewSqliteUserRepository(db)
	fleetRepo := repositories.NewSqliteFleetRepository(db)
	runFeed := feed.NewPollFeed(runRepo, pollInterval)

	router := api.NewRouter(api.RouterDeps{
		DB:     db,
		Runs:   runRepo,
		Users:  userRepo,
		Fleet:  fleetRepo,
		Feed:   runFeed,
		Tokens: tokens,
	})

	// WriteTimeout stays generous: websocket subscribers hold their
	// connection far longer than any REST request.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
