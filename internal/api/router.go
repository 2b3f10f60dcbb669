package api

import (
	"database/sql"
	"net/http"

	"fleet-tracking-service/internal/api/handlers"
	"fleet-tracking-service/internal/platform/auth"
	"fleet-tracking-service/internal/ports"
)

// RouterDeps carries everything the HTTP layer needs. main builds the
// concrete adapters; handlers only ever see ports.
type RouterDeps struct {
	DB     *sql.DB
	Runs   ports.RunRepository
	Users  ports.UserRepository
	Fleet  ports.FleetRepository
	Feed   ports.RunFeed
	Tokens *auth.TokenService
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: deps.DB}
	authHandler := &handlers.AuthHandler{Users: deps.Users, Tokens: deps.Tokens}
	fleetHandler := &handlers.FleetHandler{Fleet: deps.Fleet, Users: deps.Users}
	runHandler := &handlers.RunHandler{Repo: deps.Runs}
	tripHandler := &handlers.TripHandler{Runs: deps.Runs, Users: deps.Users}
	liveHandler := &handlers.LiveHandler{Feed: deps.Feed, Users: deps.Users, Tokens: deps.Tokens}

	// Public.
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	// Live feed authenticates inside the websocket handshake.
	mux.HandleFunc("GET /live/trips", liveHandler.Trips)

	// Authenticated routes, admin-gated where they mutate registration data.
	protected := http.NewServeMux()

	protected.HandleFunc("POST /companies", requireAdmin(fleetHandler.CreateCompany))
	protected.HandleFunc("GET /companies", requireAdmin(fleetHandler.ListCompanies))
	protected.HandleFunc("POST /sectors", requireAdmin(fleetHandler.CreateSector))
	protected.HandleFunc("GET /sectors", fleetHandler.ListSectors)
	protected.HandleFunc("POST /vehicles", requireAdmin(fleetHandler.CreateVehicle))
	protected.HandleFunc("GET /vehicles", fleetHandler.ListVehicles)
	protected.HandleFunc("POST /users", requireAdmin(fleetHandler.CreateUser))
	protected.HandleFunc("GET /users", requireAdmin(fleetHandler.ListUsers))

	protected.HandleFunc("POST /runs", runHandler.Create)
	protected.HandleFunc("GET /runs/{runID}", runHandler.Get)
	protected.HandleFunc("POST /runs/{runID}/stops/{stopID}/arrive", runHandler.ArriveStop)
	protected.HandleFunc("POST /runs/{runID}/stops/{stopID}/complete", runHandler.CompleteStop)
	protected.HandleFunc("POST /runs/{runID}/stops/{stopID}/cancel", runHandler.CancelStop)
	protected.HandleFunc("PUT /runs/{runID}/stops/order", runHandler.ReorderStops)
	protected.HandleFunc("POST /runs/{runID}/locations", runHandler.AppendLocations)
	protected.HandleFunc("POST /runs/{runID}/complete", runHandler.Complete)

	protected.HandleFunc("GET /trips", tripHandler.List)
	protected.HandleFunc("GET /trips/{key}/segments", tripHandler.Segments)

	mux.Handle("/", authMiddleware(deps.Tokens, protected))

	return requestIDMiddleware(loggingMiddleware(mux))
}
