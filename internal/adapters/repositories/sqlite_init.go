package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"fleet-tracking-service/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCompaniesQuery := `
	CREATE TABLE IF NOT EXISTS companies (
		company_id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createSectorsQuery := `
	CREATE TABLE IF NOT EXISTS sectors (
		sector_id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		sector_id TEXT NOT NULL,
		plate TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		sector_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		shift TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		sector_id TEXT NOT NULL,
		driver_id TEXT NOT NULL,
		driver_name TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		start_mileage REAL NOT NULL,
		status TEXT NOT NULL,
		ended_at INTEGER,
		end_mileage REAL
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		arrived_at INTEGER,
		departed_at INTEGER,
		collected_cargo INTEGER,
		mileage_at_stop REAL,
		occupancy_pct INTEGER,
		observation TEXT NOT NULL DEFAULT ''
	);
	`

	createLocationPointsQuery := `
	CREATE TABLE IF NOT EXISTS location_points (
		run_id TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);
	`

	createRunScopeIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_scope
	ON runs(company_id, sector_id, started_at);
	`

	createStopRunIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stops_run
	ON stops(run_id, position);
	`

	createLocationRunIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_location_points_run
	ON location_points(run_id, recorded_at);
	`

	statements := []string{
		createCompaniesQuery,
		createSectorsQuery,
		createVehiclesQuery,
		createUsersQuery,
		createRunsQuery,
		createStopsQuery,
		createLocationPointsQuery,
		createRunScopeIndexQuery,
		createStopRunIndexQuery,
		createLocationRunIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CompanySeed struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

type SectorSeed struct {
	SectorID  string `json:"sector_id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

type VehicleSeed struct {
	VehicleID   string `json:"vehicle_id"`
	CompanyID   string `json:"company_id"`
	SectorID    string `json:"sector_id"`
	Plate       string `json:"plate"`
	Description string `json:"description"`
}

type UserSeed struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	SectorID  string `json:"sector_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Shift     string `json:"shift"`
	Password  string `json:"password"`
}

type FleetSeed struct {
	Companies []CompanySeed `json:"companies"`
	Sectors   []SectorSeed  `json:"sectors"`
	Vehicles  []VehicleSeed `json:"vehicles"`
	Users     []UserSeed    `json:"users"`
}

// loadSeed reads and validates a registration seed file. Missing IDs are
// generated; passwords stay plain here and are hashed on insert.
func loadSeed(jsonPath string) (*FleetSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", jsonPath, err)
	}

	var seed FleetSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	for i := range seed.Companies {
		if strings.TrimSpace(seed.Companies[i].Name) == "" {
			return nil, fmt.Errorf("company at index %d: name cannot be empty", i)
		}
		if seed.Companies[i].CompanyID == "" {
			seed.Companies[i].CompanyID = uuid.NewString()
		}
	}
	for i := range seed.Sectors {
		s := &seed.Sectors[i]
		if strings.TrimSpace(s.Name) == "" || s.CompanyID == "" {
			return nil, fmt.Errorf("sector at index %d: name and company_id are required", i)
		}
		if s.SectorID == "" {
			s.SectorID = uuid.NewString()
		}
	}
	for i := range seed.Vehicles {
		v := &seed.Vehicles[i]
		if strings.TrimSpace(v.Plate) == "" || v.CompanyID == "" || v.SectorID == "" {
			return nil, fmt.Errorf("vehicle at index %d: plate, company_id, sector_id are required", i)
		}
		if v.VehicleID == "" {
			v.VehicleID = uuid.NewString()
		}
	}
	for i := range seed.Users {
		u := &seed.Users[i]
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return nil, fmt.Errorf("user at index %d: email and password are required", i)
		}
		if u.Role != string(domain.RoleAdmin) && u.Role != string(domain.RoleDriver) {
			return nil, fmt.Errorf("user %q: unknown role %q", u.Email, u.Role)
		}
		if u.Shift != "" && !domain.ValidShift(u.Shift) {
			return nil, fmt.Errorf("user %q: unknown shift %q", u.Email, u.Shift)
		}
		if u.UserID == "" {
			u.UserID = uuid.NewString()
		}
	}

	return &seed, nil
}

// Populate the database with registration data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	seed, err := loadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range seed.Companies {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO companies (company_id, name) VALUES (?, ?);`,
			c.CompanyID, c.Name,
		); err != nil {
			return fmt.Errorf("seed fleet: insert company %q: %w", c.Name, err)
		}
	}

	for _, s := range seed.Sectors {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO sectors (sector_id, company_id, name) VALUES (?, ?, ?);`,
			s.SectorID, s.CompanyID, s.Name,
		); err != nil {
			return fmt.Errorf("seed fleet: insert sector %q: %w", s.Name, err)
		}
	}

	for _, v := range seed.Vehicles {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO vehicles (vehicle_id, company_id, sector_id, plate, description)
			 VALUES (?, ?, ?, ?, ?);`,
			v.VehicleID, v.CompanyID, v.SectorID, v.Plate, v.Description,
		); err != nil {
			return fmt.Errorf("seed fleet: insert vehicle %q: %w", v.Plate, err)
		}
	}

	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed fleet: hash password for %q: %w", u.Email, err)
		}

		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO users (user_id, company_id, sector_id, name, email, role, shift, password_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			u.UserID, u.CompanyID, u.SectorID, u.Name, u.Email, u.Role, u.Shift, string(hash),
		); err != nil {
			return fmt.Errorf("seed fleet: insert user %q: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}
