package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Initialize the schema on Postgres (hosted deployments, via cmd/dbtool).
// Mirrors the SQLite schema with Postgres types.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			company_id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sectors (
			sector_id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			vehicle_id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			sector_id TEXT NOT NULL,
			plate TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			sector_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			shift TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			sector_id TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			driver_name TEXT NOT NULL,
			vehicle_id TEXT NOT NULL,
			started_at BIGINT NOT NULL,
			start_mileage DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			ended_at BIGINT,
			end_mileage DOUBLE PRECISION
		);`,
		`CREATE TABLE IF NOT EXISTS stops (
			stop_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			arrived_at BIGINT,
			departed_at BIGINT,
			collected_cargo INTEGER,
			mileage_at_stop DOUBLE PRECISION,
			occupancy_pct INTEGER,
			observation TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS location_points (
			run_id TEXT NOT NULL,
			recorded_at BIGINT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_scope
		 ON runs(company_id, sector_id, started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_stops_run
		 ON stops(run_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_location_points_run
		 ON location_points(run_id, recorded_at);`,
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

// Populate a Postgres database with registration data from a JSON file.
func SeedFromJSONPostgres(db *sql.DB, jsonPath string) error {
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
			`INSERT INTO companies (company_id, name) VALUES ($1, $2)
			 ON CONFLICT (company_id) DO UPDATE SET name = EXCLUDED.name;`,
			c.CompanyID, c.Name,
		); err != nil {
			return fmt.Errorf("seed fleet: insert company %q: %w", c.Name, err)
		}
	}

	for _, s := range seed.Sectors {
		if _, err := tx.Exec(
			`INSERT INTO sectors (sector_id, company_id, name) VALUES ($1, $2, $3)
			 ON CONFLICT (sector_id) DO UPDATE SET company_id = EXCLUDED.company_id, name = EXCLUDED.name;`,
			s.SectorID, s.CompanyID, s.Name,
		); err != nil {
			return fmt.Errorf("seed fleet: insert sector %q: %w", s.Name, err)
		}
	}

	for _, v := range seed.Vehicles {
		if _, err := tx.Exec(
			`INSERT INTO vehicles (vehicle_id, company_id, sector_id, plate, description)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (vehicle_id) DO UPDATE SET plate = EXCLUDED.plate, description = EXCLUDED.description;`,
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
			`INSERT INTO users (user_id, company_id, sector_id, name, email, role, shift, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (user_id) DO UPDATE SET
			   name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
			   shift = EXCLUDED.shift, password_hash = EXCLUDED.password_hash;`,
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
