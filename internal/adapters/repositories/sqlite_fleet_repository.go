package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-tracking-service/internal/domain"
)

// SQLite-backed registration store for companies, sectors, and vehicles.
type SqliteFleetRepository struct {
	DB *sql.DB
}

func NewSqliteFleetRepository(db *sql.DB) *SqliteFleetRepository {
	return &SqliteFleetRepository{DB: db}
}

func (s *SqliteFleetRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	if company == nil {
		return errors.New("create company: company is nil")
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO companies (company_id, name) VALUES (?, ?);`,
		company.CompanyID, company.Name,
	); err != nil {
		return fmt.Errorf("create company %q: %w", company.Name, err)
	}

	return nil
}

func (s *SqliteFleetRepository) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT company_id, name FROM companies ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list companies: query: %w", err)
	}
	defer rows.Close()

	companies := []*domain.Company{}
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.CompanyID, &c.Name); err != nil {
			return nil, fmt.Errorf("list companies: scan: %w", err)
		}
		companies = append(companies, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies: row iteration: %w", err)
	}

	return companies, nil
}

func (s *SqliteFleetRepository) CreateSector(ctx context.Context, sector *domain.Sector) error {
	if sector == nil {
		return errors.New("create sector: sector is nil")
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO sectors (sector_id, company_id, name) VALUES (?, ?, ?);`,
		sector.SectorID, sector.CompanyID, sector.Name,
	); err != nil {
		return fmt.Errorf("create sector %q: %w", sector.Name, err)
	}

	return nil
}

func (s *SqliteFleetRepository) ListSectors(ctx context.Context, companyID string) ([]*domain.Sector, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT sector_id, company_id, name FROM sectors
		 WHERE company_id = ? ORDER BY name;`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list sectors: query: %w", err)
	}
	defer rows.Close()

	sectors := []*domain.Sector{}
	for rows.Next() {
		var s domain.Sector
		if err := rows.Scan(&s.SectorID, &s.CompanyID, &s.Name); err != nil {
			return nil, fmt.Errorf("list sectors: scan: %w", err)
		}
		sectors = append(sectors, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sectors: row iteration: %w", err)
	}

	return sectors, nil
}

func (s *SqliteFleetRepository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if vehicle == nil {
		return errors.New("create vehicle: vehicle is nil")
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO vehicles (vehicle_id, company_id, sector_id, plate, description)
		 VALUES (?, ?, ?, ?, ?);`,
		vehicle.VehicleID, vehicle.CompanyID, vehicle.SectorID, vehicle.Plate, vehicle.Description,
	); err != nil {
		return fmt.Errorf("create vehicle %q: %w", vehicle.Plate, err)
	}

	return nil
}

func (s *SqliteFleetRepository) ListVehicles(ctx context.Context, companyID, sectorID string) ([]*domain.Vehicle, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT vehicle_id, company_id, sector_id, plate, description FROM vehicles
		 WHERE company_id = ? AND sector_id = ? ORDER BY plate;`, companyID, sectorID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query: %w", err)
	}
	defer rows.Close()

	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.VehicleID, &v.CompanyID, &v.SectorID, &v.Plate, &v.Description); err != nil {
			return nil, fmt.Errorf("list vehicles: scan: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
