package ports

import (
	"context"
	"fleet-tracking-service/internal/domain"
)

// Port: a boundary for company, sector, and vehicle registration.
type FleetRepository interface {
	CreateCompany(ctx context.Context, company *domain.Company) error
	ListCompanies(ctx context.Context) ([]*domain.Company, error)

	CreateSector(ctx context.Context, sector *domain.Sector) error
	ListSectors(ctx context.Context, companyID string) ([]*domain.Sector, error)

	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	ListVehicles(ctx context.Context, companyID, sectorID string) ([]*domain.Vehicle, error)
}
