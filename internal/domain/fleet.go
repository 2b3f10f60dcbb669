package domain

// Company is the top-level registration unit.
type Company struct {
	CompanyID string
	Name      string
}

// Sector is an operating area within a company. Runs, vehicles, and users are
// all scoped to a (company, sector) pair.
type Sector struct {
	SectorID  string
	CompanyID string
	Name      string
}

// Vehicle is a registered truck operating milk-run circuits.
type Vehicle struct {
	VehicleID   string
	CompanyID   string
	SectorID    string
	Plate       string
	Description string
}
