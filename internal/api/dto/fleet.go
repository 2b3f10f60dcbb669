package dto

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

type CompanyResponse struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

type CreateSectorRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

type SectorResponse struct {
	SectorID  string `json:"sector_id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

type ListSectorsResponse struct {
	Sectors []SectorResponse `json:"sectors"`
}

type CreateVehicleRequest struct {
	Plate       string `json:"plate" validate:"required"`
	Description string `json:"description"`
}

type VehicleResponse struct {
	VehicleID   string `json:"vehicle_id"`
	CompanyID   string `json:"company_id"`
	SectorID    string `json:"sector_id"`
	Plate       string `json:"plate"`
	Description string `json:"description,omitempty"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin driver"`
	Shift    string `json:"shift"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
