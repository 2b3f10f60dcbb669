package handlers

import (
	"log"
	"net/http"
	"strings"

	"fleet-tracking-service/internal/api/dto"
	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// FleetHandler exposes registration endpoints for companies, sectors,
// vehicles, and user accounts. All routes are admin-only; the router
// enforces the role.
type FleetHandler struct {
	Fleet ports.FleetRepository
	Users ports.UserRepository
}

func (h *FleetHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCompanyRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	company := &domain.Company{
		CompanyID: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
	}
	if err := h.Fleet.CreateCompany(r.Context(), company); err != nil {
		log.Printf("create company failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.CompanyResponse{
		CompanyID: company.CompanyID,
		Name:      company.Name,
	})
}

func (h *FleetHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Fleet.ListCompanies(r.Context())
	if err != nil {
		log.Printf("list companies failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCompaniesResponse{Companies: make([]dto.CompanyResponse, 0, len(companies))}
	for _, c := range companies {
		res.Companies = append(res.Companies, dto.CompanyResponse{CompanyID: c.CompanyID, Name: c.Name})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSectorRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	sector := &domain.Sector{
		SectorID:  uuid.NewString(),
		CompanyID: req.CompanyID,
		Name:      strings.TrimSpace(req.Name),
	}
	if err := h.Fleet.CreateSector(r.Context(), sector); err != nil {
		log.Printf("create sector failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SectorResponse{
		SectorID:  sector.SectorID,
		CompanyID: sector.CompanyID,
		Name:      sector.Name,
	})
}

func (h *FleetHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	sectors, err := h.Fleet.ListSectors(r.Context(), session.CompanyID)
	if err != nil {
		log.Printf("list sectors failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSectorsResponse{Sectors: make([]dto.SectorResponse, 0, len(sectors))}
	for _, s := range sectors {
		res.Sectors = append(res.Sectors, dto.SectorResponse{
			SectorID:  s.SectorID,
			CompanyID: s.CompanyID,
			Name:      s.Name,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.CreateVehicleRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	vehicle := &domain.Vehicle{
		VehicleID:   uuid.NewString(),
		CompanyID:   session.CompanyID,
		SectorID:    session.SectorID,
		Plate:       strings.TrimSpace(req.Plate),
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.Fleet.CreateVehicle(r.Context(), vehicle); err != nil {
		log.Printf("create vehicle failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.VehicleResponse{
		VehicleID:   vehicle.VehicleID,
		CompanyID:   vehicle.CompanyID,
		SectorID:    vehicle.SectorID,
		Plate:       vehicle.Plate,
		Description: vehicle.Description,
	})
}

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	vehicles, err := h.Fleet.ListVehicles(r.Context(), session.CompanyID, session.SectorID)
	if err != nil {
		log.Printf("list vehicles failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			VehicleID:   v.VehicleID,
			CompanyID:   v.CompanyID,
			SectorID:    v.SectorID,
			Plate:       v.Plate,
			Description: v.Description,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *FleetHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	if req.Shift != "" && !domain.ValidShift(req.Shift) {
		writeError(w, r, http.StatusBadRequest, "unknown shift")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    session.CompanyID,
		SectorID:     session.SectorID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         domain.Role(req.Role),
		Shift:        req.Shift,
		PasswordHash: string(hash),
	}
	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		log.Printf("create user failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.UserResponse{
		UserID:    user.UserID,
		CompanyID: user.CompanyID,
		SectorID:  user.SectorID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Shift:     user.Shift,
	})
}

func (h *FleetHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	users, err := h.Users.ListUsers(r.Context(), session.CompanyID, session.SectorID)
	if err != nil {
		log.Printf("list users failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListUsersResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		res.Users = append(res.Users, dto.UserResponse{
			UserID:    u.UserID,
			CompanyID: u.CompanyID,
			SectorID:  u.SectorID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			Shift:     u.Shift,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
