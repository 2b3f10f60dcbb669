package handlers

import (
	"errors"
	"log"
	"net/http"

	"fleet-tracking-service/internal/api/dto"
	"fleet-tracking-service/internal/platform/auth"
	"fleet-tracking-service/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Users  ports.UserRepository
	Tokens *auth.TokenService
}

// Login checks credentials against the stored bcrypt hash and issues an
// access token scoped to the user's company and sector.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("login failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Tokens.Generate(user.UserID, user.Name, string(user.Role), user.CompanyID, user.SectorID)
	if err != nil {
		log.Printf("issue token failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			UserID:    user.UserID,
			CompanyID: user.CompanyID,
			SectorID:  user.SectorID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
			Shift:     user.Shift,
		},
	})
}
