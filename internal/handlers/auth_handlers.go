package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"minichat-backend/internal/models"
	"minichat-backend/internal/services"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleLogin verifies the operator password and returns an access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	RespondWithJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token})
}
