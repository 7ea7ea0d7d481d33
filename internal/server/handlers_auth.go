package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var requestValidator = validator.New()

// handleLogin authenticates the configured administrator and issues a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Same response for wrong email and wrong password.
	if req.Email != s.admin.Email || !s.admin.VerifyPassword(req.Password) {
		s.errorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.jwtService.GenerateToken(req.Email)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(s.jwtService.cfg.ExpirationHours) * time.Hour),
	})
}
