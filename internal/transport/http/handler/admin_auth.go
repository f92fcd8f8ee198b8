package handler

import (
	"net/http"

	"github.com/wemakecorder/api/internal/application/auth"
	"github.com/wemakecorder/api/internal/application/stats"
	"github.com/wemakecorder/api/internal/domain"
)

// AdminHandler handles admin login, admin creation, and the stats dashboard.
type AdminHandler struct {
	auth  auth.Service
	stats stats.Service
}

func NewAdminHandler(authSvc auth.Service, statsSvc stats.Service) *AdminHandler {
	return &AdminHandler{auth: authSvc, stats: statsSvc}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body domain.LoginRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	a, token, err := h.auth.LoginAdmin(r.Context(), body.Email, body.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Token: token, Admin: a})
}

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body domain.AdminRegisterRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	a, err := h.auth.RegisterAdmin(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{Admin: a})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.AdminStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
