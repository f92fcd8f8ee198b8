package handler

import (
	"net/http"

	"github.com/wemakecorder/api/internal/application/request"
	"github.com/wemakecorder/api/internal/application/user"
	"github.com/wemakecorder/api/internal/transport/http/middleware"
)

// UserHandler serves the authenticated user's own resources.
type UserHandler struct {
	users    user.Service
	requests request.Service
}

func NewUserHandler(users user.Service, requests request.Service) *UserHandler {
	return &UserHandler{users: users, requests: requests}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.users.Profile(r.Context(), claims.SubjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) EnrolledCourses(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courses, err := h.users.EnrolledCourses(r.Context(), claims.SubjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: courses})
}

// InterviewHistory lists the caller's own interview-practice requests, matched
// by the email on their profile.
func (h *UserHandler) InterviewHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.users.Profile(r.Context(), claims.SubjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	history, err := h.requests.InterviewHistory(r.Context(), u.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: history})
}
