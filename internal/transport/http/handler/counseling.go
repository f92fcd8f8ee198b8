package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wemakecorder/api/internal/application/counseling"
	"github.com/wemakecorder/api/internal/application/request"
	"github.com/wemakecorder/api/internal/domain"
)

// CounselingHandler handles public submission and admin management of
// counseling requests.
type CounselingHandler struct {
	svc      counseling.Service
	requests request.Service
}

func NewCounselingHandler(svc counseling.Service, requests request.Service) *CounselingHandler {
	return &CounselingHandler{svc: svc, requests: requests}
}

func (h *CounselingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body domain.CreateCounselingRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	req, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *CounselingHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: reqs})
}

func (h *CounselingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body domain.UpdateCounselingRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	req, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// MyRequests is the public lookup of both request lists by email.
func (h *CounselingHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}
	out, err := h.requests.ListByEmail(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
