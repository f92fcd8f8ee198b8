package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wemakecorder/api/internal/application/interview"
	"github.com/wemakecorder/api/internal/domain"
)

// InterviewHandler handles public submission and admin management of
// interview-practice requests.
type InterviewHandler struct {
	svc interview.Service
}

func NewInterviewHandler(svc interview.Service) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body domain.CreateInterviewRequest
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

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: reqs})
}

func (h *InterviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body domain.UpdateInterviewRequest
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

// DownloadResume streams the stored resume PDF to the admin.
func (h *InterviewHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	body, filename, err := h.svc.DownloadResume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; nothing left to do but log via the server.
		return
	}
}
