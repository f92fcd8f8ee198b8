package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wemakecorder/api/internal/application/course"
	"github.com/wemakecorder/api/internal/domain"
)

// CourseHandler handles the public course list, admin CRUD, and enrollment.
type CourseHandler struct {
	svc course.Service
}

func NewCourseHandler(svc course.Service) *CourseHandler {
	return &CourseHandler{svc: svc}
}

func (h *CourseHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListPublished(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: courses})
}

func (h *CourseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: courses})
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body domain.CreateCourseRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	c, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body domain.UpdateCourseRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "course deleted"})
}

func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CourseID string `json:"course_id" validate:"required"`
	}
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.svc.Enroll(r.Context(), chi.URLParam(r, "id"), body.CourseID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user enrolled"})
}
