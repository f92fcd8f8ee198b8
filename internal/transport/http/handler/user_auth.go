package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wemakecorder/api/internal/application/auth"
	"github.com/wemakecorder/api/internal/application/registration"
	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/validate"
)

// UserAuthHandler handles the OTP registration flow and user login.
type UserAuthHandler struct {
	reg  registration.Service
	auth auth.Service
}

func NewUserAuthHandler(reg registration.Service, authSvc auth.Service) *UserAuthHandler {
	return &UserAuthHandler{reg: reg, auth: authSvc}
}

func (h *UserAuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var body domain.SendOTPRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.reg.CheckEmail(r.Context(), body.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email available"})
}

func (h *UserAuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var body domain.SendOTPRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.reg.SendOTP(r.Context(), body.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "otp sent"})
}

func (h *UserAuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var body domain.SendOTPRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.reg.ResendOTP(r.Context(), body.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "otp resent"})
}

func (h *UserAuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body domain.VerifyOTPRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.reg.VerifyOTP(r.Context(), body.Email, body.OTP); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
}

func (h *UserAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body domain.RegisterRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	u, token, err := h.reg.Register(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{Token: token, User: u})
}

func (h *UserAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body domain.LoginRequest
	if !decodeAndValidate(w, r, &body) {
		return
	}
	u, token, err := h.auth.LoginUser(r.Context(), body.Email, body.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Token: token, User: u})
}

// decodeAndValidate decodes the JSON body into dst and runs struct validation,
// writing the 400 itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
