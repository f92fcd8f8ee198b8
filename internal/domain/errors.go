package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Registration-flow errors. Each maps to a distinguishable, actionable
// user-facing message.
var (
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCode       = errors.New("invalid OTP")
	ErrExpiredCode       = errors.New("OTP has expired")
	ErrNotVerified       = errors.New("email not verified")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicatePhone    = errors.New("phone number already registered")
	ErrDispatch          = errors.New("failed to send OTP email")
)
