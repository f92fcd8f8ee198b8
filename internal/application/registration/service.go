package registration

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Service drives the OTP email-verification registration flow.
// Per email the flow is a three-state machine: Unverified → Verified →
// Registered, and no transition skips a state.
type Service interface {
	CheckEmail(ctx context.Context, email string) error
	SendOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
}

type otpStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	FindActive(ctx context.Context, email, code string) (*domain.OTPRecord, error)
	FindVerified(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkConsumed(ctx context.Context, email, otpID string, at time.Time) error
	Delete(ctx context.Context, email, otpID string) error
	DeleteForEmail(ctx context.Context, email string, onlyUnused bool) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type otpMailer interface {
	SendOTPEmail(to, code string) error
}

type jwtSigner interface {
	Sign(subjectID, role string) (string, error)
}

type service struct {
	otps   otpStore
	users  userStore
	mailer otpMailer
	jwt    jwtSigner
}

type ServiceDeps struct {
	OTPRepo  otpStore
	UserRepo userStore
	Mailer   otpMailer
	JWT      jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otps:   deps.OTPRepo,
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		jwt:    deps.JWT,
	}
}

func (s *service) CheckEmail(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("email %q is taken: %w", email, domain.ErrAlreadyRegistered)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email, false)
}

// ResendOTP also wipes consumed records, so a resend always restarts the flow
// from Unverified. The resend cooldown lives in the HTTP rate limiter, not here.
func (s *service) ResendOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email, true)
}

func (s *service) issue(ctx context.Context, email string, wipeAll bool) error {
	email = domain.NormalizeEmail(email)
	if err := s.CheckEmail(ctx, email); err != nil {
		return err
	}
	if wipeAll {
		if err := s.otps.DeleteForEmail(ctx, email, false); err != nil {
			return err
		}
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := &domain.OTPRecord{
		Email:      email,
		OTPID:      id.New(),
		Code:       code,
		ExpiresAt:  now.Add(domain.OTPTTL).Unix(),
		LastSentAt: now.Unix(),
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		return err
	}

	if err := s.mailer.SendOTPEmail(email, code); err != nil {
		// Roll back so no valid-but-undelivered code stays active.
		if delErr := s.otps.Delete(ctx, email, rec.OTPID); delErr != nil {
			slog.Warn("failed to roll back undelivered otp", "email", email, "err", delErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrDispatch, err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	rec, err := s.otps.FindActive(ctx, email, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}
	if rec.Expired(time.Now()) {
		// Purge on discovery; a retry with the same code then reads as invalid.
		if delErr := s.otps.Delete(ctx, email, rec.OTPID); delErr != nil {
			slog.Warn("failed to purge expired otp", "email", email, "err", delErr)
		}
		return domain.ErrExpiredCode
	}
	if err := s.otps.MarkConsumed(ctx, email, rec.OTPID, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Lost a consume race or the record vanished; either way the
			// caller's code is no longer valid.
			return domain.ErrInvalidCode
		}
		return err
	}
	return nil
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	email := domain.NormalizeEmail(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.users.GetByPhone(ctx, req.Phone); err == nil {
		return nil, "", domain.ErrDuplicatePhone
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	rec, err := s.otps.FindVerified(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotVerified
		}
		return nil, "", err
	}
	// A consumed record is proof of ownership for a bounded window only.
	if rec.VerifiedAt > 0 && time.Since(time.Unix(rec.VerifiedAt, 0)) > domain.VerifiedWindow {
		if delErr := s.otps.Delete(ctx, email, rec.OTPID); delErr != nil {
			slog.Warn("failed to purge stale verified otp", "email", email, "err", delErr)
		}
		return nil, "", domain.ErrNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, "", err
	}

	// Terminal cleanup: the proof is single-use. Best effort — the account
	// already exists and a leftover record can't mint a second one for the
	// same email (the duplicate check above fires first).
	if err := s.otps.Delete(ctx, email, rec.OTPID); err != nil {
		slog.Warn("failed to delete consumed otp after registration", "email", email, "err", err)
	}

	token, err := s.jwt.Sign(u.UserID, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999] using a
// cryptographically secure source.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
