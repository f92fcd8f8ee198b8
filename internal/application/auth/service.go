package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Service handles credential login for users and admins, plus the one-time
// default-admin bootstrap.
type Service interface {
	LoginUser(ctx context.Context, email, password string) (*domain.User, string, error)
	LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, error)
	RegisterAdmin(ctx context.Context, req domain.AdminRegisterRequest) (*domain.Admin, error)
	EnsureDefaultAdmin(ctx context.Context, name, email, password string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Put(ctx context.Context, a *domain.Admin) error
}

type jwtSigner interface {
	Sign(subjectID, role string) (string, error)
}

type service struct {
	users  userStore
	admins adminStore
	jwt    jwtSigner
}

type ServiceDeps struct {
	UserRepo  userStore
	AdminRepo adminStore
	JWT       jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, admins: deps.AdminRepo, jwt: deps.JWT}
}

func (s *service) LoginUser(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.jwt.Sign(u.UserID, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	email = domain.NormalizeEmail(email)
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.jwt.Sign(a.AdminID, domain.RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

func (s *service) RegisterAdmin(ctx context.Context, req domain.AdminRegisterRequest) (*domain.Admin, error) {
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("admin already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &domain.Admin{
		AdminID:      id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.admins.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// EnsureDefaultAdmin is an explicit, idempotent bootstrap step invoked once
// at process startup. A no-op when the credentials are unset or the admin
// already exists, so startup ordering never matters.
func (s *service) EnsureDefaultAdmin(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		slog.Info("default admin credentials not set, skipping bootstrap")
		return nil
	}
	email = domain.NormalizeEmail(email)
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	a, err := s.RegisterAdmin(ctx, domain.AdminRegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}
	slog.Info("created default admin", "email", a.Email)
	return nil
}
