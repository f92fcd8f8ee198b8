package counseling

import (
	"context"
	"sort"
	"time"

	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateCounselingRequest) (*domain.CounselingRequest, error)
	ListAll(ctx context.Context) ([]domain.CounselingRequest, error)
	Update(ctx context.Context, requestID string, req domain.UpdateCounselingRequest) (*domain.CounselingRequest, error)
}

type counselingStore interface {
	Put(ctx context.Context, req *domain.CounselingRequest) error
	Get(ctx context.Context, requestID string) (*domain.CounselingRequest, error)
	Scan(ctx context.Context) ([]domain.CounselingRequest, error)
	Update(ctx context.Context, requestID string, updates map[string]interface{}) error
}

type service struct {
	repo counselingStore
}

func NewService(repo counselingStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateCounselingRequest) (*domain.CounselingRequest, error) {
	now := time.Now().UTC()
	r := &domain.CounselingRequest{
		RequestID: id.New(),
		Name:      req.Name,
		Email:     domain.NormalizeEmail(req.Email),
		Goal:      req.Goal,
		Message:   req.Message,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.CounselingRequest, error) {
	reqs, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	// Newest first for the admin dashboard.
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (s *service) Update(ctx context.Context, requestID string, req domain.UpdateCounselingRequest) (*domain.CounselingRequest, error) {
	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, requestID)
	}
	if err := s.repo.Update(ctx, requestID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, requestID)
}
