package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateInterviewRequest) (*domain.InterviewRequest, error)
	ListAll(ctx context.Context) ([]domain.InterviewRequest, error)
	Update(ctx context.Context, requestID string, req domain.UpdateInterviewRequest) (*domain.InterviewRequest, error)
	DownloadResume(ctx context.Context, requestID string) (io.ReadCloser, string, error)
}

type interviewStore interface {
	Put(ctx context.Context, req *domain.InterviewRequest) error
	Get(ctx context.Context, requestID string) (*domain.InterviewRequest, error)
	Scan(ctx context.Context) ([]domain.InterviewRequest, error)
	Update(ctx context.Context, requestID string, updates map[string]interface{}) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type resumeStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	repo    interviewStore
	users   userStore
	resumes resumeStore
	sms     smsSender
}

type ServiceDeps struct {
	InterviewRepo interviewStore
	UserRepo      userStore
	Resumes       resumeStore
	SMS           smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.InterviewRepo,
		users:   deps.UserRepo,
		resumes: deps.Resumes,
		sms:     deps.SMS,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateInterviewRequest) (*domain.InterviewRequest, error) {
	now := time.Now().UTC()
	r := &domain.InterviewRequest{
		RequestID:    id.New(),
		Name:         req.Name,
		Email:        domain.NormalizeEmail(req.Email),
		Role:         req.Role,
		Experience:   req.Experience,
		Availability: req.Availability,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.ResumeBase64 != "" {
		key := fmt.Sprintf("resumes/%s.pdf", r.RequestID)
		if err := s.resumes.UploadBase64(ctx, key, req.ResumeBase64); err != nil {
			return nil, fmt.Errorf("upload resume: %w", err)
		}
		r.ResumeKey = key
		r.ResumeFilename = req.ResumeFilename
	}

	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.InterviewRequest, error) {
	reqs, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (s *service) Update(ctx context.Context, requestID string, req domain.UpdateInterviewRequest) (*domain.InterviewRequest, error) {
	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.MeetingTime != nil {
		mt, err := time.Parse(time.RFC3339, *req.MeetingTime)
		if err != nil {
			return nil, fmt.Errorf("invalid meeting_time: %w", domain.ErrBadRequest)
		}
		updates["meeting_time"] = mt.UTC().Format(time.RFC3339)
	}
	if req.MeetingLink != nil {
		updates["meeting_link"] = *req.MeetingLink
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, requestID)
	}
	if err := s.repo.Update(ctx, requestID, updates); err != nil {
		return nil, err
	}

	updated, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && *req.Status == domain.StatusScheduled {
		s.notifyScheduled(ctx, updated)
	}
	return updated, nil
}

// notifyScheduled texts the requester when their meeting is scheduled. Only
// registered users have a phone on file; everything here is best effort and
// never fails the update.
func (s *service) notifyScheduled(ctx context.Context, r *domain.InterviewRequest) {
	u, err := s.users.GetByEmail(ctx, r.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("lookup user for meeting sms", "email", r.Email, "err", err)
		}
		return
	}
	if u.Phone == "" {
		return
	}
	msg := "Your interview practice session has been scheduled."
	if r.MeetingTime != nil {
		msg = fmt.Sprintf("Your interview practice session is scheduled for %s.",
			r.MeetingTime.Format("Jan 2, 2006 15:04 MST"))
	}
	if r.MeetingLink != "" {
		msg += " Join: " + r.MeetingLink
	}
	if err := s.sms.SendSMS(ctx, u.Phone, msg); err != nil {
		slog.Warn("send meeting sms", "email", r.Email, "err", err)
	}
}

func (s *service) DownloadResume(ctx context.Context, requestID string) (io.ReadCloser, string, error) {
	r, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if r.ResumeKey == "" {
		return nil, "", fmt.Errorf("no resume on request %s: %w", requestID, domain.ErrNotFound)
	}
	body, err := s.resumes.Download(ctx, r.ResumeKey)
	if err != nil {
		return nil, "", err
	}
	filename := r.ResumeFilename
	if filename == "" {
		filename = requestID + ".pdf"
	}
	return body, filename, nil
}
