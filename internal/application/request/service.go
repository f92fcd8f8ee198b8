package request

import (
	"context"
	"sort"

	"github.com/wemakecorder/api/internal/domain"
)

// MyRequests bundles both request lists for one email.
type MyRequests struct {
	Counseling        []domain.CounselingRequest `json:"counseling_requests"`
	InterviewPractice []domain.InterviewRequest  `json:"interview_practice_requests"`
}

type Service interface {
	ListByEmail(ctx context.Context, email string) (*MyRequests, error)
	InterviewHistory(ctx context.Context, email string) ([]domain.InterviewRequest, error)
}

type counselingStore interface {
	ListByEmail(ctx context.Context, email string) ([]domain.CounselingRequest, error)
}

type interviewStore interface {
	ListByEmail(ctx context.Context, email string) ([]domain.InterviewRequest, error)
}

type service struct {
	counseling counselingStore
	interviews interviewStore
}

type ServiceDeps struct {
	CounselingRepo counselingStore
	InterviewRepo  interviewStore
}

func NewService(deps ServiceDeps) Service {
	return &service{counseling: deps.CounselingRepo, interviews: deps.InterviewRepo}
}

func (s *service) ListByEmail(ctx context.Context, email string) (*MyRequests, error) {
	email = domain.NormalizeEmail(email)

	counseling, err := s.counseling.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	interviews, err := s.interviews.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	sort.Slice(counseling, func(i, j int) bool { return counseling[i].CreatedAt.After(counseling[j].CreatedAt) })
	sort.Slice(interviews, func(i, j int) bool { return interviews[i].CreatedAt.After(interviews[j].CreatedAt) })

	// Empty slices, not nulls, on the wire.
	if counseling == nil {
		counseling = []domain.CounselingRequest{}
	}
	if interviews == nil {
		interviews = []domain.InterviewRequest{}
	}
	return &MyRequests{Counseling: counseling, InterviewPractice: interviews}, nil
}

func (s *service) InterviewHistory(ctx context.Context, email string) ([]domain.InterviewRequest, error) {
	interviews, err := s.interviews.ListByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	sort.Slice(interviews, func(i, j int) bool { return interviews[i].CreatedAt.After(interviews[j].CreatedAt) })
	if interviews == nil {
		interviews = []domain.InterviewRequest{}
	}
	return interviews, nil
}
