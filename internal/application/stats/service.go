package stats

import (
	"context"
	"time"

	"github.com/wemakecorder/api/internal/domain"
)

type Service interface {
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
}

type counselingCounter interface {
	Count(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type interviewCounter interface {
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

type service struct {
	counseling counselingCounter
	interviews interviewCounter
}

type ServiceDeps struct {
	CounselingRepo counselingCounter
	InterviewRepo  interviewCounter
}

func NewService(deps ServiceDeps) Service {
	return &service{counseling: deps.CounselingRepo, interviews: deps.InterviewRepo}
}

func (s *service) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	total, err := s.counseling.Count(ctx)
	if err != nil {
		return nil, err
	}
	interviews, err := s.interviews.Count(ctx)
	if err != nil {
		return nil, err
	}
	// "Today" is the server's UTC day.
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	todays, err := s.counseling.CountCreatedSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.interviews.CountByStatus(ctx, domain.StatusScheduled)
	if err != nil {
		return nil, err
	}
	return &domain.AdminStats{
		CounselingRequests: total,
		InterviewRequests:  interviews,
		TodaysRequests:     todays,
		ScheduledMeetings:  scheduled,
	}, nil
}
