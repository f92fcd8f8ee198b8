package course

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wemakecorder/api/internal/domain"
	"github.com/wemakecorder/api/internal/pkg/id"
)

type Service interface {
	ListPublished(ctx context.Context) ([]domain.Course, error)
	ListAll(ctx context.Context) ([]domain.Course, error)
	Create(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error)
	Update(ctx context.Context, courseID string, req domain.UpdateCourseRequest) (*domain.Course, error)
	Delete(ctx context.Context, courseID string) error
	Enroll(ctx context.Context, userID, courseID string) error
	ResolveEnrolled(ctx context.Context, courseIDs []string) ([]domain.Course, error)
}

type courseStore interface {
	Put(ctx context.Context, c *domain.Course) error
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	Scan(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, courseID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, courseID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	courses courseStore
	users   userStore
}

type ServiceDeps struct {
	CourseRepo courseStore
	UserRepo   userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{courses: deps.CourseRepo, users: deps.UserRepo}
}

func (s *service) ListPublished(ctx context.Context) ([]domain.Course, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]domain.Course, 0, len(all))
	for _, c := range all {
		if c.Published {
			published = append(published, c)
		}
	}
	return published, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error) {
	now := time.Now().UTC()
	level := req.Level
	if level == "" {
		level = domain.LevelBeginner
	}
	c := &domain.Course{
		CourseID:    id.New(),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Level:       level,
		Published:   req.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.courses.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, courseID string, req domain.UpdateCourseRequest) (*domain.Course, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if len(updates) == 0 {
		return s.courses.Get(ctx, courseID)
	}
	if err := s.courses.Update(ctx, courseID, updates); err != nil {
		return nil, err
	}
	return s.courses.Get(ctx, courseID)
}

func (s *service) Delete(ctx context.Context, courseID string) error {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return err
	}
	return s.courses.HardDelete(ctx, courseID)
}

// Enroll appends courseID to the user's enrolled list. Re-enrolling the same
// course is a conflict, not a silent no-op.
func (s *service) Enroll(ctx context.Context, userID, courseID string) error {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	for _, enrolled := range u.EnrolledCourseIDs {
		if enrolled == courseID {
			return fmt.Errorf("already enrolled in course %s: %w", courseID, domain.ErrConflict)
		}
	}
	ids := append(append([]string{}, u.EnrolledCourseIDs...), courseID)
	return s.users.Update(ctx, userID, map[string]interface{}{"enrolled_course_ids": ids})
}

// ResolveEnrolled maps a user's enrolled course IDs to full courses, skipping
// any that were deleted since enrollment.
func (s *service) ResolveEnrolled(ctx context.Context, courseIDs []string) ([]domain.Course, error) {
	courses := make([]domain.Course, 0, len(courseIDs))
	for _, cid := range courseIDs {
		c, err := s.courses.Get(ctx, cid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, nil
}
