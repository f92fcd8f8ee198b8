package user

import (
	"context"
	"errors"

	"github.com/wemakecorder/api/internal/domain"
)

type Service interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	EnrolledCourses(ctx context.Context, userID string) ([]domain.Course, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type courseStore interface {
	Get(ctx context.Context, courseID string) (*domain.Course, error)
}

type service struct {
	users   userStore
	courses courseStore
}

type ServiceDeps struct {
	UserRepo   userStore
	CourseRepo courseStore
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, courses: deps.CourseRepo}
}

func (s *service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

// EnrolledCourses resolves the user's enrolled IDs against the courses table,
// skipping courses deleted since enrollment.
func (s *service) EnrolledCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(u.EnrolledCourseIDs))
	for _, cid := range u.EnrolledCourseIDs {
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
