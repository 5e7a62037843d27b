// Package course holds the read-only learning catalog: courses and their
// ordered lessons, each lesson carrying its quiz and XP reward.
package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
)

var (
	// errors
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		QueryAllCourses(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		// QueryLessonsByCourseID returns the course's lessons ordered by OrderIndex.
		QueryLessonsByCourseID(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id string, exec ...core.DBExecutor) (Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Lessons(ctx context.Context, courseID string) ([]Lesson, error) {
	// surface unknown courses instead of an empty lesson list
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryLessonsByCourseID(ctx, courseID)
}

func (svc *Service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}
