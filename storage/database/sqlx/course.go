package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/course"
)

const (
	courseColumns = `id, title, title_fa, description, description_fa, icon, difficulty, estimated_hours, created_at`
	lessonColumns = `id, course_id, title, title_fa, content, content_fa, order_index, xp_reward, quiz_questions, created_at`
)

type (
	courseRow struct {
		ID             string    `db:"id"`
		Title          string    `db:"title"`
		TitleFa        string    `db:"title_fa"`
		Description    string    `db:"description"`
		DescriptionFa  string    `db:"description_fa"`
		Icon           string    `db:"icon"`
		Difficulty     string    `db:"difficulty"`
		EstimatedHours int       `db:"estimated_hours"`
		CreatedAt      time.Time `db:"created_at"`
	}

	lessonRow struct {
		ID            string         `db:"id"`
		CourseID      string         `db:"course_id"`
		Title         string         `db:"title"`
		TitleFa       string         `db:"title_fa"`
		Content       string         `db:"content"`
		ContentFa     string         `db:"content_fa"`
		OrderIndex    int            `db:"order_index"`
		XPReward      int            `db:"xp_reward"`
		QuizQuestions types.JSONText `db:"quiz_questions"`
		CreatedAt     time.Time      `db:"created_at"`
	}
)

func (r courseRow) course() course.Course {
	return course.Course{
		ID:             r.ID,
		Title:          r.Title,
		TitleFa:        r.TitleFa,
		Description:    r.Description,
		DescriptionFa:  r.DescriptionFa,
		Icon:           r.Icon,
		Difficulty:     r.Difficulty,
		EstimatedHours: r.EstimatedHours,
		CreatedAt:      r.CreatedAt,
	}
}

func (r lessonRow) lesson() (course.Lesson, error) {
	var questions []course.QuizQuestion
	if len(r.QuizQuestions) > 0 {
		if err := json.Unmarshal(r.QuizQuestions, &questions); err != nil {
			return course.Lesson{}, errors.Wrap(err, "decoding quiz questions")
		}
	}
	return course.Lesson{
		ID:            r.ID,
		CourseID:      r.CourseID,
		Title:         r.Title,
		TitleFa:       r.TitleFa,
		Content:       r.Content,
		ContentFa:     r.ContentFa,
		OrderIndex:    r.OrderIndex,
		XPReward:      r.XPReward,
		QuizQuestions: questions,
		CreatedAt:     r.CreatedAt,
	}, nil
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) QueryAllCourses(ctx context.Context, exec ...core.DBExecutor) ([]course.Course, error) {
	var rows []courseRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.course())
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	var row courseRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrCourseNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course by ID")
	}
	return row.course(), nil
}

func (repo courseRepository) QueryLessonsByCourseID(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]course.Lesson, error) {
	var rows []lessonRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT `+lessonColumns+` FROM lessons WHERE course_id = $1 ORDER BY order_index ASC`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]course.Lesson, 0, len(rows))
	for _, r := range rows {
		lesson, err := r.lesson()
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

func (repo courseRepository) GetLessonByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Lesson, error) {
	var row lessonRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row,
		`SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Lesson{}, course.ErrLessonNotFound
		}
		return course.Lesson{}, errors.Wrap(err, "getting lesson by ID")
	}
	return row.lesson()
}
