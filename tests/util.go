// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/progression"
	"github.com/darslyhq/darsly/core/user"
)

var confOnce sync.Once

// Config loads the app configuration once and puts it in test mode.
func Config() *core.Config {
	confOnce.Do(func() {
		conf := core.NewConfig()
		conf.TestMode = true
		conf.Debug = false
	})
	return core.Conf
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

// CreateUser persists a user with the given XP and the level/rank derived
// from it.
func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, xp int, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	level, rankTitle := progression.NewResolver().Resolve(xp)
	usr := user.User{
		Name:      name,
		Email:     email,
		XP:        xp,
		Level:     level,
		RankTitle: rankTitle,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CatalogSeeder seeds courses and lessons; satisfied by the dummydb course repository.
type CatalogSeeder interface {
	CreateCourse(c course.Course) course.Course
	CreateLesson(l course.Lesson) course.Lesson
}

func CreateCourse(t *testing.T, seeder CatalogSeeder, title string) course.Course {
	t.Helper()

	return seeder.CreateCourse(course.Course{
		Title:      title,
		Difficulty: course.DifficultyBeginner,
		CreatedAt:  time.Now().UTC(),
	})
}

func CreateLesson(t *testing.T, seeder CatalogSeeder, courseID string, xpReward int, questions ...course.QuizQuestion) course.Lesson {
	t.Helper()

	return seeder.CreateLesson(course.Lesson{
		CourseID:      courseID,
		Title:         "Lesson",
		XPReward:      xpReward,
		QuizQuestions: questions,
		CreatedAt:     time.Now().UTC(),
	})
}

// Question builds a multiple choice question with the correct option index.
func Question(text string, correct int, options ...string) course.QuizQuestion {
	return course.QuizQuestion{
		Question: text,
		Options:  options,
		Correct:  correct,
	}
}
