// Package dummydb is an in-memory implementation of the core repositories,
// used by tests and local development without a database.
package dummydb

import (
	"sync"

	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/quiz"
	"github.com/darslyhq/darsly/core/user"
	"github.com/darslyhq/darsly/core/waitlist"
)

type (
	DB struct {
		user     *userTable
		course   *courseTable
		quiz     *quizTable
		waitlist *waitlistTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		sync.RWMutex
		courses map[string]*course.Course
		lessons map[string]*course.Lesson
	}

	answerKey struct {
		userID        string
		lessonID      string
		questionIndex int
	}

	progressKey struct {
		userID   string
		lessonID string
	}

	quizTable struct {
		sync.RWMutex
		answers  map[answerKey]quiz.Answer
		progress map[progressKey]*quiz.Progress
	}

	waitlistTable struct {
		sync.RWMutex
		table map[string]*waitlist.Entry // keyed by email
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		course: &courseTable{
			courses: make(map[string]*course.Course),
			lessons: make(map[string]*course.Lesson),
		},
		quiz: &quizTable{
			answers:  make(map[answerKey]quiz.Answer),
			progress: make(map[progressKey]*quiz.Progress),
		},
		waitlist: &waitlistTable{table: make(map[string]*waitlist.Entry)},
	}
	return db, nil
}
