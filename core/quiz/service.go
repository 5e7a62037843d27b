// Package quiz verifies submitted quiz answers, awards XP for correct ones
// and feeds the result into the progression ladder.
package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/progression"
	"github.com/darslyhq/darsly/core/user"
)

var (
	errBadQuestionIndex = errors.New("invalid question index")
)

type (
	Repository interface {
		// AwardAnswer atomically records a correct answer: the answer dedup row,
		// the profile XP increment and - once every question of the lesson has
		// been answered - the lesson completion record, all in one transaction.
		// Reports false without any mutation when the answer was already awarded.
		AwardAnswer(ctx context.Context, ans Answer, xpDelta, totalQuestions int) (bool, error)
		QueryProgressByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) ([]Progress, error)
	}

	Service struct {
		repo       Repository
		courseRepo course.Repository
		progSvc    *progression.Service
		logger     core.Logger
	}
)

func NewService(repo Repository, courseRepo course.Repository, progSvc *progression.Service, logger core.Logger) *Service {
	return &Service{
		repo:       repo,
		courseRepo: courseRepo,
		progSvc:    progSvc,
		logger:     logger,
	}
}

// VerifyAnswer checks the actor's answer to one quiz question.
//
// A wrong answer mutates nothing. A correct answer awards
// floor(xp_reward / question count) XP to the actor's own profile exactly
// once, then re-derives their level in-process. A failed level check after a
// committed XP award is reported as no level-up rather than failing the
// submission: a dropped level-up notification is acceptable, a phantom one
// is not.
func (svc *Service) VerifyAnswer(ctx context.Context, actor user.User, lessonID string, questionIndex, answerIndex int) (Result, error) {
	lesson, err := svc.courseRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Cause(err) == course.ErrLessonNotFound {
			return Result{}, err
		}
		return Result{}, errors.Wrap(err, "finding lesson")
	}

	numQuestions := len(lesson.QuizQuestions)
	if questionIndex < 0 || questionIndex >= numQuestions {
		return Result{}, core.NewValidationError(errBadQuestionIndex, core.FieldError{
			Field: "question_index",
			Error: errBadQuestionIndex.Error(),
		})
	}

	if answerIndex != lesson.QuizQuestions[questionIndex].Correct {
		return Result{Correct: false}, nil
	}

	awarded, err := svc.repo.AwardAnswer(ctx, Answer{
		UserID:        actor.ID,
		LessonID:      lesson.ID,
		QuestionIndex: questionIndex,
		AnsweredAt:    time.Now().UTC(),
	}, lesson.XPReward/numQuestions, numQuestions)
	if err != nil {
		return Result{}, errors.Wrap(err, "awarding answer")
	}
	if !awarded {
		// duplicate submission; the answer stays correct but nothing more is owed
		return Result{Correct: true}, nil
	}

	res := Result{Correct: true, XPAwarded: lesson.XPReward / numQuestions}
	levelUp, err := svc.progSvc.Recompute(ctx, actor.ID, actor)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("checking level up: %v", err), err, actor)
		return res, nil
	}
	if levelUp.LeveledUp {
		res.LeveledUp = true
		res.NewLevel = levelUp.NewLevel
		res.NewRankTitle = levelUp.NewRankTitle
	}
	return res, nil
}

// ProgressFor returns the actor's lesson completion records.
func (svc *Service) ProgressFor(ctx context.Context, actor user.User) ([]Progress, error) {
	return svc.repo.QueryProgressByUserID(ctx, actor.ID)
}
