package dummydb

import (
	"context"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/quiz"
	"github.com/darslyhq/darsly/core/user"
)

type quizRepository struct {
	db     *quizTable
	userDB *userTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{db: db.quiz, userDB: db.user}
}

func (repo *quizRepository) AwardAnswer(ctx context.Context, ans quiz.Answer, xpDelta, totalQuestions int) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := answerKey{ans.UserID, ans.LessonID, ans.QuestionIndex}
	if _, ok := repo.db.answers[key]; ok {
		return false, nil // already awarded
	}

	repo.userDB.Lock()
	usr, ok := repo.userDB.table[ans.UserID]
	if !ok {
		repo.userDB.Unlock()
		return false, user.ErrNotFound
	}
	usr.XP += xpDelta
	repo.userDB.Unlock()

	repo.db.answers[key] = ans

	answered := 0
	for k := range repo.db.answers {
		if k.userID == ans.UserID && k.lessonID == ans.LessonID {
			answered++
		}
	}
	if answered >= totalQuestions {
		pk := progressKey{ans.UserID, ans.LessonID}
		if _, ok := repo.db.progress[pk]; !ok {
			repo.db.progress[pk] = &quiz.Progress{
				UserID:      ans.UserID,
				LessonID:    ans.LessonID,
				Completed:   true,
				CompletedAt: ans.AnsweredAt,
			}
		}
	}
	return true, nil
}

func (repo *quizRepository) QueryProgressByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) ([]quiz.Progress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	progress := make([]quiz.Progress, 0)
	for _, p := range repo.db.progress {
		if p.UserID == userID {
			progress = append(progress, *p)
		}
	}
	return progress, nil
}
