package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/quiz"
)

type progressRow struct {
	UserID      string    `db:"user_id"`
	LessonID    string    `db:"lesson_id"`
	Completed   bool      `db:"completed"`
	CompletedAt null.Time `db:"completed_at"`
}

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) *quizRepository {
	return &quizRepository{db: db}
}

// AwardAnswer runs the whole award in one transaction. The answer row's
// primary key is the dedup gate: when the insert hits an existing row the
// transaction is rolled back and nothing else is touched.
func (repo quizRepository) AwardAnswer(ctx context.Context, ans quiz.Answer, xpDelta, totalQuestions int) (bool, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO lesson_answers (user_id, lesson_id, question_index, answered_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, lesson_id, question_index) DO NOTHING`,
		ans.UserID, ans.LessonID, ans.QuestionIndex, ans.AnsweredAt.UTC(),
	)
	if err != nil {
		return false, errors.Wrap(err, "recording answer")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "recording answer")
	}
	if n == 0 {
		return false, nil // already awarded
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE profiles SET xp = xp + $2, updated_at = NOW() WHERE id = $1`,
		ans.UserID, xpDelta,
	); err != nil {
		return false, errors.Wrap(err, "incrementing XP")
	}

	var answered int
	if err = tx.GetContext(ctx, &answered,
		`SELECT COUNT(*) FROM lesson_answers WHERE user_id = $1 AND lesson_id = $2`,
		ans.UserID, ans.LessonID,
	); err != nil {
		return false, errors.Wrap(err, "counting answers")
	}
	if answered >= totalQuestions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO user_progress (user_id, lesson_id, completed, completed_at)
			 VALUES ($1, $2, TRUE, $3)
			 ON CONFLICT (user_id, lesson_id) DO UPDATE
			 SET completed = TRUE, completed_at = COALESCE(user_progress.completed_at, EXCLUDED.completed_at)`,
			ans.UserID, ans.LessonID, ans.AnsweredAt.UTC(),
		); err != nil {
			return false, errors.Wrap(err, "recording completion")
		}
	}

	if err = tx.Commit(); err != nil {
		return false, errors.Wrap(err, "committing transaction")
	}
	return true, nil
}

func (repo quizRepository) QueryProgressByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) ([]quiz.Progress, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT user_id, lesson_id, completed, completed_at FROM user_progress WHERE user_id = $1`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	progress := make([]quiz.Progress, 0, len(rows))
	for _, r := range rows {
		progress = append(progress, quiz.Progress{
			UserID:      r.UserID,
			LessonID:    r.LessonID,
			Completed:   r.Completed,
			CompletedAt: r.CompletedAt.Time,
		})
	}
	return progress, nil
}
