package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darslyhq/darsly/core"
)

type (
	// Answer is the dedup record of one awarded quiz answer. The unique
	// (user, lesson, question) key is what keeps client retries and
	// double-clicks from awarding XP twice.
	Answer struct {
		UserID        string    `json:"-"`
		LessonID      string    `json:"lesson_id"`
		QuestionIndex int       `json:"question_index"`
		AnsweredAt    time.Time `json:"answered_at"`
	}

	// Progress marks a lesson as completed for a user once every quiz
	// question has been answered correctly.
	Progress struct {
		UserID      string    `json:"-"`
		LessonID    string    `json:"lesson_id"`
		Completed   bool      `json:"completed"`
		CompletedAt time.Time `json:"completed_at,omitempty"`
	}

	// SubmitAnswer is the payload of a quiz answer submission.
	SubmitAnswer struct {
		LessonID      string `json:"lesson_id" validate:"required"`
		QuestionIndex *int   `json:"question_index" validate:"required"`
		AnswerIndex   *int   `json:"answer_index" validate:"required"`
	}

	// Result is what the client gets back for a submission.
	Result struct {
		Correct      bool   `json:"correct"`
		XPAwarded    int    `json:"xp_awarded"`
		LeveledUp    bool   `json:"leveled_up"`
		NewLevel     int    `json:"new_level,omitempty"`
		NewRankTitle string `json:"new_rank_title,omitempty"`
	}
)

func (sa *SubmitAnswer) Validate(validate *validator.Validate) error {
	sa.LessonID = core.CleanString(sa.LessonID)
	return validate.Struct(sa)
}
