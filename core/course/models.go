package course

import "time"

// Difficulties
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type (
	Course struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		TitleFa        string    `json:"title_fa"`
		Description    string    `json:"description"`
		DescriptionFa  string    `json:"description_fa"`
		Icon           string    `json:"icon"`
		Difficulty     string    `json:"difficulty"`
		EstimatedHours int       `json:"estimated_hours"`
		CreatedAt      time.Time `json:"created_at"`
	}

	// QuizQuestion is one multiple-choice question of a lesson's quiz.
	// Correct is the index of the right option; it must never reach clients.
	QuizQuestion struct {
		Question   string   `json:"question"`
		QuestionFa string   `json:"question_fa"`
		Options    []string `json:"options"`
		OptionsFa  []string `json:"options_fa"`
		Correct    int      `json:"correct"`
	}

	Lesson struct {
		ID            string         `json:"id"`
		CourseID      string         `json:"course_id"`
		Title         string         `json:"title"`
		TitleFa       string         `json:"title_fa"`
		Content       string         `json:"content"`
		ContentFa     string         `json:"content_fa"`
		OrderIndex    int            `json:"order_index"`
		XPReward      int            `json:"xp_reward"`
		QuizQuestions []QuizQuestion `json:"quiz_questions"`
		CreatedAt     time.Time      `json:"created_at"`
	}
)
