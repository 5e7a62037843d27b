package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/lessons", api.queryLessons)

	g.GET("/lessons/:id", api.retrieveLesson, jwt)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrCourseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.svc.Lessons(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrCourseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying lessons")
	}

	res := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		res = append(res, newLessonResponse(l))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *courseApi) retrieveLesson(ctx echo.Context) error {
	l, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting lesson")
	}
	return ctx.JSON(http.StatusOK, newLessonResponse(l))
}

type (
	// QuizQuestionResponse is a quiz question as served to clients: the index
	// of the correct option stays server-side.
	QuizQuestionResponse struct {
		Question   string   `json:"question"`
		QuestionFa string   `json:"question_fa"`
		Options    []string `json:"options"`
		OptionsFa  []string `json:"options_fa"`
	}

	LessonResponse struct {
		ID            string                 `json:"id"`
		CourseID      string                 `json:"course_id"`
		Title         string                 `json:"title"`
		TitleFa       string                 `json:"title_fa"`
		Content       string                 `json:"content"`
		ContentFa     string                 `json:"content_fa"`
		OrderIndex    int                    `json:"order_index"`
		XPReward      int                    `json:"xp_reward"`
		QuizQuestions []QuizQuestionResponse `json:"quiz_questions"`
		CreatedAt     time.Time              `json:"created_at"`
	}
)

func newLessonResponse(l course.Lesson) LessonResponse {
	questions := make([]QuizQuestionResponse, 0, len(l.QuizQuestions))
	for _, q := range l.QuizQuestions {
		questions = append(questions, QuizQuestionResponse{
			Question:   q.Question,
			QuestionFa: q.QuestionFa,
			Options:    q.Options,
			OptionsFa:  q.OptionsFa,
		})
	}
	return LessonResponse{
		ID:            l.ID,
		CourseID:      l.CourseID,
		Title:         l.Title,
		TitleFa:       l.TitleFa,
		Content:       l.Content,
		ContentFa:     l.ContentFa,
		OrderIndex:    l.OrderIndex,
		XPReward:      l.XPReward,
		QuizQuestions: questions,
		CreatedAt:     l.CreatedAt,
	}
}
