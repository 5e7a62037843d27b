package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core/course"
	"github.com/darslyhq/darsly/core/quiz"
	"github.com/darslyhq/darsly/core/user"
)

type quizApi struct {
	svc      *quiz.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *quiz.Service, userSvc *user.Service, validate *validator.Validate) {
	api := quizApi{svc: svc, userSvc: userSvc, validate: validate}

	g.POST("/quiz/verify-answer", api.verifyAnswer, jwt)
	g.GET("/progress", api.queryProgress, jwt)
}

// Handlers

func (api *quizApi) verifyAnswer(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data quiz.SubmitAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAnswer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.VerifyAnswer(ctx.Request().Context(), usr, data.LessonID, *data.QuestionIndex, *data.AnswerIndex)
	if err != nil {
		if errors.Cause(err) == course.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "verifying answer")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) queryProgress(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	progress, err := api.svc.ProgressFor(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	if progress == nil {
		progress = []quiz.Progress{}
	}
	return ctx.JSON(http.StatusOK, progress)
}
