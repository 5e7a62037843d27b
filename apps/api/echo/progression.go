package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core/progression"
	"github.com/darslyhq/darsly/core/user"
)

type progressionApi struct {
	svc     *progression.Service
	userSvc *user.Service
}

func registerProgressionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *progression.Service, userSvc *user.Service) {
	api := progressionApi{svc: svc, userSvc: userSvc}

	pg := g.Group("/progression", jwt)
	pg.POST("/level", api.updateLevel)
	pg.GET("/levels", api.queryLevels)
}

// Handlers

func (api *progressionApi) updateLevel(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data UpdateLevelRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLevelRequest")
	}
	if data.UserID == "" {
		data.UserID = usr.ID
	}

	res, err := api.svc.Recompute(ctx.Request().Context(), data.UserID, usr)
	if err != nil {
		switch errors.Cause(err) {
		case progression.ErrForbidden:
			return errHttpForbidden
		case user.ErrNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "recomputing level")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *progressionApi) queryLevels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Resolver().Levels())
}

type UpdateLevelRequest struct {
	UserID string `json:"user_id"`
}
