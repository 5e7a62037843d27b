package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core/waitlist"
)

type waitlistApi struct {
	svc      *waitlist.Service
	validate *validator.Validate
}

func registerWaitlistAPI(g *echo.Group, svc *waitlist.Service, validate *validator.Validate) {
	api := waitlistApi{svc: svc, validate: validate}

	g.POST("/waitlist", api.join)
}

func registerWaitlistAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *waitlist.Service) {
	api := waitlistApi{svc: svc}

	g.GET("/waitlist", api.query, jwt, adminMiddleware())
}

// Handlers

func (api *waitlistApi) join(ctx echo.Context) error {
	var data waitlist.Signup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Signup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Join(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "joining waitlist")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *waitlistApi) query(ctx echo.Context) error {
	entries, err := api.svc.Entries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying waitlist entries")
	}
	if entries == nil {
		entries = []waitlist.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}
