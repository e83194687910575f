package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core/resource"
)

type resourceApi struct {
	svc      *resource.Service
	validate *validator.Validate
}

func registerResourceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := resourceApi{svc: deps.ResSvc, validate: deps.Validate}
	teacher := teacherMiddleware(deps.UserSvc)

	g.POST("/classes/:id/resources", api.create, jwt, teacher)
	g.GET("/classes/:id/resources", api.queryByClass)
	g.DELETE("/resources/:id", api.destroy, jwt, teacher)
}

// Handlers

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Add(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding resource")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resourceApi) queryByClass(ctx echo.Context) error {
	resources, err := api.svc.ListByClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return httpNotFound(resource.ErrNotFound)
		}
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "resource deleted"})
}
