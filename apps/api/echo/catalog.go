package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/catalog"
)

type catalogApi struct {
	svc      *catalog.Service
	validate *validator.Validate
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := catalogApi{svc: deps.CatalogSvc, validate: deps.Validate}

	tg := g.Group("/teacher-requests")
	tg.POST("", api.createRequest)
	tg.GET("", api.queryRequests)
	tg.PUT("/:id/:action", api.decideRequest, jwt, adminMiddleware(deps.UserSvc))

	cg := g.Group("/classes")
	cg.POST("", api.createClass)
	cg.GET("", api.queryClasses)
	cg.GET("/all", api.queryAllClasses, jwt, adminMiddleware(deps.UserSvc))
	cg.GET("/:id", api.retrieveClass)
	cg.PUT("/:id", api.updateClass, jwt, teacherMiddleware(deps.UserSvc))
	cg.DELETE("/:id", api.destroyClass, jwt, teacherMiddleware(deps.UserSvc))
	cg.PUT("/:id/:action", api.decideClass, jwt, adminMiddleware(deps.UserSvc))
}

// pastTense turns the decision actions into the success-message form
// ("approve" to "approved", "reject" to "rejected").
func pastTense(action string) string {
	return strings.TrimSuffix(action, "e") + "ed"
}

// Handlers

func (api *catalogApi) createRequest(ctx echo.Context) error {
	var data catalog.NewTeacherRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacherRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	req, err := api.svc.SubmitTeacherRequest(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting teacher request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *catalogApi) queryRequests(ctx echo.Context) error {
	var filter catalog.QueryFilter
	var page core.Pagination
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := ctx.Bind(&page); err != nil {
		return errors.Wrap(err, "binding to Pagination")
	}

	res, err := api.svc.ListTeacherRequests(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying teacher requests")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *catalogApi) decideRequest(ctx echo.Context) error {
	err := api.svc.DecideTeacherRequest(ctx.Request().Context(), ctx.Param("id"), ctx.Param("action"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return httpNotFound(catalog.ErrNotFound)
		}
		return errors.Wrap(err, "deciding teacher request")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "teacher request " + pastTense(ctx.Param("action"))})
}

func (api *catalogApi) createClass(ctx echo.Context) error {
	var data catalog.NewClassOffering
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassOffering")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	class, err := api.svc.SubmitClassOffering(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting class offering")
	}
	return ctx.JSON(http.StatusCreated, class)
}

func (api *catalogApi) queryClasses(ctx echo.Context) error {
	var filter catalog.QueryFilter
	var page core.Pagination
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := ctx.Bind(&page); err != nil {
		return errors.Wrap(err, "binding to Pagination")
	}

	res, err := api.svc.ListClassOfferings(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying class offerings")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *catalogApi) queryAllClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryAllClassOfferings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying all class offerings")
	}
	if classes == nil {
		classes = []catalog.ClassOffering{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *catalogApi) retrieveClass(ctx echo.Context) error {
	class, err := api.svc.GetClassOffering(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting class offering")
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api *catalogApi) updateClass(ctx echo.Context) error {
	var data catalog.UpdateClassOffering
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassOffering")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.UpdateClassOffering(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return httpNotFound(errors.New("class not found or no changes made"))
		}
		return errors.Wrap(err, "updating class offering")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "class updated"})
}

func (api *catalogApi) destroyClass(ctx echo.Context) error {
	if err := api.svc.DeleteClassOffering(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting class offering")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "class deleted"})
}

func (api *catalogApi) decideClass(ctx echo.Context) error {
	err := api.svc.DecideClassOffering(ctx.Request().Context(), ctx.Param("id"), ctx.Param("action"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return httpNotFound(catalog.ErrNotFound)
		}
		return errors.Wrap(err, "deciding class offering")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "class " + pastTense(ctx.Param("action"))})
}
