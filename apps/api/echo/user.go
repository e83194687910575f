package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/user"
)

type userApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{svc: deps.UserSvc, validate: deps.Validate}

	ug := g.Group("/users")
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.GET("/search", api.search)
	ug.GET("/:uid/role", api.retrieveRole)

	// admin endpoints
	ag := ug.Group("", jwt, adminMiddleware(deps.UserSvc))
	ag.PUT("/make-teacher", api.makeTeacher)
	ag.PUT("/:id/make-admin", api.makeAdmin)
	ag.PUT("/:id/update-role", api.updateRole)
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrUserExists {
			return httpConflict(user.ErrUserExists)
		}
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	var users []user.User
	var err error
	if email := ctx.QueryParam("email"); email != "" {
		users, err = api.svc.FilterByEmail(rctx, email)
	} else {
		users, err = api.svc.QueryAll(rctx)
	}
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) search(ctx echo.Context) error {
	term := core.CleanString(ctx.QueryParam("term"))
	if term == "" {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	users, err := api.svc.Search(ctx.Request().Context(), term)
	if err != nil {
		return errors.Wrap(err, "searching users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieveRole(ctx echo.Context) error {
	role, err := api.svc.GetRoleByUID(ctx.Request().Context(), ctx.Param("uid"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting user role")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"role": role})
}

func (api *userApi) makeAdmin(ctx echo.Context) error {
	if err := api.svc.MakeAdmin(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "making user admin")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "user promoted to admin"})
}

func (api *userApi) updateRole(ctx echo.Context) error {
	var data user.RoleUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.SetRole(ctx.Request().Context(), ctx.Param("id"), data.Role); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating user role")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "user role updated"})
}

func (api *userApi) makeTeacher(ctx echo.Context) error {
	var data user.TeacherPromotion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherPromotion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.PromoteTeacherByEmail(ctx.Request().Context(), data.Email); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "promoting user to teacher")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "user promoted to teacher"})
}
