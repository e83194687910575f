package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := assignmentApi{svc: deps.AsgSvc, validate: deps.Validate}
	teacher := teacherMiddleware(deps.UserSvc)

	g.POST("/classes/:id/assignments", api.create, jwt, teacher)
	g.GET("/classes/:id/assignments", api.queryByClass)

	ag := g.Group("/assignments")
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, jwt, teacher)
	ag.DELETE("/:id", api.destroy, jwt, teacher)
	ag.POST("/:id/submit", api.submit, jwt)
	ag.GET("/:id/submissions", api.querySubmissions)

	g.PUT("/submissions/:id/grade", api.grade, jwt, teacher)
	g.GET("/students/:userId/submissions", api.queryStudentSubmissions)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Create(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return httpNotFound(assignment.ErrNotFound)
		}
		return errors.Wrap(err, "getting assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) queryByClass(ctx echo.Context) error {
	assignments, err := api.svc.ListByClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return httpNotFound(errors.New("assignment not found or no changes made"))
		}
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "assignment updated"})
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return httpNotFound(assignment.ErrNotFound)
		}
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "assignment deleted"})
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	uid, err := getContextUID(ctx)
	if err != nil {
		return err
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"), uid, data)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return httpNotFound(assignment.ErrNotFound)
		}
		return errors.Wrap(err, "submitting")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	views, err := api.svc.ListSubmissionsForAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	var data assignment.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.Grade(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return httpNotFound(assignment.ErrSubmissionNotFound)
		}
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "submission graded"})
}

func (api *assignmentApi) queryStudentSubmissions(ctx echo.Context) error {
	views, err := api.svc.ListSubmissionsForStudent(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying student submissions")
	}
	return ctx.JSON(http.StatusOK, views)
}
