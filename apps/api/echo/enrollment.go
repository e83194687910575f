package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core/enrollment"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := enrollmentApi{svc: deps.EnrollSvc, validate: deps.Validate}

	g.POST("/enroll", api.enroll, jwt)
	g.GET("/enrolled-classes/:userId", api.queryEnrolled)
	g.PUT("/classes/:id/progress", api.updateProgress, jwt)
	g.POST("/payments", api.createPayment, jwt)
}

// Handlers

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	uid, err := getContextUID(ctx)
	if err != nil {
		return err
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), data.ClassID, uid)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrAlreadyEnrolled {
			return httpConflict(enrollment.ErrAlreadyEnrolled)
		}
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) queryEnrolled(ctx echo.Context) error {
	courses, err := api.svc.ListEnrolledCourses(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying enrolled courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *enrollmentApi) updateProgress(ctx echo.Context) error {
	var data enrollment.ProgressUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressUpdate")
	}
	uid, err := getContextUID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.UpdateProgress(ctx.Request().Context(), ctx.Param("id"), uid, data.Progress); err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return httpNotFound(enrollment.ErrNotFound)
		}
		return errors.Wrap(err, "updating progress")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "progress updated"})
}

func (api *enrollmentApi) createPayment(ctx echo.Context) error {
	var data enrollment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	uid, err := getContextUID(ctx)
	if err != nil {
		return err
	}

	txnID, err := api.svc.RecordPayment(ctx.Request().Context(), data, uid)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrClassNotFound {
			return httpNotFound(enrollment.ErrClassNotFound)
		}
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"transaction_id": txnID,
		"status":         enrollment.PaymentStatusCompleted,
	})
}
