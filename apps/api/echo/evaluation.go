package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core/evaluation"
)

type evaluationApi struct {
	svc      *evaluation.Service
	validate *validator.Validate
}

func registerEvaluationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := evaluationApi{svc: deps.EvalSvc, validate: deps.Validate}

	g.POST("/classes/:id/evaluate", api.evaluate, jwt)
	g.GET("/reviews", api.queryReviews)
}

// Handlers

func (api *evaluationApi) evaluate(ctx echo.Context) error {
	var data evaluation.NewEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	uid, err := getContextUID(ctx)
	if err != nil {
		return err
	}

	ev, err := api.svc.Evaluate(ctx.Request().Context(), ctx.Param("id"), uid, data)
	if err != nil {
		if errors.Cause(err) == evaluation.ErrAlreadyReviewed {
			return httpConflict(evaluation.ErrAlreadyReviewed)
		}
		return errors.Wrap(err, "evaluating class")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *evaluationApi) queryReviews(ctx echo.Context) error {
	reviews, err := api.svc.ListAllReviews(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	return ctx.JSON(http.StatusOK, reviews)
}
