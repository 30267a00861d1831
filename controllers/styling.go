package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"makeoverapi/flows"
	"makeoverapi/store"
)

type StylingController struct {
	Actions *flows.Actions
	Stores  store.Factory
	Now     func() time.Time
	Logger  *zap.Logger
}

func (controller *StylingController) ActionRoutes(g *echo.Group) {
	g.POST("/daily", func(c echo.Context) error {
		return handleAction(c, controller, true, flows.BuildDailySuggestion, controller.Actions.DailySuggestion)
	})
	g.POST("/event", func(c echo.Context) error {
		return handleAction(c, controller, true, flows.BuildEventStyling, controller.Actions.EventStyling)
	})
	g.POST("/regenerate", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildRegenerate, controller.Actions.Regenerate)
	})
	g.POST("/products", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildFindProducts, controller.Actions.FindProducts)
	})
	g.POST("/accessories", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildAccessoryTips, controller.Actions.AccessoryTips)
	})
	g.POST("/chat", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildStyleBot, controller.Actions.StyleBot)
	})
	g.POST("/fact", func(c echo.Context) error {
		build := func(in flows.FashionFactInput, _ flows.ContextSnapshot) (flows.FashionFactRequest, error) {
			return flows.BuildFashionFact(in, controller.Now())
		}
		return handleAction(c, controller, false, build, controller.Actions.FashionFact)
	})
	g.POST("/visual", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildVisualDesign, controller.Actions.VisualDesign)
	})
	g.POST("/quiz", func(c echo.Context) error {
		return handleAction(c, controller, false, flows.BuildStyleQuiz, controller.Actions.StyleQuiz)
	})
	g.POST("/instant", func(c echo.Context) error {
		return handleAction(c, controller, true, flows.BuildInstantStyle, controller.Actions.InstantStyle)
	})
}

// handleAction binds the input, builds the request against the caller's
// stored context and runs the action. Builder validation errors are the only
// ones that reach the client as 400, everything after that is the action's
// own {"error": ...} answer.
func handleAction[In any, Req any, Out any](
	c echo.Context,
	controller *StylingController,
	withContext bool,
	build func(In, flows.ContextSnapshot) (Req, error),
	act func(context.Context, Req) flows.ActionResponse[Out],
) error {
	ctx := c.Request().Context()
	var in In
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var snapshot flows.ContextSnapshot
	if withContext {
		user, _ := currentUser(c)
		contextStore, err := controller.Stores(ctx, user.ID)
		if err == nil {
			snapshot, err = store.Snapshot(ctx, contextStore)
		}
		if err != nil {
			controller.Logger.Error("load styling context", zap.Uint("user_id", user.ID), zap.Error(err))
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load your profile"})
		}
	}

	req, err := build(in, snapshot)
	if err != nil {
		var validationErr *flows.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": validationErr.Error(),
				"field": validationErr.Field,
			})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, act(ctx, req))
}
