package flows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

var failureMessages = map[FlowName]string{
	FlowDaily:      "Failed to generate daily outfit suggestion.",
	FlowEvent:      "Failed to generate event outfit.",
	FlowRegenerate: "Failed to regenerate outfit.",
	FlowProducts:   "Failed to find products for outfit.",
	FlowAccessory:  "Failed to fetch accessory tips.",
	FlowStyleBot:   "Failed to get response from Style Bot.",
	FlowFact:       "Failed to fetch fashion fact.",
	FlowVisual:     "Failed to generate visual design.",
	FlowQuiz:       "Failed to generate outfit from quiz.",
	FlowInstant:    "Failed to generate instant style.",
}

func FailureMessage(flow FlowName) string {
	if msg, ok := failureMessages[flow]; ok {
		return msg
	}
	return "Something went wrong."
}

// ActionResponse marshals to the result object or to {"error": "..."}.
type ActionResponse[T any] struct {
	Result *T
	Error  string
}

func (r ActionResponse[T]) Failed() bool {
	return r.Error != ""
}

func (r ActionResponse[T]) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(r.Result)
}

// Actions is the only error boundary of the flows. Every failure below it is
// logged, reported and replaced with the flow's fixed message.
type Actions struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewActions(pipeline *Pipeline, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{pipeline: pipeline, logger: logger}
}

func runAction[T any](ctx context.Context, a *Actions, flow FlowName, fn func(context.Context) (*T, error)) (resp ActionResponse[T]) {
	defer func() {
		if r := recover(); r != nil {
			resp = ActionResponse[T]{Error: a.report(ctx, flow, fmt.Errorf("panic: %v", r))}
		}
	}()
	result, err := fn(ctx)
	if err == nil && result == nil {
		err = fmt.Errorf("%s returned no result", flow)
	}
	if err != nil {
		return ActionResponse[T]{Error: a.report(ctx, flow, err)}
	}
	return ActionResponse[T]{Result: result}
}

func (a *Actions) report(ctx context.Context, flow FlowName, err error) string {
	a.logger.Error("flow failed",
		zap.String("flow", string(flow)),
		zap.Error(err),
	)
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("flow", string(flow))
		hub.CaptureException(err)
	})
	return FailureMessage(flow)
}

func (a *Actions) DailySuggestion(ctx context.Context, req DailySuggestionRequest) ActionResponse[GenerationResult] {
	return runAction(ctx, a, FlowDaily, func(ctx context.Context) (*GenerationResult, error) {
		return a.pipeline.DailySuggestion(ctx, req)
	})
}

func (a *Actions) EventStyling(ctx context.Context, req EventStylingRequest) ActionResponse[GenerationResult] {
	return runAction(ctx, a, FlowEvent, func(ctx context.Context) (*GenerationResult, error) {
		return a.pipeline.EventStyling(ctx, req)
	})
}

func (a *Actions) Regenerate(ctx context.Context, req RegenerateRequest) ActionResponse[GenerationResult] {
	return runAction(ctx, a, FlowRegenerate, func(ctx context.Context) (*GenerationResult, error) {
		return a.pipeline.Regenerate(ctx, req)
	})
}

func (a *Actions) StyleQuiz(ctx context.Context, req StyleQuizRequest) ActionResponse[GenerationResult] {
	return runAction(ctx, a, FlowQuiz, func(ctx context.Context) (*GenerationResult, error) {
		return a.pipeline.StyleQuiz(ctx, req)
	})
}

func (a *Actions) InstantStyle(ctx context.Context, req InstantStyleRequest) ActionResponse[GenerationResult] {
	return runAction(ctx, a, FlowInstant, func(ctx context.Context) (*GenerationResult, error) {
		return a.pipeline.InstantStyle(ctx, req)
	})
}

func (a *Actions) VisualDesign(ctx context.Context, req VisualDesignRequest) ActionResponse[VisualDesignOutput] {
	return runAction(ctx, a, FlowVisual, func(ctx context.Context) (*VisualDesignOutput, error) {
		return a.pipeline.VisualDesign(ctx, req)
	})
}

func (a *Actions) AccessoryTips(ctx context.Context, req AccessoryTipsRequest) ActionResponse[AccessoryTipsOutput] {
	return runAction(ctx, a, FlowAccessory, func(ctx context.Context) (*AccessoryTipsOutput, error) {
		return a.pipeline.AccessoryTips(ctx, req)
	})
}

func (a *Actions) FashionFact(ctx context.Context, req FashionFactRequest) ActionResponse[FashionFactOutput] {
	return runAction(ctx, a, FlowFact, func(ctx context.Context) (*FashionFactOutput, error) {
		return a.pipeline.FashionFact(ctx, req)
	})
}

func (a *Actions) FindProducts(ctx context.Context, req FindProductsRequest) ActionResponse[FindProductsOutput] {
	return runAction(ctx, a, FlowProducts, func(ctx context.Context) (*FindProductsOutput, error) {
		return a.pipeline.FindProducts(ctx, req)
	})
}

func (a *Actions) StyleBot(ctx context.Context, req StyleBotRequest) ActionResponse[StyleBotOutput] {
	return runAction(ctx, a, FlowStyleBot, func(ctx context.Context) (*StyleBotOutput, error) {
		return a.pipeline.StyleBot(ctx, req)
	})
}
