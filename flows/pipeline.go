package flows

import (
	"context"

	"go.uber.org/zap"
)

// EventStyler is the nested flow the style bot calls as a tool.
type EventStyler interface {
	EventStyling(ctx context.Context, req EventStylingRequest) (*GenerationResult, error)
}

// Pipeline runs the styling flows. It holds no per-request state, so one
// value is shared by all handlers.
type Pipeline struct {
	Text     TextGenerator
	Image    ImageGenerator
	Products ProductFinder
	Policies ImagePolicies
	// Events defaults to the pipeline itself
	Events EventStyler
	Logger *zap.Logger
}

func NewPipeline(text TextGenerator, image ImageGenerator, products ProductFinder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Text:     text,
		Image:    image,
		Products: products,
		Policies: DefaultImagePolicies,
		Logger:   logger,
	}
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) policies() ImagePolicies {
	if p.Policies == nil {
		return DefaultImagePolicies
	}
	return p.Policies
}

func (p *Pipeline) events() EventStyler {
	if p.Events == nil {
		return p
	}
	return p.Events
}
