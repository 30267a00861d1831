package flows

import "context"

type VisualDesignOutput struct {
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// StyleQuiz turns the quiz answers into an outfit with a primary image.
func (p *Pipeline) StyleQuiz(ctx context.Context, req StyleQuizRequest) (*GenerationResult, error) {
	var text OutfitText
	if err := p.textStep(ctx, FlowQuiz, PromptQuiz, req, titledOutfitSchema, &text); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowQuiz, quizImagePrompt(req, text.ItemsList))
	if err != nil {
		return nil, err
	}
	result := Assemble(text, image, "")
	return &result, nil
}

func (p *Pipeline) InstantStyle(ctx context.Context, req InstantStyleRequest) (*GenerationResult, error) {
	var text OutfitText
	if err := p.textStep(ctx, FlowInstant, PromptInstant, req, titledOutfitSchema, &text, withMedia(req.Photo)); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowInstant, instantImagePrompt(text.ItemsList, req.StylePreferences))
	if err != nil {
		return nil, err
	}
	result := Assemble(text, image, "")
	return &result, nil
}

func (p *Pipeline) VisualDesign(ctx context.Context, req VisualDesignRequest) (*VisualDesignOutput, error) {
	var text struct {
		Description string `json:"description"`
	}
	if err := p.textStep(ctx, FlowVisual, PromptVisual, req, designSchema, &text, withMedia(req.Reference)); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowVisual, visualImagePrompt(text.Description))
	if err != nil {
		return nil, err
	}
	return &VisualDesignOutput{Description: text.Description, ImageURL: image}, nil
}
