package flows

import "context"

// DailySuggestion styles today's look from the profile, weather, trends and
// the user's wardrobe.
func (p *Pipeline) DailySuggestion(ctx context.Context, req DailySuggestionRequest) (*GenerationResult, error) {
	var text OutfitText
	if err := p.textStep(ctx, FlowDaily, PromptDaily, req, titledOutfitSchema, &text, withSafety(dailySafety)); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowDaily, dailyImagePrompt(text.ItemsList, req.StylePreferences))
	if err != nil {
		return nil, err
	}
	result := Assemble(text, image, "")
	return &result, nil
}

func (p *Pipeline) EventStyling(ctx context.Context, req EventStylingRequest) (*GenerationResult, error) {
	var text OutfitText
	if err := p.textStep(ctx, FlowEvent, PromptEvent, req, eventOutfitSchema, &text); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowEvent, eventImagePrompt(req))
	if err != nil {
		return nil, err
	}
	result := Assemble(text, image, "")
	return &result, nil
}

// Regenerate draws the new suggestion itself as the image prompt.
func (p *Pipeline) Regenerate(ctx context.Context, req RegenerateRequest) (*GenerationResult, error) {
	var text OutfitText
	if err := p.textStep(ctx, FlowRegenerate, PromptRegenerate, req, regenerateOutfitSchema, &text); err != nil {
		return nil, err
	}
	image, err := p.imageStep(ctx, FlowRegenerate, text.Suggestion())
	if err != nil {
		return nil, err
	}
	result := Assemble(text, image, "")
	return &result, nil
}
