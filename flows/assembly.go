package flows

// GenerationResult is the outfit contract shared by the outfit flows and the
// style bot. ImageURL is "" when there is no image, never omitted.
type GenerationResult struct {
	OutfitSuggestion string   `json:"outfitSuggestion"`
	ItemsList        []string `json:"itemsList"`
	ColorPalette     []string `json:"colorPalette"`
	AccessoryTips    string   `json:"accessoryTips,omitempty"`
	ImageURL         string   `json:"imageUrl"`
}

// OutfitText is the structured answer of every outfit text step. Daily, quiz
// and instant answer with "title", the others with "outfitSuggestion".
type OutfitText struct {
	Title            string   `json:"title"`
	OutfitSuggestion string   `json:"outfitSuggestion"`
	ItemsList        []string `json:"itemsList"`
	ColorPalette     []string `json:"colorPalette"`
	AccessoryTips    string   `json:"accessoryTips"`
}

func (t OutfitText) Suggestion() string {
	if t.OutfitSuggestion != "" {
		return t.OutfitSuggestion
	}
	return t.Title
}

// Assemble merges the text step and the image step.
func Assemble(text OutfitText, image string, accessoryTips string) GenerationResult {
	if accessoryTips == "" {
		accessoryTips = text.AccessoryTips
	}
	return GenerationResult{
		OutfitSuggestion: text.Suggestion(),
		ItemsList:        nonNil(text.ItemsList),
		ColorPalette:     nonNil(text.ColorPalette),
		AccessoryTips:    accessoryTips,
		ImageURL:         image,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
