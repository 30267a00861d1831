package flows

import "google.golang.org/genai"

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

var (
	itemsListSchema    = stringList("Every item of the outfit, one clothing piece or accessory per entry.")
	colorPaletteSchema = stringList("Colors of the outfit as names or hex codes.")
)

// titledOutfitSchema is used by daily, quiz and instant.
var titledOutfitSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":        {Type: genai.TypeString, Description: "A short catchy title for the outfit."},
		"itemsList":    itemsListSchema,
		"colorPalette": colorPaletteSchema,
	},
	Required: []string{"title", "itemsList", "colorPalette"},
}

var eventOutfitSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"outfitSuggestion": {Type: genai.TypeString, Description: "One sentence describing the outfit."},
		"itemsList":        itemsListSchema,
		"colorPalette":     colorPaletteSchema,
		"accessoryTips":    {Type: genai.TypeString, Description: "Short accessory tips for the outfit."},
	},
	Required: []string{"outfitSuggestion", "itemsList", "colorPalette", "accessoryTips"},
}

var regenerateOutfitSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"outfitSuggestion": {Type: genai.TypeString, Description: "The new outfit suggestion."},
		"itemsList":        itemsListSchema,
		"colorPalette":     colorPaletteSchema,
	},
	Required: []string{"outfitSuggestion", "itemsList", "colorPalette"},
}

var designSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString, Description: "A vivid description of the designed outfit."},
	},
	Required: []string{"description"},
}

var accessoryTipsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"accessoryTips": {Type: genai.TypeString, Description: "Concise and practical accessory suggestions."},
	},
	Required: []string{"accessoryTips"},
}

var factSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"fact": {Type: genai.TypeString, Description: "One concise fashion fact."},
	},
	Required: []string{"fact"},
}

// dailySafety is only sent with the daily text step.
var dailySafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
}

var suggestOutfitTool = &genai.FunctionDeclaration{
	Name:        toolSuggestOutfitForEvent,
	Description: `Suggests a complete outfit for a user for a specific event. Use it when the user explicitly asks for an outfit for an occasion like a "party", "wedding" or "interview".`,
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"occasion": {Type: genai.TypeString, Description: "The event, e.g. wedding, party, interview."},
			"mood":     {Type: genai.TypeString, Description: "The desired mood or theme."},
			"budget":   {Type: genai.TypeString, Description: "The budget tier.", Enum: []string{"low", "medium", "high"}},
			"weather":  {Type: genai.TypeString, Description: "The expected weather."},
		},
		Required: []string{"occasion"},
	},
}
