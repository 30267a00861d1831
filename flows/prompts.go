package flows

import (
	"fmt"
	"strings"
	"text/template"

	"makeoverapi/languageutil"
)

type PromptName string

const (
	PromptDaily      PromptName = "daily"
	PromptEvent      PromptName = "event"
	PromptQuiz       PromptName = "quiz"
	PromptInstant    PromptName = "instant"
	PromptVisual     PromptName = "visual"
	PromptRegenerate PromptName = "regenerate"
	PromptAccessory  PromptName = "accessory"
	PromptFact       PromptName = "fact"
	PromptStyleBot   PromptName = "stylebot"
)

var promptFuncs = template.FuncMap{
	"join": languageutil.JoinList,
}

const dailyPrompt = `You are a personal stylist. Suggest a complete outfit for today based on the following information.

User profile:
- Gender: {{or .Gender "unspecified"}}
- Age: {{.Age}}
- Skin tone: {{or .SkinTone "unspecified"}}
- Body type: {{or .BodyType "unspecified"}}
- Style preferences: {{or (join .StylePreferences) "no preference"}}
- Typical occasions: {{or (join .OccasionTypes) "everyday"}}
- Budget: {{.Budget}}

Today:
- Weather: {{.Weather}}
- Trending styles: {{join .TrendingStyles}}

Wardrobe:
{{if .WardrobeItems}}Prioritize items from the user's existing wardrobe:
{{range .WardrobeItems}}- {{.Name}} ({{.Category}})
{{end}}{{else}}The user has not added any items to their wardrobe.
{{end}}
Instructions:
1. Give the outfit a short catchy title.
2. List every item of the outfit, one clothing piece or accessory per entry.
3. Give a color palette of 3 to 5 colors as names or hex codes.`

const eventPrompt = `You are a personal stylist. Suggest a complete outfit for a {{.Age}}-year-old {{or .Gender "person"}}, {{or .BodyType "average"}} build, {{or .SkinTone "unspecified"}} skin, who prefers {{or (join .StylePreferences) "versatile"}} style for a {{.Occasion}} event. The budget is {{.Budget}}, the weather is {{.Weather}}{{if .Mood}}, and the mood or theme is {{.Mood}}{{end}}.
Include clothing items, colors and accessories. Describe the outfit in one sentence, list its items, give a color palette and add short accessory tips.`

const quizPrompt = `You are a personal stylist. A user finished a style quiz with these answers:
- Gender: {{.Gender}}
- Age group: {{.Age}}
- Body type: {{.BodyType}}
- Skin tone: {{.SkinTone}}
- Style preferences: {{join .StylePreferences}}
- Favourite colors: {{join .ColorPreferences}}
- Occasion: {{.Occasion}}

Create one outfit that fits these answers. Give it a short catchy title, list its items and give a color palette that favours the user's colors.`

const instantPrompt = `You are a personal stylist. Look at the attached photo and note the person's apparent gender, age range, body type, skin tone and mood. Do not describe the clothes they are wearing now.
Suggest a new complete outfit that would flatter them{{if .StylePreferences}} in a {{join .StylePreferences}} style{{end}}, within a {{.Budget}} budget. Give it a short catchy title, list its items and give a color palette.`

const visualPrompt = `You are an avant-garde fashion designer. Using the attached reference image as inspiration, design a unique outfit for this brief: {{.Prompt}}
Describe the design in a short vivid paragraph covering silhouette, fabrics, colors and details.`

const regeneratePrompt = `You are a personal stylist. Based on the user's input, generate an outfit suggestion, list its items and give a color palette.

User input: {{.UserInput}}`

const accessoryPrompt = `You are an expert fashion consultant. Based on the outfit description and user preferences, provide accessory tips to complete the look.

Outfit description: {{.OutfitDescription}}
User preferences: {{.UserPreferences}}

Keep the suggestions concise and practical: jewellery, bags, shoes, belts or scarves that work with this outfit.`

const factPrompt = `You are a fashion historian. Provide one fun and interesting fashion fact related to the date {{.Date}}.
The fact must be a single concise sentence. For example, for May 20th: "On this day in 1873, Levi Strauss and Jacob Davis received a patent for blue jeans with copper rivets."`

const styleBotPrompt = `You are Mirror, a friendly and knowledgeable personal fashion assistant. Keep answers short, warm and practical.
When the user explicitly asks for an outfit for an occasion, call the suggestOutfitForEvent tool instead of describing one yourself.
{{if .History}}
Conversation so far:
{{range .History}}User: {{.User}}
Mirror: {{.Bot}}
{{end}}{{end}}
New user message: {{.Message}}`

var prompts = map[PromptName]*template.Template{
	PromptDaily:      mustPrompt(PromptDaily, dailyPrompt),
	PromptEvent:      mustPrompt(PromptEvent, eventPrompt),
	PromptQuiz:       mustPrompt(PromptQuiz, quizPrompt),
	PromptInstant:    mustPrompt(PromptInstant, instantPrompt),
	PromptVisual:     mustPrompt(PromptVisual, visualPrompt),
	PromptRegenerate: mustPrompt(PromptRegenerate, regeneratePrompt),
	PromptAccessory:  mustPrompt(PromptAccessory, accessoryPrompt),
	PromptFact:       mustPrompt(PromptFact, factPrompt),
	PromptStyleBot:   mustPrompt(PromptStyleBot, styleBotPrompt),
}

func mustPrompt(name PromptName, text string) *template.Template {
	return template.Must(template.New(string(name)).Funcs(promptFuncs).Parse(text))
}

// RenderPrompt renders a named prompt template. It does no I/O.
func RenderPrompt(name PromptName, data any) (string, error) {
	tmpl, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return sb.String(), nil
}

// Image prompts are plain formatting over the text step output.

func dailyImagePrompt(items, styles []string) string {
	style := languageutil.JoinList(styles)
	if style == "" {
		style = "modern and fashionable"
	}
	return fmt.Sprintf("Generate an image of an outfit based on these items: %s. The style should be: %s.", languageutil.JoinList(items), style)
}

func eventImagePrompt(req EventStylingRequest) string {
	gender := req.Gender
	if gender == "" {
		gender = "person"
	}
	style := languageutil.JoinList(req.StylePreferences)
	if style == "" {
		style = "versatile"
	}
	return fmt.Sprintf("Generate an image of a %s outfit for a %d-year-old %s, with %s style.", req.Occasion, req.Age, gender, style)
}

func quizImagePrompt(req StyleQuizRequest, items []string) string {
	return fmt.Sprintf("A high-fashion, editorial photograph of a model wearing this outfit: %s. The model is a %s, with a %s build and %s skin tone. The style is %s and suitable for %s. The color palette should favor: %s.",
		languageutil.JoinList(items), req.Gender, req.BodyType, req.SkinTone,
		languageutil.JoinList(req.StylePreferences), req.Occasion, languageutil.JoinList(req.ColorPreferences))
}

func instantImagePrompt(items, styles []string) string {
	style := languageutil.JoinList(styles)
	if style == "" {
		style = "fashionable"
	}
	return fmt.Sprintf("A high-fashion, editorial photograph of a model wearing this outfit: %s. The style is %s. The image should look professional and stylish.", languageutil.JoinList(items), style)
}

func visualImagePrompt(description string) string {
	return fmt.Sprintf("A high-fashion, editorial photograph of a model wearing this design: %s. The image should be visually stunning and ready for a magazine cover.", description)
}
