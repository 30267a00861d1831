package flows

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"makeoverapi/models"
)

const (
	toolSuggestOutfitForEvent = "suggestOutfitForEvent"

	styleBotApology = "I had a little trouble creating that outfit. Maybe try asking for something a bit different?"
	toolWeather     = "mild"
)

type StyleBotOutput struct {
	Response string            `json:"response"`
	Outfit   *GenerationResult `json:"outfit,omitempty"`
}

// ChatTurnResult is either PlainText or ToolCall.
type ChatTurnResult interface {
	isChatTurn()
}

type PlainText struct {
	Text string
}

func (PlainText) isChatTurn() {}
func (ToolCall) isChatTurn()  {}

// DecideTurn picks the turn kind once. Only the first tool call is honored.
func DecideTurn(resp *TextResponse) ChatTurnResult {
	if len(resp.ToolCalls) > 0 {
		return resp.ToolCalls[0]
	}
	return PlainText{Text: strings.TrimSpace(resp.Text)}
}

type ToolHandler func(ctx context.Context, args map[string]any) (*StyleBotOutput, error)

// GuestProfile is used by chat tools, which run without a signed-in profile.
func GuestProfile() models.UserProfile {
	return models.UserProfile{
		Name:             "Guest",
		Gender:           models.GenderFemale,
		Age:              28,
		SkinTone:         "fair",
		BodyType:         "average",
		StylePreferences: []string{"chic", "modern"},
		OccasionTypes:    []string{"party", "work"},
		Budget:           models.BudgetMedium,
	}
}

func (p *Pipeline) tools() map[string]ToolHandler {
	return map[string]ToolHandler{
		toolSuggestOutfitForEvent: p.suggestOutfitForEvent,
	}
}

// StyleBot answers one chat turn. Tool failures degrade into an apology and
// never fail the turn.
func (p *Pipeline) StyleBot(ctx context.Context, req StyleBotRequest) (*StyleBotOutput, error) {
	prompt, err := RenderPrompt(PromptStyleBot, req)
	if err != nil {
		return nil, err
	}
	resp, err := p.Text.GenerateText(ctx, TextRequest{
		Prompt: prompt,
		Tools:  []*genai.FunctionDeclaration{suggestOutfitTool},
	})
	if err != nil {
		return nil, err
	}

	switch turn := DecideTurn(resp).(type) {
	case ToolCall:
		return p.dispatchTool(ctx, turn), nil
	case PlainText:
		if turn.Text == "" {
			return nil, &GenerationFormatError{Flow: FlowStyleBot, Reason: "is empty"}
		}
		return &StyleBotOutput{Response: turn.Text}, nil
	default:
		return nil, fmt.Errorf("unexpected chat turn %T", turn)
	}
}

func (p *Pipeline) dispatchTool(ctx context.Context, call ToolCall) *StyleBotOutput {
	handler, ok := p.tools()[call.Name]
	if !ok {
		p.logger().Warn("unknown tool requested", zap.String("tool", call.Name))
		return &StyleBotOutput{Response: styleBotApology}
	}
	out, err := handler(ctx, call.Args)
	if err != nil {
		failure := &ToolInvocationFailure{Tool: call.Name, Err: err}
		p.logger().Warn("tool failed", zap.String("tool", call.Name), zap.Error(failure))
		return &StyleBotOutput{Response: styleBotApology}
	}
	return out
}

func (p *Pipeline) suggestOutfitForEvent(ctx context.Context, args map[string]any) (*StyleBotOutput, error) {
	in := EventStylingInput{
		Occasion: stringArg(args, "occasion"),
		Mood:     stringArg(args, "mood"),
		Budget:   strings.ToLower(stringArg(args, "budget")),
		Weather:  stringArg(args, "weather"),
	}
	if !models.ValidateBudgetRaw(in.Budget) {
		in.Budget = ""
	}
	if strings.TrimSpace(in.Weather) == "" {
		in.Weather = toolWeather
	}
	req, err := BuildEventStyling(in, ContextSnapshot{Profile: GuestProfile()})
	if err != nil {
		return nil, err
	}
	outfit, err := p.events().EventStyling(ctx, req)
	if err != nil {
		return nil, err
	}
	return &StyleBotOutput{
		Response: fmt.Sprintf(`I've put together a look for a %s! It's a %s. You can find similar suggestions on the "Events" page.`, req.Occasion, outfit.OutfitSuggestion),
		Outfit:   outfit,
	}, nil
}

func stringArg(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
