package flows_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"makeoverapi/flows"
	"makeoverapi/test"
)

var fixedOutfit = &flows.GenerationResult{
	OutfitSuggestion: "flowing sage midi dress with tan sandals",
	ItemsList:        []string{"sage midi dress", "tan sandals", "straw clutch"},
	ColorPalette:     []string{"sage", "tan"},
	AccessoryTips:    "Keep jewellery delicate.",
	ImageURL:         "",
}

func styleBot(t *testing.T, resp flows.TextResponse, events flows.EventStyler) (*flows.StyleBotOutput, *test.StubTextGenerator) {
	text := &test.StubTextGenerator{Response: resp}
	p := flows.NewPipeline(text, &test.StubImageGenerator{}, &test.StubProductFinder{}, zap.NewNop())
	p.Events = events

	req, err := flows.BuildStyleBot(flows.StyleBotInput{Message: "I need an outfit for a summer wedding, budget medium, weather warm"}, snapshot())
	require.NoError(t, err)
	out, err := p.StyleBot(context.Background(), req)
	require.NoError(t, err)
	return out, text
}

func weddingCall() flows.ToolCall {
	return flows.ToolCall{Name: "suggestOutfitForEvent", Args: map[string]any{
		"occasion": "summer wedding",
		"budget":   "medium",
		"weather":  "warm",
	}}
}

func TestStyleBotToolSuccess(t *testing.T) {
	events := &test.StubEventStyler{Result: fixedOutfit}
	out, text := styleBot(t, flows.TextResponse{ToolCalls: []flows.ToolCall{weddingCall()}}, events)

	assert.Equal(t, fixedOutfit, out.Outfit)
	assert.Equal(t, `I've put together a look for a summer wedding! It's a flowing sage midi dress with tan sandals. You can find similar suggestions on the "Events" page.`, out.Response)

	require.Len(t, text.Requests, 1)
	assert.Len(t, text.Requests[0].Tools, 1)
	assert.Nil(t, text.Requests[0].Schema)

	require.Len(t, events.Requests, 1)
	req := events.Requests[0]
	assert.Equal(t, "summer wedding", req.Occasion)
	assert.Equal(t, "medium", req.Budget)
	assert.Equal(t, "warm", req.Weather)
	assert.Equal(t, "", req.Mood)
	assert.Equal(t, 28, req.Age)
	assert.Equal(t, "female", req.Gender)
	assert.Equal(t, []string{"chic", "modern"}, req.StylePreferences)
}

func TestStyleBotToolDefaults(t *testing.T) {
	events := &test.StubEventStyler{Result: fixedOutfit}
	call := flows.ToolCall{Name: "suggestOutfitForEvent", Args: map[string]any{"occasion": "party", "budget": "whatever"}}
	_, _ = styleBot(t, flows.TextResponse{ToolCalls: []flows.ToolCall{call}}, events)

	require.Len(t, events.Requests, 1)
	assert.Equal(t, "mild", events.Requests[0].Weather)
	assert.Equal(t, "medium", events.Requests[0].Budget)
}

func TestStyleBotToolFailure(t *testing.T) {
	events := &test.StubEventStyler{Err: errors.New("model overloaded")}
	out, _ := styleBot(t, flows.TextResponse{ToolCalls: []flows.ToolCall{weddingCall()}}, events)

	assert.Nil(t, out.Outfit)
	assert.Equal(t, "I had a little trouble creating that outfit. Maybe try asking for something a bit different?", out.Response)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"I had a little trouble creating that outfit. Maybe try asking for something a bit different?"}`, string(body))
}

func TestStyleBotUnknownTool(t *testing.T) {
	events := &test.StubEventStyler{Result: fixedOutfit}
	out, _ := styleBot(t, flows.TextResponse{ToolCalls: []flows.ToolCall{{Name: "bookTable"}}}, events)

	assert.Nil(t, out.Outfit)
	assert.Contains(t, out.Response, "I had a little trouble")
	assert.Empty(t, events.Requests)
}

func TestStyleBotOnlyFirstToolCall(t *testing.T) {
	events := &test.StubEventStyler{Result: fixedOutfit}
	second := flows.ToolCall{Name: "suggestOutfitForEvent", Args: map[string]any{"occasion": "interview"}}
	_, _ = styleBot(t, flows.TextResponse{ToolCalls: []flows.ToolCall{weddingCall(), second}}, events)

	require.Len(t, events.Requests, 1)
	assert.Equal(t, "summer wedding", events.Requests[0].Occasion)
}

func TestStyleBotPlainText(t *testing.T) {
	events := &test.StubEventStyler{Result: fixedOutfit}
	out, _ := styleBot(t, flows.TextResponse{Text: " Navy and camel always work together. "}, events)

	assert.Equal(t, "Navy and camel always work together.", out.Response)
	assert.Nil(t, out.Outfit)
	assert.Empty(t, events.Requests)
}

func TestDecideTurn(t *testing.T) {
	assert.Equal(t, flows.PlainText{Text: "hi"}, flows.DecideTurn(&flows.TextResponse{Text: "hi"}))
	assert.Equal(t, weddingCall(), flows.DecideTurn(&flows.TextResponse{Text: "hi", ToolCalls: []flows.ToolCall{weddingCall()}}))
}

func TestStyleBotServiceFailure(t *testing.T) {
	text := &test.StubTextGenerator{Err: errors.New("unavailable")}
	actions := flows.NewActions(flows.NewPipeline(text, nil, nil, zap.NewNop()), zap.NewNop())

	resp := actions.StyleBot(context.Background(), flows.StyleBotRequest{Message: "hi", History: []flows.ConversationTurn{}})
	assert.Equal(t, "Failed to get response from Style Bot.", resp.Error)
}
