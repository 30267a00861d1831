package flows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeoverapi/flows"
	"makeoverapi/models"
)

func TestRenderDailyPromptWardrobeSection(t *testing.T) {
	req, err := flows.BuildDailySuggestion(flows.DailySuggestionInput{}, snapshot())
	require.NoError(t, err)

	prompt, err := flows.RenderPrompt(flows.PromptDaily, req)
	require.NoError(t, err)
	assert.Contains(t, prompt, "The user has not added any items to their wardrobe.")
	assert.Contains(t, prompt, "Weather: Sunny, 25°C")
	assert.Contains(t, prompt, "Style preferences: chic, modern")

	snap := snapshot()
	snap.Wardrobe = []models.WardrobeItem{
		{Name: "Blue jeans", Category: "bottom"},
		{Name: "Trench coat", Category: "outerwear"},
	}
	req, err = flows.BuildDailySuggestion(flows.DailySuggestionInput{Weather: "Rainy, 12°C"}, snap)
	require.NoError(t, err)

	prompt, err = flows.RenderPrompt(flows.PromptDaily, req)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "has not added any items")
	assert.Contains(t, prompt, "- Blue jeans (bottom)\n- Trench coat (outerwear)\n")
	assert.Contains(t, prompt, "Weather: Rainy, 12°C")
}

func TestRenderEventPromptOptionalMood(t *testing.T) {
	req, err := flows.BuildEventStyling(flows.EventStylingInput{Occasion: "gala", Weather: "cold"}, snapshot())
	require.NoError(t, err)

	prompt, err := flows.RenderPrompt(flows.PromptEvent, req)
	require.NoError(t, err)
	assert.Contains(t, prompt, "a 25-year-old female")
	assert.Contains(t, prompt, "for a gala event")
	assert.NotContains(t, prompt, "mood")

	req.Mood = "romantic"
	prompt, err = flows.RenderPrompt(flows.PromptEvent, req)
	require.NoError(t, err)
	assert.Contains(t, prompt, "the mood or theme is romantic")
}

func TestRenderStyleBotPromptHistory(t *testing.T) {
	prompt, err := flows.RenderPrompt(flows.PromptStyleBot, flows.StyleBotRequest{
		Message: "What shoes go with it?",
		History: []flows.ConversationTurn{{User: "Hi", Bot: "Hello! How can I help?"}},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "User: Hi\nMirror: Hello! How can I help?\n")
	assert.Contains(t, prompt, "New user message: What shoes go with it?")

	prompt, err = flows.RenderPrompt(flows.PromptStyleBot, flows.StyleBotRequest{Message: "Hi", History: []flows.ConversationTurn{}})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Conversation so far")
}

func TestRenderUnknownPrompt(t *testing.T) {
	_, err := flows.RenderPrompt("nope", nil)
	assert.Error(t, err)
}
