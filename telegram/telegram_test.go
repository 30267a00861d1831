package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"makeoverapi/flows"
	"makeoverapi/test"
)

type recordingSender struct {
	sent []tgbotapi.Chattable
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

type mapHistory struct {
	mu    sync.Mutex
	turns map[any][]flows.ConversationTurn
}

func (m *mapHistory) Get(ctx context.Context, key any) ([]flows.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns, ok := m.turns[key]
	if !ok {
		return nil, errors.New("value not found in store")
	}
	return turns, nil
}

func (m *mapHistory) Set(ctx context.Context, key any, object []flows.ConversationTurn, options ...store.Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.turns == nil {
		m.turns = map[any][]flows.ConversationTurn{}
	}
	m.turns[key] = object
	return nil
}

func (m *mapHistory) Delete(ctx context.Context, key any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, key)
	return nil
}

func newBot(text *test.StubTextGenerator, events flows.EventStyler) (*StyleBot, *recordingSender, *mapHistory) {
	pipeline := flows.NewPipeline(text, &test.StubImageGenerator{}, &test.StubProductFinder{}, zap.NewNop())
	pipeline.Events = events
	sender := &recordingSender{}
	history := &mapHistory{}
	return &StyleBot{
		Bot:     sender,
		Actions: flows.NewActions(pipeline, zap.NewNop()),
		History: history,
		Now:     func() time.Time { return time.Date(2025, time.May, 20, 8, 0, 0, 0, time.UTC) },
		Logger:  zap.NewNop(),
	}, sender, history
}

func textUpdate(chatID int64, userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "someone"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
	if len(text) > 0 && text[0] == '/' {
		length := len(text)
		for i, r := range text {
			if r == ' ' {
				length = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

func TestChatKeepsHistory(t *testing.T) {
	ctx := context.Background()
	text := &test.StubTextGenerator{Response: flows.TextResponse{Text: "Try a camel coat over a cream knit."}}
	bot, sender, history := newBot(text, nil)

	bot.HandleUpdate(ctx, textUpdate(42, 7, "What should I wear in autumn?"))
	bot.HandleUpdate(ctx, textUpdate(42, 7, "And shoes?"))

	require.Len(t, sender.sent, 2)
	reply, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), reply.ChatID)
	assert.Equal(t, "Try a camel coat over a cream knit.", reply.Text)

	turns, err := history.Get(ctx, int64(42))
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "What should I wear in autumn?", turns[0].User)
	assert.Equal(t, "And shoes?", turns[1].User)
	assert.Contains(t, text.Requests[1].Prompt, "User: What should I wear in autumn?")
}

func TestChatFailureIsNotRemembered(t *testing.T) {
	ctx := context.Background()
	text := &test.StubTextGenerator{Err: errors.New("quota")}
	bot, sender, history := newBot(text, nil)

	bot.HandleUpdate(ctx, textUpdate(42, 7, "Hello"))

	require.Len(t, sender.sent, 1)
	reply := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, flows.FailureMessage(flows.FlowStyleBot), reply.Text)
	_, err := history.Get(ctx, int64(42))
	assert.Error(t, err)
}

func TestChatSendsOutfitPhoto(t *testing.T) {
	ctx := context.Background()
	text := &test.StubTextGenerator{Response: flows.TextResponse{ToolCalls: []flows.ToolCall{{
		Name: "suggestOutfitForEvent",
		Args: map[string]any{"occasion": "beach wedding"},
	}}}}
	events := &test.StubEventStyler{Result: &flows.GenerationResult{
		OutfitSuggestion: "Flowing linen maxi dress",
		ItemsList:        []string{"linen maxi dress", "flat sandals"},
		ColorPalette:     []string{"sand", "white"},
		ImageURL:         test.PNGDataURI,
	}}
	bot, sender, _ := newBot(text, events)

	bot.HandleUpdate(ctx, textUpdate(42, 7, "Dress me for a beach wedding"))

	require.Len(t, sender.sent, 1)
	photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok, "%T", sender.sent[0])
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "look.png", file.Name)
	assert.NotEmpty(t, file.Bytes)
	assert.Contains(t, photo.Caption, "beach wedding")
	assert.Contains(t, photo.Caption, "• flat sandals")
	assert.Equal(t, tgbotapi.ModeMarkdown, photo.ParseMode)
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	text := &test.StubTextGenerator{Response: flows.TextResponse{Text: `{"fact": "Levi's got the jeans patent on this day in 1873."}`}}
	bot, sender, history := newBot(text, nil)
	require.NoError(t, history.Set(ctx, int64(42), []flows.ConversationTurn{{User: "hi", Bot: "hello"}}))

	bot.HandleUpdate(ctx, textUpdate(42, 7, "/start"))
	bot.HandleUpdate(ctx, textUpdate(42, 7, "/reset"))
	bot.HandleUpdate(ctx, textUpdate(42, 7, "/fact"))

	require.Len(t, sender.sent, 3)
	assert.Equal(t, greeting, sender.sent[0].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, resetReply, sender.sent[1].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, "✨ Levi's got the jeans patent on this day in 1873.", sender.sent[2].(tgbotapi.MessageConfig).Text)
	assert.Contains(t, text.Requests[0].Prompt, "May 20")

	_, err := history.Get(ctx, int64(42))
	assert.Error(t, err)
}

func TestPrivateBeta(t *testing.T) {
	ctx := context.Background()
	text := &test.StubTextGenerator{Response: flows.TextResponse{Text: "hi"}}
	bot, sender, _ := newBot(text, nil)
	bot.Admins = []int64{1001}

	bot.HandleUpdate(ctx, textUpdate(42, 7, "hello"))
	bot.HandleUpdate(ctx, textUpdate(43, 1001, "hello"))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, privateReply, sender.sent[0].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, "hi", sender.sent[1].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, 1, text.Calls())
}

func TestAppendTurnKeepsLatest(t *testing.T) {
	var history []flows.ConversationTurn
	for i := 0; i < historyTurns+5; i++ {
		history = appendTurn(history, flows.ConversationTurn{User: fmt.Sprint(i), Bot: "ok"})
	}
	require.Len(t, history, historyTurns)
	assert.Equal(t, "5", history[0].User)
	assert.Equal(t, fmt.Sprint(historyTurns+4), history[historyTurns-1].User)
}

func TestEscapeMessage(t *testing.T) {
	assert.Equal(t, "\\*bold\\* \\_it\\_ \\[x\\] \\`c\\`", EscapeMessage("*bold* _it_ [x] `c`"))
}
