package telegram

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"makeoverapi/config"
	"makeoverapi/flows"
	"makeoverapi/services"
)

const (
	historyTurns = 10
	historyTTL   = 24 * time.Hour
	captionLimit = 1024
)

const (
	greeting     = "Hi! I'm Mirror, your personal stylist 👗\nAsk me anything about style, or tell me the occasion and I'll put an outfit together.\n/fact for a fashion fact of the day, /reset to start over."
	resetReply   = "Fresh start! What are we dressing for?"
	privateReply = "Mirror is in private beta for now. See you soon!"
	invalidReply = "Please send a text message of up to 2000 characters."
)

// Sender is the part of tgbotapi.BotAPI the bot replies through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// HistoryCache keeps the recent turns of every chat.
type HistoryCache interface {
	Get(ctx context.Context, key any) ([]flows.ConversationTurn, error)
	Set(ctx context.Context, key any, object []flows.ConversationTurn, options ...store.Option) error
	Delete(ctx context.Context, key any) error
}

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func NewHistoryCache() (*cache.Cache[[]flows.ConversationTurn], error) {
	ristrettoStore, err := services.NewRistrettoStore()
	if err != nil {
		return nil, err
	}
	return cache.New[[]flows.ConversationTurn](ristrettoStore), nil
}

type StyleBot struct {
	Bot     Sender
	Actions *flows.Actions
	History HistoryCache
	// Admins limits the bot to these Telegram user ids, everyone when empty
	Admins []int64
	Now    func() time.Time
	Logger *zap.Logger
}

// RunStyleBot polls Telegram until ctx is done.
func RunStyleBot(ctx context.Context, cfg *config.Config, actions *flows.Actions, logger *zap.Logger) error {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}
	api.Debug = !cfg.IsProduction()
	log.Printf("Authorized on account %s", api.Self.UserName)

	history, err := NewHistoryCache()
	if err != nil {
		return err
	}
	bot := &StyleBot{
		Bot:     api,
		Actions: actions,
		History: history,
		Admins:  cfg.TelegramAdmins,
		Now:     time.Now,
		Logger:  logger,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			bot.HandleUpdate(ctx, update)
		}
	}
}

func (b *StyleBot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	logger := b.Logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("chat_id", msg.Chat.ID),
	)
	if !b.allowed(msg.From) {
		b.reply(logger, tgbotapi.NewMessage(msg.Chat.ID, privateReply))
		return
	}

	switch msg.Command() {
	case "start":
		b.reply(logger, tgbotapi.NewMessage(msg.Chat.ID, greeting))
	case "reset":
		if err := b.History.Delete(ctx, msg.Chat.ID); err != nil {
			logger.Debug("history already empty", zap.Error(err))
		}
		b.reply(logger, tgbotapi.NewMessage(msg.Chat.ID, resetReply))
	case "fact":
		b.fact(ctx, logger, msg.Chat.ID)
	default:
		b.chat(ctx, logger, msg.Chat.ID, msg.Text)
	}
}

func (b *StyleBot) allowed(from *tgbotapi.User) bool {
	if len(b.Admins) == 0 {
		return true
	}
	return from != nil && slices.Contains(b.Admins, from.ID)
}

func (b *StyleBot) fact(ctx context.Context, logger *zap.Logger, chatID int64) {
	req, err := flows.BuildFashionFact(flows.FashionFactInput{}, b.Now())
	if err != nil {
		logger.Error("build fashion fact", zap.Error(err))
		return
	}
	resp := b.Actions.FashionFact(ctx, req)
	if resp.Failed() {
		b.reply(logger, tgbotapi.NewMessage(chatID, resp.Error))
		return
	}
	b.reply(logger, tgbotapi.NewMessage(chatID, "✨ "+resp.Result.Fact))
}

// chat runs one style bot turn. Only answered turns go into the history.
func (b *StyleBot) chat(ctx context.Context, logger *zap.Logger, chatID int64, text string) {
	history, err := b.History.Get(ctx, chatID)
	if err != nil {
		history = nil
	}
	req, err := flows.BuildStyleBot(flows.StyleBotInput{Message: text, History: history}, flows.ContextSnapshot{})
	if err != nil {
		b.reply(logger, tgbotapi.NewMessage(chatID, invalidReply))
		return
	}

	resp := b.Actions.StyleBot(ctx, req)
	if resp.Failed() {
		b.reply(logger, tgbotapi.NewMessage(chatID, resp.Error))
		return
	}

	b.sendAnswer(logger, chatID, resp.Result)

	history = appendTurn(history, flows.ConversationTurn{User: req.Message, Bot: resp.Result.Response})
	if err := b.History.Set(ctx, chatID, history, store.WithExpiration(historyTTL)); err != nil {
		logger.Warn("store chat history", zap.Error(err))
	}
}

func (b *StyleBot) sendAnswer(logger *zap.Logger, chatID int64, answer *flows.StyleBotOutput) {
	if answer.Outfit == nil {
		b.reply(logger, tgbotapi.NewMessage(chatID, answer.Response))
		return
	}

	text := outfitMessage(answer)
	if answer.Outfit.ImageURL == "" {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.reply(logger, msg)
		return
	}

	var file tgbotapi.RequestFileData = tgbotapi.FileURL(answer.Outfit.ImageURL)
	if media, err := flows.ParseDataURI(answer.Outfit.ImageURL); err == nil {
		file = tgbotapi.FileBytes{Name: "look" + imageExtension(media.MIMEType), Bytes: media.Data}
	}
	photo := tgbotapi.NewPhoto(chatID, file)
	if len([]rune(text)) <= captionLimit {
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		b.reply(logger, photo)
		return
	}
	b.reply(logger, photo)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.reply(logger, msg)
}

func (b *StyleBot) reply(logger *zap.Logger, c tgbotapi.Chattable) {
	if _, err := b.Bot.Send(c); err != nil {
		logger.Error("telegram send", zap.Error(err))
	}
}

func outfitMessage(answer *flows.StyleBotOutput) string {
	var sb strings.Builder
	sb.WriteString(EscapeMessage(answer.Response))
	sb.WriteString("\n\n*")
	sb.WriteString(EscapeMessage(answer.Outfit.OutfitSuggestion))
	sb.WriteString("*\n")
	for _, item := range answer.Outfit.ItemsList {
		sb.WriteString("• ")
		sb.WriteString(EscapeMessage(item))
		sb.WriteString("\n")
	}
	if len(answer.Outfit.ColorPalette) > 0 {
		sb.WriteString("🎨 ")
		sb.WriteString(EscapeMessage(strings.Join(answer.Outfit.ColorPalette, ", ")))
		sb.WriteString("\n")
	}
	if answer.Outfit.AccessoryTips != "" {
		sb.WriteString("💍 ")
		sb.WriteString(EscapeMessage(answer.Outfit.AccessoryTips))
	}
	return strings.TrimSpace(sb.String())
}

func appendTurn(history []flows.ConversationTurn, turn flows.ConversationTurn) []flows.ConversationTurn {
	history = append(history, turn)
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	return slices.Clone(history)
}

func imageExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
