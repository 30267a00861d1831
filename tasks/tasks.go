package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/flows"
	"makeoverapi/models"
	"makeoverapi/services"
	"makeoverapi/store"
)

const (
	TypeDailyLook        = "looks:daily"
	TypePersistLookImage = "looks:persist_image"

	QueueGenerate = "generate"
)

type PersistLookImagePayload struct {
	UserID uint   `json:"user_id"`
	LookID string `json:"look_id"`
}

func NewDailyLookTask() *asynq.Task {
	return asynq.NewTask(TypeDailyLook, []byte{})
}

func NewPersistLookImageTask(userID uint, lookID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PersistLookImagePayload{UserID: userID, LookID: lookID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePersistLookImage, payload), nil
}

// Worker runs the background look tasks.
type Worker struct {
	DB       *gorm.DB
	Stores   store.Factory
	Actions  *flows.Actions
	Bucket   services.ImageBucket
	Notifier services.Notifier
	Logger   *zap.Logger
	// Pause between users of the daily run
	Pause time.Duration
}

func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeDailyLook, w.HandleDailyLookTask)
	mux.HandleFunc(TypePersistLookImage, w.HandlePersistLookImageTask)
}

// HandleDailyLookTask pregenerates a look of the day for every user that
// wants notifications, saves it and pushes a notification.
func (w *Worker) HandleDailyLookTask(ctx context.Context, t *asynq.Task) error {
	var users []models.UserAccount
	result := w.DB.WithContext(ctx).
		Where("banned = ? AND receive_notifications = ?", false, true).
		Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Daily look] Error fetching users: %w", result.Error))
		return result.Error
	}
	w.Logger.Info("daily look run", zap.Int("users", len(users)))

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.dailyLookForUser(ctx, user); err != nil {
			w.Logger.Warn("daily look failed", zap.Uint("user_id", user.ID), zap.Error(err))
			sentry.CaptureException(fmt.Errorf("[Daily look] user %d: %w", user.ID, err))
			continue
		}
		if w.Pause > 0 && i < len(users)-1 {
			time.Sleep(w.Pause)
		}
	}
	return nil
}

func (w *Worker) dailyLookForUser(ctx context.Context, user models.UserAccount) error {
	contextStore, err := w.Stores(ctx, user.ID)
	if err != nil {
		return err
	}
	snap, err := store.Snapshot(ctx, contextStore)
	if err != nil {
		return err
	}
	req, err := flows.BuildDailySuggestion(flows.DailySuggestionInput{}, snap)
	if err != nil {
		return err
	}
	resp := w.Actions.DailySuggestion(ctx, req)
	if resp.Failed() {
		return errors.New(resp.Error)
	}

	outfit := resp.Result
	lookID, err := contextStore.SaveLook(ctx, models.SavedLook{
		Occasion:         "daily",
		OutfitSuggestion: outfit.OutfitSuggestion,
		ItemsList:        outfit.ItemsList,
		ColorPalette:     outfit.ColorPalette,
		AccessoryTips:    outfit.AccessoryTips,
		ImageURL:         outfit.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("save daily look: %w", err)
	}
	if strings.HasPrefix(outfit.ImageURL, "data:") {
		// the look stays saved with its inline image
		if err := w.persistLookImage(ctx, contextStore, user.ID, lookID, outfit.ImageURL); err != nil {
			w.Logger.Warn("daily look image not persisted", zap.String("look_id", lookID), zap.Error(err))
		}
	}

	if w.Notifier == nil {
		return nil
	}
	return w.Notifier.Notify(ctx, user.ID, "Your look of the day ✨", shorten(outfit.OutfitSuggestion, 100), map[string]string{
		"type":    "daily_look",
		"look_id": lookID,
	})
}

// HandlePersistLookImageTask moves the inline image of a saved look to the
// bucket.
func (w *Worker) HandlePersistLookImageTask(ctx context.Context, t *asynq.Task) error {
	var payload PersistLookImagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	contextStore, err := w.Stores(ctx, payload.UserID)
	if err != nil {
		return err
	}
	looks, err := contextStore.GetSavedLooks(ctx)
	if err != nil {
		return err
	}
	for _, look := range looks {
		if look.ID != payload.LookID {
			continue
		}
		if look.ImageKey != "" || !strings.HasPrefix(look.ImageURL, "data:") {
			return nil
		}
		err := w.persistLookImage(ctx, contextStore, payload.UserID, look.ID, look.ImageURL)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Look %s] persist image: %w", look.ID, err))
		}
		return err
	}
	return fmt.Errorf("look %s of user %d: %w", payload.LookID, payload.UserID, store.ErrLookNotFound)
}

func (w *Worker) persistLookImage(ctx context.Context, contextStore store.ContextStore, userID uint, lookID string, dataURI string) error {
	media, err := flows.ParseDataURI(dataURI)
	if err != nil {
		return err
	}
	jpeg, err := services.NormalizeLookImage(media.Data)
	if err != nil {
		return err
	}
	key := services.LookImageKey(userID, lookID)
	if err := w.Bucket.PutImage(ctx, key, jpeg); err != nil {
		return err
	}
	if err := contextStore.UpdateLookImage(ctx, lookID, key); err != nil {
		return err
	}
	w.Logger.Info("look image persisted", zap.String("look_id", lookID), zap.String("key", key), zap.Int("bytes", len(jpeg)))
	return nil
}

func shorten(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}
	return string(runes[:limit-3]) + "..."
}
