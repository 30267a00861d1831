package controllers

import (
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"makeoverapi/models"
	"makeoverapi/services"
	"makeoverapi/store"
	"makeoverapi/tasks"
)

type LooksController struct {
	Bucket   services.ImageBucket
	ReadURLs services.ReadURLResolver
	Stores   store.Factory
	Tasks    TaskEnqueuer
	Logger   *zap.Logger
}

func (controller *LooksController) LookRoutes(g *echo.Group) {
	g.GET("", controller.ListLooks)
	g.POST("", controller.SaveLook)
}

func (controller *LooksController) ListLooks(c echo.Context) error {
	user, _ := currentUser(c)
	ctx := c.Request().Context()
	contextStore, err := controller.Stores(ctx, user.ID)
	if err != nil {
		return controller.fail(c, err, "Failed to fetch saved looks")
	}
	looks, err := contextStore.GetSavedLooks(ctx)
	if err != nil {
		return controller.fail(c, err, "Failed to fetch saved looks")
	}

	keys := make([]string, len(looks))
	for i, look := range looks {
		keys[i] = look.ImageKey
	}
	urls := readURLs(ctx, controller.ReadURLs, controller.Bucket, keys, controller.Logger)
	out := models.SavedLooksOut{Looks: make([]models.SavedLookOut, len(looks))}
	for i, look := range looks {
		out.Looks[i] = models.SavedLookOut{SavedLook: look, ImageReadURL: urls[i]}
	}
	return c.JSON(http.StatusOK, out)
}

// SaveLook keeps a generated outfit. An inline image is moved to the bucket
// by a background task.
func (controller *LooksController) SaveLook(c echo.Context) error {
	user, _ := currentUser(c)
	ctx := c.Request().Context()
	var req models.SaveLookIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	contextStore, err := controller.Stores(ctx, user.ID)
	if err != nil {
		return controller.fail(c, err, "Failed to save look")
	}
	look := req.Look()
	id, err := contextStore.SaveLook(ctx, look)
	if err != nil {
		return controller.fail(c, err, "Failed to save look")
	}
	look.ID = id

	if controller.Tasks != nil && strings.HasPrefix(look.ImageURL, "data:") {
		task, err := tasks.NewPersistLookImageTask(user.ID, id)
		if err == nil {
			var info *asynq.TaskInfo
			info, err = controller.Tasks.Enqueue(task, asynq.MaxRetry(3), asynq.Queue(tasks.QueueGenerate))
			if err == nil {
				controller.Logger.Info("persist look image queued", zap.String("look_id", id), zap.String("task_id", info.ID))
			}
		}
		if err != nil {
			// the look is saved either way, its image stays inline
			controller.Logger.Warn("persist look image not queued", zap.String("look_id", id), zap.Error(err))
			sentry.CaptureException(err)
		}
	}
	return c.JSON(http.StatusCreated, models.SavedLookOut{SavedLook: look})
}

func (controller *LooksController) fail(c echo.Context, err error, message string) error {
	controller.Logger.Error(message, zap.Error(err))
	sentry.CaptureException(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": message})
}
