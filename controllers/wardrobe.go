package controllers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"makeoverapi/models"
	"makeoverapi/services"
	"makeoverapi/store"
)

type WardrobeController struct {
	Bucket   services.ImageBucket
	ReadURLs services.ReadURLResolver
	Stores   store.Factory
	Logger   *zap.Logger
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.GET("", controller.ListWardrobe)
	g.POST("", controller.AddItem)
}

func (controller *WardrobeController) ListWardrobe(c echo.Context) error {
	user, _ := currentUser(c)
	ctx := c.Request().Context()
	contextStore, err := controller.Stores(ctx, user.ID)
	if err != nil {
		return controller.fail(c, err, "Failed to fetch wardrobe")
	}
	items, err := contextStore.GetWardrobe(ctx)
	if err != nil {
		return controller.fail(c, err, "Failed to fetch wardrobe")
	}

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.ImageKey
	}
	urls := readURLs(ctx, controller.ReadURLs, controller.Bucket, keys, controller.Logger)
	for i := range items {
		if urls[i] != "" {
			items[i].ImageURL = urls[i]
		}
	}
	return c.JSON(http.StatusOK, models.WardrobeListOut{Items: items})
}

// AddItem stores a wardrobe item. When a file name is given the photo goes
// to the bucket and the response carries the presigned upload URL.
func (controller *WardrobeController) AddItem(c echo.Context) error {
	user, _ := currentUser(c)
	ctx := c.Request().Context()
	var req models.WardrobeItemIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	item := models.WardrobeItem{
		Name:     req.Name,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	var uploadURL string
	if req.FileName != nil && *req.FileName != "" {
		if !services.IsAllowedImageFile(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only jpg, png, heic and webp photos are supported"})
		}
		item.ImageKey = services.WardrobeImageKey(user.ID, *req.FileName)
		url, err := controller.Bucket.PresignUpload(ctx, item.ImageKey)
		if err != nil {
			return controller.fail(c, err, "Error while creating wardrobe item with photo")
		}
		uploadURL = url
	}

	contextStore, err := controller.Stores(ctx, user.ID)
	if err != nil {
		return controller.fail(c, err, "Failed to save wardrobe item")
	}
	id, err := contextStore.AddWardrobeItem(ctx, item)
	if err != nil {
		return controller.fail(c, err, "Failed to save wardrobe item")
	}
	item.ID = id
	controller.Logger.Info("wardrobe item added", zap.Uint("user_id", user.ID), zap.String("item_id", id))

	return c.JSON(http.StatusCreated, models.WardrobeItemCreatedOut{
		Item:          item,
		FileUploadUrl: uploadURL,
	})
}

func (controller *WardrobeController) fail(c echo.Context, err error, message string) error {
	controller.Logger.Error(message, zap.Error(err))
	sentry.CaptureException(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": message})
}
