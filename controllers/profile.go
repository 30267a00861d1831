package controllers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/languageutil"
	"makeoverapi/models"
	"makeoverapi/store"
)

type ProfileController struct {
	Stores store.Factory
	Logger *zap.Logger
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("", controller.Me)
	g.GET("/profile", controller.GetProfile)
	g.PUT("/profile", controller.SaveProfile)
	g.POST("/settings", controller.Settings)
	g.POST("/push-token", controller.RegisterPush)
	g.DELETE("/push-token", controller.DeletePush)
}

func (controller *ProfileController) Me(c echo.Context) error {
	user, _ := currentUser(c)
	contextStore, err := controller.Stores(c.Request().Context(), user.ID)
	if err != nil {
		return controller.storeError(c, err)
	}
	profile, err := contextStore.GetProfile(c.Request().Context())
	if err != nil {
		return controller.storeError(c, err)
	}
	return c.JSON(http.StatusOK, models.UserMeOut{
		Id:                   user.ID,
		Name:                 user.Name,
		Email:                user.Email,
		AvatarURL:            user.AvatarURL,
		ReceiveNotifications: user.ReceiveNotifications,
		Profile:              profile,
	})
}

func (controller *ProfileController) GetProfile(c echo.Context) error {
	user, _ := currentUser(c)
	contextStore, err := controller.Stores(c.Request().Context(), user.ID)
	if err != nil {
		return controller.storeError(c, err)
	}
	profile, err := contextStore.GetProfile(c.Request().Context())
	if err != nil {
		return controller.storeError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// SaveProfile replaces the whole profile, fields left out are cleared.
func (controller *ProfileController) SaveProfile(c echo.Context) error {
	user, _ := currentUser(c)
	var profile models.UserProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(profile); err != nil {
		return err
	}
	profile.StylePreferences = languageutil.NormalizeTags(profile.StylePreferences)
	profile.OccasionTypes = languageutil.NormalizeTags(profile.OccasionTypes)

	contextStore, err := controller.Stores(c.Request().Context(), user.ID)
	if err != nil {
		return controller.storeError(c, err)
	}
	if err := contextStore.SaveProfile(c.Request().Context(), profile); err != nil {
		return controller.storeError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (controller *ProfileController) Settings(c echo.Context) error {
	user, _ := currentUser(c)
	db := c.Get("__db").(*gorm.DB)
	settingsIn := new(models.UserSettingsIn)
	if err := c.Bind(settingsIn); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(settingsIn); err != nil {
		return err
	}
	if err := db.Model(&user).Update("receive_notifications", *settingsIn.ReceiveNotifications).Error; err != nil {
		sentry.CaptureException(err)
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, settingsIn)
}

func (controller *ProfileController) RegisterPush(c echo.Context) error {
	user, _ := currentUser(c)
	db := c.Get("__db").(*gorm.DB)
	tokenRequest := new(models.UserPushIn)
	if err := c.Bind(tokenRequest); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(tokenRequest); err != nil {
		return err
	}

	pushData := models.UserPushToken{
		Platform:      tokenRequest.Platform,
		Token:         tokenRequest.Token,
		UserAccountID: user.ID,
		Active:        true,
	}
	// the same device may be registered for several accounts
	result := db.Where("token = ? and user_account_id = ?", tokenRequest.Token, user.ID).FirstOrCreate(&pushData)
	if result.Error != nil {
		controller.Logger.Error("register push token", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return echo.ErrInternalServerError
	}
	controller.Logger.Info("push token registered",
		zap.Uint("user_id", user.ID),
		zap.Uint("push_id", pushData.ID),
		zap.String("platform", string(pushData.Platform)),
	)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "registered",
		"push_id": pushData.ID,
	})
}

func (controller *ProfileController) DeletePush(c echo.Context) error {
	user, _ := currentUser(c)
	db := c.Get("__db").(*gorm.DB)
	tokenRequest := new(models.UserPushIn)
	if err := c.Bind(tokenRequest); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(tokenRequest); err != nil {
		return err
	}

	result := db.Where("token = ? and user_account_id = ? and platform = ?", tokenRequest.Token, user.ID, tokenRequest.Platform).Delete(&models.UserPushToken{})
	if result.Error != nil {
		controller.Logger.Error("delete push token", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "deleted",
		"deleted": result.RowsAffected > 0,
	})
}

func (controller *ProfileController) storeError(c echo.Context, err error) error {
	controller.Logger.Error("profile store", zap.Error(err))
	sentry.CaptureException(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load your profile"})
}
