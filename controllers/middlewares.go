package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/models"
)

const accountKey = "currentUser"

// tokenSubject reads the account id echo-jwt left in the "user" key.
func tokenSubject(c echo.Context) (uint, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// AccountMiddleware loads the account behind the access token. Banned and
// deleted accounts are locked out with 423.
func AccountMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := tokenSubject(c)
			if !ok {
				return echo.ErrUnauthorized
			}
			db := c.Get("__db").(*gorm.DB)

			var account models.UserAccount
			err := db.WithContext(c.Request().Context()).Take(&account, id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.ErrUnauthorized
			}
			if err != nil {
				logger.Error("load account", zap.Uint("user_id", id), zap.Error(err))
				return echo.ErrInternalServerError
			}
			if account.Banned || account.ConfirmedDeleteDate != nil {
				return echo.NewHTTPError(http.StatusLocked)
			}

			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.Scope().SetUser(sentry.User{ID: UIntToStr(account.ID), Email: account.Email})
			}
			c.Set(accountKey, account)
			return next(c)
		}
	}
}
