package controllers

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"makeoverapi/models"
	"makeoverapi/services"
)

func BoolPointer(b bool) *bool {
	return &b
}

func UIntToStr(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func GenerateUserToken(userPk string, secret string, hours uint64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(hours))),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(userPk string, secret string) (string, error) {
	refreshToken := jwt.New(jwt.SigningMethodHS256)
	rtClaims := refreshToken.Claims.(jwt.MapClaims)
	rtClaims["sub"] = userPk
	rtClaims["exp"] = time.Now().Add(time.Hour * 24 * 30 * 12).Unix()
	return refreshToken.SignedString([]byte(secret))
}

func currentUser(c echo.Context) (models.UserAccount, bool) {
	user, ok := c.Get(accountKey).(models.UserAccount)
	return user, ok
}

// readURLs resolves bucket keys to presigned read URLs in parallel. The
// cache is tried first, the bucket directly when the cache itself fails.
// Keys that cannot be resolved map to "".
func readURLs(ctx context.Context, cache services.ReadURLResolver, bucket services.ImageBucket, keys []string, logger *zap.Logger) []string {
	urls := make([]string, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		if key == "" {
			continue
		}
		wg.Add(1)
		go func(index int, objectKey string) {
			defer wg.Done()
			url, err := cache.ReadURL(ctx, objectKey)
			if err == nil {
				urls[index] = url
				return
			}
			logger.Warn("url cache failed, reading from bucket", zap.String("key", objectKey), zap.Error(err))
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("failure_type", "cache_system")
				scope.SetExtra("objectKey", objectKey)
				sentry.CaptureException(err)
			})
			fallbackURL, fallbackErr := bucket.PresignRead(ctx, objectKey)
			if fallbackErr != nil {
				logger.Error("bucket read url failed", zap.String("key", objectKey), zap.Error(fallbackErr))
				sentry.CaptureException(fallbackErr)
				return
			}
			urls[index] = fallbackURL
		}(i, key)
	}
	wg.Wait()
	return urls
}
