package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apple "github.com/Timothylock/go-signin-with-apple/apple"
	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/config"
	"makeoverapi/models"
	"makeoverapi/services"
)

const accessTokenHours = 72

type AuthController struct {
	Google services.GoogleServiceProvider
	Config *config.Config
	Logger *zap.Logger
}

func (m *AuthController) AuthRoutes(g *echo.Group) {
	g.POST("/google", m.GoogleSignIn)
	g.POST("/apple", m.AppleSignIn)
	g.POST("/refresh", m.RefreshToken)
}

// signInIdentity is what a provider tells us about the person signing in.
type signInIdentity struct {
	GoogleID string
	AppleID  string
	Email    string
	Name     string
	Avatar   string
	Platform models.Platform
}

func (m *AuthController) GoogleSignIn(c echo.Context) error {
	creds := new(models.GoogleAuthSignIn)
	if err := c.Bind(creds); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(creds); err != nil {
		return err
	}

	payload, err := m.Google.ValidateIdToken(c.Request().Context(), creds.IdToken, m.Config.GoogleClientID)
	if err != nil {
		m.Logger.Warn("google token rejected", zap.Error(err))
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
	}
	googleID, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	if googleID == "" || email == "" {
		sentry.CaptureMessage(fmt.Sprintf("Google sign in without sub or email %v", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return m.signIn(c, signInIdentity{
		GoogleID: googleID,
		Email:    email,
		Name:     name,
		Avatar:   picture,
		Platform: creds.Platform,
	})
}

func (m *AuthController) AppleSignIn(c echo.Context) error {
	req := new(models.AppleAuthRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	secret, err := services.DecodeBase64EnvPrivateKey("APPLE_SIGNIN_PKEY_BASE64")
	if err != nil {
		m.Logger.Error("apple private key missing", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	secret, err = apple.GenerateClientSecret(secret, m.Config.AppleTeamID, m.Config.AppleClientID, m.Config.AppleKeyID)
	if err != nil {
		m.Logger.Error("apple client secret", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	var resp apple.ValidationResponse
	err = apple.New().VerifyAppToken(c.Request().Context(), apple.AppValidationTokenRequest{
		ClientID:     m.Config.AppleClientID,
		ClientSecret: secret,
		Code:         req.AuthorizationCode,
	}, &resp)
	if err != nil || resp.Error != "" {
		m.Logger.Warn("apple token rejected", zap.Error(err), zap.String("apple_error", resp.Error))
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials through Apple"})
	}

	unique, err := apple.GetUniqueID(resp.IDToken)
	if err != nil {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't get your unique identifier"})
	}
	claim, err := apple.GetClaims(resp.IDToken)
	if err != nil {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't get your information"})
	}
	email, _ := (*claim)["email"].(string)

	return m.signIn(c, signInIdentity{
		AppleID:  unique,
		Email:    email,
		Name:     req.Name,
		Platform: req.Platform,
	})
}

// signIn finds the account by provider id, then by email, and creates it
// when neither matches.
func (m *AuthController) signIn(c echo.Context, identity signInIdentity) error {
	db := c.Get("__db").(*gorm.DB)

	var user models.UserAccount
	query := db.Limit(1)
	switch {
	case identity.GoogleID != "":
		query = query.Where("google_id = ?", identity.GoogleID)
	default:
		query = query.Where("apple_id = ?", identity.AppleID)
	}
	if identity.Email != "" {
		query = query.Or("email = ?", identity.Email)
	}
	result := query.Find(&user)
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	isNew := result.RowsAffected == 0
	if isNew {
		if identity.Email == "" {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "It seems that you are signing in the first time and no email was shared. Please try again."})
		}
		user = models.UserAccount{
			Email:                identity.Email,
			Status:               "STARTED_AUTH",
			ReceiveNotifications: true,
		}
	}
	if user.Banned {
		return echo.ErrForbidden
	}

	if identity.GoogleID != "" {
		user.GoogleID = identity.GoogleID
	}
	if identity.AppleID != "" {
		user.AppleID = identity.AppleID
	}
	if identity.Name != "" && user.Name == "" {
		user.Name = identity.Name
	}
	if identity.Avatar != "" {
		user.AvatarURL = identity.Avatar
	}
	user.Platform = identity.Platform
	user.LastIp = c.RealIP()
	if err := db.Save(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	m.Logger.Info("user signed in", zap.Uint("user_id", user.ID), zap.Bool("new", isNew), zap.String("platform", string(user.Platform)))

	out, err := m.tokenPair(user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	out.Id = user.ID
	out.Email = user.Email
	out.Name = user.Name
	out.Avatar = user.AvatarURL
	out.New = isNew
	return c.JSON(http.StatusOK, out)
}

func (m *AuthController) tokenPair(userID uint) (models.SignInOut, error) {
	access, err := GenerateUserToken(UIntToStr(userID), m.Config.JWTSecret, accessTokenHours)
	if err != nil {
		m.Logger.Error("sign access token", zap.Uint("user_id", userID), zap.Error(err))
		return models.SignInOut{}, err
	}
	refresh, err := GenerateRefreshToken(UIntToStr(userID), m.Config.JWTSecret)
	if err != nil {
		m.Logger.Error("sign refresh token", zap.Uint("user_id", userID), zap.Error(err))
		return models.SignInOut{}, err
	}
	return models.SignInOut{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *AuthController) RefreshToken(c echo.Context) error {
	tokenReq := new(models.RefreshTokenIn)
	if err := c.Bind(tokenReq); err != nil {
		return echo.ErrBadRequest
	}
	if err := c.Validate(tokenReq); err != nil {
		return err
	}

	token, err := jwt.Parse(tokenReq.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return echo.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID < 1 {
		return echo.ErrBadRequest
	}

	db := c.Get("__db").(*gorm.DB)
	var user models.UserAccount
	result := db.First(&user, userID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.ErrForbidden
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return echo.ErrInternalServerError
	}
	if user.Banned {
		return echo.ErrUnauthorized
	}

	out, err := m.tokenPair(user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  out.AccessToken,
		"refresh_token": out.RefreshToken,
	})
}
