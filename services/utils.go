package services

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"makeoverapi/models"
)

type GoogleServiceProvider interface {
	ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

type GoogleService struct {
}

func (gs GoogleService) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, idToken, audience)
}

// Notifier pushes a message to every active device of a user.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title string, message string, customData map[string]string) error
}

type PushNotifier struct {
	App *firebase.App
	DB  *gorm.DB
}

func (n PushNotifier) Notify(ctx context.Context, userID uint, title string, message string, customData map[string]string) error {
	return SendNotification(ctx, n.App, n.DB, userID, title, message, customData)
}

func stringMapToInterfaceMap(stringMap map[string]string) map[string]interface{} {
	interfaceMap := make(map[string]interface{})
	for key, value := range stringMap {
		interfaceMap[key] = value
	}
	return interfaceMap
}

func SendNotification(ctx context.Context, fbApp *firebase.App, db *gorm.DB, userId uint, title string, message string, customData map[string]string) error {
	var tokens []models.UserPushToken
	result := db.Model(models.UserPushToken{}).Where(
		"user_account_id = ? and active = true", userId,
	).Find(&tokens)
	if result.Error != nil {
		return fmt.Errorf("load push tokens: %w", result.Error)
	}
	if len(tokens) == 0 {
		return nil
	}

	var androidMessages []*messaging.Message
	var iOSMessages []*messaging.Message
	var iosCustomData map[string]interface{}
	if customData != nil {
		iosCustomData = stringMapToInterfaceMap(customData)
	}
	for _, token := range tokens {
		if !token.Platform.Pushable() {
			continue
		}
		message := &messaging.Message{
			Notification: &messaging.Notification{
				Title: title,
				Body:  message,
			},
			APNS: &messaging.APNSConfig{
				FCMOptions: &messaging.APNSFCMOptions{
					AnalyticsLabel: "makeover",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						ContentAvailable: true,
						Alert: &messaging.ApsAlert{
							Title: title,
							Body:  message,
						},
						Sound: "default",
					},
					CustomData: iosCustomData,
				},
			},
			Android: &messaging.AndroidConfig{
				Notification: &messaging.AndroidNotification{
					Priority:  messaging.AndroidNotificationPriority(messaging.PriorityMax),
					ChannelID: "makeover-daily-look",
				},
				Data: customData,
			},
			Token: token.Token,
		}
		if token.Platform == models.PlatformIOS {
			iOSMessages = append(iOSMessages, message)
		} else {
			androidMessages = append(androidMessages, message)
		}
	}

	var errs []error
	if len(androidMessages) > 0 {
		if fbApp == nil {
			errs = append(errs, errors.New("firebase app is not configured"))
		} else {
			client, err := fbApp.Messaging(ctx)
			if err != nil {
				errs = append(errs, fmt.Errorf("init messaging client: %w", err))
			} else if br, err := client.SendEach(ctx, androidMessages); err != nil {
				errs = append(errs, err)
			} else if br.FailureCount > 0 {
				log.Println("Push fails:", br.FailureCount)
			}
		}
	}
	if len(iOSMessages) > 0 {
		errs = append(errs, sendIOSNotificationDirect(ctx, iOSMessages)...)
	}
	return errors.Join(errs...)
}

func apnsProviderToken() (string, error) {
	privateKeyPEM, err := DecodeBase64EnvPrivateKey("APPLE_PUSH_KEY_BASE64")
	if err != nil {
		return "", err
	}
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return "", errors.New("apple push key is not PEM encoded")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse apple push key: %w", err)
	}
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", errors.New("apple push key is not an ECDSA key")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": GetEnv("APPLE_TEAM_ID", ""),
		"iat": time.Now().Unix(),
	})
	token.Header["kid"] = GetEnv("APPLE_PUSH_KEY_ID", "")
	return token.SignedString(privateKey)
}

func sendIOSNotificationDirect(ctx context.Context, messages []*messaging.Message) []error {
	jwtToken, err := apnsProviderToken()
	if err != nil {
		log.Println("Error getting Apple provider token:", err)
		return []error{err}
	}
	bundleID := GetEnv("APPLE_BUNDLE_ID", "com.makeover.app")
	client := &http.Client{Timeout: 10 * time.Second}

	var errs []error
	for _, message := range messages {
		payload := map[string]interface{}{
			"aps": map[string]interface{}{
				"alert": map[string]string{
					"title": message.APNS.Payload.Aps.Alert.Title,
					"body":  message.APNS.Payload.Aps.Alert.Body,
				},
			},
		}
		for key, value := range message.APNS.Payload.CustomData {
			payload[key] = value
		}
		payloadBytes, _ := json.Marshal(payload)

		url := fmt.Sprintf("https://api.push.apple.com/3/device/%s", message.Token)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+jwtToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apns-topic", bundleID)

		resp, err := client.Do(req)
		if err != nil {
			errs = append(errs, err)
			sentry.CaptureMessage(fmt.Sprintf("Error sending push %s %s", message.Token, message.APNS.Payload.Aps.Alert.Title))
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			errs = append(errs, fmt.Errorf("apns %d: %s", resp.StatusCode, string(body)))
		}
		// APNs rate limit
		time.Sleep(500 * time.Millisecond)
	}
	return errs
}
