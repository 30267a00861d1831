package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".heif", ".webp"}

// IsAllowedImageFile checks the extension of an uploaded wardrobe photo.
func IsAllowedImageFile(fileName string) bool {
	return slices.Contains(allowedImageExtensions, strings.ToLower(filepath.Ext(fileName)))
}

// WardrobeImageKey is the bucket key of a wardrobe photo upload.
func WardrobeImageKey(userID uint, fileName string) string {
	return fmt.Sprintf("wardrobe/%d/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(fileName)))
}

// LookImageKey is the bucket key of a persisted look image.
func LookImageKey(userID uint, lookID string) string {
	return fmt.Sprintf("looks/%d/%s.jpg", userID, lookID)
}

func StrPointer(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

func DecodeBase64EnvPrivateKey(envKey string) (string, error) {
	base64Key := os.Getenv(envKey)
	if base64Key == "" {
		return "", fmt.Errorf("%s environment variable is not set", envKey)
	}

	decodedBytes, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 private key: %v", err)
	}
	return string(decodedBytes), nil
}
