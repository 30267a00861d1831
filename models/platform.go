package models

import (
	"slices"

	"github.com/go-playground/validator"
)

// Platform is the client an account signed in from.
type Platform string

const (
	PlatformIOS      Platform = "ios"
	PlatformAndroid  Platform = "android"
	PlatformWeb      Platform = "web"
	PlatformTelegram Platform = "telegram"
)

var platforms = []Platform{PlatformIOS, PlatformAndroid, PlatformWeb, PlatformTelegram}

func (l *Platform) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*l = Platform(v)
	case []byte:
		*l = Platform(v)
	default:
		*l = ""
	}
	return nil
}

func (l Platform) Value() (string, error) {
	return string(l), nil
}

// Pushable reports whether the platform receives push notifications.
func (l Platform) Pushable() bool {
	return l == PlatformIOS || l == PlatformAndroid
}

func ValidatePlatform(fl validator.FieldLevel) bool {
	return ValidatePlatformRaw(fl.Field().String())
}

func ValidatePlatformRaw(value string) bool {
	return slices.Contains(platforms, Platform(value))
}
