package models

import (
	"strings"

	"github.com/go-playground/validator"
)

// Category of a wardrobe item. The store accepts free text, the API only
// the known values.
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryDress     Category = "dress"
	CategoryOuterwear Category = "outerwear"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
)

var knownCategories = map[Category]struct{}{
	CategoryTop:       {},
	CategoryBottom:    {},
	CategoryDress:     {},
	CategoryOuterwear: {},
	CategoryShoes:     {},
	CategoryAccessory: {},
}

func ScanCategory(value string) Category {
	return Category(strings.ToLower(strings.TrimSpace(value)))
}

func (l Category) Known() bool {
	_, ok := knownCategories[l]
	return ok
}

func ValidateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return ScanCategory(value).Known()
}
