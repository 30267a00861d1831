package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var genderRule = regexp.MustCompile("^(male|female|other)?$")

func (l *Gender) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*l = Gender(v)
	case []byte:
		*l = Gender(v)
	default:
		*l = GenderUnset
	}
	return nil
}

func (l Gender) Value() (string, error) {
	return string(l), nil
}

// ValidateGender accepts the known genders and the empty (unset) value.
func ValidateGender(fl validator.FieldLevel) bool {
	return genderRule.MatchString(fl.Field().String())
}

func ValidateGenderRaw(value string) bool {
	return genderRule.MatchString(value)
}
