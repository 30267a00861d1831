package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type Budget string

const (
	BudgetUnset  Budget = ""
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

var budgetRule = regexp.MustCompile("^(low|medium|high)$")

func (l *Budget) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*l = Budget(v)
	case []byte:
		*l = Budget(v)
	default:
		*l = BudgetUnset
	}
	return nil
}

func (l Budget) Value() (string, error) {
	return string(l), nil
}

// ValidateBudget is registered as the "budget" tag. Unlike gender, an empty
// budget is rejected: callers that allow it use omitempty.
func ValidateBudget(fl validator.FieldLevel) bool {
	return budgetRule.MatchString(fl.Field().String())
}

func ValidateBudgetRaw(value string) bool {
	return budgetRule.MatchString(value)
}
