package flows

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"makeoverapi/languageutil"
	"makeoverapi/models"
)

const (
	DefaultAge     = 25
	DefaultWeather = "Sunny, 25°C"
)

var DefaultTrendingStyles = []string{"oversized blazers", "wide-leg trousers"}

// ContextSnapshot is the stored context a request is built against.
type ContextSnapshot struct {
	Profile  models.UserProfile
	Wardrobe []models.WardrobeItem
}

// ProfileFields are the profile values every outfit prompt reads.
type ProfileFields struct {
	Gender           string   `json:"gender"`
	Age              int      `json:"age"`
	SkinTone         string   `json:"skinTone"`
	BodyType         string   `json:"bodyType"`
	StylePreferences []string `json:"stylePreferences"`
}

func profileFields(profile models.UserProfile) ProfileFields {
	age := profile.Age
	if age <= 0 {
		age = DefaultAge
	}
	return ProfileFields{
		Gender:           string(profile.Gender),
		Age:              age,
		SkinTone:         strings.TrimSpace(profile.SkinTone),
		BodyType:         strings.TrimSpace(profile.BodyType),
		StylePreferences: languageutil.NormalizeTags(profile.StylePreferences),
	}
}

func profileBudget(profile models.UserProfile) string {
	if models.ValidateBudgetRaw(string(profile.Budget)) {
		return string(profile.Budget)
	}
	return string(models.BudgetMedium)
}

var validate = NewValidator()

// NewValidator returns a validator with the styling rules registered and
// field names reported by their JSON tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("gender", models.ValidateGender)
	v.RegisterValidation("budget", models.ValidateBudget)
	v.RegisterValidation("category", models.ValidateCategory)
	v.RegisterValidation("platform", models.ValidatePlatform)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// AsValidationError converts validator output into a *ValidationError.
func AsValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	fe := fieldErrors[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &ValidationError{Field: field, Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("accepts at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "budget":
		return "must be one of low, medium, high"
	case "gender":
		return "must be one of male, female, other"
	case "datauri":
		return "must be a base64 data URI"
	default:
		return "is invalid"
	}
}

func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return AsValidationError(err)
	}
	return nil
}

type WardrobeRef struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DailySuggestionInput struct {
	Weather        string   `json:"weather" validate:"max=100"`
	TrendingStyles []string `json:"trendingStyles" validate:"max=10,dive,max=60"`
}

type DailySuggestionRequest struct {
	ProfileFields
	OccasionTypes  []string      `json:"occasionTypes"`
	Budget         string        `json:"budget"`
	Weather        string        `json:"weather"`
	TrendingStyles []string      `json:"trendingStyles"`
	WardrobeItems  []WardrobeRef `json:"wardrobeItems"`
}

func BuildDailySuggestion(in DailySuggestionInput, snap ContextSnapshot) (DailySuggestionRequest, error) {
	if err := validateInput(in); err != nil {
		return DailySuggestionRequest{}, err
	}
	weather := strings.TrimSpace(in.Weather)
	if weather == "" {
		weather = DefaultWeather
	}
	trending := languageutil.NormalizeTags(in.TrendingStyles)
	if len(trending) == 0 {
		trending = append([]string{}, DefaultTrendingStyles...)
	}
	wardrobe := make([]WardrobeRef, 0, len(snap.Wardrobe))
	for _, item := range snap.Wardrobe {
		wardrobe = append(wardrobe, WardrobeRef{Name: item.Name, Category: item.Category})
	}
	return DailySuggestionRequest{
		ProfileFields:  profileFields(snap.Profile),
		OccasionTypes:  languageutil.NormalizeTags(snap.Profile.OccasionTypes),
		Budget:         profileBudget(snap.Profile),
		Weather:        weather,
		TrendingStyles: trending,
		WardrobeItems:  wardrobe,
	}, nil
}

type EventStylingInput struct {
	Occasion string `json:"occasion" validate:"required,min=2,max=100"`
	Budget   string `json:"budget" validate:"omitempty,budget"`
	Weather  string `json:"weather" validate:"required,min=2,max=100"`
	Mood     string `json:"mood" validate:"max=100"`
}

type EventStylingRequest struct {
	ProfileFields
	Occasion string `json:"occasion"`
	Budget   string `json:"budget"`
	Weather  string `json:"weather"`
	Mood     string `json:"mood"`
}

func BuildEventStyling(in EventStylingInput, snap ContextSnapshot) (EventStylingRequest, error) {
	in.Occasion = strings.TrimSpace(in.Occasion)
	in.Weather = strings.TrimSpace(in.Weather)
	if err := validateInput(in); err != nil {
		return EventStylingRequest{}, err
	}
	budget := in.Budget
	if budget == "" {
		budget = profileBudget(snap.Profile)
	}
	return EventStylingRequest{
		ProfileFields: profileFields(snap.Profile),
		Occasion:      in.Occasion,
		Budget:        budget,
		Weather:       in.Weather,
		Mood:          strings.TrimSpace(in.Mood),
	}, nil
}

type StyleQuizInput struct {
	Gender           string   `json:"gender" validate:"required,max=40"`
	Age              string   `json:"age" validate:"required,max=40"`
	BodyType         string   `json:"bodyType" validate:"required,max=100"`
	SkinTone         string   `json:"skinTone" validate:"required,max=100"`
	StylePreferences []string `json:"stylePreferences" validate:"required,min=1,max=20,dive,required,max=60"`
	ColorPreferences []string `json:"colorPreferences" validate:"required,min=1,max=20,dive,required,max=60"`
	Occasion         string   `json:"occasion" validate:"required,max=100"`
}

type StyleQuizRequest struct {
	Gender           string   `json:"gender"`
	Age              string   `json:"age"`
	BodyType         string   `json:"bodyType"`
	SkinTone         string   `json:"skinTone"`
	StylePreferences []string `json:"stylePreferences"`
	ColorPreferences []string `json:"colorPreferences"`
	Occasion         string   `json:"occasion"`
}

func BuildStyleQuiz(in StyleQuizInput, _ ContextSnapshot) (StyleQuizRequest, error) {
	if err := validateInput(in); err != nil {
		return StyleQuizRequest{}, err
	}
	styles := languageutil.NormalizeTags(in.StylePreferences)
	colors := languageutil.NormalizeTags(in.ColorPreferences)
	if len(styles) == 0 {
		return StyleQuizRequest{}, &ValidationError{Field: "stylePreferences", Message: "needs at least 1 entries"}
	}
	if len(colors) == 0 {
		return StyleQuizRequest{}, &ValidationError{Field: "colorPreferences", Message: "needs at least 1 entries"}
	}
	return StyleQuizRequest{
		Gender:           strings.TrimSpace(in.Gender),
		Age:              strings.TrimSpace(in.Age),
		BodyType:         strings.TrimSpace(in.BodyType),
		SkinTone:         strings.TrimSpace(in.SkinTone),
		StylePreferences: styles,
		ColorPreferences: colors,
		Occasion:         strings.TrimSpace(in.Occasion),
	}, nil
}

type InstantStyleProfileInput struct {
	StylePreferences []string `json:"stylePreferences" validate:"max=20,dive,max=60"`
	Budget           string   `json:"budget" validate:"omitempty,budget"`
}

type InstantStyleInput struct {
	PhotoDataURI string                   `json:"photoDataUri" validate:"required,datauri"`
	UserProfile  InstantStyleProfileInput `json:"userProfile"`
}

type InstantStyleRequest struct {
	Photo            InlineMedia `json:"-"`
	StylePreferences []string    `json:"stylePreferences"`
	Budget           string      `json:"budget"`
}

// BuildInstantStyle falls back to the stored profile for the style tags and
// budget the caller left out.
func BuildInstantStyle(in InstantStyleInput, snap ContextSnapshot) (InstantStyleRequest, error) {
	if err := validateInput(in); err != nil {
		return InstantStyleRequest{}, err
	}
	photo, err := ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return InstantStyleRequest{}, &ValidationError{Field: "photoDataUri", Message: "must be a base64 data URI"}
	}
	styles := languageutil.NormalizeTags(in.UserProfile.StylePreferences)
	if len(styles) == 0 {
		styles = languageutil.NormalizeTags(snap.Profile.StylePreferences)
	}
	budget := in.UserProfile.Budget
	if budget == "" {
		budget = profileBudget(snap.Profile)
	}
	return InstantStyleRequest{Photo: photo, StylePreferences: styles, Budget: budget}, nil
}

type VisualDesignInput struct {
	ImageURL string `json:"imageUrl" validate:"required,datauri"`
	Prompt   string `json:"prompt" validate:"required,max=1000"`
}

type VisualDesignRequest struct {
	Reference InlineMedia `json:"-"`
	Prompt    string      `json:"prompt"`
}

func BuildVisualDesign(in VisualDesignInput, _ ContextSnapshot) (VisualDesignRequest, error) {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if err := validateInput(in); err != nil {
		return VisualDesignRequest{}, err
	}
	reference, err := ParseDataURI(in.ImageURL)
	if err != nil {
		return VisualDesignRequest{}, &ValidationError{Field: "imageUrl", Message: "must be a base64 data URI"}
	}
	return VisualDesignRequest{Reference: reference, Prompt: in.Prompt}, nil
}

type RegenerateInput struct {
	UserInput          string `json:"userInput" validate:"required,max=1000"`
	PreviousSuggestion string `json:"previousSuggestion" validate:"max=2000"`
}

type RegenerateRequest struct {
	UserInput string `json:"userInput"`
}

func BuildRegenerate(in RegenerateInput, _ ContextSnapshot) (RegenerateRequest, error) {
	in.UserInput = strings.TrimSpace(in.UserInput)
	if err := validateInput(in); err != nil {
		return RegenerateRequest{}, err
	}
	previous := strings.TrimSpace(in.PreviousSuggestion)
	if previous == "" {
		return RegenerateRequest{UserInput: in.UserInput}, nil
	}
	return RegenerateRequest{
		UserInput: fmt.Sprintf("Based on the last suggestion %q, the user wants this change: %q. Please generate a new outfit.", previous, in.UserInput),
	}, nil
}

type AccessoryTipsInput struct {
	OutfitDescription string `json:"outfitDescription" validate:"required,max=2000"`
	UserPreferences   string `json:"userPreferences" validate:"required,max=500"`
}

type AccessoryTipsRequest struct {
	OutfitDescription string `json:"outfitDescription"`
	UserPreferences   string `json:"userPreferences"`
}

func BuildAccessoryTips(in AccessoryTipsInput, _ ContextSnapshot) (AccessoryTipsRequest, error) {
	in.OutfitDescription = strings.TrimSpace(in.OutfitDescription)
	in.UserPreferences = strings.TrimSpace(in.UserPreferences)
	if err := validateInput(in); err != nil {
		return AccessoryTipsRequest{}, err
	}
	return AccessoryTipsRequest(in), nil
}

type FindProductsInput struct {
	Items []string `json:"items" validate:"required,min=1,max=20,dive,required,max=200"`
}

type FindProductsRequest struct {
	Items []string `json:"items"`
}

func BuildFindProducts(in FindProductsInput, _ ContextSnapshot) (FindProductsRequest, error) {
	items := make([]string, len(in.Items))
	for i, item := range in.Items {
		items[i] = strings.TrimSpace(item)
	}
	in.Items = items
	if err := validateInput(in); err != nil {
		return FindProductsRequest{}, err
	}
	return FindProductsRequest{Items: items}, nil
}

type ConversationTurn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

type StyleBotInput struct {
	Message string             `json:"message" validate:"required,max=2000"`
	History []ConversationTurn `json:"history" validate:"max=50"`
}

type StyleBotRequest struct {
	Message string             `json:"message"`
	History []ConversationTurn `json:"history"`
}

func BuildStyleBot(in StyleBotInput, _ ContextSnapshot) (StyleBotRequest, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validateInput(in); err != nil {
		return StyleBotRequest{}, err
	}
	history := make([]ConversationTurn, len(in.History))
	copy(history, in.History)
	return StyleBotRequest{Message: in.Message, History: history}, nil
}

type FashionFactInput struct {
	Date string `json:"date" validate:"max=40"`
}

type FashionFactRequest struct {
	Date string `json:"date"`
}

// BuildFashionFact uses today, as "January 2", when no date is given.
func BuildFashionFact(in FashionFactInput, now time.Time) (FashionFactRequest, error) {
	if err := validateInput(in); err != nil {
		return FashionFactRequest{}, err
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format("January 2")
	}
	return FashionFactRequest{Date: date}, nil
}
