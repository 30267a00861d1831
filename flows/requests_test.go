package flows_test

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeoverapi/flows"
	"makeoverapi/models"
	"makeoverapi/test"
)

func snapshot() flows.ContextSnapshot {
	profile := models.DefaultUserProfile()
	profile.StylePreferences = []string{" Chic", "modern", "CHIC"}
	return flows.ContextSnapshot{Profile: profile}
}

func TestBuildEventStylingDefaults(t *testing.T) {
	req, err := flows.BuildEventStyling(flows.EventStylingInput{
		Occasion: " wedding ",
		Weather:  "warm",
	}, snapshot())
	require.NoError(t, err)

	assert.Equal(t, "wedding", req.Occasion)
	assert.Equal(t, flows.DefaultAge, req.Age)
	assert.Equal(t, "medium", req.Budget)
	assert.Equal(t, "female", req.Gender)
	assert.Equal(t, "", req.Mood)
	assert.Equal(t, []string{"chic", "modern"}, req.StylePreferences)
}

func TestBuildEventStylingValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    flows.EventStylingInput
		field string
	}{
		{"missing occasion", flows.EventStylingInput{Weather: "warm"}, "occasion"},
		{"short occasion", flows.EventStylingInput{Occasion: "a", Weather: "warm"}, "occasion"},
		{"bad budget", flows.EventStylingInput{Occasion: "party", Weather: "warm", Budget: "cheap"}, "budget"},
		{"missing weather", flows.EventStylingInput{Occasion: "party"}, "weather"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := flows.BuildEventStyling(tc.in, snapshot())
			var validationErr *flows.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.field, validationErr.Field)
			assert.NotEmpty(t, validationErr.Message)
		})
	}
}

func TestBuildDailySuggestionDefaults(t *testing.T) {
	snap := snapshot()
	snap.Wardrobe = []models.WardrobeItem{{ID: "item-1", Name: "Blue jeans", Category: "bottom"}}

	req, err := flows.BuildDailySuggestion(flows.DailySuggestionInput{}, snap)
	require.NoError(t, err)

	assert.Equal(t, flows.DefaultWeather, req.Weather)
	assert.Equal(t, flows.DefaultTrendingStyles, req.TrendingStyles)
	assert.Equal(t, []flows.WardrobeRef{{Name: "Blue jeans", Category: "bottom"}}, req.WardrobeItems)
	assert.NotNil(t, req.OccasionTypes)
}

func TestBuildRegenerateComposesPrompt(t *testing.T) {
	req, err := flows.BuildRegenerate(flows.RegenerateInput{UserInput: "make it warmer"}, snapshot())
	require.NoError(t, err)
	assert.Equal(t, "make it warmer", req.UserInput)

	req, err = flows.BuildRegenerate(flows.RegenerateInput{
		UserInput:          "make it warmer",
		PreviousSuggestion: "Linen set",
	}, snapshot())
	require.NoError(t, err)
	assert.Equal(t, `Based on the last suggestion "Linen set", the user wants this change: "make it warmer". Please generate a new outfit.`, req.UserInput)

	_, err = flows.BuildRegenerate(flows.RegenerateInput{UserInput: "   "}, snapshot())
	var validationErr *flows.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "userInput", validationErr.Field)
}

func TestBuildInstantStyle(t *testing.T) {
	req, err := flows.BuildInstantStyle(flows.InstantStyleInput{PhotoDataURI: test.PNGDataURI}, snapshot())
	require.NoError(t, err)
	assert.Equal(t, "image/png", req.Photo.MIMEType)
	assert.NotEmpty(t, req.Photo.Data)
	// falls back to the stored profile
	assert.Equal(t, []string{"chic", "modern"}, req.StylePreferences)
	assert.Equal(t, "medium", req.Budget)

	_, err = flows.BuildInstantStyle(flows.InstantStyleInput{
		PhotoDataURI: test.PNGDataURI,
		UserProfile:  flows.InstantStyleProfileInput{Budget: "huge"},
	}, snapshot())
	var validationErr *flows.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "userProfile.budget", validationErr.Field)

	_, err = flows.BuildInstantStyle(flows.InstantStyleInput{PhotoDataURI: "https://example.com/me.png"}, snapshot())
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "photoDataUri", validationErr.Field)
}

func TestBuildStyleQuizRequiresLists(t *testing.T) {
	in := flows.StyleQuizInput{
		Gender:           "female",
		Age:              "25-34",
		BodyType:         "athletic",
		SkinTone:         "olive",
		StylePreferences: []string{"Boho"},
		ColorPreferences: []string{},
		Occasion:         "brunch",
	}
	_, err := flows.BuildStyleQuiz(in, snapshot())
	var validationErr *flows.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "colorPreferences", validationErr.Field)

	in.ColorPreferences = []string{"Sage", "cream"}
	req, err := flows.BuildStyleQuiz(in, snapshot())
	require.NoError(t, err)
	assert.Equal(t, []string{"boho"}, req.StylePreferences)
	assert.Equal(t, []string{"sage", "cream"}, req.ColorPreferences)
}

func TestBuildFindProductsRejectsEmptyItem(t *testing.T) {
	_, err := flows.BuildFindProducts(flows.FindProductsInput{Items: []string{"jacket", " "}}, snapshot())
	var validationErr *flows.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "items[1]", validationErr.Field)

	_, err = flows.BuildFindProducts(flows.FindProductsInput{}, snapshot())
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "items", validationErr.Field)
}

func TestBuildStyleBotNeverNilHistory(t *testing.T) {
	req, err := flows.BuildStyleBot(flows.StyleBotInput{Message: "hi"}, snapshot())
	require.NoError(t, err)
	assert.NotNil(t, req.History)
	assert.Len(t, req.History, 0)
}

func TestBuildFashionFactDefaultsToToday(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	req, err := flows.BuildFashionFact(flows.FashionFactInput{}, now)
	require.NoError(t, err)
	assert.Equal(t, "May 20", req.Date)

	req, err = flows.BuildFashionFact(flows.FashionFactInput{Date: "March 3"}, now)
	require.NoError(t, err)
	assert.Equal(t, "March 3", req.Date)
}

func TestProperty_EventStylingBuildsCompleteRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	word := gen.AlphaString().Map(func(s string) string {
		if len(s) > 60 {
			s = s[:60]
		}
		return "ev" + s
	})

	properties.Property("valid input builds without error and with defaults filled", prop.ForAll(
		func(occasion, weather, budget string, age int) bool {
			profile := models.DefaultUserProfile()
			profile.Age = age
			req, err := flows.BuildEventStyling(flows.EventStylingInput{
				Occasion: occasion,
				Weather:  weather,
				Budget:   budget,
			}, flows.ContextSnapshot{Profile: profile})
			if err != nil {
				return false
			}
			return req.Occasion == occasion &&
				req.Weather == weather &&
				models.ValidateBudgetRaw(req.Budget) &&
				req.Age > 0 &&
				req.StylePreferences != nil
		},
		word,
		word,
		gen.OneConstOf("", "low", "medium", "high"),
		gen.IntRange(0, 120),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
