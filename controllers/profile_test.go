package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeoverapi/dbhelper"
	"makeoverapi/models"
	"makeoverapi/test"
)

func TestGetMeOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)
	user := test.FakeUser(db)

	rec := ts.serve(test.NewJSONAuthRequest("GET", "/me", UIntToStr(user.ID), nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.UserMeOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.Id)
	assert.Equal(t, "OurName", resp.Name)
	assert.Equal(t, user.Email, resp.Email)
	assert.True(t, resp.ReceiveNotifications)
	assert.Equal(t, "OurName", resp.Profile.Name)
	assert.Equal(t, "pictureurl", resp.Profile.PhotoURL)
	assert.Equal(t, models.GenderFemale, resp.Profile.Gender)
	assert.Equal(t, models.BudgetMedium, resp.Profile.Budget)
	assert.Equal(t, []string{}, resp.Profile.StylePreferences)
}

func TestSaveProfileReplacesWholesale(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)
	user := test.FakeUser(db)

	first := models.UserProfile{
		Name:             "Amira",
		Gender:           models.GenderFemale,
		Age:              31,
		SkinTone:         "olive",
		BodyType:         "hourglass",
		StylePreferences: []string{"  Boho ", "boho", "Minimal"},
		OccasionTypes:    []string{"Work"},
		Budget:           models.BudgetHigh,
	}
	rec := ts.serve(test.NewJSONAuthRequest("PUT", "/me/profile", UIntToStr(user.ID), first))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, []string{"boho", "minimal"}, saved.StylePreferences)
	assert.Equal(t, []string{"work"}, saved.OccasionTypes)

	rec = ts.serve(test.NewJSONAuthRequest("PUT", "/me/profile", UIntToStr(user.ID), models.UserProfile{Name: "Amira", Age: 32}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.serve(test.NewJSONAuthRequest("GET", "/me/profile", UIntToStr(user.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 32, got.Age)
	assert.Equal(t, "", got.SkinTone)
	assert.Equal(t, models.Budget(""), got.Budget)
	assert.Empty(t, got.StylePreferences)
}

func TestSaveProfileInvalid(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)
	user := test.FakeUser(db)

	for _, body := range []echo.Map{
		{"name": "A", "gender": "robot"},
		{"name": "A", "budget": "unlimited"},
		{"name": "A", "age": 300},
	} {
		rec := ts.serve(test.NewJSONAuthRequest("PUT", "/me/profile", UIntToStr(user.ID), body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSettingsMutesNotifications(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)
	user := test.FakeUser(db)

	rec := ts.serve(test.NewJSONAuthRequest("POST", "/me/settings", UIntToStr(user.ID), models.UserSettingsIn{ReceiveNotifications: BoolPointer(false)}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.False(t, updated.ReceiveNotifications)

	rec = ts.serve(test.NewJSONAuthRequest("POST", "/me/settings", UIntToStr(user.ID), echo.Map{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushTokenRegisterAndDelete(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	ts := newTestServer(t, db)
	user := test.FakeUser(db)
	pushIn := models.UserPushIn{Token: "ios-device-token", Platform: models.PlatformIOS}

	for i := 0; i < 2; i++ {
		rec := ts.serve(test.NewJSONAuthRequest("POST", "/me/push-token", UIntToStr(user.ID), pushIn))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, pushIn.Token).Count(&count)
	assert.Equal(t, int64(1), count)

	rec := ts.serve(test.NewJSONAuthRequest("DELETE", "/me/push-token", UIntToStr(user.ID), pushIn))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["deleted"])

	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, pushIn.Token).Count(&count)
	assert.Equal(t, int64(0), count)
}
