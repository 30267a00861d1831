package models

import (
	"time"

	"github.com/lib/pq"
)

// UserProfile is the styling profile the flows read from. It is replaced
// wholesale on save.
type UserProfile struct {
	Name             string   `json:"name" firestore:"name"`
	PhotoURL         string   `json:"photoUrl" firestore:"photoUrl"`
	Gender           Gender   `json:"gender" firestore:"gender" validate:"gender"`
	Age              int      `json:"age" firestore:"age" validate:"gte=0,lte=120"`
	SkinTone         string   `json:"skinTone" firestore:"skinTone" validate:"max=100"`
	BodyType         string   `json:"bodyType" firestore:"bodyType" validate:"max=100"`
	StylePreferences []string `json:"stylePreferences" firestore:"stylePreferences" validate:"max=20,dive,max=60"`
	OccasionTypes    []string `json:"occasionTypes" firestore:"occasionTypes" validate:"max=20,dive,max=60"`
	Budget           Budget   `json:"budget" firestore:"budget" validate:"omitempty,budget"`
}

// DefaultUserProfile is what a user sees before ever saving a profile.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		Gender:           GenderFemale,
		Budget:           BudgetMedium,
		StylePreferences: []string{},
		OccasionTypes:    []string{},
	}
}

type UserAccount struct {
	JsonModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Banned   bool   `gorm:"default:false" json:"-"`
	LastIp   string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status           string   `json:"-"`
	GoogleID         string   `json:"-"`
	AppleID          string   `json:"-"`
	TelegramID       *int64   `json:"-" gorm:"uniqueIndex"`
	Platform         Platform `sql:"type:ENUM('ios', 'android', 'web', 'telegram')" json:"platform"`
	AvatarURL        string   `json:"avatar_url"`
	TelegramUsername string   `json:"telegram_username"`
	// Notifications settings, the daily look push is only sent when set
	ReceiveNotifications bool       `json:"receive_notifications"`
	ConfirmedDeleteDate  *time.Time `json:"-"`

	// profile columns, ProfileSaved is false until the first GetProfile
	ProfileSaved     bool           `json:"-" gorm:"default:false"`
	PhotoURL         string         `json:"-"`
	Gender           Gender         `json:"-"`
	Age              int            `json:"-"`
	SkinTone         string         `json:"-"`
	BodyType         string         `json:"-"`
	StylePreferences pq.StringArray `json:"-" gorm:"type:text[]"`
	OccasionTypes    pq.StringArray `json:"-" gorm:"type:text[]"`
	Budget           Budget         `json:"-"`
}

func (u *UserAccount) Profile() UserProfile {
	styles := []string(u.StylePreferences)
	if styles == nil {
		styles = []string{}
	}
	occasions := []string(u.OccasionTypes)
	if occasions == nil {
		occasions = []string{}
	}
	return UserProfile{
		Name:             u.Name,
		PhotoURL:         u.PhotoURL,
		Gender:           u.Gender,
		Age:              u.Age,
		SkinTone:         u.SkinTone,
		BodyType:         u.BodyType,
		StylePreferences: styles,
		OccasionTypes:    occasions,
		Budget:           u.Budget,
	}
}

func (u *UserAccount) ApplyProfile(p UserProfile) {
	u.Name = p.Name
	u.PhotoURL = p.PhotoURL
	u.Gender = p.Gender
	u.Age = p.Age
	u.SkinTone = p.SkinTone
	u.BodyType = p.BodyType
	u.StylePreferences = pq.StringArray(p.StylePreferences)
	u.OccasionTypes = pq.StringArray(p.OccasionTypes)
	u.Budget = p.Budget
	u.ProfileSaved = true
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string   `json:"token" validate:"required,max=400"`
	Platform Platform `json:"platform" validate:"required,platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications *bool `json:"receive_notifications" validate:"required"`
}
