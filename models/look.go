package models

import (
	"time"

	"github.com/lib/pq"
)

// SavedLook is a generated outfit the user chose to keep.
type SavedLook struct {
	ID               string         `gorm:"primaryKey" json:"id" firestore:"-"`
	UserAccountID    uint           `gorm:"index" json:"-" firestore:"-"`
	Occasion         string         `json:"occasion" firestore:"occasion"`
	OutfitSuggestion string         `gorm:"type:text" json:"outfitSuggestion" firestore:"outfitSuggestion"`
	ItemsList        pq.StringArray `gorm:"type:text[]" json:"itemsList" firestore:"itemsList"`
	ColorPalette     pq.StringArray `gorm:"type:text[]" json:"colorPalette" firestore:"colorPalette"`
	AccessoryTips    string         `gorm:"type:text" json:"accessoryTips" firestore:"accessoryTips"`
	// data URI until the persist task moves the image to the bucket
	ImageURL  string    `gorm:"type:text" json:"imageUrl" firestore:"imageUrl"`
	ImageKey  string    `json:"-" firestore:"imageKey"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

type SaveLookIn struct {
	Occasion         string   `json:"occasion" validate:"max=100"`
	OutfitSuggestion string   `json:"outfitSuggestion" validate:"required"`
	ItemsList        []string `json:"itemsList" validate:"required,min=1"`
	ColorPalette     []string `json:"colorPalette" validate:"required,min=1"`
	AccessoryTips    string   `json:"accessoryTips"`
	ImageURL         string   `json:"imageUrl"`
}

func (in SaveLookIn) Look() SavedLook {
	return SavedLook{
		Occasion:         in.Occasion,
		OutfitSuggestion: in.OutfitSuggestion,
		ItemsList:        pq.StringArray(in.ItemsList),
		ColorPalette:     pq.StringArray(in.ColorPalette),
		AccessoryTips:    in.AccessoryTips,
		ImageURL:         in.ImageURL,
	}
}

type SavedLookOut struct {
	SavedLook
	// presigned read URL once ImageKey is set
	ImageReadURL string `json:"imageReadUrl,omitempty"`
}
