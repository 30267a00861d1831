package models

import "time"

// WardrobeItem is created on upload and never modified afterwards.
// ImageKey is the object key in the bucket, ImageURL is whatever the client
// should render (presigned URL, data URI or external link).
type WardrobeItem struct {
	ID            string    `gorm:"primaryKey" json:"id" firestore:"-"`
	UserAccountID uint      `gorm:"index" json:"-" firestore:"-"`
	Name          string    `json:"name" firestore:"name"`
	Category      string    `json:"category" firestore:"category"`
	ImageURL      string    `gorm:"type:text" json:"imageUrl" firestore:"imageUrl"`
	ImageKey      string    `json:"-" firestore:"imageKey"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
}

type WardrobeItemIn struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,category"`
	// FileName is set when the client wants a presigned upload URL
	FileName *string `json:"file_name" validate:"omitempty,max=200"`
	ImageURL string  `json:"imageUrl" validate:"omitempty,max=2000"`
}

type WardrobeItemCreatedOut struct {
	Item          WardrobeItem `json:"item"`
	FileUploadUrl string       `json:"file_upload_url,omitempty"`
}
