package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"makeoverapi/models"
)

// GormStore keeps the profile on the user_accounts row and the wardrobe and
// looks in their own tables.
type GormStore struct {
	db     *gorm.DB
	userID uint
}

func NewGormStore(db *gorm.DB, userID uint) *GormStore {
	return &GormStore{db: db, userID: userID}
}

func (s *GormStore) account(ctx context.Context) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := s.db.WithContext(ctx).First(&user, s.userID).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", s.userID, err)
	}
	return &user, nil
}

func (s *GormStore) GetProfile(ctx context.Context) (models.UserProfile, error) {
	user, err := s.account(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	if user.ProfileSaved {
		return user.Profile(), nil
	}

	profile := models.DefaultUserProfile()
	profile.Name = user.Name
	profile.PhotoURL = user.AvatarURL
	user.ApplyProfile(profile)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.UserProfile{}, fmt.Errorf("save default profile: %w", err)
	}
	return user.Profile(), nil
}

func (s *GormStore) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	user, err := s.account(ctx)
	if err != nil {
		return err
	}
	user.ApplyProfile(profile)
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *GormStore) GetWardrobe(ctx context.Context) ([]models.WardrobeItem, error) {
	items := []models.WardrobeItem{}
	err := s.db.WithContext(ctx).
		Where("user_account_id = ?", s.userID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

func (s *GormStore) AddWardrobeItem(ctx context.Context, item models.WardrobeItem) (string, error) {
	item.ID = uuid.NewString()
	item.UserAccountID = s.userID
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return "", err
	}
	return item.ID, nil
}

func (s *GormStore) GetSavedLooks(ctx context.Context) ([]models.SavedLook, error) {
	looks := []models.SavedLook{}
	err := s.db.WithContext(ctx).
		Where("user_account_id = ?", s.userID).
		Order("created_at desc").
		Find(&looks).Error
	return looks, err
}

func (s *GormStore) SaveLook(ctx context.Context, look models.SavedLook) (string, error) {
	look.ID = uuid.NewString()
	look.UserAccountID = s.userID
	if err := s.db.WithContext(ctx).Create(&look).Error; err != nil {
		return "", err
	}
	return look.ID, nil
}

func (s *GormStore) UpdateLookImage(ctx context.Context, lookID string, imageKey string) error {
	result := s.db.WithContext(ctx).Model(&models.SavedLook{}).
		Where("id = ? AND user_account_id = ?", lookID, s.userID).
		Updates(map[string]any{"image_key": imageKey, "image_url": ""})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLookNotFound
	}
	return nil
}
