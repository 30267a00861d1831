package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"makeoverapi/models"
)

// FirestoreStore keeps the profile on users/{uid} with the wardrobe and
// looks as sub-collections.
type FirestoreStore struct {
	client *firestore.Client
	uid    string
}

func NewFirestoreStore(client *firestore.Client, uid string) *FirestoreStore {
	return &FirestoreStore{client: client, uid: uid}
}

func (s *FirestoreStore) userDoc() *firestore.DocumentRef {
	return s.client.Collection("users").Doc(s.uid)
}

func (s *FirestoreStore) GetProfile(ctx context.Context) (models.UserProfile, error) {
	snap, err := s.userDoc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		profile := models.DefaultUserProfile()
		if err := s.SaveProfile(ctx, profile); err != nil {
			return models.UserProfile{}, err
		}
		return profile, nil
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("get profile %s: %w", s.uid, err)
	}

	var profile models.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("decode profile %s: %w", s.uid, err)
	}
	return cloneProfile(profile), nil
}

func (s *FirestoreStore) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	if _, err := s.userDoc().Set(ctx, cloneProfile(profile)); err != nil {
		return fmt.Errorf("save profile %s: %w", s.uid, err)
	}
	return nil
}

func (s *FirestoreStore) GetWardrobe(ctx context.Context) ([]models.WardrobeItem, error) {
	snaps, err := s.userDoc().Collection("wardrobe").OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("get wardrobe %s: %w", s.uid, err)
	}
	items := make([]models.WardrobeItem, 0, len(snaps))
	for _, snap := range snaps {
		var item models.WardrobeItem
		if err := snap.DataTo(&item); err != nil {
			return nil, fmt.Errorf("decode wardrobe item %s: %w", snap.Ref.ID, err)
		}
		item.ID = snap.Ref.ID
		items = append(items, item)
	}
	return items, nil
}

func (s *FirestoreStore) AddWardrobeItem(ctx context.Context, item models.WardrobeItem) (string, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	ref, _, err := s.userDoc().Collection("wardrobe").Add(ctx, item)
	if err != nil {
		return "", fmt.Errorf("add wardrobe item %s: %w", s.uid, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetSavedLooks(ctx context.Context) ([]models.SavedLook, error) {
	snaps, err := s.userDoc().Collection("looks").OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("get looks %s: %w", s.uid, err)
	}
	looks := make([]models.SavedLook, 0, len(snaps))
	for _, snap := range snaps {
		var look models.SavedLook
		if err := snap.DataTo(&look); err != nil {
			return nil, fmt.Errorf("decode look %s: %w", snap.Ref.ID, err)
		}
		look.ID = snap.Ref.ID
		looks = append(looks, look)
	}
	return looks, nil
}

func (s *FirestoreStore) SaveLook(ctx context.Context, look models.SavedLook) (string, error) {
	if look.CreatedAt.IsZero() {
		look.CreatedAt = time.Now()
	}
	ref, _, err := s.userDoc().Collection("looks").Add(ctx, look)
	if err != nil {
		return "", fmt.Errorf("save look %s: %w", s.uid, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) UpdateLookImage(ctx context.Context, lookID string, imageKey string) error {
	_, err := s.userDoc().Collection("looks").Doc(lookID).Update(ctx, []firestore.Update{
		{Path: "imageKey", Value: imageKey},
		{Path: "imageUrl", Value: ""},
	})
	if status.Code(err) == codes.NotFound {
		return ErrLookNotFound
	}
	return err
}
