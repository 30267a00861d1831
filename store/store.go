package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"gorm.io/gorm"

	"makeoverapi/flows"
	"makeoverapi/models"
)

var ErrLookNotFound = errors.New("saved look not found")

// ContextStore holds the profile, wardrobe and saved looks of one user.
type ContextStore interface {
	GetProfile(ctx context.Context) (models.UserProfile, error)
	// SaveProfile replaces the stored profile wholesale.
	SaveProfile(ctx context.Context, profile models.UserProfile) error
	GetWardrobe(ctx context.Context) ([]models.WardrobeItem, error)
	AddWardrobeItem(ctx context.Context, item models.WardrobeItem) (string, error)
	GetSavedLooks(ctx context.Context) ([]models.SavedLook, error)
	SaveLook(ctx context.Context, look models.SavedLook) (string, error)
	// UpdateLookImage points a saved look at its bucket object and drops the
	// inline image.
	UpdateLookImage(ctx context.Context, lookID string, imageKey string) error
}

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Factory returns the store bound to a user account.
type Factory func(ctx context.Context, userID uint) (ContextStore, error)

// Open picks the store backend. db is needed for postgres and client for
// firestore, the other may be nil.
func Open(backend string, db *gorm.DB, client *firestore.Client) (Factory, error) {
	switch backend {
	case BackendMemory:
		registry := NewMemoryRegistry()
		return func(ctx context.Context, userID uint) (ContextStore, error) {
			return registry.For(userKey(userID)), nil
		}, nil
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("store backend %q needs a database", backend)
		}
		return func(ctx context.Context, userID uint) (ContextStore, error) {
			return NewGormStore(db, userID), nil
		}, nil
	case BackendFirestore:
		if client == nil {
			return nil, fmt.Errorf("store backend %q needs a firestore client", backend)
		}
		return func(ctx context.Context, userID uint) (ContextStore, error) {
			return NewFirestoreStore(client, userKey(userID)), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

func userKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// Snapshot reads what the request builders need from a store.
func Snapshot(ctx context.Context, s ContextStore) (flows.ContextSnapshot, error) {
	profile, err := s.GetProfile(ctx)
	if err != nil {
		return flows.ContextSnapshot{}, fmt.Errorf("get profile: %w", err)
	}
	wardrobe, err := s.GetWardrobe(ctx)
	if err != nil {
		return flows.ContextSnapshot{}, fmt.Errorf("get wardrobe: %w", err)
	}
	return flows.ContextSnapshot{Profile: profile, Wardrobe: wardrobe}, nil
}
