package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"makeoverapi/models"
)

// MemoryStore keeps one user's context in process. Ids are item-N and
// look-N from per-store counters.
type MemoryStore struct {
	mu       sync.RWMutex
	profile  *models.UserProfile
	wardrobe []models.WardrobeItem
	looks    []models.SavedLook
	items    int
	saved    int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) GetProfile(ctx context.Context) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		profile := models.DefaultUserProfile()
		s.profile = &profile
	}
	return cloneProfile(*s.profile), nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	profile = cloneProfile(profile)
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetWardrobe(ctx context.Context) ([]models.WardrobeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WardrobeItem{}, s.wardrobe...), nil
}

func (s *MemoryStore) AddWardrobeItem(ctx context.Context, item models.WardrobeItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items++
	item.ID = fmt.Sprintf("item-%d", s.items)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	s.wardrobe = append(s.wardrobe, item)
	return item.ID, nil
}

func (s *MemoryStore) GetSavedLooks(ctx context.Context) ([]models.SavedLook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	looks := make([]models.SavedLook, 0, len(s.looks))
	for _, look := range s.looks {
		looks = append(looks, cloneLook(look))
	}
	return looks, nil
}

func (s *MemoryStore) SaveLook(ctx context.Context, look models.SavedLook) (string, error) {
	look = cloneLook(look)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	look.ID = fmt.Sprintf("look-%d", s.saved)
	if look.CreatedAt.IsZero() {
		look.CreatedAt = s.now()
	}
	s.looks = append(s.looks, look)
	return look.ID, nil
}

func (s *MemoryStore) UpdateLookImage(ctx context.Context, lookID string, imageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.looks {
		if s.looks[i].ID == lookID {
			s.looks[i].ImageKey = imageKey
			s.looks[i].ImageURL = ""
			return nil
		}
	}
	return ErrLookNotFound
}

func cloneProfile(p models.UserProfile) models.UserProfile {
	p.StylePreferences = append([]string{}, p.StylePreferences...)
	p.OccasionTypes = append([]string{}, p.OccasionTypes...)
	return p
}

func cloneLook(l models.SavedLook) models.SavedLook {
	l.ItemsList = slices.Clone(l.ItemsList)
	l.ColorPalette = slices.Clone(l.ColorPalette)
	return l
}

// MemoryRegistry hands out one MemoryStore per key.
type MemoryRegistry struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{stores: map[string]*MemoryStore{}}
}

func (r *MemoryRegistry) For(key string) *MemoryStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[key]
	if !ok {
		s = NewMemoryStore()
		r.stores[key] = s
	}
	return s
}
