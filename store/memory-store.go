package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gosim-wonderland/wonderland-server/models"
)

// MemoryStore keeps photo rows in a mutex-guarded map. It backs tests and
// the no-database dev mode and mirrors PhotoStore's semantics, including
// the conditional update.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]models.Photo
}

// NewMemoryStore constructs an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.Photo)}
}

// Insert adds a new photo row. ErrConflict when the id is taken.
func (m *MemoryStore) Insert(_ context.Context, photo *models.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[photo.ID]; exists {
		return ErrConflict
	}
	m.byID[photo.ID] = *photo
	return nil
}

// GetByID fetches one photo row. ErrNotFound when the id is unknown.
func (m *MemoryStore) GetByID(_ context.Context, id string) (*models.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	photo, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &photo, nil
}

// Update applies a sparse field update; false when the id does not exist.
func (m *MemoryStore) Update(_ context.Context, id string, fields map[string]any) (bool, error) {
	stripImmutable(fields)
	if len(fields) == 0 {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	applyFields(&photo, fields)
	m.byID[id] = photo
	return true, nil
}

// UpdateIfStatus applies fields only when the current status is allowed.
func (m *MemoryStore) UpdateIfStatus(_ context.Context, id string, allowedFrom []models.Status, fields map[string]any) (bool, error) {
	stripImmutable(fields)
	if len(fields) == 0 || len(allowedFrom) == 0 {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, status := range allowedFrom {
		if photo.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	applyFields(&photo, fields)
	m.byID[id] = photo
	return true, nil
}

// ListByStatus returns up to limit photos in status, most recent first.
func (m *MemoryStore) ListByStatus(_ context.Context, status models.Status, limit int) ([]models.Photo, error) {
	photos := []models.Photo{}
	if limit <= 0 {
		return photos, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, photo := range m.byID {
		if photo.Status == status {
			photos = append(photos, photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
	if len(photos) > limit {
		photos = photos[:limit]
	}
	return photos, nil
}

// CountByStatus returns a count for all five statuses, absent ones as 0.
func (m *MemoryStore) CountByStatus(_ context.Context) (map[models.Status]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[models.Status]int64, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for _, photo := range m.byID {
		counts[photo.Status]++
	}
	return counts, nil
}

func applyFields(photo *models.Photo, fields map[string]any) {
	for col, value := range fields {
		switch col {
		case "status":
			if s, ok := value.(models.Status); ok {
				photo.Status = s
			}
		case "cartoon_url":
			photo.CartoonURL = toStringPtr(value)
		case "approved_at":
			if t, ok := value.(time.Time); ok {
				at := t
				photo.ApprovedAt = &at
			}
		case "processing_error":
			photo.ProcessingError = toStringPtr(value)
		case "ai_description":
			photo.AIDescription = toStringPtr(value)
		case "user_session":
			if s, ok := value.(string); ok {
				photo.UserSession = s
			}
		case "caption":
			if s, ok := value.(string); ok {
				photo.Caption = s
			}
		}
	}
}

func toStringPtr(value any) *string {
	switch v := value.(type) {
	case string:
		return &v
	case *string:
		return v
	}
	return nil
}
