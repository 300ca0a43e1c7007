package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosim-wonderland/wonderland-server/models"
	"gorm.io/gorm"
)

// ErrConflict indicates an insert with an id that already exists.
var ErrConflict = errors.New("store: photo id already exists")

// ErrNotFound indicates the photo does not exist.
var ErrNotFound = errors.New("store: photo not found")

// Columns that are set at creation and never overwritten afterwards.
var immutableColumns = []string{"id", "created_at", "original_url"}

// PhotoStore provides durable access to photo rows, keyed by id, with a
// secondary index by status ordered by created_at descending.
type PhotoStore struct {
	db *gorm.DB
}

// NewPhotoStore wraps an open GORM handle. The caller owns the handle's
// lifecycle.
func NewPhotoStore(db *gorm.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// Insert persists a new photo row. ErrConflict when the id is taken.
func (s *PhotoStore) Insert(ctx context.Context, photo *models.Photo) error {
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// GetByID fetches one photo row. ErrNotFound when the id is unknown.
func (s *PhotoStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &photo, nil
}

// Update applies a sparse set of field updates to one row. Immutable
// columns are dropped from the update. Returns false, not an error, when
// the id does not exist.
func (s *PhotoStore) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	stripImmutable(fields)
	if len(fields) == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("update photo: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateIfStatus applies fields only when the row's current status is one
// of allowedFrom. The single conditional UPDATE is the compare-and-set
// that keeps two racing moderation calls from both winning.
func (s *PhotoStore) UpdateIfStatus(ctx context.Context, id string, allowedFrom []models.Status, fields map[string]any) (bool, error) {
	stripImmutable(fields)
	if len(fields) == 0 || len(allowedFrom) == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ? AND status IN ?", id, allowedFrom).
		Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("conditional update photo: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByStatus returns up to limit photos in the given status, most recent
// first. Each call is a fresh snapshot; limit 0 yields an empty list.
func (s *PhotoStore) ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Photo, error) {
	photos := []models.Photo{}
	if limit <= 0 {
		return photos, nil
	}
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// CountByStatus returns a count for all five statuses, absent ones as 0.
func (s *PhotoStore) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	type row struct {
		Status models.Status
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Photo{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count photos: %w", err)
	}

	counts := make(map[models.Status]int64, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func stripImmutable(fields map[string]any) {
	for _, col := range immutableColumns {
		delete(fields, col)
	}
}
