package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosim-wonderland/wonderland-server/models"
)

// Store abstracts persistence for photo rows. Satisfied by both the GORM
// and the in-memory store.
type Store interface {
	Insert(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Update(ctx context.Context, id string, fields map[string]any) (bool, error)
	UpdateIfStatus(ctx context.Context, id string, allowedFrom []models.Status, fields map[string]any) (bool, error)
	ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Photo, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
}

// Clock allows deterministic timing in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Statuses a moderation decision may be taken from. approved and rejected
// are terminal: there is no way back out of either.
var nonTerminal = []models.Status{
	models.StatusPending,
	models.StatusCompleted,
	models.StatusFailed,
}

// Service is the photo lifecycle state machine. Every status mutation goes
// through here; endpoints never write to the store directly. Reads carry
// no invariants and are thin passthroughs.
type Service struct {
	store Store
	clock Clock
}

// NewService builds a Service over the given store. A nil clock means
// wall-clock time.
func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{store: store, clock: clock}
}

// Create records a new submission in pending status and returns the row.
func (s *Service) Create(ctx context.Context, originalURL, userSession, caption string) (*models.Photo, error) {
	photo := &models.Photo{
		ID:          uuid.NewString(),
		OriginalURL: originalURL,
		Status:      models.StatusPending,
		CreatedAt:   s.clock.Now(),
		UserSession: userSession,
		Caption:     caption,
	}
	if err := s.store.Insert(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// MarkCompleted moves a pending photo to completed. An empty cartoonURL
// means the AI step was skipped and the display falls back to the
// original. Returns false when the photo is not pending anymore.
func (s *Service) MarkCompleted(ctx context.Context, id, cartoonURL, aiDescription string) (bool, error) {
	fields := map[string]any{"status": models.StatusCompleted}
	if cartoonURL != "" {
		fields["cartoon_url"] = cartoonURL
	}
	if aiDescription != "" {
		fields["ai_description"] = aiDescription
	}
	return s.store.UpdateIfStatus(ctx, id, []models.Status{models.StatusPending}, fields)
}

// MarkFailed moves a pending photo to failed and records the reason.
func (s *Service) MarkFailed(ctx context.Context, id, reason string) (bool, error) {
	fields := map[string]any{
		"status":           models.StatusFailed,
		"processing_error": reason,
	}
	return s.store.UpdateIfStatus(ctx, id, []models.Status{models.StatusPending}, fields)
}

// Approve moves a photo from any non-terminal status to approved and
// stamps approved_at. Once a photo is approved or rejected, further calls
// are no-ops returning false; of two racing calls at most one wins, which
// the store's conditional update enforces.
func (s *Service) Approve(ctx context.Context, id string) (bool, error) {
	fields := map[string]any{
		"status":      models.StatusApproved,
		"approved_at": s.clock.Now(),
	}
	return s.store.UpdateIfStatus(ctx, id, nonTerminal, fields)
}

// Reject mirrors Approve with target status rejected. Rejection is a
// terminal status, not a deletion; the row persists.
func (s *Service) Reject(ctx context.Context, id string) (bool, error) {
	fields := map[string]any{"status": models.StatusRejected}
	return s.store.UpdateIfStatus(ctx, id, nonTerminal, fields)
}

// Get returns one photo row.
func (s *Service) Get(ctx context.Context, id string) (*models.Photo, error) {
	return s.store.GetByID(ctx, id)
}

// ListByStatus returns up to limit photos in status, most recent first.
func (s *Service) ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Photo, error) {
	return s.store.ListByStatus(ctx, status, limit)
}

// Counts reports per-status totals, always computed from current store
// state, never cached.
func (s *Service) Counts(ctx context.Context) (map[models.Status]int64, error) {
	return s.store.CountByStatus(ctx)
}
