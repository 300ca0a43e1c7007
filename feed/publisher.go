// Package feed streams the approved-photo wall to connected display
// clients. Each subscriber re-polls the store on its own timer; there is
// no change notification and no backlog, a reconnecting client simply
// receives the current snapshot. The channel abstraction keeps the
// transport out, so a real change-subscription could replace the polling
// without touching the client contract.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gosim-wonderland/wonderland-server/models"
)

// Event types pushed over a subscription.
const (
	EventConnected    = "connected"
	EventPhotosUpdate = "photos_update"
	EventError        = "error"
)

// Event is one frame on the push channel.
type Event struct {
	Type    string
	Photos  []models.Photo
	Message string
}

// MarshalJSON emits only the fields a frame type carries, matching the
// wire contract the display clients parse.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventPhotosUpdate:
		photos := e.Photos
		if photos == nil {
			photos = []models.Photo{}
		}
		return json.Marshal(struct {
			Type   string         `json:"type"`
			Photos []models.Photo `json:"photos"`
		}{e.Type, photos})
	case EventError:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{e.Type, e.Message})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{e.Type})
	}
}

// Lister is the read-only store view the publisher polls.
type Lister interface {
	ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Photo, error)
}

// Publisher hands out per-client event channels over the approved list.
type Publisher struct {
	photos   Lister
	interval time.Duration
	limit    int
}

// NewPublisher polls photos every interval for up to limit approved rows.
func NewPublisher(photos Lister, interval time.Duration, limit int) *Publisher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if limit <= 0 {
		limit = 10
	}
	return &Publisher{photos: photos, interval: interval, limit: limit}
}

// Subscribe starts a per-connection poll loop. The first frame is the
// connected acknowledgment. A query failure produces an error frame but
// keeps the loop alive. Cancelling ctx stops the timer and closes the
// channel on every exit path.
func (p *Publisher) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 1)
	go p.run(ctx, ch)
	return ch
}

func (p *Publisher) run(ctx context.Context, ch chan<- Event) {
	defer close(ch)

	if !p.send(ctx, ch, Event{Type: EventConnected}) {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.send(ctx, ch, p.snapshot(ctx)) {
				return
			}
		}
	}
}

func (p *Publisher) snapshot(ctx context.Context) Event {
	photos, err := p.photos.ListByStatus(ctx, models.StatusApproved, p.limit)
	if err != nil {
		return Event{Type: EventError, Message: "failed to load photos"}
	}
	return Event{Type: EventPhotosUpdate, Photos: photos}
}

func (p *Publisher) send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- ev:
		return true
	}
}
