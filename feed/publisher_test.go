package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gosim-wonderland/wonderland-server/models"
)

type fakeLister struct {
	photos []models.Photo
	err    error
	calls  atomic.Int64
}

func (f *fakeLister) ListByStatus(_ context.Context, status models.Status, limit int) ([]models.Photo, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.photos) {
		return f.photos[:limit], nil
	}
	return f.photos, nil
}

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestSubscribeSendsConnectedFirst(t *testing.T) {
	lister := &fakeLister{photos: []models.Photo{{ID: "a"}}}
	p := NewPublisher(lister, 10*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Subscribe(ctx)

	if ev := recv(t, ch); ev.Type != EventConnected {
		t.Fatalf("first event = %q, want connected", ev.Type)
	}
	ev := recv(t, ch)
	if ev.Type != EventPhotosUpdate {
		t.Fatalf("second event = %q, want photos_update", ev.Type)
	}
	if len(ev.Photos) != 1 || ev.Photos[0].ID != "a" {
		t.Fatalf("photos = %+v", ev.Photos)
	}
}

func TestQueryFailureEmitsErrorAndKeepsStreaming(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	p := NewPublisher(lister, 10*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Subscribe(ctx)

	recv(t, ch) // connected
	if ev := recv(t, ch); ev.Type != EventError {
		t.Fatalf("event = %q, want error", ev.Type)
	}
	// the channel stays open: the next tick produces another frame
	if ev := recv(t, ch); ev.Type != EventError {
		t.Fatalf("event = %q, want error", ev.Type)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	lister := &fakeLister{}
	p := NewPublisher(lister, 5*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Subscribe(ctx)
	recv(t, ch) // connected
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed, timer released
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestEventMarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want string
	}{
		{"connected", Event{Type: EventConnected}, `{"type":"connected"}`},
		{"error", Event{Type: EventError, Message: "boom"}, `{"type":"error","message":"boom"}`},
		{"empty update", Event{Type: EventPhotosUpdate}, `{"type":"photos_update","photos":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.ev)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestUpdateFrameCarriesPhotos(t *testing.T) {
	ev := Event{Type: EventPhotosUpdate, Photos: []models.Photo{{ID: "x", OriginalURL: "/orig/x.jpg", Status: models.StatusApproved}}}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type   string         `json:"type"`
		Photos []models.Photo `json:"photos"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != EventPhotosUpdate || len(decoded.Photos) != 1 || decoded.Photos[0].ID != "x" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
