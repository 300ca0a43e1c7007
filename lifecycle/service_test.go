package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gosim-wonderland/wonderland-server/models"
	"github.com/gosim-wonderland/wonderland-server/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestService() (*Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC)}
	return NewService(store.NewMemoryStore(), clock), clock
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, err := svc.Create(ctx, "/orig/a.jpg", "sess1", "make it rainy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if photo.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := svc.Get(ctx, photo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
	if got.CartoonURL != nil {
		t.Fatalf("cartoon_url = %v, want nil", *got.CartoonURL)
	}
	if got.UserSession != "sess1" || got.Caption != "make it rainy" {
		t.Fatalf("optional fields not preserved: %+v", got)
	}
	if got.OriginalURL != "/orig/a.jpg" {
		t.Fatalf("original_url = %q", got.OriginalURL)
	}
}

func TestApproveThenRejectIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, err := svc.Create(ctx, "/orig/a.jpg", "sess1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := svc.MarkCompleted(ctx, photo.ID, "/cartoon/a.jpg", "")
	if err != nil || !ok {
		t.Fatalf("mark completed: ok=%v err=%v", ok, err)
	}
	got, _ := svc.Get(ctx, photo.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.CartoonURL == nil || *got.CartoonURL != "/cartoon/a.jpg" {
		t.Fatalf("cartoon_url not set: %+v", got)
	}

	ok, err = svc.Approve(ctx, photo.ID)
	if err != nil || !ok {
		t.Fatalf("approve: ok=%v err=%v", ok, err)
	}
	got, _ = svc.Get(ctx, photo.ID)
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %q, want approved", got.Status)
	}
	if got.ApprovedAt == nil {
		t.Fatal("approved_at not set")
	}

	// approved is terminal: reject must not change anything
	ok, err = svc.Reject(ctx, photo.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if ok {
		t.Fatal("reject after approve should be a no-op")
	}
	got, _ = svc.Get(ctx, photo.ID)
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %q, want approved to stick", got.Status)
	}
}

func TestRejectIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/b.jpg", "", "")

	ok, err := svc.Reject(ctx, photo.ID)
	if err != nil || !ok {
		t.Fatalf("first reject: ok=%v err=%v", ok, err)
	}
	ok, err = svc.Reject(ctx, photo.ID)
	if err != nil {
		t.Fatalf("second reject: %v", err)
	}
	if ok {
		t.Fatal("second reject should return false")
	}
	got, _ := svc.Get(ctx, photo.ID)
	if got.Status != models.StatusRejected {
		t.Fatalf("status = %q, want rejected", got.Status)
	}
}

func TestSkipAIPathFallsBackToOriginal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/c.jpg", "sess", "")
	ok, err := svc.MarkCompleted(ctx, photo.ID, "", "")
	if err != nil || !ok {
		t.Fatalf("mark completed: ok=%v err=%v", ok, err)
	}

	got, _ := svc.Get(ctx, photo.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.CartoonURL != nil {
		t.Fatalf("cartoon_url should stay null on the skip path, got %v", *got.CartoonURL)
	}
	if got.DisplayURL() != "/orig/c.jpg" {
		t.Fatalf("display url = %q, want original", got.DisplayURL())
	}
}

func TestFailedIsNotTerminal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/d.jpg", "", "")
	ok, err := svc.MarkFailed(ctx, photo.ID, "timeout")
	if err != nil || !ok {
		t.Fatalf("mark failed: ok=%v err=%v", ok, err)
	}
	got, _ := svc.Get(ctx, photo.ID)
	if got.Status != models.StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if got.ProcessingError == nil || *got.ProcessingError != "timeout" {
		t.Fatalf("processing_error = %v, want timeout", got.ProcessingError)
	}

	// an admin can still approve a failed photo
	ok, err = svc.Approve(ctx, photo.ID)
	if err != nil || !ok {
		t.Fatalf("approve failed photo: ok=%v err=%v", ok, err)
	}
}

func TestMarkCompletedOnlyFromPending(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/e.jpg", "", "")
	if ok, _ := svc.Approve(ctx, photo.ID); !ok {
		t.Fatal("approve pending photo")
	}

	ok, err := svc.MarkCompleted(ctx, photo.ID, "/cartoon/e.jpg", "")
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if ok {
		t.Fatal("completed transition must not fire on an approved photo")
	}
}

func TestConcurrentApproveExactlyOneWins(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/f.jpg", "", "")

	const callers = 8
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := svc.Approve(ctx, photo.ID)
			if err != nil {
				t.Errorf("approve: %v", err)
			}
			results[i] = ok
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, ok := range results {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}

	got, _ := svc.Get(ctx, photo.ID)
	if got.Status != models.StatusApproved || got.ApprovedAt == nil {
		t.Fatalf("final row = %+v", got)
	}
}

func TestCountsSumToTotal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, "/orig/1.jpg", "", "")
	b, _ := svc.Create(ctx, "/orig/2.jpg", "", "")
	c, _ := svc.Create(ctx, "/orig/3.jpg", "", "")
	svc.MarkCompleted(ctx, a.ID, "/cartoon/1.jpg", "")
	svc.Approve(ctx, a.ID)
	svc.MarkFailed(ctx, b.ID, "timeout")
	svc.Reject(ctx, c.ID)

	counts, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != len(models.AllStatuses) {
		t.Fatalf("counts has %d keys, want %d", len(counts), len(models.AllStatuses))
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	if total != 3 {
		t.Fatalf("counts sum to %d, want 3", total)
	}
	if counts[models.StatusApproved] != 1 || counts[models.StatusFailed] != 1 || counts[models.StatusRejected] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestApprovedAtComesFromClock(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	photo, _ := svc.Create(ctx, "/orig/g.jpg", "", "")
	clock.now = clock.now.Add(42 * time.Minute)
	if ok, _ := svc.Approve(ctx, photo.ID); !ok {
		t.Fatal("approve")
	}
	got, _ := svc.Get(ctx, photo.ID)
	if got.ApprovedAt == nil || !got.ApprovedAt.Equal(clock.now) {
		t.Fatalf("approved_at = %v, want %v", got.ApprovedAt, clock.now)
	}
}
