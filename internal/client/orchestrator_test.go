package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// fakeAPI counts calls. While gate is non-nil, mutations block until it is closed.
type fakeAPI struct {
	gate chan struct{}

	creates, refreshes, saves, recents, affirmations atomic.Int32

	mu      sync.Mutex
	entries []journal.Entry
	failing error
}

func (f *fakeAPI) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	select {
	case <-f.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAPI) CreateEntry(ctx context.Context, in journal.CreateInput) (*journal.EntryWithReflection, error) {
	f.creates.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e := journal.Entry{ID: int64(len(f.entries) + 1), Text: in.Text}
	f.entries = append([]journal.Entry{e}, f.entries...)
	return &journal.EntryWithReflection{MoodEntry: e}, nil
}

func (f *fakeAPI) RefreshRecommendations(ctx context.Context, id int64) ([]recommend.Track, error) {
	n := f.refreshes.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	return []recommend.Track{{SpotifyTrackID: "r" + string(rune('0'+n))}}, nil
}

func (f *fakeAPI) SavePlaylist(ctx context.Context, in journal.SaveInput) (*journal.SavedPlaylist, error) {
	f.saves.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	return &journal.SavedPlaylist{MoodEntryID: in.MoodEntryID, PlaylistName: in.PlaylistName}, nil
}

func (f *fakeAPI) RecentEntries(_ context.Context, limit int) ([]journal.Entry, error) {
	f.recents.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]journal.Entry{}, f.entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAPI) Affirmation(context.Context) (string, error) {
	f.affirmations.Add(1)
	return "You are enough.", nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCreateEntry_StatusTransitions(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	o := NewOrchestrator(api)

	op := o.CreateEntry(context.Background(), journal.CreateInput{Text: "hello"})
	if got := op.Result().Status; got != StatusPending {
		t.Fatalf("status before completion = %s, want pending", got)
	}
	if st, ok := o.Status(createKey); !ok || st != StatusPending {
		t.Errorf("Status(create) = %s, %v", st, ok)
	}

	close(api.gate)
	got, err := op.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got.MoodEntry.Text != "hello" {
		t.Errorf("entry text = %q", got.MoodEntry.Text)
	}
	if r := op.Result(); r.Status != StatusSucceeded || r.Value != got {
		t.Errorf("Result() = %+v", r)
	}
	if st, _ := o.Status(createKey); st != StatusSucceeded {
		t.Errorf("Status(create) = %s, want succeeded", st)
	}
}

func TestValidationBeforeRequest(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(api)
	ctx := waitCtx(t)

	if _, err := o.CreateEntry(ctx, journal.CreateInput{Text: "  "}).Wait(ctx); !errors.Is(err, ErrValidation) {
		t.Errorf("create error = %v, want ErrValidation", err)
	}
	if _, err := o.RefreshRecommendations(ctx, 0).Wait(ctx); !errors.Is(err, ErrValidation) {
		t.Errorf("refresh error = %v, want ErrValidation", err)
	}
	op := o.SavePlaylist(ctx, journal.SaveInput{MoodEntryID: -1})
	if r := op.Result(); r.Status != StatusFailed || !errors.Is(r.Err, ErrValidation) {
		t.Errorf("save result = %+v, want failed validation", r)
	}

	if n := api.creates.Load() + api.refreshes.Load() + api.saves.Load(); n != 0 {
		t.Errorf("API called %d times for invalid input", n)
	}
}

func TestFailureStatus(t *testing.T) {
	api := &fakeAPI{failing: ErrNotFound}
	o := NewOrchestrator(api)
	ctx := waitCtx(t)

	op := o.SavePlaylist(ctx, journal.SaveInput{MoodEntryID: 7})
	if _, err := op.Wait(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Wait() error = %v, want ErrNotFound", err)
	}
	if r := op.Result(); r.Status != StatusFailed {
		t.Errorf("status = %s, want failed", r.Status)
	}
	if st, _ := o.Status(SaveKey(7)); st != StatusFailed {
		t.Errorf("Status(save:7) = %s, want failed", st)
	}
}

func TestIdenticalRequestsDeduplicated(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	o := NewOrchestrator(api)
	ctx := waitCtx(t)

	in := journal.CreateInput{Text: "same", Energy: 5, Valence: 5}
	first := o.CreateEntry(ctx, in)
	// Give the first call time to enter the flight.
	for api.creates.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	second := o.CreateEntry(ctx, in)
	other := o.CreateEntry(ctx, journal.CreateInput{Text: "different"})
	for api.creates.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	// Let the duplicate join the pending flight.
	time.Sleep(20 * time.Millisecond)
	close(api.gate)

	a, err := first.Wait(ctx)
	if err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}
	b, err := second.Wait(ctx)
	if err != nil {
		t.Fatalf("second Wait() error = %v", err)
	}
	if _, err := other.Wait(ctx); err != nil {
		t.Fatalf("other Wait() error = %v", err)
	}

	if a.MoodEntry.ID != b.MoodEntry.ID {
		t.Errorf("deduplicated creates returned ids %d and %d", a.MoodEntry.ID, b.MoodEntry.ID)
	}
	if n := api.creates.Load(); n != 2 {
		t.Errorf("API creates = %d, want 2", n)
	}
}

func TestRefresh_LastWriterWins(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(api)
	ctx := waitCtx(t)

	first := o.RefreshRecommendations(ctx, 3)
	if _, err := first.Wait(ctx); err != nil {
		t.Fatalf("first refresh error = %v", err)
	}

	api.gate = make(chan struct{})
	second := o.RefreshRecommendations(ctx, 3)
	if st, _ := o.Status(RefreshKey(3)); st != StatusPending {
		t.Errorf("Status(refresh:3) = %s, want pending from newest refresh", st)
	}
	if first.Result().Status != StatusSucceeded {
		t.Error("earlier refresh result changed")
	}

	close(api.gate)
	tracks, err := second.Wait(ctx)
	if err != nil {
		t.Fatalf("second refresh error = %v", err)
	}
	if len(tracks) != 1 || tracks[0].SpotifyTrackID != "r2" {
		t.Errorf("second refresh = %v, want r2", tracks)
	}
}

func TestRecentEntries_CachedAndInvalidated(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(api, WithCache(cache.NewMemory()))
	ctx := waitCtx(t)

	for i := 0; i < 2; i++ {
		if _, err := o.RecentEntries(ctx, 5); err != nil {
			t.Fatalf("RecentEntries() error = %v", err)
		}
	}
	if _, err := o.RecentEntries(ctx, 2); err != nil {
		t.Fatalf("RecentEntries(2) error = %v", err)
	}
	if n := api.recents.Load(); n != 2 {
		t.Fatalf("API recents = %d, want 2 (one per limit)", n)
	}

	if _, err := o.Affirmation(ctx); err != nil {
		t.Fatalf("Affirmation() error = %v", err)
	}

	if _, err := o.CreateEntry(ctx, journal.CreateInput{Text: "new"}).Wait(ctx); err != nil {
		t.Fatalf("create error = %v", err)
	}

	got, err := o.RecentEntries(ctx, 5)
	if err != nil {
		t.Fatalf("RecentEntries() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "new" {
		t.Errorf("RecentEntries() after create = %+v", got)
	}
	o.RecentEntries(ctx, 2)
	if n := api.recents.Load(); n != 4 {
		t.Errorf("API recents = %d, want 4 after invalidation", n)
	}

	o.Affirmation(ctx)
	if n := api.affirmations.Load(); n != 1 {
		t.Errorf("API affirmations = %d, want 1; mutations must not drop it", n)
	}

	if err := o.Invalidate(ctx, AffirmationKey); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	o.Affirmation(ctx)
	if n := api.affirmations.Load(); n != 2 {
		t.Errorf("API affirmations = %d, want 2 after Invalidate", n)
	}
}

func TestFailedMutationKeepsCache(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(api)
	ctx := waitCtx(t)

	o.RecentEntries(ctx, 5)
	api.failing = errors.New("boom")
	o.RefreshRecommendations(ctx, 1).Wait(ctx)
	o.RecentEntries(ctx, 5)

	if n := api.recents.Load(); n != 1 {
		t.Errorf("API recents = %d, want 1", n)
	}
}

func TestWait_ContextDone(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	defer close(api.gate)
	o := NewOrchestrator(api)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	op := o.RefreshRecommendations(context.Background(), 1)
	if _, err := op.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
	if op.Result().Status != StatusPending {
		t.Error("operation should still be pending")
	}
}

func TestLikes(t *testing.T) {
	o := NewOrchestrator(&fakeAPI{})
	if !o.Likes().Toggle("t1") || !o.Likes().Contains("t1") {
		t.Error("Toggle() did not like t1")
	}
	if o.Likes().Toggle("t1") || o.Likes().Len() != 0 {
		t.Error("second Toggle() did not unlike t1")
	}
}
