package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/journal"
	"github.com/justestif/go-mood-journal/internal/likes"
	"github.com/justestif/go-mood-journal/internal/recommend"
)

// Status is the lifecycle of one operation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is a snapshot of an operation.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Operation is an asynchronous call whose result can be polled or awaited.
type Operation[T any] struct {
	done chan struct{}

	mu     sync.RWMutex
	result Result[T]
}

func newOperation[T any]() *Operation[T] {
	return &Operation[T]{
		done:   make(chan struct{}),
		result: Result[T]{Status: StatusPending},
	}
}

func failedOperation[T any](err error) *Operation[T] {
	op := newOperation[T]()
	op.finish(*new(T), err)
	return op
}

func (o *Operation[T]) finish(v T, err error) {
	o.mu.Lock()
	if err != nil {
		o.result = Result[T]{Status: StatusFailed, Err: err}
	} else {
		o.result = Result[T]{Status: StatusSucceeded, Value: v}
	}
	o.mu.Unlock()
	close(o.done)
}

// Result returns the current state without blocking.
func (o *Operation[T]) Result() Result[T] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.result
}

// Done is closed when the operation finishes.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation finishes or ctx is done.
func (o *Operation[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		r := o.Result()
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cache keys.
const (
	AffirmationKey  = "affirmation"
	recentKeyPrefix = "recent:"
	createKey       = "create"
)

const (
	recentTTL      = time.Minute
	affirmationTTL = time.Hour
)

// RecentKey is the cache key for RecentEntries(limit).
func RecentKey(limit int) string {
	return recentKeyPrefix + strconv.Itoa(limit)
}

// RefreshKey is the status key for refreshes of an entry.
func RefreshKey(id int64) string {
	return "refresh:" + strconv.FormatInt(id, 10)
}

// SaveKey is the status key for saves of an entry.
func SaveKey(id int64) string {
	return "save:" + strconv.FormatInt(id, 10)
}

// Orchestrator runs API calls in the background, deduplicates identical
// concurrent calls and keeps read caches fresh after mutations.
type Orchestrator struct {
	api   API
	reads *cache.ReadThrough
	group singleflight.Group
	liked *likes.Set

	mu         sync.Mutex
	statuses   map[string]func() Status // latest operation per key
	recentKeys map[string]struct{}
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCache sets the backend for the read caches.
func WithCache(c cache.Cache) OrchestratorOption {
	return func(o *Orchestrator) {
		if c != nil {
			o.reads = cache.NewReadThrough(c)
		}
	}
}

// NewOrchestrator creates an orchestrator over api.
func NewOrchestrator(api API, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		api:        api,
		liked:      likes.NewSet(),
		statuses:   make(map[string]func() Status),
		recentKeys: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.reads == nil {
		o.reads = cache.NewReadThrough(cache.NewMemory())
	}
	return o
}

// Likes returns the session's liked tracks.
func (o *Orchestrator) Likes() *likes.Set {
	return o.liked
}

// Status reports the state of the most recent operation tracked under key.
func (o *Orchestrator) Status(key string) (Status, bool) {
	o.mu.Lock()
	fn, ok := o.statuses[key]
	o.mu.Unlock()
	if !ok {
		return "", false
	}
	return fn(), true
}

// CreateEntry submits a mood entry. Blank text fails before any request.
func (o *Orchestrator) CreateEntry(ctx context.Context, in journal.CreateInput) *Operation[*journal.EntryWithReflection] {
	if strings.TrimSpace(in.Text) == "" {
		return track(o, createKey, failedOperation[*journal.EntryWithReflection](fmt.Errorf("%w: text is required", ErrValidation)))
	}
	return run(ctx, o, createKey, "create:"+fingerprint(in), func(ctx context.Context) (*journal.EntryWithReflection, error) {
		return o.api.CreateEntry(ctx, in)
	})
}

// RefreshRecommendations requests a new ranking. A newer refresh of the same
// entry replaces the tracked status; the older call still completes.
func (o *Orchestrator) RefreshRecommendations(ctx context.Context, id int64) *Operation[[]recommend.Track] {
	key := RefreshKey(id)
	if id < 1 {
		return track(o, key, failedOperation[[]recommend.Track](fmt.Errorf("%w: invalid mood entry id %d", ErrValidation, id)))
	}
	return run(ctx, o, key, key, func(ctx context.Context) ([]recommend.Track, error) {
		return o.api.RefreshRecommendations(ctx, id)
	})
}

// SavePlaylist saves the entry's current recommendations.
func (o *Orchestrator) SavePlaylist(ctx context.Context, in journal.SaveInput) *Operation[*journal.SavedPlaylist] {
	key := SaveKey(in.MoodEntryID)
	if in.MoodEntryID < 1 {
		return track(o, key, failedOperation[*journal.SavedPlaylist](fmt.Errorf("%w: invalid mood entry id %d", ErrValidation, in.MoodEntryID)))
	}
	return run(ctx, o, key, "save:"+fingerprint(in), func(ctx context.Context) (*journal.SavedPlaylist, error) {
		return o.api.SavePlaylist(ctx, in)
	})
}

// RecentEntries reads through the cache.
func (o *Orchestrator) RecentEntries(ctx context.Context, limit int) ([]journal.Entry, error) {
	key := RecentKey(limit)
	o.mu.Lock()
	o.recentKeys[key] = struct{}{}
	o.mu.Unlock()

	return cache.Load(ctx, o.reads, key, recentTTL, func(ctx context.Context) ([]journal.Entry, error) {
		return o.api.RecentEntries(ctx, limit)
	})
}

// Affirmation reads through the cache.
func (o *Orchestrator) Affirmation(ctx context.Context) (string, error) {
	return cache.Load(ctx, o.reads, AffirmationKey, affirmationTTL, o.api.Affirmation)
}

// Invalidate drops a cached read.
func (o *Orchestrator) Invalidate(ctx context.Context, key string) error {
	if err := o.reads.Invalidate(ctx, key); err != nil {
		return fmt.Errorf("invalidating %s: %w", key, err)
	}
	return nil
}

func (o *Orchestrator) invalidateRecent(ctx context.Context) {
	o.mu.Lock()
	keys := make([]string, 0, len(o.recentKeys))
	for k := range o.recentKeys {
		keys = append(keys, k)
	}
	o.mu.Unlock()

	for _, k := range keys {
		if err := o.Invalidate(ctx, k); err != nil {
			log.Printf("WARN: %v", err)
		}
	}
}

// run starts fn in the background, sharing one call among identical
// concurrent requests, and invalidates the recent cache on success.
func run[T any](ctx context.Context, o *Orchestrator, statusKey, flightKey string, fn func(context.Context) (T, error)) *Operation[T] {
	op := track(o, statusKey, newOperation[T]())
	ctx = context.WithoutCancel(ctx)

	go func() {
		v, err, _ := o.group.Do(flightKey, func() (any, error) {
			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			o.invalidateRecent(ctx)
			return v, nil
		})
		if err != nil {
			op.finish(*new(T), err)
			return
		}
		op.finish(v.(T), nil)
	}()

	return op
}

func track[T any](o *Orchestrator, key string, op *Operation[T]) *Operation[T] {
	o.mu.Lock()
	o.statuses[key] = func() Status { return op.Result().Status }
	o.mu.Unlock()
	return op
}

func fingerprint(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}
