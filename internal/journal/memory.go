package journal

import (
	"context"
	"slices"
	"sync"

	"github.com/justestif/go-mood-journal/internal/recommend"
)

// MemoryStore is a process-local Store used when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	nextEntry   int64
	nextReflect int64
	entries     map[int64]Entry
	order       []int64 // creation order
	reflections map[int64]Reflection
	recs        map[int64][]recommend.Track
	playlists   map[int64][]SavedPlaylist
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[int64]Entry),
		reflections: make(map[int64]Reflection),
		recs:        make(map[int64][]recommend.Track),
		playlists:   make(map[int64][]SavedPlaylist),
	}
}

func (m *MemoryStore) CreateEntry(_ context.Context, e *Entry, r *Reflection, recs []recommend.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEntry++
	e.ID = m.nextEntry
	m.entries[e.ID] = *e
	m.order = append(m.order, e.ID)

	if r != nil {
		m.nextReflect++
		r.ID = m.nextReflect
		r.MoodEntryID = e.ID
		m.reflections[e.ID] = *r
	}
	m.recs[e.ID] = slices.Clone(recs)
	return nil
}

func (m *MemoryStore) GetEntry(_ context.Context, id int64) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) GetReflection(_ context.Context, entryID int64) (*Reflection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.entries[entryID]; !ok {
		return nil, ErrNotFound
	}
	r, ok := m.reflections[entryID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryStore) Recommendations(_ context.Context, entryID int64) ([]recommend.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.entries[entryID]; !ok {
		return nil, ErrNotFound
	}
	out := slices.Clone(m.recs[entryID])
	if out == nil {
		out = []recommend.Track{}
	}
	return out, nil
}

func (m *MemoryStore) ReplaceRecommendations(_ context.Context, entryID int64, recs []recommend.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entryID]; !ok {
		return ErrNotFound
	}
	m.recs[entryID] = slices.Clone(recs)
	return nil
}

func (m *MemoryStore) CreatePlaylist(_ context.Context, p *SavedPlaylist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[p.MoodEntryID]; !ok {
		return ErrNotFound
	}
	stored := *p
	stored.TrackIDs = slices.Clone(p.TrackIDs)
	m.playlists[p.MoodEntryID] = append(m.playlists[p.MoodEntryID], stored)
	return nil
}

func (m *MemoryStore) Playlists(_ context.Context, entryID int64) ([]SavedPlaylist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.entries[entryID]; !ok {
		return nil, ErrNotFound
	}
	src := m.playlists[entryID]
	out := make([]SavedPlaylist, len(src))
	for i, p := range src {
		p.TrackIDs = slices.Clone(p.TrackIDs)
		out[i] = p
	}
	return out, nil
}

func (m *MemoryStore) RecentEntries(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(limit, len(m.order))
	out := make([]Entry, 0, max(n, 0))
	for i := len(m.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[m.order[i]])
	}
	return out, nil
}
