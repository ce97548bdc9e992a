package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/embedding"
)

// retentionWindow is how long a freshly created entry is protected from the
// cleanup sweep regardless of importance.
const retentionWindow = 7 * 24 * time.Hour

// ErrNotFound indicates no entry exists for the requested id.
var ErrNotFound = errors.New("memory entry not found")

// ErrEmptyContent indicates a create call with no content to store.
var ErrEmptyContent = errors.New("memory content must not be empty")

// InMemoryStore is a process-local core.MemoryStore. Entries live in a map
// guarded by an RWMutex, so concurrent reads and appends never contend on a
// single global lock beyond the map guard itself. Suitable for tests, demos
// and single-process deployments; use the sqlite backend for durability.
type InMemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*core.MemoryEntry
	embedder embedding.Provider
	now      func() time.Time
}

var _ core.MemoryStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty store that embeds content with the given
// provider.
func NewInMemoryStore(embedder embedding.Provider) *InMemoryStore {
	return &InMemoryStore{
		entries:  make(map[string]*core.MemoryEntry),
		embedder: embedder,
		now:      time.Now,
	}
}

// Create implements core.MemoryStore.
func (s *InMemoryStore) Create(ctx context.Context, in core.CreateMemoryInput) (*core.MemoryEntry, error) {
	if in.Content == "" {
		return nil, ErrEmptyContent
	}
	category := in.Category
	if category == "" {
		category = core.CategoryGeneral
	}
	if !category.Valid() {
		return nil, fmt.Errorf("invalid memory category %q", in.Category)
	}

	vec, err := s.embedder.Embed(ctx, in.Content)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	importance := in.Importance
	if importance == 0 {
		importance = ScoreImportance(in.Content)
	}

	now := s.now()
	entry := &core.MemoryEntry{
		ID:         uuid.NewString(),
		CampaignID: in.CampaignID,
		UserID:     in.UserID,
		Content:    in.Content,
		Category:   category,
		Importance: core.ClampImportance(importance),
		Tags:       append([]string(nil), in.Tags...),
		Embedding:  vec,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	return cloneEntry(entry), nil
}

// Get implements core.MemoryStore. Inactive entries remain addressable.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntry(entry), nil
}

// Search implements core.MemoryStore.
func (s *InMemoryStore) Search(ctx context.Context, in core.SearchMemoryInput) ([]core.SimilarityResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}

	queryVec, err := s.embedder.Embed(ctx, in.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Clone matching entries before releasing the lock so scoring works on
	// private copies. A concurrent Cleanup mutates entries in place, so
	// holding bare pointers past the unlock would race with the sweep.
	s.mu.RLock()
	candidates := make([]*core.MemoryEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if matchesFilters(entry, in) {
			candidates = append(candidates, cloneEntry(entry))
		}
	}
	s.mu.RUnlock()

	results := make([]core.SimilarityResult, 0, len(candidates))
	for _, entry := range candidates {
		score := CosineSimilarity(queryVec, entry.Embedding)
		if score < in.Threshold {
			continue
		}
		results = append(results, core.SimilarityResult{Entry: *entry, Score: score})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func matchesFilters(entry *core.MemoryEntry, in core.SearchMemoryInput) bool {
	if !entry.Active {
		return false
	}
	if in.CampaignID != "" && entry.CampaignID != in.CampaignID {
		return false
	}
	if in.UserID != "" && entry.UserID != in.UserID {
		return false
	}
	if in.Category != "" && entry.Category != in.Category {
		return false
	}
	if entry.Importance < in.MinImportance {
		return false
	}
	return true
}

// Cleanup implements core.MemoryStore. The sweep is idempotent: entries that
// survive one run survive an identical concurrent run, and deactivating an
// already inactive entry is a no-op.
func (s *InMemoryStore) Cleanup(_ context.Context, in core.CleanupMemoryInput) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var active []*core.MemoryEntry
	for _, entry := range s.entries {
		if entry.Active && entry.CampaignID == in.CampaignID {
			active = append(active, entry)
		}
	}

	var survivors []*core.MemoryEntry
	for _, entry := range active {
		if entry.Importance >= in.MinImportance || now.Sub(entry.CreatedAt) <= retentionWindow {
			survivors = append(survivors, entry)
		}
	}

	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].Importance != survivors[j].Importance {
			return survivors[i].Importance > survivors[j].Importance
		}
		return survivors[i].CreatedAt.After(survivors[j].CreatedAt)
	})
	if in.KeepCount >= 0 && len(survivors) > in.KeepCount {
		survivors = survivors[:in.KeepCount]
	}

	kept := make(map[string]bool, len(survivors))
	for _, entry := range survivors {
		kept[entry.ID] = true
	}

	deactivated := 0
	for _, entry := range active {
		if kept[entry.ID] {
			continue
		}
		entry.Active = false
		entry.UpdatedAt = now
		deactivated++
	}

	return deactivated, nil
}

// Stats implements core.MemoryStore.
func (s *InMemoryStore) Stats(_ context.Context, campaignID string) (*core.MemoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &core.MemoryStats{ByCategory: make(map[core.Category]int)}
	importanceSum := 0
	for _, entry := range s.entries {
		if entry.CampaignID != campaignID {
			continue
		}
		stats.Total++
		if !entry.Active {
			continue
		}
		stats.Active++
		stats.ByCategory[entry.Category]++
		importanceSum += entry.Importance
	}
	if stats.Active > 0 {
		stats.AvgImportance = float64(importanceSum) / float64(stats.Active)
	}

	return stats, nil
}

func cloneEntry(entry *core.MemoryEntry) *core.MemoryEntry {
	out := *entry
	out.Tags = append([]string(nil), entry.Tags...)
	out.Embedding = append([]float64(nil), entry.Embedding...)
	return &out
}
