package core

import (
	"context"
	"time"
)

// Category buckets memory entries by the kind of fact they record.
type Category string

// Recognized memory categories.
const (
	CategoryCharacter  Category = "character"
	CategoryLocation   Category = "location"
	CategoryEvent      Category = "event"
	CategoryRule       Category = "rule"
	CategoryPreference Category = "preference"
	CategoryStoryBeat  Category = "story_beat"
	CategoryGeneral    Category = "general"
)

// Valid reports whether c is one of the recognized categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCharacter, CategoryLocation, CategoryEvent, CategoryRule,
		CategoryPreference, CategoryStoryBeat, CategoryGeneral:
		return true
	}
	return false
}

// Importance bounds. Every stored importance is clamped to this range.
const (
	ImportanceMin = 1
	ImportanceMax = 10
)

// ClampImportance clamps v to [ImportanceMin, ImportanceMax].
func ClampImportance(v int) int {
	if v < ImportanceMin {
		return ImportanceMin
	}
	if v > ImportanceMax {
		return ImportanceMax
	}
	return v
}

// MemoryEntry is one stored fact with its embedding. Entries are soft
// deleted: a retention sweep flips Active to false but never removes the row,
// so deactivated entries stay addressable by ID.
type MemoryEntry struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	UserID     string    `json:"user_id,omitempty"`
	Content    string    `json:"content"`
	Category   Category  `json:"category"`
	Importance int       `json:"importance"`
	Tags       []string  `json:"tags,omitempty"`
	Embedding  []float64 `json:"embedding"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MemoryRecord is an unstored memory: the content and metadata a phase wants
// persisted. The store assigns identity, embedding and timestamps on create.
type MemoryRecord struct {
	Content    string   `json:"content"`
	Category   Category `json:"category"`
	Importance int      `json:"importance,omitempty"` // 0 = compute heuristically
	Tags       []string `json:"tags,omitempty"`
}

// SimilarityResult pairs a memory entry with its cosine similarity in [-1,1]
// against a query embedding. It exists only transiently for ranking.
type SimilarityResult struct {
	Entry MemoryEntry `json:"entry"`
	Score float64     `json:"score"`
}

// MemoryStats summarizes a campaign's memory set.
type MemoryStats struct {
	Total         int              `json:"total"`
	Active        int              `json:"active"`
	ByCategory    map[Category]int `json:"by_category"`
	AvgImportance float64          `json:"avg_importance"`
}

// CreateMemoryInput carries the arguments for MemoryStore.Create.
type CreateMemoryInput struct {
	CampaignID string
	UserID     string
	Content    string
	Category   Category
	Importance int // 0 = compute heuristically
	Tags       []string
}

// SearchMemoryInput carries the arguments for MemoryStore.Search. Zero
// values mean "no filter" except Limit, which defaults to 10 when 0.
type SearchMemoryInput struct {
	CampaignID    string
	UserID        string
	Category      Category
	MinImportance int
	Query         string
	Limit         int
	Threshold     float64
}

// CleanupMemoryInput carries the arguments for MemoryStore.Cleanup.
type CleanupMemoryInput struct {
	CampaignID    string
	KeepCount     int
	MinImportance int
}

// MemoryStore is the persistence and retrieval contract for semantic memory.
// Implementations must tolerate concurrent reads and appends; Cleanup must be
// idempotent so concurrent sweeps for the same campaign are harmless.
type MemoryStore interface {
	// Create embeds the content, computes importance when the input leaves it
	// unset, and persists a new active entry, returning it with its embedding.
	Create(ctx context.Context, in CreateMemoryInput) (*MemoryEntry, error)

	// Get returns the entry with the given id, active or not.
	Get(ctx context.Context, id string) (*MemoryEntry, error)

	// Search embeds the query and returns active entries matching the filters
	// whose cosine similarity meets the threshold, best first, at most Limit.
	Search(ctx context.Context, in SearchMemoryInput) ([]SimilarityResult, error)

	// Cleanup deactivates every active entry for the campaign that is neither
	// protected (importance >= MinImportance, or created within the last seven
	// days) nor among the KeepCount best survivors ordered by importance then
	// recency. It returns the number of entries deactivated.
	Cleanup(ctx context.Context, in CleanupMemoryInput) (int, error)

	// Stats reports totals, per-category active counts and average importance
	// of active entries for the campaign.
	Stats(ctx context.Context, campaignID string) (*MemoryStats, error)
}
