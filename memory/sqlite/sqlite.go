// Package sqlite provides a durable core.MemoryStore backed by SQLite via
// the pure-Go modernc.org/sqlite driver. Rows are filtered with SQL;
// similarity is still computed in the application layer over the candidate
// set, matching the in-memory implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/questforge/core"
	"github.com/questforge/questforge/embedding"
	"github.com/questforge/questforge/memory"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id          TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	user_id     TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	category    TEXT NOT NULL,
	importance  INTEGER NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]',
	embedding   TEXT NOT NULL,
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_campaign_active ON memories (campaign_id, active);
`

const retentionWindow = 7 * 24 * time.Hour

// Store is a SQLite-backed core.MemoryStore.
type Store struct {
	db       *sql.DB
	embedder embedding.Provider
	now      func() time.Time
}

var _ core.MemoryStore = (*Store)(nil)

// Open opens (creating if necessary) the database at path and prepares the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string, embedder embedding.Provider) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return &Store{db: db, embedder: embedder, now: time.Now}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Create implements core.MemoryStore.
func (s *Store) Create(ctx context.Context, in core.CreateMemoryInput) (*core.MemoryEntry, error) {
	if in.Content == "" {
		return nil, memory.ErrEmptyContent
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
		importance = memory.ScoreImportance(in.Content)
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

	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	emb, err := json.Marshal(entry.Embedding)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (id, campaign_id, user_id, content, category, importance, tags, embedding, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		entry.ID, entry.CampaignID, entry.UserID, entry.Content, string(entry.Category),
		entry.Importance, string(tags), string(emb), entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}

	return entry, nil
}

// Get implements core.MemoryStore. Inactive entries remain addressable.
func (s *Store) Get(ctx context.Context, id string) (*core.MemoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, campaign_id, user_id, content, category, importance, tags, embedding, active, created_at, updated_at
		FROM memories WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, memory.ErrNotFound
	}
	return entry, err
}

// Search implements core.MemoryStore.
func (s *Store) Search(ctx context.Context, in core.SearchMemoryInput) ([]core.SimilarityResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}

	queryVec, err := s.embedder.Embed(ctx, in.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	query := `
		SELECT id, campaign_id, user_id, content, category, importance, tags, embedding, active, created_at, updated_at
		FROM memories WHERE active = 1 AND importance >= ?`
	args := []any{in.MinImportance}
	if in.CampaignID != "" {
		query += " AND campaign_id = ?"
		args = append(args, in.CampaignID)
	}
	if in.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, in.UserID)
	}
	if in.Category != "" {
		query += " AND category = ?"
		args = append(args, string(in.Category))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var results []core.SimilarityResult
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		score := memory.CosineSimilarity(queryVec, entry.Embedding)
		if score < in.Threshold {
			continue
		}
		results = append(results, core.SimilarityResult{Entry: *entry, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Cleanup implements core.MemoryStore. Survivor selection happens in the
// application layer so the policy stays identical across backends; the
// deactivation is a single UPDATE, which makes concurrent sweeps idempotent.
func (s *Store) Cleanup(ctx context.Context, in core.CleanupMemoryInput) (int, error) {
	now := s.now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, importance, created_at FROM memories
		WHERE active = 1 AND campaign_id = ?`, in.CampaignID)
	if err != nil {
		return 0, fmt.Errorf("query active memories: %w", err)
	}

	type candidate struct {
		id         string
		importance int
		createdAt  time.Time
	}
	var active []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.importance, &c.createdAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan memory: %w", err)
		}
		active = append(active, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate memories: %w", err)
	}

	var survivors []candidate
	for _, c := range active {
		if c.importance >= in.MinImportance || now.Sub(c.createdAt) <= retentionWindow {
			survivors = append(survivors, c)
		}
	}
	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].importance != survivors[j].importance {
			return survivors[i].importance > survivors[j].importance
		}
		return survivors[i].createdAt.After(survivors[j].createdAt)
	})
	if in.KeepCount >= 0 && len(survivors) > in.KeepCount {
		survivors = survivors[:in.KeepCount]
	}

	kept := make(map[string]bool, len(survivors))
	for _, c := range survivors {
		kept[c.id] = true
	}

	var victims []any
	for _, c := range active {
		if !kept[c.id] {
			victims = append(victims, c.id)
		}
	}
	if len(victims) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(victims)), ",")
	args := append([]any{now}, victims...)
	res, err := s.db.ExecContext(ctx,
		"UPDATE memories SET active = 0, updated_at = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate memories: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Stats implements core.MemoryStore.
func (s *Store) Stats(ctx context.Context, campaignID string) (*core.MemoryStats, error) {
	stats := &core.MemoryStats{ByCategory: make(map[core.Category]int)}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memories WHERE campaign_id = ?", campaignID).Scan(&stats.Total)
	if err != nil {
		return nil, fmt.Errorf("count memories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*), SUM(importance) FROM memories
		WHERE campaign_id = ? AND active = 1 GROUP BY category`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("aggregate memories: %w", err)
	}
	defer rows.Close()

	importanceSum := 0
	for rows.Next() {
		var category string
		var count, sum int
		if err := rows.Scan(&category, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		stats.ByCategory[core.Category(category)] = count
		stats.Active += count
		importanceSum += sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregates: %w", err)
	}
	if stats.Active > 0 {
		stats.AvgImportance = float64(importanceSum) / float64(stats.Active)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*core.MemoryEntry, error) {
	var entry core.MemoryEntry
	var category, tags, emb string
	var active int
	err := row.Scan(&entry.ID, &entry.CampaignID, &entry.UserID, &entry.Content,
		&category, &entry.Importance, &tags, &emb, &active, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.Category = core.Category(category)
	entry.Active = active != 0
	if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(emb), &entry.Embedding); err != nil {
		return nil, fmt.Errorf("unmarshal embedding: %w", err)
	}
	return &entry, nil
}
