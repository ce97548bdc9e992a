package tool

import (
	"fmt"
	"sync"
	"time"

	"github.com/questforge/questforge/core"
)

// UpdateStatusTagsName is the registered name of the status tag tool.
const UpdateStatusTagsName = "update_status_tags"

// TagType classifies a status tag.
type TagType string

// Recognized tag types.
const (
	TagBuff      TagType = "buff"
	TagDebuff    TagType = "debuff"
	TagCondition TagType = "condition"
	TagInjury    TagType = "injury"
	TagAttribute TagType = "attribute"
)

func (t TagType) valid() bool {
	switch t {
	case TagBuff, TagDebuff, TagCondition, TagInjury, TagAttribute:
		return true
	}
	return false
}

// TagAction is the mutation applied for one tag.
type TagAction string

// Recognized tag actions.
const (
	TagAdd    TagAction = "add"
	TagUpdate TagAction = "update"
	TagRemove TagAction = "remove"
)

func (a TagAction) valid() bool {
	switch a {
	case TagAdd, TagUpdate, TagRemove:
		return true
	}
	return false
}

// TagChange describes one tag mutation in an update_status_tags call.
type TagChange struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        TagType   `json:"type"`
	Action      TagAction `json:"action"`
	Value       *int      `json:"value,omitempty"`
	Duration    *int      `json:"duration,omitempty"` // rounds; nil = indefinite
}

// TagRecord is the stored state of one tag on one entity.
type TagRecord struct {
	EntityID    string    `json:"entity_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        TagType   `json:"type"`
	Value       *int      `json:"value,omitempty"`
	Duration    *int      `json:"duration,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateStatusTagsInput is the argument shape of the update_status_tags tool.
type UpdateStatusTagsInput struct {
	EntityID string      `json:"entity_id" description:"Entity whose tags are mutated ('player' or an NPC name)"`
	Tags     []TagChange `json:"tags" description:"Tag mutations to apply in order"`
}

// StatusTool maintains an in-process registry of status tags per entity and
// exposes it as the update_status_tags tool. The registry is the committed
// record of mechanical consequences; a cancelled turn never rolls it back.
type StatusTool struct {
	mu   sync.Mutex
	tags map[string]map[string]TagRecord // entityID -> tag name -> record
	now  func() time.Time
}

// NewStatusTool creates an empty status tag registry tool.
func NewStatusTool() *StatusTool {
	return &StatusTool{tags: make(map[string]map[string]TagRecord), now: time.Now}
}

// Name implements Tool.
func (t *StatusTool) Name() string { return UpdateStatusTagsName }

// Description implements Tool.
func (t *StatusTool) Description() string {
	return "Add, update or remove status tags (buffs, debuffs, conditions, injuries, attributes) on an entity."
}

// Parameters implements Tool.
func (t *StatusTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entity_id": map[string]any{"type": "string"},
			"tags":      map[string]any{"type": "array"},
		},
		"required": []string{"entity_id", "tags"},
	}
}

// Call implements Tool.
func (t *StatusTool) Call(_ *core.ToolContext, args map[string]any) (any, error) {
	var in UpdateStatusTagsInput
	if err := decodeArgs(args, &in); err != nil {
		return nil, NewToolError(UpdateStatusTagsName, err.Error(), "VALIDATION_ERROR")
	}
	return t.Apply(in)
}

// Apply validates and applies the tag mutations, returning the updated
// records for the entity in mutation order (removed tags are omitted).
func (t *StatusTool) Apply(in UpdateStatusTagsInput) ([]TagRecord, error) {
	if in.EntityID == "" {
		return nil, NewToolError(UpdateStatusTagsName, "entity_id must not be empty", "VALIDATION_ERROR")
	}
	for _, change := range in.Tags {
		if change.Name == "" {
			return nil, NewToolError(UpdateStatusTagsName, "tag name must not be empty", "VALIDATION_ERROR")
		}
		if !change.Type.valid() {
			return nil, NewToolError(UpdateStatusTagsName, fmt.Sprintf("invalid tag type %q", change.Type), "VALIDATION_ERROR")
		}
		if !change.Action.valid() {
			return nil, NewToolError(UpdateStatusTagsName, fmt.Sprintf("invalid tag action %q", change.Action), "VALIDATION_ERROR")
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entity := t.tags[in.EntityID]
	if entity == nil {
		entity = make(map[string]TagRecord)
		t.tags[in.EntityID] = entity
	}

	var updated []TagRecord
	for _, change := range in.Tags {
		switch change.Action {
		case TagRemove:
			delete(entity, change.Name)
		default: // add and update share upsert semantics
			record := TagRecord{
				EntityID:    in.EntityID,
				Name:        change.Name,
				Description: change.Description,
				Type:        change.Type,
				Value:       change.Value,
				Duration:    change.Duration,
				UpdatedAt:   t.now(),
			}
			entity[change.Name] = record
			updated = append(updated, record)
		}
	}

	return updated, nil
}

// Tags returns a snapshot of the current tags for an entity.
func (t *StatusTool) Tags(entityID string) []TagRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	records := make([]TagRecord, 0, len(t.tags[entityID]))
	for _, record := range t.tags[entityID] {
		records = append(records, record)
	}
	return records
}
