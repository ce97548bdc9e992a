package tool

import (
	"github.com/questforge/questforge/core"
)

// Registered names of the knowledge tools.
const (
	StoreKnowledgeName  = "store_knowledge"
	SearchKnowledgeName = "search_knowledge"
)

// StoreKnowledgeInput is the argument shape of the store_knowledge tool.
type StoreKnowledgeInput struct {
	Content    string   `json:"content" description:"The fact to remember"`
	Category   string   `json:"category,omitempty" description:"Memory category (character, location, event, rule, preference, story_beat, general)"`
	Importance int      `json:"importance,omitempty" description:"Importance 1-10; 0 lets the store score it"`
	Tags       []string `json:"tags,omitempty"`
}

// StoreKnowledgeTool is a thin façade over the memory store: it records one
// fact scoped to the calling turn's campaign and user.
type StoreKnowledgeTool struct{}

// NewStoreKnowledgeTool creates the store_knowledge tool.
func NewStoreKnowledgeTool() *StoreKnowledgeTool { return &StoreKnowledgeTool{} }

// Name implements Tool.
func (t *StoreKnowledgeTool) Name() string { return StoreKnowledgeName }

// Description implements Tool.
func (t *StoreKnowledgeTool) Description() string {
	return "Store a fact in campaign memory for later semantic retrieval."
}

// Parameters implements Tool.
func (t *StoreKnowledgeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":    map[string]any{"type": "string"},
			"category":   map[string]any{"type": "string"},
			"importance": map[string]any{"type": "integer"},
			"tags":       map[string]any{"type": "array"},
		},
		"required": []string{"content"},
	}
}

// Call implements Tool.
func (t *StoreKnowledgeTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	if toolCtx.Memory() == nil {
		return nil, NewToolError(StoreKnowledgeName, "no memory store configured", "UNAVAILABLE")
	}

	var in StoreKnowledgeInput
	if err := decodeArgs(args, &in); err != nil {
		return nil, NewToolError(StoreKnowledgeName, err.Error(), "VALIDATION_ERROR")
	}

	entry, err := toolCtx.Memory().Create(toolCtx.Context(), core.CreateMemoryInput{
		CampaignID: toolCtx.CampaignID(),
		UserID:     toolCtx.UserID(),
		Content:    in.Content,
		Category:   core.Category(in.Category),
		Importance: in.Importance,
		Tags:       in.Tags,
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SearchKnowledgeInput is the argument shape of the search_knowledge tool.
type SearchKnowledgeInput struct {
	Query         string  `json:"query" description:"Free text to search memory with"`
	Category      string  `json:"category,omitempty"`
	MinImportance int     `json:"min_importance,omitempty"`
	Limit         int     `json:"limit,omitempty"`
	Threshold     float64 `json:"threshold,omitempty"`
}

// SearchKnowledgeTool is the retrieval counterpart of StoreKnowledgeTool.
type SearchKnowledgeTool struct{}

// NewSearchKnowledgeTool creates the search_knowledge tool.
func NewSearchKnowledgeTool() *SearchKnowledgeTool { return &SearchKnowledgeTool{} }

// Name implements Tool.
func (t *SearchKnowledgeTool) Name() string { return SearchKnowledgeName }

// Description implements Tool.
func (t *SearchKnowledgeTool) Description() string {
	return "Search campaign memory by semantic similarity."
}

// Parameters implements Tool.
func (t *SearchKnowledgeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":          map[string]any{"type": "string"},
			"category":       map[string]any{"type": "string"},
			"min_importance": map[string]any{"type": "integer"},
			"limit":          map[string]any{"type": "integer"},
			"threshold":      map[string]any{"type": "number"},
		},
		"required": []string{"query"},
	}
}

// Call implements Tool.
func (t *SearchKnowledgeTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	if toolCtx.Memory() == nil {
		return nil, NewToolError(SearchKnowledgeName, "no memory store configured", "UNAVAILABLE")
	}

	var in SearchKnowledgeInput
	if err := decodeArgs(args, &in); err != nil {
		return nil, NewToolError(SearchKnowledgeName, err.Error(), "VALIDATION_ERROR")
	}

	results, err := toolCtx.Memory().Search(toolCtx.Context(), core.SearchMemoryInput{
		CampaignID:    toolCtx.CampaignID(),
		Category:      core.Category(in.Category),
		MinImportance: in.MinImportance,
		Query:         in.Query,
		Limit:         in.Limit,
		Threshold:     in.Threshold,
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
