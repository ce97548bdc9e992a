package memory

import (
	"strings"

	"github.com/questforge/questforge/core"
)

// Keyword lists feeding the importance heuristic. Matching is case
// insensitive substring search.
var (
	importantKeywords = []string{
		"important", "remember", "key", "critical", "crucial",
		"quest", "secret", "promise",
	}
	urgentKeywords = []string{
		"urgent", "immediately", "danger", "emergency", "deadly", "dying",
	}
)

// ScoreImportance computes a heuristic importance for content the caller did
// not score explicitly: base 1, +1 for length over 200 characters and +1
// more over 500, +2 when an important keyword appears, +3 for an urgent
// keyword, +1 when the text asks a question. The result is clamped to the
// valid importance range.
func ScoreImportance(content string) int {
	score := 1

	if len(content) > 200 {
		score++
	}
	if len(content) > 500 {
		score++
	}

	lower := strings.ToLower(content)
	if containsAny(lower, importantKeywords) {
		score += 2
	}
	if containsAny(lower, urgentKeywords) {
		score += 3
	}
	if strings.Contains(content, "?") {
		score++
	}

	return core.ClampImportance(score)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
