package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreImportance(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "plain short text", content: "The party entered the tavern.", want: 1},
		{name: "question", content: "Who is the hooded stranger?", want: 2},
		{name: "important keyword", content: "Remember the password.", want: 3},
		{name: "urgent keyword", content: "The bridge is in danger of collapse.", want: 4},
		{name: "important and urgent", content: "Urgent: the secret passage is flooding.", want: 6},
		{
			name:    "long text",
			content: strings.Repeat("The caravan moved on. ", 10), // past 200 chars
			want:    2,
		},
		{
			name:    "very long text",
			content: strings.Repeat("The caravan moved on. ", 25), // past 500 chars
			want:    3,
		},
		{
			name: "all signals stack",
			content: "URGENT and important question about the secret quest? " +
				strings.Repeat("Danger everywhere, remember this at all costs. ", 12),
			want: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreImportance(tt.content))
		})
	}
}
