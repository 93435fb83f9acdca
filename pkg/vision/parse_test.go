package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNames(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected []string
	}{
		{
			name:     "bare json array",
			reply:    `["Pikachu", "Charizard"]`,
			expected: []string{"Pikachu", "Charizard"},
		},
		{
			name:     "fenced json array",
			reply:    "```json\n[\"Pikachu\", \"Mewtwo\"]\n```",
			expected: []string{"Pikachu", "Mewtwo"},
		},
		{
			name:     "prose around the array",
			reply:    "I can see these cards:\n[\"Blastoise\"]\nLet me know if you need more.",
			expected: []string{"Blastoise"},
		},
		{
			name:     "empty array",
			reply:    "[]",
			expected: []string{},
		},
		{
			name:     "no array at all",
			reply:    "I cannot read any card names in this image.",
			expected: []string{},
		},
		{
			name:     "invalid json",
			reply:    `["Pikachu",`,
			expected: []string{},
		},
		{
			name:     "non-string elements dropped",
			reply:    `["Pikachu", 42, null, "Eevee"]`,
			expected: []string{"Pikachu", "Eevee"},
		},
		{
			name:     "blank entries dropped",
			reply:    `["Pikachu", "  ", ""]`,
			expected: []string{"Pikachu"},
		},
		{
			name:     "whitespace trimmed",
			reply:    `["  Pikachu VMAX  "]`,
			expected: []string{"Pikachu VMAX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractNames(tt.reply))
		})
	}
}
