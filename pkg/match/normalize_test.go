package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "lowercase and whitespace",
			raw:      "  Pikachu  ",
			expected: "pikachu",
		},
		{
			name:     "strips vmax suffix",
			raw:      "Pikachu VMAX",
			expected: "pikachu",
		},
		{
			name:     "strips ex suffix",
			raw:      "Charizard ex",
			expected: "charizard",
		},
		{
			name:     "strips regional prefix",
			raw:      "Galarian Ponyta",
			expected: "ponyta",
		},
		{
			name:     "strips token mid-string",
			raw:      "Charizard VSTAR 212/172",
			expected: "charizard2l2l72",
		},
		{
			name:     "bare v token stripped",
			raw:      "Porygon V",
			expected: "porygon",
		},
		{
			name:     "vmax not read as v",
			raw:      "Eevee VMAX",
			expected: "eevee",
		},
		{
			name:     "token inside a word is kept",
			raw:      "Exeggutor",
			expected: "exeggutor",
		},
		{
			name:     "break inside a word is kept",
			raw:      "Breakneck Blitz",
			expected: "breakneckblitz",
		},
		{
			name:     "punctuation removed",
			raw:      "Mr. Mime",
			expected: "mrmime",
		},
		{
			name:     "apostrophe removed",
			raw:      "Farfetch'd",
			expected: "farfetchd",
		},
		{
			name:     "confusable zero",
			raw:      "Sn0rlax",
			expected: "snorlax",
		},
		{
			name:     "confusable one",
			raw:      "B1issey",
			expected: "blissey",
		},
		{
			name:     "confusable five",
			raw:      "Gra5s Energy",
			expected: "grassenergy",
		},
		{
			name:     "unmapped digit retained",
			raw:      "Porygon2",
			expected: "porygon2",
		},
		{
			name:     "lv x stripped",
			raw:      "Garchomp Lv X",
			expected: "garchomp",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "only punctuation",
			raw:      "!?-.",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw))
		})
	}
}

func TestNormalize_SuffixedAndPlainCollapse(t *testing.T) {
	assert.Equal(t, Normalize("pikachu"), Normalize("Pikachu VMAX"))
	assert.Equal(t, Normalize("charizard"), Normalize("Radiant Charizard"))
	assert.Equal(t, Normalize("zoroark"), Normalize("Hisuian Zoroark GX"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Pikachu",
		"Pikachu VMAX",
		"Mr. Mime",
		"Farfetch'd",
		"Galarian Mr. Mime",
		"Charizard VSTAR 212/172",
		"Sn0rlax",
		"Porygon2",
		"Ho-Oh ex",
		"Nidoran ♀",
		"  Alolan Vulpix  ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once))
		})
	}
}
