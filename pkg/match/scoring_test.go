package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_LevenshteinDistance(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"empty vs abc", "", "abc", 3},
		{"abc vs empty", "abc", "", 3},
		{"identical", "abc", "abc", 0},
		{"both empty", "", "", 0},
		{"single substitution", "raichu", "raichx", 1},
		{"transposition costs two", "blastiose", "blastoise", 2},
		{"multibyte runes count once", "nidoran♀", "nidoran♂", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.LevenshteinDistance(tt.a, tt.b))
			assert.Equal(t, tt.expected, s.LevenshteinDistance(tt.b, tt.a))
		})
	}
}

func TestScorer_Levenshtein(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.Levenshtein("pikachu", "pikachu"))
	assert.Equal(t, 1.0, s.Levenshtein("", ""))
	assert.Equal(t, 0.0, s.Levenshtein("", "abc"))
	assert.InDelta(t, 1.0-3.0/7.0, s.Levenshtein("kitten", "sitting"), 1e-9)
}

func TestScorer_LengthRatio(t *testing.T) {
	s := NewScorer()

	assert.InDelta(t, 4.0/9.0, s.LengthRatio("char", "charizard"), 1e-9)
	assert.Equal(t, 1.0, s.LengthRatio("abc", "abc"))
	assert.Equal(t, 0.0, s.LengthRatio("", "abc"))
	assert.Equal(t, 0.0, s.LengthRatio("", ""))
}
