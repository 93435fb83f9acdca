package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_ExactTier(t *testing.T) {
	r := NewResolver(DefaultConfig())

	t.Run("verbatim name", func(t *testing.T) {
		res := r.Resolve("Charizard", []string{"Charizard", "Blastoise"})
		assert.Equal(t, "Charizard", res.Card)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("variant suffix collapses to exact", func(t *testing.T) {
		res := r.Resolve("Pikachu VMAX", []string{"Blastoise", "Pikachu"})
		assert.Equal(t, "Pikachu", res.Card)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("casing and punctuation ignored", func(t *testing.T) {
		res := r.Resolve("mr. mime", []string{"Mr. Mime"})
		assert.Equal(t, "Mr. Mime", res.Card)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("duplicate normalized entries break to first in list order", func(t *testing.T) {
		res := r.Resolve("Pikachu", []string{"Pikachu VMAX", "Pikachu ex"})
		assert.Equal(t, "Pikachu VMAX", res.Card)
		assert.Equal(t, 1.0, res.Confidence)
	})
}

func TestResolver_ContainmentTier(t *testing.T) {
	r := NewResolver(DefaultConfig())

	t.Run("truncated read above threshold", func(t *testing.T) {
		// "charizar" (8) inside "charizard" (9): ratio 8/9
		res := r.Resolve("Charizar", []string{"Charizard"})
		assert.Equal(t, "Charizard", res.Card)
		assert.InDelta(t, 8.0/9.0, res.Confidence, 1e-9)
	})

	t.Run("first qualifying entry wins even with a better ratio later", func(t *testing.T) {
		// "steelixss" qualifies at 7/9; the tier stops there and never
		// considers the higher-ratio "steelixs"
		res := r.Resolve("Steelix", []string{"Steelixss", "Steelixs"})
		assert.Equal(t, "Steelixss", res.Card)
		assert.InDelta(t, 7.0/9.0, res.Confidence, 1e-9)
	})

	t.Run("entry below the gate is skipped, later entry taken", func(t *testing.T) {
		// "megasteelix" contains "steelix" but 7/11 fails the gate;
		// "steelixs" qualifies at 7/8
		res := r.Resolve("Steelix", []string{"Mega Steelix", "Steelixs"})
		assert.Equal(t, "Steelixs", res.Card)
		assert.InDelta(t, 7.0/8.0, res.Confidence, 1e-9)
	})

	t.Run("short fragment falls through the ratio gate", func(t *testing.T) {
		// "char"/"charizard" ratio 4/9 fails tier 2; fuzzy similarity is
		// also 4/9, below 0.75, so the outcome is a deterministic no-match
		res := r.Resolve("Char", []string{"Charizard"})
		assert.Equal(t, "", res.Card)
		assert.Equal(t, 0.0, res.Confidence)
	})
}

func TestResolver_FuzzyTier(t *testing.T) {
	r := NewResolver(DefaultConfig())

	t.Run("transposed characters above threshold", func(t *testing.T) {
		// "blastiose" vs "blastoise": distance 2 over length 9
		res := r.Resolve("Blastiose", []string{"Venusaur", "Blastoise"})
		assert.Equal(t, "Blastoise", res.Card)
		assert.InDelta(t, 7.0/9.0, res.Confidence, 1e-9)
	})

	t.Run("tie keeps earliest maximum", func(t *testing.T) {
		// equidistant from two entries that normalize identically
		res := r.Resolve("Blastiose", []string{"Blastoise GX", "Blastoise ex"})
		assert.Equal(t, "Blastoise GX", res.Card)
		assert.InDelta(t, 7.0/9.0, res.Confidence, 1e-9)
	})

	t.Run("nonsense degrades to no match", func(t *testing.T) {
		res := r.Resolve("Pikachu", []string{"Raichu", "Eevee"})
		assert.Equal(t, "", res.Card)
		assert.Equal(t, 0.0, res.Confidence)
	})
}

func TestResolver_DegenerateInputs(t *testing.T) {
	r := NewResolver(DefaultConfig())

	t.Run("empty canonical list", func(t *testing.T) {
		res := r.Resolve("Pikachu", nil)
		assert.Equal(t, Result{}, res)
	})

	t.Run("empty detected name", func(t *testing.T) {
		res := r.Resolve("", []string{"Pikachu"})
		assert.Equal(t, "", res.Card)
		assert.Equal(t, 0.0, res.Confidence)
	})

	t.Run("both normalize to empty matches exact tier", func(t *testing.T) {
		// degenerate but must not crash; "!!!" and "---" both normalize to ""
		res := r.Resolve("!!!", []string{"---"})
		assert.Equal(t, "---", res.Card)
		assert.Equal(t, 1.0, res.Confidence)
	})
}

func TestReconcileBatch(t *testing.T) {
	t.Run("space-sensitive containment", func(t *testing.T) {
		// "mew two" is not a substring of "mewtwo"; only pikachu survives
		got := ReconcileBatch(
			[]string{"pikachu", "mew two", "nonexistent"},
			[]string{"Pikachu", "Mewtwo"},
		)
		assert.Equal(t, []string{"Pikachu"}, got)
	})

	t.Run("substring either direction", func(t *testing.T) {
		got := ReconcileBatch(
			[]string{"Dark Charizard holo", "Blast"},
			[]string{"Dark Charizard", "Blastoise"},
		)
		assert.Equal(t, []string{"Dark Charizard", "Blastoise"}, got)
	})

	t.Run("output is verbatim canonical and input-ordered", func(t *testing.T) {
		got := ReconcileBatch(
			[]string{"blastoise", "PIKACHU"},
			[]string{"Pikachu", "Blastoise"},
		)
		assert.Equal(t, []string{"Blastoise", "Pikachu"}, got)
	})

	t.Run("duplicates pass through independently", func(t *testing.T) {
		got := ReconcileBatch(
			[]string{"pikachu", "pikachu"},
			[]string{"Pikachu"},
		)
		assert.Equal(t, []string{"Pikachu", "Pikachu"}, got)
	})

	t.Run("first satisfying canonical wins for near-duplicates", func(t *testing.T) {
		got := ReconcileBatch(
			[]string{"dark blastoise"},
			[]string{"Blastoise", "Dark Blastoise"},
		)
		// "blastoise" is contained in "dark blastoise", so the earlier
		// canonical entry wins despite the later exact match
		assert.Equal(t, []string{"Blastoise"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ReconcileBatch(nil, []string{"Pikachu"}))
		assert.Empty(t, ReconcileBatch([]string{"pikachu"}, nil))
	})
}
