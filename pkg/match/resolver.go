package match

import "strings"

// Result is the outcome of resolving one detected name against the canonical
// list. Card is always a verbatim entry from the canonical list, never a
// normalized form; an empty Card with Confidence 0 means no match.
type Result struct {
	Card       string  `json:"card"`
	Confidence float64 `json:"confidence"`
}

// Config contains thresholds for the tiered resolver.
type Config struct {
	ContainmentThreshold float64 // Minimum length ratio for a containment match (default: 0.7)
	FuzzyThreshold       float64 // Minimum edit-distance similarity (default: 0.75)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ContainmentThreshold: 0.7,
		FuzzyThreshold:       0.75,
	}
}

// Resolver matches a single detected name against a canonical list using
// three tiers in strict priority order: exact normalized equality, substring
// containment gated by a length-ratio threshold, then Levenshtein similarity.
// Resolvers are stateless and safe for concurrent use.
type Resolver struct {
	scorer *Scorer
	cfg    Config
}

// NewResolver creates a new Resolver.
func NewResolver(cfg Config) *Resolver {
	if cfg.ContainmentThreshold <= 0 {
		cfg.ContainmentThreshold = 0.7
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 0.75
	}
	return &Resolver{
		scorer: NewScorer(),
		cfg:    cfg,
	}
}

// Resolve determines whether and to which canonical entry a detected name
// corresponds. The first tier to succeed wins; ties within a tier break to
// the earliest canonical entry in list order. A nonsense name degrades to a
// zero Result, never an error.
func (r *Resolver) Resolve(detected string, canonical []string) Result {
	nd := Normalize(detected)

	// Tier 1: exact normalized match.
	for _, c := range canonical {
		if Normalize(c) == nd {
			return Result{Card: c, Confidence: 1.0}
		}
	}

	// Tier 2: containment with length-ratio confidence. First qualifying
	// entry wins; no search for a better ratio within the tier.
	for _, c := range canonical {
		nc := Normalize(c)
		if strings.Contains(nc, nd) || strings.Contains(nd, nc) {
			if ratio := r.scorer.LengthRatio(nd, nc); ratio > r.cfg.ContainmentThreshold {
				return Result{Card: c, Confidence: ratio}
			}
		}
	}

	// Tier 3: best edit-distance similarity across the whole list. Strict >
	// keeps the earliest maximum on ties.
	var best Result
	for _, c := range canonical {
		if sim := r.scorer.Levenshtein(nd, Normalize(c)); sim > best.Confidence {
			best = Result{Card: c, Confidence: sim}
		}
	}
	if best.Confidence > r.cfg.FuzzyThreshold {
		return best
	}

	return Result{}
}

// ReconcileBatch filters one inference call's worth of detected names down to
// the canonical entries they correspond to. The predicate here is looser than
// Resolve: case-insensitive equality or substring containment in either
// direction, on the raw strings. Each surviving name is replaced by the first
// satisfying canonical entry, so every output is a verbatim canonical string.
// Input order is preserved and duplicates pass through independently.
func ReconcileBatch(detected []string, canonical []string) []string {
	confirmed := make([]string, 0, len(detected))
	for _, d := range detected {
		dl := strings.ToLower(d)
		for _, c := range canonical {
			cl := strings.ToLower(c)
			if dl == cl || strings.Contains(cl, dl) || strings.Contains(dl, cl) {
				confirmed = append(confirmed, c)
				break
			}
		}
	}
	return confirmed
}
