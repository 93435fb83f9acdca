package match

// Scorer provides the string comparison primitives used by the resolver.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// LevenshteinDistance calculates the unweighted edit distance between two
// strings at code-point granularity. Substitution, insertion and deletion
// all cost 1.
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Full (len(b)+1) x (len(a)+1) distance table
	table := make([][]int, len(rb)+1)
	for j := range table {
		table[j] = make([]int, len(ra)+1)
		table[j][0] = j
	}
	for i := 0; i <= len(ra); i++ {
		table[0][i] = i
	}

	for j := 1; j <= len(rb); j++ {
		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			table[j][i] = min(min(table[j][i-1]+1, table[j-1][i]+1), table[j-1][i-1]+cost)
		}
	}

	return table[len(rb)][len(ra)]
}

// Levenshtein returns a similarity score between 0.0 and 1.0 derived from the
// edit distance. Two empty strings are identical, similarity 1.0.
func (s *Scorer) Levenshtein(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(s.LevenshteinDistance(a, b))/float64(maxLen)
}

// LengthRatio returns min(len)/max(len) over code points, the confidence
// used for containment matches. 0.0 when either string is empty.
func (s *Scorer) LengthRatio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 || lb == 0 {
		return 0.0
	}
	return float64(min(la, lb)) / float64(max(la, lb))
}
