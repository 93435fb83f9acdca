// Package match implements card name normalization and reconciliation of
// vision-model output against a collector's canonical missing list.
package match

import (
	"regexp"
	"strings"
)

// variantTokens are rarity/variant qualifiers that appear on card labels but
// never distinguish one card name from another for list purposes. Longer
// tokens first so "vmax" is never read as "v" + "max".
var variantTokens = []string{
	"v-union",
	"vstar",
	"vmax",
	"lv x",
	"break",
	"delta",
	"shining",
	"radiant",
	"galarian",
	"alolan",
	"hisuian",
	"paldean",
	"gx",
	"ex",
	"v",
}

// confusables maps digits the vision model commonly misreads for letters.
// Applied after the alphanumeric filter, so only retained digits are touched.
var confusables = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'5': 's',
}

var variantTokenPattern = regexp.MustCompile(`\b(` + strings.Join(variantTokens, "|") + `)\b`)

// Normalize canonicalizes a raw card name into a comparison key: lowercase,
// trimmed, variant tokens removed, everything but [a-z0-9] dropped, then
// confusable digits substituted. Total over all inputs; "" normalizes to "".
// The result is a key only and is never stored or displayed.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.TrimSpace(s)
	s = variantTokenPattern.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sub, ok := confusables[r]; ok {
				r = sub
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}
