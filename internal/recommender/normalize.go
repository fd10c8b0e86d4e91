package recommender

import (
	"regexp"
	"strings"
)

var (
	districtWordRe = regexp.MustCompile(`\bdistrict\b`)
	nonAlphaRe     = regexp.MustCompile(`[^a-z\s]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// NormalizeDistrict produces a key suitable for equality comparison between
// district names, so that small differences (case, punctuation, a "District"
// suffix) do not prevent a match. Normalization is pure and idempotent.
func NormalizeDistrict(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = districtWordRe.ReplaceAllString(s, "")
	s = nonAlphaRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
