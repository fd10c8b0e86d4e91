package recommender

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// MatchFloor is the minimum similarity score required to accept a fuzzy
// district match. A wrong district recommendation is worse than none, so the
// floor is deliberately conservative.
const MatchFloor = 85

// ErrEmptyInput is returned when a district input normalizes to nothing.
var ErrEmptyInput = errors.New("empty district input")

// NoMatchError is returned when no district clears the match floor. BestGuess
// and BestScore carry the closest candidate so callers can surface a
// "did you mean" hint without acting on an uncertain match.
type NoMatchError struct {
	Input     string
	BestGuess string
	BestScore int
}

func (e *NoMatchError) Error() string {
	if e.BestGuess == "" {
		return fmt.Sprintf("could not match district %q", e.Input)
	}
	return fmt.Sprintf("district match too uncertain for %q: best guess %q (score %d)", e.Input, e.BestGuess, e.BestScore)
}

// MatchResult is the outcome of resolving a user-supplied district string.
// Score 100 denotes an exact normalized match.
type MatchResult struct {
	Key         string
	DisplayName string
	Score       int
}

// Match resolves a user-supplied district string against the index. Exact
// normalized matches short-circuit at score 100; otherwise every candidate is
// scored with a sequence similarity ratio and the best must clear MatchFloor.
// Candidates are scored in sorted key order and only a strictly better score
// replaces the current best, so ties resolve to the lexicographically first
// key.
func (idx *Index) Match(userDistrict string) (MatchResult, error) {
	want := NormalizeDistrict(userDistrict)
	if want == "" {
		return MatchResult{}, fmt.Errorf("%w: %q", ErrEmptyInput, userDistrict)
	}

	if display, ok := idx.display[want]; ok {
		return MatchResult{Key: want, DisplayName: display, Score: 100}, nil
	}

	if len(idx.keys) == 0 {
		return MatchResult{}, &NoMatchError{Input: userDistrict}
	}

	bestKey := ""
	bestScore := -1
	for _, key := range idx.keys {
		score := similarity(want, key)
		if score > bestScore {
			bestKey = key
			bestScore = score
		}
	}

	if bestScore < MatchFloor {
		return MatchResult{}, &NoMatchError{
			Input:     userDistrict,
			BestGuess: idx.display[bestKey],
			BestScore: bestScore,
		}
	}
	return MatchResult{Key: bestKey, DisplayName: idx.display[bestKey], Score: bestScore}, nil
}

// similarity scores two normalized keys 0..100 using the difflib sequence
// ratio (2*M/T over matching subsequence blocks), truncated to an integer.
func similarity(a, b string) int {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return int(m.Ratio() * 100)
}
