package nba

import "strings"

// Resolution is the outcome of resolving a free-text team name against a
// canonical set. When Resolved is false, Name carries the original input
// unchanged and Guess the nearest canonical name, so callers can report both
// what failed and what it almost was.
type Resolution struct {
	Name     string
	Guess    string
	Resolved bool
}

// Resolved wraps a canonical name.
func Resolved(name string) Resolution { return Resolution{Name: name, Resolved: true} }

// Unresolved wraps the original unmatched input with the best sub-cutoff
// candidate.
func Unresolved(original, guess string) Resolution {
	return Resolution{Name: original, Guess: guess, Resolved: false}
}

// similarityCutoff is the minimum ratio for a fuzzy match to count.
const similarityCutoff = 0.7

// Resolve maps a free-text team name onto the canonical set. Matching order:
// exact, alias table, nickname table, then best similarity ratio over the
// canonical set with cutoff 0.7. Inputs are never mutated and the same input
// always yields the same result.
func Resolve(name string, canon []string) Resolution {
	for _, c := range canon {
		if name == c {
			return Resolved(c)
		}
	}

	if full, ok := Aliases[name]; ok {
		if containsName(canon, full) {
			return Resolved(full)
		}
	}

	if t, ok := byNickname[name]; ok {
		if containsName(canon, t.FullName) {
			return Resolved(t.FullName)
		}
	}

	best := ""
	bestRatio := 0.0
	for _, c := range canon {
		r := Ratio(strings.ToLower(name), strings.ToLower(c))
		if r > bestRatio {
			bestRatio = r
			best = c
		}
	}
	if bestRatio >= similarityCutoff {
		return Resolved(best)
	}
	return Unresolved(name, best)
}

// Ratio is the Ratcliff-Obershelp similarity of two strings in [0, 1]:
// twice the total length of matching blocks over the combined length.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	m := matchingBlocks(a, b)
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

// matchingBlocks sums the lengths of recursively-found longest common
// substrings, the way difflib's SequenceMatcher counts matches.
func matchingBlocks(a, b string) int {
	la, lb, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:la], b[:lb])
	total += matchingBlocks(a[la+size:], b[lb+size:])
	return total
}

func longestMatch(a, b string) (bestA, bestB, bestSize int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > bestSize {
				bestA, bestB, bestSize = i, j, k
			}
		}
	}
	return bestA, bestB, bestSize
}

func containsName(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}
