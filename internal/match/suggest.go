package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the normalized similarity below which a candidate is
// not worth suggesting.
const MinSimilarity = 0.7

type scored struct {
	name    string
	score   float64
	overlap int
}

// Suggest returns up to limit candidates closest to name, best first. Equal
// scores prefer the candidate sharing more whole tokens with name, then the
// candidate name, so the result is deterministic. An exact match is never
// suggested.
func Suggest(name string, candidates []string, limit int) []string {
	var ranked []scored

	tokens := TokenizeIdent(name)

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := NormalizedSimilarity(name, c); s >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: s, overlap: tokenOverlap(tokens, TokenizeIdent(c))})
		}
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(b.score, a.score),
			cmp.Compare(b.overlap, a.overlap),
			cmp.Compare(a.name, b.name))
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}

// tokenOverlap counts the distinct tokens of b that also occur in a.
func tokenOverlap(a, b []string) int {
	n := 0

	for i, t := range b {
		if slices.Contains(a, t) && !slices.Contains(b[:i], t) {
			n++
		}
	}

	return n
}
