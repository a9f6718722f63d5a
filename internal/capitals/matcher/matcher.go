// Package matcher ranks fuzzy candidates from a corpus against a query.
package matcher

import (
	"math"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"capfinder/internal/capitals/models"
	"capfinder/internal/capitals/normalize"
)

// Rank scores the normalized query against every corpus entry and returns the
// candidates scoring at least threshold, best first, at most limit. Candidate
// names keep the corpus spelling; only the comparison is normalized. Ties keep
// corpus iteration order, which carries no meaning of its own.
func Rank(query string, corpus []string, threshold, limit int) []models.MatchCandidate {
	q := normalize.Key(query)
	if q == "" || len(corpus) == 0 || limit <= 0 {
		return nil
	}

	// Levenshtein edit-distance ratio: 100 means identical, 0 disjoint.
	lev := metrics.NewLevenshtein()

	candidates := make([]models.MatchCandidate, 0, limit)
	for _, name := range corpus {
		score := toScore(strutil.Similarity(q, normalize.Key(name), lev))
		if score >= threshold {
			candidates = append(candidates, models.MatchCandidate{Name: name, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Score returns the 0-100 similarity between two strings after normalization.
func Score(a, b string) int {
	return toScore(strutil.Similarity(normalize.Key(a), normalize.Key(b), metrics.NewLevenshtein()))
}

func toScore(similarity float64) int {
	return int(math.Round(similarity * 100))
}
