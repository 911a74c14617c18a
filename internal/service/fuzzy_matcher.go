package service

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FuzzyMatcher provides token-order-tolerant approximate string matching on
// normalized keys, scored 0..100. Identical strings score 100; reordering
// tokens does not change the score.
type FuzzyMatcher struct {
	sortedCache map[string]string
}

// NewFuzzyMatcher creates a new fuzzy matcher.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		sortedCache: make(map[string]string),
	}
}

// TokenSortRatio sorts the whitespace tokens of both strings and scores the
// sorted forms with a normalized Levenshtein ratio scaled to [0,100].
// Symmetric under token reordering; 100 only for token-identical inputs.
func (fm *FuzzyMatcher) TokenSortRatio(a, b string) float64 {
	as := fm.tokenSort(a)
	bs := fm.tokenSort(b)
	return levenshteinRatio(as, bs) * 100
}

func (fm *FuzzyMatcher) tokenSort(s string) string {
	if cached, ok := fm.sortedCache[s]; ok {
		return cached
	}
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	sorted := strings.Join(tokens, " ")
	fm.sortedCache[s] = sorted
	return sorted
}

// BestMatch returns the highest-scoring candidate for query. Ties among
// equal maximal scores resolve to the candidate seen first in iteration
// order; the strict > comparison keeps the earliest maximum. The boolean is
// false only when candidates is empty.
func (fm *FuzzyMatcher) BestMatch(query string, candidates []string) (string, float64, bool) {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		if score := fm.TokenSortRatio(query, c); score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0, false
	}
	return best, bestScore, true
}

// MapKeys finds, for every left key, the single best-scoring right key and
// records the pair when the score meets the threshold. The search per left
// key is independent, so it fans out across workers; each worker owns one
// slot of a pre-sized slice and the mapping is assembled in left key order,
// never completion order. Threshold values outside [0,100] are clamped.
func (fm *FuzzyMatcher) MapKeys(left, right []string, threshold int) map[string]string {
	if len(left) == 0 || len(right) == 0 {
		return map[string]string{}
	}
	cutoff := float64(clampThreshold(threshold))

	type match struct {
		to string
		ok bool
	}
	results := make([]match, len(left))

	// Workers share the matcher read-only: pre-warm the token cache so no
	// writes happen concurrently.
	for _, k := range left {
		fm.tokenSort(k)
	}
	for _, k := range right {
		fm.tokenSort(k)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, key := range left {
		i, key := i, key
		g.Go(func() error {
			if to, score, ok := fm.BestMatch(key, right); ok && score >= cutoff {
				results[i] = match{to: to, ok: true}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	mapping := make(map[string]string, len(left))
	for i, key := range left {
		if results[i].ok {
			mapping[key] = results[i].to
		}
	}
	return mapping
}

func clampThreshold(t int) int {
	if t < 0 {
		return 0
	}
	if t > 100 {
		return 100
	}
	return t
}

// levenshteinRatio is the similarity ratio in [0,1] between two strings.
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	r1, r2 := []rune(a), []rune(b)
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}
	if len(r2) == 0 {
		return len(r1)
	}
	prev := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range r1 {
		curr := make([]int, len(r2)+1)
		curr[0] = i + 1
		for j, cb := range r2 {
			ins := curr[j] + 1
			del := prev[j+1] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = minInt(minInt(ins, del), sub)
		}
		prev = curr
	}
	return prev[len(r2)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
