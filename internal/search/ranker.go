package search

import (
	"regexp"
	"sort"
	"strings"

	"search-summarizer/internal/summary"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "for": {}, "with": {}, "is": {}, "are": {}, "was": {},
	"what": {}, "how": {}, "why": {}, "who": {}, "when": {}, "where": {},
	"does": {}, "do": {}, "about": {}, "by": {}, "at": {}, "from": {},
}

// RankResults orders results by lexical overlap with query. Title matches
// count double. Nothing is dropped and ties keep their original order.
func RankResults(query string, results []summary.SearchResult) []summary.SearchResult {
	out := make([]summary.SearchResult, len(results))
	copy(out, results)

	queryTokens := toKeywordSet(query)
	if len(queryTokens) == 0 || len(out) < 2 {
		return out
	}

	scores := make(map[int]int, len(out))
	for i, r := range results {
		scores[i] = 2*countIntersection(queryTokens, toKeywordSet(r.Title)) +
			countIntersection(queryTokens, toKeywordSet(r.Snippet))
	}
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return scores[idx[i]] > scores[idx[j]] })
	for i, k := range idx {
		out[i] = results[k]
	}
	return out
}

func toKeywordSet(text string) map[string]struct{} {
	toks := tokenRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		if _, stop := stopwords[t]; stop {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

func countIntersection(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}
