// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// wordPattern matches a letter or digit followed by at least one more
// letter, digit or apostrophe.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// stopwords are common English function words dropped from word counts.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "for": {}, "from": {}, "he": {}, "her": {}, "his": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {},
	"she": {}, "so": {}, "that": {}, "the": {}, "this": {}, "to": {}, "we": {},
	"was": {}, "were": {}, "with": {}, "you": {}, "your": {}, "feat": {}, "ft": {},
}

// WordFrequencies tokenises texts and returns the most frequent words,
// at most limit of them (all when limit <= 0). Matching is case-insensitive;
// each word is reported in its most common spelling. Stopwords and purely
// numeric tokens are dropped. A trailing "'s" is stripped.
func WordFrequencies(texts []string, limit int) []Count {
	type tally struct {
		total int
		forms map[string]int
		first int
	}
	words := make(map[string]*tally)
	order := 0

	for _, text := range texts {
		for _, tok := range wordPattern.FindAllString(text, -1) {
			tok = strings.TrimSuffix(strings.TrimSuffix(tok, "'s"), "'S")
			if isNumeric(tok) {
				continue
			}
			key := strings.ToLower(tok)
			if _, stop := stopwords[key]; stop || len([]rune(key)) < 2 {
				continue
			}
			t, ok := words[key]
			if !ok {
				t = &tally{forms: make(map[string]int), first: order}
				order++
				words[key] = t
			}
			t.total++
			t.forms[tok]++
		}
	}

	type ranked struct {
		Count
		first int
	}
	out := make([]ranked, 0, len(words))
	for _, t := range words {
		best, bestN := "", -1
		for form, n := range t.forms {
			if n > bestN || (n == bestN && form < best) {
				best, bestN = form, n
			}
		}
		out = append(out, ranked{Count: Count{Value: best, Count: t.total}, first: t.first})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count.Count != out[j].Count.Count {
			return out[i].Count.Count > out[j].Count.Count
		}
		return out[i].first < out[j].first
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	counts := make([]Count, len(out))
	for i, r := range out {
		counts[i] = r.Count
	}
	return counts
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
