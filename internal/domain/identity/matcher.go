package identity

import (
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// DefaultSimilarityThreshold is the minimum similarityRatio two
// normalized names must clear to be considered the same player when no
// exact or initial-expansion match was found.
const DefaultSimilarityThreshold = 0.85

// MatchStrategy resolves an incoming scorecard name, scoped to one club,
// against the club's existing roster. Implementations may be swapped in
// tests without touching the aggregator that calls them.
type MatchStrategy interface {
	Match(incomingName string, candidates []Candidate) Outcome
}

// CompositeMatcher runs the three-step algorithm: exact normalized equality,
// then initial-expansion ("V Kohli" vs "Virat Kohli"), then a similarity
// ratio over the full normalized name. A club with more than one candidate
// tied at the winning step is reported ambiguous rather than guessed at.
type CompositeMatcher struct {
	Threshold float64
}

// NewCompositeMatcher builds a matcher using DefaultSimilarityThreshold.
func NewCompositeMatcher() CompositeMatcher {
	return CompositeMatcher{Threshold: DefaultSimilarityThreshold}
}

func (m CompositeMatcher) Match(incomingName string, candidates []Candidate) Outcome {
	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	target := Normalize(incomingName)
	if target == "" || len(candidates) == 0 {
		return Outcome{}
	}

	if out, ok := matchExact(target, candidates); ok {
		return out
	}
	if out, ok := matchInitials(target, candidates); ok {
		return out
	}
	return matchSimilarity(target, candidates, threshold)
}

func matchExact(target string, candidates []Candidate) (Outcome, bool) {
	var winners []Candidate
	for _, c := range candidates {
		if Normalize(c.Name) == target {
			winners = append(winners, c)
		}
	}
	return resolve(winners)
}

func matchInitials(target string, candidates []Candidate) (Outcome, bool) {
	targetInitials := initials(target)
	var winners []Candidate
	for _, c := range candidates {
		candNorm := Normalize(c.Name)
		if candNorm == "" {
			continue
		}
		if initials(candNorm) == targetInitials && sameSurname(target, candNorm) {
			winners = append(winners, c)
		}
	}
	return resolve(winners)
}

// sameSurname compares the last whitespace-delimited token of each
// normalized name, the anchor the initial-expansion rule matches against.
func sameSurname(a, b string) bool {
	return lastToken(a) == lastToken(b) && lastToken(a) != ""
}

func lastToken(s string) string {
	tokens := splitFields(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func matchSimilarity(target string, candidates []Candidate, threshold float64) (Outcome, bool) {
	var winners []Candidate
	bestRatio := 0.0
	for _, c := range candidates {
		candNorm := Normalize(c.Name)
		if candNorm == "" {
			continue
		}
		ratio := similarityRatio(target, candNorm)
		switch {
		case ratio > bestRatio && ratio >= threshold:
			bestRatio = ratio
			winners = []Candidate{c}
		case ratio == bestRatio && ratio >= threshold:
			winners = append(winners, c)
		}
	}
	if len(winners) == 0 {
		return Outcome{}, false
	}
	return resolve(winners)
}

// similarityRatio blends normalized edit distance with Jaro-Winkler so that
// both transpositions ("Rohit Sharma" vs "Rohti Sharma") and prefix-weighted
// similarity are rewarded.
func similarityRatio(a, b string) float64 {
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	editRatio := 1 - float64(dist)/float64(maxLen)

	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	return (editRatio + jw) / 2
}

// resolve applies the tie-breaking rule: an existing (non-legacy) player
// always wins over a legacy-only candidate; a tie among candidates of the
// same kind is reported ambiguous instead of guessed at.
func resolve(winners []Candidate) (Outcome, bool) {
	if len(winners) == 0 {
		return Outcome{}, false
	}
	if len(winners) == 1 {
		return Outcome{PlayerID: winners[0].PlayerID, Matched: true}, true
	}

	var active []Candidate
	for _, c := range winners {
		if !c.IsLegacy {
			active = append(active, c)
		}
	}
	if len(active) == 1 {
		return Outcome{PlayerID: active[0].PlayerID, Matched: true}, true
	}

	return Outcome{Ambiguous: true}, true
}
