package identity

import "testing"

func TestCompositeMatcher_ExactMatch(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{{PlayerID: "p1", Name: "Virat Kohli"}}

	out := m.Match("Virat Kohli", candidates)
	if !out.Matched || out.Ambiguous {
		t.Fatalf("expected a clean match, got %+v", out)
	}
	if out.PlayerID != "p1" {
		t.Fatalf("expected p1, got %s", out.PlayerID)
	}
}

func TestCompositeMatcher_InitialExpansion(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{{PlayerID: "p1", Name: "Virat Kohli"}}

	out := m.Match("V Kohli", candidates)
	if !out.Matched || out.Ambiguous {
		t.Fatalf("expected initial-expansion match, got %+v", out)
	}
	if out.PlayerID != "p1" {
		t.Fatalf("expected p1, got %s", out.PlayerID)
	}
}

// TestCompositeMatcher_LegacyFuzzyMatch exercises the spec's worked example:
// a legacy roster entry "Sikander Zulfiqar" matched against the scraped row
// "S. Zulfiqar".
func TestCompositeMatcher_LegacyFuzzyMatch(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{{PlayerID: "legacy-1", Name: "Sikander Zulfiqar", IsLegacy: true}}

	out := m.Match("S. Zulfiqar", candidates)
	if !out.Matched || out.Ambiguous {
		t.Fatalf("expected the legacy entry to match, got %+v", out)
	}
	if out.PlayerID != "legacy-1" {
		t.Fatalf("expected legacy-1, got %s", out.PlayerID)
	}
}

func TestCompositeMatcher_SimilarityFallback(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{{PlayerID: "p1", Name: "Rohit Sharma"}}

	out := m.Match("Rohit Shrama", candidates)
	if !out.Matched || out.Ambiguous {
		t.Fatalf("expected a similarity match for a transposition typo, got %+v", out)
	}
	if out.PlayerID != "p1" {
		t.Fatalf("expected p1, got %s", out.PlayerID)
	}
}

func TestCompositeMatcher_BelowThresholdIsUnmatched(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{{PlayerID: "p1", Name: "Rohit Sharma"}}

	out := m.Match("Someone Else Entirely", candidates)
	if out.Matched || out.Ambiguous {
		t.Fatalf("expected no match, got %+v", out)
	}
}

func TestCompositeMatcher_AmbiguousTieAmongActiveCandidates(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{
		{PlayerID: "p2", Name: "Ajay Sharma"},
		{PlayerID: "p3", Name: "Amit Sharma"},
	}

	out := m.Match("A. Sharma", candidates)
	if !out.Ambiguous {
		t.Fatalf("expected an ambiguous result among tied active candidates, got %+v", out)
	}
}

func TestCompositeMatcher_ActiveCandidateWinsOverLegacyTie(t *testing.T) {
	m := NewCompositeMatcher()
	candidates := []Candidate{
		{PlayerID: "legacy-1", Name: "A Sharma", IsLegacy: true},
		{PlayerID: "active-1", Name: "A Sharma", IsLegacy: false},
	}

	out := m.Match("A Sharma", candidates)
	if !out.Matched || out.Ambiguous {
		t.Fatalf("expected the active candidate to win the tie, got %+v", out)
	}
	if out.PlayerID != "active-1" {
		t.Fatalf("expected active-1 to win over the legacy entry, got %s", out.PlayerID)
	}
}

func TestNormalize_StripsPunctuationAndCollapsesWhitespace(t *testing.T) {
	got := Normalize("  S.  Zulfiqar, Jr.  ")
	want := "s zulfiqar jr"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
