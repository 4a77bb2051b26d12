package match

import "testing"

func TestScore_ExactMatch(t *testing.T) {
	if got := Score("Koramangala", "Koramangala"); got != 100 {
		t.Errorf("exact match score = %d, want 100", got)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	if got := Score("koramangala", "KORAMANGALA"); got != 100 {
		t.Errorf("case-insensitive score = %d, want 100", got)
	}
}

func TestScore_Typo(t *testing.T) {
	// Пропущенная буква всё ещё должна давать высокую оценку
	if got := Score("Korangala", "Koramangala"); got < MinConfidence {
		t.Errorf("typo score = %d, want >= %d", got, MinConfidence)
	}
}

func TestScore_Empty(t *testing.T) {
	if got := Score("", "Koramangala"); got != 0 {
		t.Errorf("empty query score = %d, want 0", got)
	}
	if got := Score("Indiranagar", "  "); got != 0 {
		t.Errorf("blank candidate score = %d, want 0", got)
	}
}

func TestTopMatches_Ordering(t *testing.T) {
	areas := []string{"Whitefield", "Koramangala", "Indiranagar", "Jayanagar"}

	matches := TopMatches("Koramangala", areas, 3)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Value != "Koramangala" {
		t.Errorf("best match = %q, want Koramangala", matches[0].Value)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted by score: %v", matches)
		}
	}
}

func TestTopMatches_ThresholdFiltersNoise(t *testing.T) {
	areas := []string{"Whitefield", "Koramangala"}
	matches := TopMatches("xyzzy", areas, 5)
	if len(matches) != 0 {
		t.Errorf("expected no matches for nonsense query, got %v", matches)
	}
}

func TestTopMatches_LimitsToTopN(t *testing.T) {
	candidates := []string{"north indian", "south indian", "indian", "indian chinese"}
	matches := TopMatches("indian", candidates, 2)
	if len(matches) > 2 {
		t.Errorf("expected at most 2 matches, got %d", len(matches))
	}
}

func TestTopMatches_DefaultTopN(t *testing.T) {
	candidates := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		candidates = append(candidates, "indian")
	}
	matches := TopMatches("indian", candidates, 0)
	if len(matches) != DefaultTopN {
		t.Errorf("expected %d matches with topN=0, got %d", DefaultTopN, len(matches))
	}
}

func TestBestMatch(t *testing.T) {
	ambiences := []string{"romantic", "casual", "family-friendly"}

	m, ok := BestMatch("romantc", ambiences)
	if !ok {
		t.Fatal("expected a match for 'romantc'")
	}
	if m.Value != "romantic" {
		t.Errorf("best match = %q, want romantic", m.Value)
	}

	if _, ok := BestMatch("qqqq", ambiences); ok {
		t.Error("expected no match for nonsense query")
	}
}

func TestDedupeBest(t *testing.T) {
	in := []Match{
		{Value: "Olive Garden", Score: 85},
		{Value: "Punjab Grill", Score: 80},
		{Value: "olive garden", Score: 95},
	}
	out := DedupeBest(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique values, got %d", len(out))
	}
	if out[0].Score != 95 {
		t.Errorf("expected best score kept for duplicate, got %d", out[0].Score)
	}
}
