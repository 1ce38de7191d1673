package prediction

import "testing"

func TestRules_GradeWinner(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	tests := []struct {
		name       string
		predicted  Outcome
		result     Result
		wantOK     bool
		wantPoints int
	}{
		{"correct normal league", OutcomeHome, Result{Winner: OutcomeHome, LeagueName: "Eredivisie"}, true, 10},
		{"correct big league", OutcomeHome, Result{Winner: OutcomeHome, LeagueName: "premier league"}, true, 15},
		{"draw", OutcomeDraw, Result{Winner: OutcomeDraw, LeagueName: "Eredivisie"}, true, 10},
		{"incorrect", OutcomeAway, Result{Winner: OutcomeHome, LeagueName: "Premier League"}, false, 0},
	}
	for _, tc := range tests {
		ok, points := rules.GradeWinner(tc.predicted, tc.result)
		if ok != tc.wantOK || points != tc.wantPoints {
			t.Fatalf("%s: got (%v, %d) want (%v, %d)", tc.name, ok, points, tc.wantOK, tc.wantPoints)
		}
	}
}

func TestRules_GradeScore(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	result := Result{HomeScore: 2, AwayScore: 1, Winner: OutcomeHome, LeagueName: "Eredivisie"}

	if ok, points := rules.GradeScore(2, 1, result); !ok || points != 20 {
		t.Fatalf("exact score: got (%v, %d)", ok, points)
	}
	if ok, points := rules.GradeScore(2, 0, result); ok || points != 0 {
		t.Fatalf("near miss must score zero: got (%v, %d)", ok, points)
	}

	result.LeagueName = "UEFA Champions League"
	if ok, points := rules.GradeScore(2, 1, result); !ok || points != 25 {
		t.Fatalf("big league exact score: got (%v, %d)", ok, points)
	}
}

func TestRules_IsBigLeague_SubstringMatch(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	if !rules.IsBigLeague("Liga 1 Indonesia") {
		t.Fatalf("expected substring match")
	}
	// Substring matching also accepts unrelated leagues sharing the name.
	if !rules.IsBigLeague("Premier League 2 Division One") {
		t.Fatalf("expected substring match for reserve league")
	}
	if rules.IsBigLeague("") || rules.IsBigLeague("A-League") {
		t.Fatalf("unexpected big league match")
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	if OutcomeOf(2, 1) != OutcomeHome || OutcomeOf(0, 3) != OutcomeAway || OutcomeOf(1, 1) != OutcomeDraw {
		t.Fatalf("unexpected outcome mapping")
	}
}

