package userstats

import "testing"

var bonuses = map[int]int{3: 5, 5: 10, 10: 25}

func TestApplyMatch_OneCorrectOfTwoAdvancesStreakOnce(t *testing.T) {
	t.Parallel()

	before := Stats{Email: "a@example.com", CurrentStreak: 2, BestStreak: 2, TotalExperience: 40, SeasonPoints: 40}
	after, bonus := before.ApplyMatch(MatchOutcome{Points: 10, Predictions: 2, Correct: 1}, bonuses)

	if after.CurrentStreak != 3 || after.BestStreak != 3 {
		t.Fatalf("unexpected streak: %+v", after)
	}
	if bonus != 5 {
		t.Fatalf("expected +5 bonus, got %d", bonus)
	}
	if after.TotalExperience != 55 || after.SeasonPoints != 55 {
		t.Fatalf("unexpected points: %+v", after)
	}
	if after.TotalPredictions != 2 || after.CorrectPredictions != 1 {
		t.Fatalf("unexpected counters: %+v", after)
	}
}

func TestApplyMatch_MilestoneNotReawarded(t *testing.T) {
	t.Parallel()

	stats := Stats{CurrentStreak: 2, BestStreak: 2}
	stats, bonus := stats.ApplyMatch(MatchOutcome{Points: 10, Predictions: 1, Correct: 1}, bonuses)
	if bonus != 5 {
		t.Fatalf("expected bonus on reaching 3, got %d", bonus)
	}
	stats, bonus = stats.ApplyMatch(MatchOutcome{Points: 10, Predictions: 1, Correct: 1}, bonuses)
	if bonus != 0 || stats.CurrentStreak != 4 {
		t.Fatalf("expected no bonus at 4, got bonus=%d streak=%d", bonus, stats.CurrentStreak)
	}
	stats, bonus = stats.ApplyMatch(MatchOutcome{Points: 10, Predictions: 1, Correct: 1}, bonuses)
	if bonus != 10 {
		t.Fatalf("expected bonus on reaching 5, got %d", bonus)
	}
}

func TestApplyMatch_IncorrectResetsStreak(t *testing.T) {
	t.Parallel()

	stats := Stats{CurrentStreak: 7, BestStreak: 9, TotalExperience: 100}
	stats, bonus := stats.ApplyMatch(MatchOutcome{Predictions: 2}, bonuses)
	if stats.CurrentStreak != 0 || stats.BestStreak != 9 || bonus != 0 {
		t.Fatalf("unexpected stats after miss: %+v bonus=%d", stats, bonus)
	}
	if stats.TotalExperience != 100 || stats.TotalPredictions != 2 {
		t.Fatalf("counters must accumulate: %+v", stats)
	}

	stats, bonus = stats.ApplyMatch(MatchOutcome{Points: 10, Predictions: 1, Correct: 1}, bonuses)
	if stats.CurrentStreak != 1 || bonus != 0 {
		t.Fatalf("unexpected restart: %+v bonus=%d", stats, bonus)
	}
}

func TestApplyMatch_ReachingTenFromZero(t *testing.T) {
	t.Parallel()

	var (
		stats Stats
		total int
	)
	for i := 0; i < 10; i++ {
		var bonus int
		stats, bonus = stats.ApplyMatch(MatchOutcome{Predictions: 1, Correct: 1}, bonuses)
		total += bonus
	}
	if total != 40 || stats.TotalExperience != 40 {
		t.Fatalf("expected 5+10+25 in bonuses, got %d (%+v)", total, stats)
	}
}
