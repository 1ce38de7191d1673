package userstats

import (
	"strings"
	"time"
)

type Stats struct {
	Email              string
	TotalExperience    int
	SeasonPoints       int
	CurrentStreak      int
	BestStreak         int
	CorrectPredictions int
	TotalPredictions   int
	UpdatedAt          time.Time
}

// NormalizeEmail is the key stats and partials are grouped by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MatchOutcome is one user's graded predictions for a single match, folded
// from every prediction kind they held on it.
type MatchOutcome struct {
	Points      int
	Predictions int
	Correct     int
}

// AnyCorrect reports whether the streak advances for this match.
func (o MatchOutcome) AnyCorrect() bool {
	return o.Correct > 0
}

// ApplyMatch folds one match into the stats. The streak moves once per match:
// it advances when any prediction was correct and resets otherwise. A bonus
// is paid only when the streak reaches a milestone from below.
func (s Stats) ApplyMatch(outcome MatchOutcome, bonuses map[int]int) (Stats, int) {
	previous := s.CurrentStreak
	if outcome.AnyCorrect() {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 0
	}
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}

	bonus := 0
	if s.CurrentStreak > previous {
		bonus = bonuses[s.CurrentStreak]
	}

	s.TotalExperience += outcome.Points + bonus
	s.SeasonPoints += outcome.Points + bonus
	s.CorrectPredictions += outcome.Correct
	s.TotalPredictions += outcome.Predictions
	return s, bonus
}
