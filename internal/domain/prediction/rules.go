package prediction

import "strings"

type Points struct {
	Normal int
	Big    int
}

type Rules struct {
	WinnerPoints Points
	ScorePoints  Points
	// BigLeagues match any league whose name contains one of the entries,
	// case-insensitively.
	BigLeagues []string
	// StreakBonuses maps a streak milestone to the bonus awarded when the
	// streak first reaches it.
	StreakBonuses map[int]int
}

func DefaultRules() Rules {
	return Rules{
		WinnerPoints: Points{Normal: 10, Big: 15},
		ScorePoints:  Points{Normal: 20, Big: 25},
		BigLeagues: []string{
			"Premier League",
			"La Liga",
			"Serie A",
			"Bundesliga",
			"Ligue 1",
			"Champions League",
			"Liga 1",
			"NBA",
		},
		StreakBonuses: map[int]int{3: 5, 5: 10, 10: 25},
	}
}

func (r Rules) IsBigLeague(leagueName string) bool {
	name := strings.ToLower(strings.TrimSpace(leagueName))
	if name == "" {
		return false
	}
	for _, big := range r.BigLeagues {
		big = strings.ToLower(strings.TrimSpace(big))
		if big != "" && strings.Contains(name, big) {
			return true
		}
	}
	return false
}

// GradeWinner compares the predicted outcome category with the result.
func (r Rules) GradeWinner(predicted Outcome, result Result) (bool, int) {
	if predicted != result.Winner {
		return false, 0
	}
	return true, r.pointsFor(r.WinnerPoints, result.LeagueName)
}

// GradeScore requires both scores to match exactly.
func (r Rules) GradeScore(home, away int, result Result) (bool, int) {
	if home != result.HomeScore || away != result.AwayScore {
		return false, 0
	}
	return true, r.pointsFor(r.ScorePoints, result.LeagueName)
}

func (r Rules) pointsFor(p Points, leagueName string) int {
	if r.IsBigLeague(leagueName) {
		return p.Big
	}
	return p.Normal
}
