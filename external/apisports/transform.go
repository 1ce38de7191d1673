package apisports

import (
	"strings"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

// TransformFootballFixture maps an API-Football fixture into the canonical
// match. Absent fields stay nil or zero.
func TransformFootballFixture(item FootballFixture, now time.Time) match.Match {
	m := match.Match{
		ID:          item.Fixture.ID,
		Sport:       match.SportFootball,
		Date:        resolveDate(item.Fixture.Date, item.Fixture.Timestamp),
		Timestamp:   item.Fixture.Timestamp,
		StatusShort: item.Fixture.Status.Short,
		StatusLong:  strings.TrimSpace(item.Fixture.Status.Long),
		Elapsed:     item.Fixture.Status.Elapsed,
		Home:        match.Team(item.Teams.Home),
		Away:        match.Team(item.Teams.Away),
		HomeScore:   item.Goals.Home,
		AwayScore:   item.Goals.Away,
		League: match.League{
			ID:      item.League.ID,
			Name:    strings.TrimSpace(item.League.Name),
			Country: strings.TrimSpace(item.League.Country),
			Logo:    item.League.Logo,
			Season:  int(item.League.Season),
			Round:   strings.TrimSpace(item.League.Round),
		},
		Venue:       joinVenue(item.Fixture.Venue.Name, item.Fixture.Venue.City),
		LastUpdated: now.UTC(),
	}

	periods := make(map[string]match.PeriodScore, 4)
	addPeriod(periods, "halftime", item.Score.Halftime)
	addPeriod(periods, "fulltime", item.Score.Fulltime)
	addPeriod(periods, "extratime", item.Score.Extratime)
	addPeriod(periods, "penalty", item.Score.Penalty)
	if len(periods) > 0 {
		m.Periods = periods
	}

	m = m.Normalize()
	if m.Status == match.StatusFinished {
		ft := item.Score.Fulltime
		if ft.Home == nil || ft.Away == nil {
			ft = item.Goals
		}
		m.FulltimeHome, m.FulltimeAway = ft.Home, ft.Away
	}
	return m
}

// TransformBasketballGame maps an API-Basketball game into the canonical
// match. Quarter scores go into the period bag.
func TransformBasketballGame(item BasketballGame, now time.Time) match.Match {
	m := match.Match{
		ID:          item.ID,
		Sport:       match.SportBasketball,
		Date:        resolveDate(item.Date, item.Timestamp),
		Timestamp:   item.Timestamp,
		StatusShort: item.Status.Short,
		StatusLong:  strings.TrimSpace(item.Status.Long),
		Home:        match.Team{ID: item.Teams.Home.ID, Name: item.Teams.Home.Name, Logo: item.Teams.Home.Logo},
		Away:        match.Team{ID: item.Teams.Away.ID, Name: item.Teams.Away.Name, Logo: item.Teams.Away.Logo},
		HomeScore:   item.Scores.Home.Total,
		AwayScore:   item.Scores.Away.Total,
		League: match.League{
			ID:      item.League.ID,
			Name:    strings.TrimSpace(item.League.Name),
			Country: strings.TrimSpace(item.Country.Name),
			Logo:    item.League.Logo,
			Season:  int(item.League.Season),
			Round:   strings.TrimSpace(item.Week),
		},
		Venue:       strings.TrimSpace(item.Venue),
		LastUpdated: now.UTC(),
	}
	if item.Status.Timer != nil {
		m.Elapsed = match.IntPtr(int(*item.Status.Timer))
	}

	periods := make(map[string]match.PeriodScore, 5)
	home, away := item.Scores.Home, item.Scores.Away
	addPeriod(periods, "quarter_1", scorePair{home.Quarter1, away.Quarter1})
	addPeriod(periods, "quarter_2", scorePair{home.Quarter2, away.Quarter2})
	addPeriod(periods, "quarter_3", scorePair{home.Quarter3, away.Quarter3})
	addPeriod(periods, "quarter_4", scorePair{home.Quarter4, away.Quarter4})
	addPeriod(periods, "over_time", scorePair{home.OverTime, away.OverTime})
	if len(periods) > 0 {
		m.Periods = periods
	}

	m = m.Normalize()
	if m.Status == match.StatusFinished && m.HasScore() {
		m.FulltimeHome, m.FulltimeAway = m.HomeScore, m.AwayScore
		homeWon := *m.HomeScore > *m.AwayScore
		awayWon := *m.AwayScore > *m.HomeScore
		m.Home.Winner, m.Away.Winner = &homeWon, &awayWon
	}
	return m
}

func resolveDate(raw string, timestamp int64) time.Time {
	if parsed := parseProviderDateTime(raw); parsed != nil {
		return *parsed
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}

func addPeriod(dst map[string]match.PeriodScore, key string, pair scorePair) {
	if pair.empty() {
		return
	}
	dst[key] = match.PeriodScore{Home: pair.Home, Away: pair.Away}
}

func joinVenue(name, city string) string {
	name, city = strings.TrimSpace(name), strings.TrimSpace(city)
	switch {
	case name == "":
		return city
	case city == "":
		return name
	default:
		return name + ", " + city
	}
}
