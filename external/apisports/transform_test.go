package apisports

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

const finishedFixtureJSON = `{
  "fixture": {"id": 1208021, "timezone": "UTC", "date": "2026-03-01T15:00:00+00:00", "timestamp": 1772377200,
    "venue": {"id": 556, "name": "Old Trafford", "city": "Manchester"},
    "status": {"long": "Match Finished", "short": "FT", "elapsed": 90}},
  "league": {"id": 39, "name": "Premier League", "country": "England", "logo": "l.png", "season": 2025, "round": "Regular Season - 28"},
  "teams": {"home": {"id": 33, "name": "Manchester United", "logo": "h.png", "winner": true},
            "away": {"id": 34, "name": "Newcastle", "logo": "a.png", "winner": false}},
  "goals": {"home": 2, "away": 1},
  "score": {"halftime": {"home": 1, "away": 0}, "fulltime": {"home": 2, "away": 1},
            "extratime": {"home": null, "away": null}, "penalty": {"home": null, "away": null}}
}`

func TestTransformFootballFixture_Finished(t *testing.T) {
	t.Parallel()

	var item FootballFixture
	if err := sonic.Unmarshal([]byte(finishedFixtureJSON), &item); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	m := TransformFootballFixture(item, now)

	if m.ID != 1208021 || m.Sport != match.SportFootball {
		t.Fatalf("unexpected identity: %+v", m)
	}
	if m.Status != match.StatusFinished || m.IsLive {
		t.Fatalf("unexpected status: %s live=%v", m.Status, m.IsLive)
	}
	if m.FulltimeHome == nil || *m.FulltimeHome != 2 || m.FulltimeAway == nil || *m.FulltimeAway != 1 {
		t.Fatalf("expected fulltime 2-1, got %+v %+v", m.FulltimeHome, m.FulltimeAway)
	}
	if _, ok := m.Periods["extratime"]; ok {
		t.Fatalf("empty extratime must be omitted: %+v", m.Periods)
	}
	if ht := m.Periods["halftime"]; ht.Home == nil || *ht.Home != 1 {
		t.Fatalf("unexpected halftime: %+v", ht)
	}
	if m.Home.Winner == nil || !*m.Home.Winner {
		t.Fatalf("expected home winner flag")
	}
	if m.League.Season != 2025 || m.Venue != "Old Trafford, Manchester" {
		t.Fatalf("unexpected league/venue: %+v %q", m.League, m.Venue)
	}
	if !m.Date.Equal(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)) || !m.LastUpdated.Equal(now) {
		t.Fatalf("unexpected dates: %s %s", m.Date, m.LastUpdated)
	}
}

func TestTransformFootballFixture_MissingFieldsDefault(t *testing.T) {
	t.Parallel()

	var item FootballFixture
	if err := sonic.Unmarshal([]byte(`{"fixture": {"id": 7, "date": "garbage", "timestamp": 1772377200, "status": {"short": "1H"}}}`), &item); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	m := TransformFootballFixture(item, time.Now())
	if !m.IsLive || m.Status != match.StatusLive {
		t.Fatalf("expected live match, got %+v", m)
	}
	if m.HomeScore != nil || m.AwayScore != nil || m.Periods != nil {
		t.Fatalf("expected nil scores, got %+v", m)
	}
	if m.Date.Unix() != 1772377200 {
		t.Fatalf("expected timestamp fallback, got %s", m.Date)
	}
}

func TestTransformBasketballGame(t *testing.T) {
	t.Parallel()

	raw := `{"id": 4101, "date": "2026-03-01T01:30:00+00:00", "timestamp": 1772328600,
	  "venue": "Crypto.com Arena", "week": null,
	  "status": {"long": "Game Finished", "short": "AOT", "timer": null},
	  "league": {"id": 12, "name": "NBA", "type": "League", "season": "2025-2026", "logo": "nba.png"},
	  "country": {"id": 5, "name": "USA"},
	  "teams": {"home": {"id": 145, "name": "Los Angeles Lakers"}, "away": {"id": 133, "name": "Boston Celtics"}},
	  "scores": {"home": {"quarter_1": 30, "quarter_2": 25, "quarter_3": 20, "quarter_4": 25, "over_time": 12, "total": 112},
	             "away": {"quarter_1": 20, "quarter_2": 30, "quarter_3": 25, "quarter_4": 25, "over_time": 8, "total": 108}}}`

	var item BasketballGame
	if err := sonic.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("decode game: %v", err)
	}

	m := TransformBasketballGame(item, time.Now())
	if m.Status != match.StatusFinished || m.StatusShort != "AOT" {
		t.Fatalf("unexpected status: %+v", m)
	}
	if m.FulltimeHome == nil || *m.FulltimeHome != 112 || *m.FulltimeAway != 108 {
		t.Fatalf("unexpected fulltime: %+v %+v", m.FulltimeHome, m.FulltimeAway)
	}
	if m.Home.Winner == nil || !*m.Home.Winner || m.Away.Winner == nil || *m.Away.Winner {
		t.Fatalf("unexpected winner flags")
	}
	if len(m.Periods) != 5 || *m.Periods["over_time"].Home != 12 {
		t.Fatalf("unexpected periods: %+v", m.Periods)
	}
	if m.League.Season != 2025 || m.League.Country != "USA" {
		t.Fatalf("unexpected league: %+v", m.League)
	}
}
