package apisports

import (
	"strconv"
	"strings"
)

// FootballFixture is one API-Football v3 /fixtures response item.
type FootballFixture struct {
	Fixture struct {
		ID        int64  `json:"id"`
		Timezone  string `json:"timezone"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			ID   *int64 `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int64   `json:"id"`
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Logo    string  `json:"logo"`
		Season  flexInt `json:"season"`
		Round   string  `json:"round"`
	} `json:"league"`
	Teams struct {
		Home footballTeam `json:"home"`
		Away footballTeam `json:"away"`
	} `json:"teams"`
	Goals scorePair `json:"goals"`
	Score struct {
		Halftime  scorePair `json:"halftime"`
		Fulltime  scorePair `json:"fulltime"`
		Extratime scorePair `json:"extratime"`
		Penalty   scorePair `json:"penalty"`
	} `json:"score"`
}

type footballTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (s scorePair) empty() bool {
	return s.Home == nil && s.Away == nil
}

// BasketballGame is one API-Basketball v1 /games response item.
type BasketballGame struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Timezone  string `json:"timezone"`
	Week      string `json:"week"`
	Venue     string `json:"venue"`
	Status    struct {
		Long  string   `json:"long"`
		Short string   `json:"short"`
		Timer *flexInt `json:"timer"`
	} `json:"status"`
	League struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Type   string  `json:"type"`
		Season flexInt `json:"season"`
		Logo   string  `json:"logo"`
	} `json:"league"`
	Country struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"country"`
	Teams struct {
		Home basketballTeam `json:"home"`
		Away basketballTeam `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home basketballScore `json:"home"`
		Away basketballScore `json:"away"`
	} `json:"scores"`
}

type basketballTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type basketballScore struct {
	Quarter1 *int `json:"quarter_1"`
	Quarter2 *int `json:"quarter_2"`
	Quarter3 *int `json:"quarter_3"`
	Quarter4 *int `json:"quarter_4"`
	OverTime *int `json:"over_time"`
	Total    *int `json:"total"`
}

// flexInt decodes numbers, numeric strings and season strings such as
// "2025-2026" (first year wins). Anything else decodes as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	value, err := strconv.Atoi(raw[:end])
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(value)
	return nil
}
