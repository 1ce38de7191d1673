package match

import (
	"strings"
	"time"
)

type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
)

// ParseSport accepts the sport path segment used by routes and config.
func ParseSport(v string) (Sport, bool) {
	switch Sport(strings.ToLower(strings.TrimSpace(v))) {
	case SportFootball:
		return SportFootball, true
	case SportBasketball:
		return SportBasketball, true
	default:
		return "", false
	}
}

// Status is the coarse lifecycle state derived from the provider's short code.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
)

// Terminal reports whether the status is absorbing. Stored rows in a
// terminal state are only changed by ApplyTerminal.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusPostponed
}

// TerminalStatuses lists the absorbing states.
func TerminalStatuses() []Status {
	return []Status{StatusFinished, StatusPostponed}
}

// Match is the canonical event record, keyed by (Sport, ID).
type Match struct {
	ID          int64
	Sport       Sport
	Date        time.Time
	Timestamp   int64
	Status      Status
	StatusShort string
	StatusLong  string
	Elapsed     *int
	IsLive      bool
	Home        Team
	Away        Team
	HomeScore   *int
	AwayScore   *int
	// Fulltime scores are set once a match reaches a terminal finished state.
	FulltimeHome *int
	FulltimeAway *int
	// Periods holds sport-specific partial scores: halftime, extratime and
	// penalty for football, quarter_1..quarter_4 and over_time for basketball.
	Periods     map[string]PeriodScore
	League      League
	Venue       string
	LastUpdated time.Time
}

type Team struct {
	ID     int64
	Name   string
	Logo   string
	Winner *bool
}

type League struct {
	ID      int64
	Name    string
	Country string
	Logo    string
	Season  int
	Round   string
}

type PeriodScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// HasScore reports whether both current scores are known.
func (m Match) HasScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Normalize derives Status from StatusShort and keeps IsLive consistent with it.
func (m Match) Normalize() Match {
	m.StatusShort = strings.ToUpper(strings.TrimSpace(m.StatusShort))
	m.Status = Classify(m.Sport, m.StatusShort)
	m.IsLive = m.Status == StatusLive
	return m
}

// Filter narrows store queries and deletes. Zero fields are ignored;
// DateTo is exclusive.
type Filter struct {
	Sport    Sport
	IDs      []int64
	DateFrom *time.Time
	DateTo   *time.Time
	LeagueID *int64
	Statuses []Status
	IsLive   *bool
}

// TerminalPatch moves a live row into a terminal state.
type TerminalPatch struct {
	Status       Status
	StatusShort  string
	StatusLong   string
	FulltimeHome *int
	FulltimeAway *int
	UpdatedAt    time.Time
}

// DayRange returns [start, end) of the calendar day containing t in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func IntPtr(v int) *int {
	return &v
}
