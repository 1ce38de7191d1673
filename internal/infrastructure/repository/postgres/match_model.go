package postgres

import (
	"database/sql"
	"time"
)

const matchColumns = `sport, id, date, timestamp, status, status_short, status_long, elapsed, is_live,
home_team_id, home_team_name, home_team_logo, home_winner,
away_team_id, away_team_name, away_team_logo, away_winner,
home_score, away_score, ft_home, ft_away, periods,
league_id, league_name, league_country, league_logo, season, round, venue, last_updated`

type matchTableModel struct {
	Sport         string         `db:"sport"`
	ID            int64          `db:"id"`
	Date          time.Time      `db:"date"`
	Timestamp     int64          `db:"timestamp"`
	Status        string         `db:"status"`
	StatusShort   string         `db:"status_short"`
	StatusLong    string         `db:"status_long"`
	Elapsed       sql.NullInt64  `db:"elapsed"`
	IsLive        bool           `db:"is_live"`
	HomeTeamID    int64          `db:"home_team_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamLogo  string         `db:"home_team_logo"`
	HomeWinner    sql.NullBool   `db:"home_winner"`
	AwayTeamID    int64          `db:"away_team_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamLogo  string         `db:"away_team_logo"`
	AwayWinner    sql.NullBool   `db:"away_winner"`
	HomeScore     sql.NullInt64  `db:"home_score"`
	AwayScore     sql.NullInt64  `db:"away_score"`
	FulltimeHome  sql.NullInt64  `db:"ft_home"`
	FulltimeAway  sql.NullInt64  `db:"ft_away"`
	Periods       sql.NullString `db:"periods"`
	LeagueID      int64          `db:"league_id"`
	LeagueName    string         `db:"league_name"`
	LeagueCountry string         `db:"league_country"`
	LeagueLogo    string         `db:"league_logo"`
	Season        int            `db:"season"`
	Round         string         `db:"round"`
	Venue         string         `db:"venue"`
	LastUpdated   time.Time      `db:"last_updated"`
}
