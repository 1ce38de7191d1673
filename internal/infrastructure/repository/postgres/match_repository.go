package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	qb "github.com/riskibarqy/matchday-engine/internal/platform/querybuilder"
)

const upsertMatchSuffix = `ON CONFLICT (sport, id) DO UPDATE SET
    date = EXCLUDED.date,
    timestamp = EXCLUDED.timestamp,
    status = EXCLUDED.status,
    status_short = EXCLUDED.status_short,
    status_long = EXCLUDED.status_long,
    elapsed = EXCLUDED.elapsed,
    is_live = EXCLUDED.is_live,
    home_team_id = EXCLUDED.home_team_id,
    home_team_name = EXCLUDED.home_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    home_winner = EXCLUDED.home_winner,
    away_team_id = EXCLUDED.away_team_id,
    away_team_name = EXCLUDED.away_team_name,
    away_team_logo = EXCLUDED.away_team_logo,
    away_winner = EXCLUDED.away_winner,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    ft_home = COALESCE(EXCLUDED.ft_home, matches.ft_home),
    ft_away = COALESCE(EXCLUDED.ft_away, matches.ft_away),
    periods = EXCLUDED.periods,
    league_id = EXCLUDED.league_id,
    league_name = EXCLUDED.league_name,
    league_country = EXCLUDED.league_country,
    league_logo = EXCLUDED.league_logo,
    season = EXCLUDED.season,
    round = EXCLUDED.round,
    venue = EXCLUDED.venue,
    last_updated = EXCLUDED.last_updated
WHERE matches.status NOT IN ('finished', 'postponed')`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	saved := 0
	err := chunkRange(len(items), upsertChunkSize, func(start, end int) error {
		query, args, err := upsertMatchesQuery(items[start:end])
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("upsert matches: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read upsert matches result: %w", err)
		}
		saved += int(affected)
		return nil
	})
	return saved, err
}

// upsertMatchesQuery leaves finished and postponed rows untouched; those
// only change through ApplyTerminal.
func upsertMatchesQuery(items []match.Match) (string, []any, error) {
	builder := qb.InsertInto("matches").Columns(splitColumns(matchColumns)...).Suffix(upsertMatchSuffix)
	for _, item := range items {
		row, err := toMatchRow(item)
		if err != nil {
			return "", nil, fmt.Errorf("encode match id=%d: %w", item.ID, err)
		}
		builder.Values(matchRowValues(row)...)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert matches query: %w", err)
	}
	return query, args, nil
}

func (r *MatchRepository) Query(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(matchConditions(filter)...).
		OrderBy("date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromMatchRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Delete(ctx context.Context, filter match.Filter) (int, error) {
	query, args, err := qb.DeleteFrom("matches").Where(matchConditions(filter)...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete matches query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read delete matches result: %w", err)
	}
	return int(affected), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, sport match.Sport, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("sport", string(sport)), qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match sport=%s id=%d: %w", sport, id, err)
	}
	return fromMatchRow(row), true, nil
}

// ApplyTerminal only touches rows that are still live and returns the row
// as written.
func (r *MatchRepository) ApplyTerminal(ctx context.Context, sport match.Sport, id int64, patch match.TerminalPatch) (match.Match, bool, error) {
	query, args, err := applyTerminalQuery(sport, id, patch)
	if err != nil {
		return match.Match{}, false, err
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("apply terminal sport=%s id=%d: %w", sport, id, err)
	}
	return fromMatchRow(row), true, nil
}

func applyTerminalQuery(sport match.Sport, id int64, patch match.TerminalPatch) (string, []any, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(patch.Status)).
		Set("status_short", patch.StatusShort).
		Set("status_long", patch.StatusLong).
		Set("is_live", false).
		SetExpr("ft_home", "COALESCE(?, ft_home)", ptrToNullInt(patch.FulltimeHome)).
		SetExpr("ft_away", "COALESCE(?, ft_away)", ptrToNullInt(patch.FulltimeAway)).
		Set("last_updated", patch.UpdatedAt.UTC()).
		Where(qb.Eq("sport", string(sport)), qb.Eq("id", id), qb.Eq("is_live", true)).
		Suffix("RETURNING " + matchColumns).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build apply terminal query: %w", err)
	}
	return query, args, nil
}

func matchConditions(f match.Filter) []qb.Condition {
	conds := make([]qb.Condition, 0, 7)
	if f.Sport != "" {
		conds = append(conds, qb.Eq("sport", string(f.Sport)))
	}
	if len(f.IDs) > 0 {
		conds = append(conds, qb.Expr("id = ANY(?)", pq.Array(f.IDs)))
	}
	if f.DateFrom != nil {
		conds = append(conds, qb.Gte("date", f.DateFrom.UTC()))
	}
	if f.DateTo != nil {
		conds = append(conds, qb.Lt("date", f.DateTo.UTC()))
	}
	if f.LeagueID != nil {
		conds = append(conds, qb.Eq("league_id", *f.LeagueID))
	}
	if len(f.Statuses) > 0 {
		values := make([]any, 0, len(f.Statuses))
		for _, status := range f.Statuses {
			values = append(values, string(status))
		}
		conds = append(conds, qb.In("status", values))
	}
	if f.IsLive != nil {
		conds = append(conds, qb.Eq("is_live", *f.IsLive))
	}
	return conds
}

func toMatchRow(m match.Match) (matchTableModel, error) {
	row := matchTableModel{
		Sport:         string(m.Sport),
		ID:            m.ID,
		Date:          m.Date.UTC(),
		Timestamp:     m.Timestamp,
		Status:        string(m.Status),
		StatusShort:   m.StatusShort,
		StatusLong:    m.StatusLong,
		Elapsed:       ptrToNullInt(m.Elapsed),
		IsLive:        m.IsLive,
		HomeTeamID:    m.Home.ID,
		HomeTeamName:  m.Home.Name,
		HomeTeamLogo:  m.Home.Logo,
		HomeWinner:    ptrToNullBool(m.Home.Winner),
		AwayTeamID:    m.Away.ID,
		AwayTeamName:  m.Away.Name,
		AwayTeamLogo:  m.Away.Logo,
		AwayWinner:    ptrToNullBool(m.Away.Winner),
		HomeScore:     ptrToNullInt(m.HomeScore),
		AwayScore:     ptrToNullInt(m.AwayScore),
		FulltimeHome:  ptrToNullInt(m.FulltimeHome),
		FulltimeAway:  ptrToNullInt(m.FulltimeAway),
		LeagueID:      m.League.ID,
		LeagueName:    m.League.Name,
		LeagueCountry: m.League.Country,
		LeagueLogo:    m.League.Logo,
		Season:        m.League.Season,
		Round:         m.League.Round,
		Venue:         m.Venue,
		LastUpdated:   m.LastUpdated.UTC(),
	}
	if len(m.Periods) > 0 {
		raw, err := sonic.Marshal(m.Periods)
		if err != nil {
			return matchTableModel{}, err
		}
		row.Periods.String, row.Periods.Valid = string(raw), true
	}
	return row, nil
}

func matchRowValues(row matchTableModel) []any {
	return []any{
		row.Sport, row.ID, row.Date, row.Timestamp, row.Status, row.StatusShort, row.StatusLong, row.Elapsed, row.IsLive,
		row.HomeTeamID, row.HomeTeamName, row.HomeTeamLogo, row.HomeWinner,
		row.AwayTeamID, row.AwayTeamName, row.AwayTeamLogo, row.AwayWinner,
		row.HomeScore, row.AwayScore, row.FulltimeHome, row.FulltimeAway, row.Periods,
		row.LeagueID, row.LeagueName, row.LeagueCountry, row.LeagueLogo, row.Season, row.Round, row.Venue, row.LastUpdated,
	}
}

func fromMatchRow(row matchTableModel) match.Match {
	m := match.Match{
		ID:           row.ID,
		Sport:        match.Sport(row.Sport),
		Date:         row.Date.UTC(),
		Timestamp:    row.Timestamp,
		Status:       match.Status(row.Status),
		StatusShort:  row.StatusShort,
		StatusLong:   row.StatusLong,
		Elapsed:      nullIntToPtr(row.Elapsed),
		IsLive:       row.IsLive,
		Home:         match.Team{ID: row.HomeTeamID, Name: row.HomeTeamName, Logo: row.HomeTeamLogo, Winner: nullBoolToPtr(row.HomeWinner)},
		Away:         match.Team{ID: row.AwayTeamID, Name: row.AwayTeamName, Logo: row.AwayTeamLogo, Winner: nullBoolToPtr(row.AwayWinner)},
		HomeScore:    nullIntToPtr(row.HomeScore),
		AwayScore:    nullIntToPtr(row.AwayScore),
		FulltimeHome: nullIntToPtr(row.FulltimeHome),
		FulltimeAway: nullIntToPtr(row.FulltimeAway),
		League: match.League{
			ID:      row.LeagueID,
			Name:    row.LeagueName,
			Country: row.LeagueCountry,
			Logo:    row.LeagueLogo,
			Season:  row.Season,
			Round:   row.Round,
		},
		Venue:       row.Venue,
		LastUpdated: row.LastUpdated.UTC(),
	}
	if row.Periods.Valid && row.Periods.String != "" {
		var periods map[string]match.PeriodScore
		if err := sonic.UnmarshalString(row.Periods.String, &periods); err == nil && len(periods) > 0 {
			m.Periods = periods
		}
	}
	return m
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if col := strings.TrimSpace(part); col != "" {
			out = append(out, col)
		}
	}
	return out
}
