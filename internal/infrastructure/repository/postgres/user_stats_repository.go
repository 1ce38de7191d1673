package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-engine/internal/domain/userstats"
	qb "github.com/riskibarqy/matchday-engine/internal/platform/querybuilder"
)

type userStatsTableModel struct {
	Email              string    `db:"email"`
	TotalExperience    int       `db:"total_experience"`
	SeasonPoints       int       `db:"season_points"`
	CurrentStreak      int       `db:"current_streak"`
	BestStreak         int       `db:"best_streak"`
	CorrectPredictions int       `db:"correct_predictions"`
	TotalPredictions   int       `db:"total_predictions"`
	UpdatedAt          time.Time `db:"updated_at"`
}

var userStatsColumns = qb.ModelColumns(userStatsTableModel{})

type UserStatsRepository struct {
	db *sqlx.DB
}

func NewUserStatsRepository(db *sqlx.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) GetByEmail(ctx context.Context, email string) (userstats.Stats, bool, error) {
	query, args, err := selectUserStatsQuery(email, false)
	if err != nil {
		return userstats.Stats{}, false, err
	}

	var row userStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userstats.Stats{}, false, nil
		}
		return userstats.Stats{}, false, fmt.Errorf("get user stats: %w", err)
	}
	return fromUserStatsRow(row), true, nil
}

// Apply makes sure the row exists, locks it with SELECT ... FOR UPDATE and
// writes the folded value in the same transaction.
func (r *UserStatsRepository) Apply(ctx context.Context, email string, fold func(userstats.Stats) userstats.Stats) (userstats.Stats, error) {
	if strings.TrimSpace(email) == "" {
		return userstats.Stats{}, fmt.Errorf("user stats email is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return userstats.Stats{}, fmt.Errorf("begin tx apply user stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := ensureUserStatsQuery(email, time.Now().UTC())
	if err != nil {
		return userstats.Stats{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return userstats.Stats{}, fmt.Errorf("ensure user stats row: %w", err)
	}

	query, args, err = selectUserStatsQuery(email, true)
	if err != nil {
		return userstats.Stats{}, err
	}
	var row userStatsTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return userstats.Stats{}, fmt.Errorf("lock user stats: %w", err)
	}

	next := fold(fromUserStatsRow(row))
	next.Email = email
	query, args, err = upsertUserStatsQuery(next)
	if err != nil {
		return userstats.Stats{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return userstats.Stats{}, fmt.Errorf("write user stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return userstats.Stats{}, fmt.Errorf("commit user stats: %w", err)
	}
	return next, nil
}

func selectUserStatsQuery(email string, lock bool) (string, []any, error) {
	builder := qb.Select(userStatsColumns...).From("user_stats").
		Where(qb.Eq("email", email)).
		Limit(1)
	if lock {
		builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build select user stats query: %w", err)
	}
	return query, args, nil
}

// ensureUserStatsQuery inserts a zero row so the lock below always has a
// row to take, including for a user's first graded match.
func ensureUserStatsQuery(email string, at time.Time) (string, []any, error) {
	query, args, err := qb.InsertInto("user_stats").
		Columns("email", "updated_at").
		Values(email, at).
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build ensure user stats query: %w", err)
	}
	return query, args, nil
}

func upsertUserStatsQuery(stats userstats.Stats) (string, []any, error) {
	updatedAt := stats.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	model := userStatsTableModel{
		Email:              stats.Email,
		TotalExperience:    stats.TotalExperience,
		SeasonPoints:       stats.SeasonPoints,
		CurrentStreak:      stats.CurrentStreak,
		BestStreak:         stats.BestStreak,
		CorrectPredictions: stats.CorrectPredictions,
		TotalPredictions:   stats.TotalPredictions,
		UpdatedAt:          updatedAt,
	}
	query, args, err := qb.UpsertModel("user_stats", model, "email")
	if err != nil {
		return "", nil, fmt.Errorf("build upsert user stats query: %w", err)
	}
	return query, args, nil
}

func fromUserStatsRow(row userStatsTableModel) userstats.Stats {
	return userstats.Stats{
		Email:              row.Email,
		TotalExperience:    row.TotalExperience,
		SeasonPoints:       row.SeasonPoints,
		CurrentStreak:      row.CurrentStreak,
		BestStreak:         row.BestStreak,
		CorrectPredictions: row.CorrectPredictions,
		TotalPredictions:   row.TotalPredictions,
		UpdatedAt:          row.UpdatedAt,
	}
}
