package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	qb "github.com/riskibarqy/matchday-engine/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func predictionTable(kind prediction.Kind) (string, error) {
	switch kind {
	case prediction.KindWinner:
		return "winner_predictions", nil
	case prediction.KindScore:
		return "score_predictions", nil
	default:
		return "", fmt.Errorf("unknown prediction kind %q", kind)
	}
}

func (r *PredictionRepository) ListPendingMatchIDs(ctx context.Context, sport match.Sport, kind prediction.Kind) ([]int64, error) {
	table, err := predictionTable(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select("DISTINCT match_id").From(table).
		Where(qb.Eq("sport", string(sport)), qb.Eq("status", string(prediction.StatusPending))).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pending match ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select pending %s match ids sport=%s: %w", kind, sport, err)
	}
	return ids, nil
}

func (r *PredictionRepository) ListPendingWinner(ctx context.Context, sport match.Sport, matchID int64) ([]prediction.WinnerPrediction, error) {
	query, args, err := qb.Select(winnerPredictionColumns).From("winner_predictions").
		Where(
			qb.Eq("sport", string(sport)),
			qb.Eq("match_id", matchID),
			qb.Eq("status", string(prediction.StatusPending)),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pending winner predictions query: %w", err)
	}

	var rows []winnerPredictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending winner predictions match_id=%d: %w", matchID, err)
	}

	out := make([]prediction.WinnerPrediction, 0, len(rows))
	for _, row := range rows {
		item := prediction.WinnerPrediction{
			ID:              row.ID,
			Sport:           match.Sport(row.Sport),
			MatchID:         row.MatchID,
			Email:           row.Email,
			PredictedResult: prediction.Outcome(row.PredictedResult),
			Status:          prediction.Status(row.Status),
			IsCorrect:       nullBoolToPtr(row.IsCorrect),
			PointsEarned:    row.PointsEarned,
			ActualResult:    prediction.Outcome(row.ActualResult.String),
			GradedAt:        row.GradedAt,
			CreatedAt:       row.CreatedAt,
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PredictionRepository) ListPendingScore(ctx context.Context, sport match.Sport, matchID int64) ([]prediction.ScorePrediction, error) {
	query, args, err := qb.Select(scorePredictionColumns).From("score_predictions").
		Where(
			qb.Eq("sport", string(sport)),
			qb.Eq("match_id", matchID),
			qb.Eq("status", string(prediction.StatusPending)),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pending score predictions query: %w", err)
	}

	var rows []scorePredictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending score predictions match_id=%d: %w", matchID, err)
	}

	out := make([]prediction.ScorePrediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.ScorePrediction{
			ID:                 row.ID,
			Sport:              match.Sport(row.Sport),
			MatchID:            row.MatchID,
			Email:              row.Email,
			PredictedHomeScore: row.PredictedHomeScore,
			PredictedAwayScore: row.PredictedAwayScore,
			Status:             prediction.Status(row.Status),
			IsCorrect:          nullBoolToPtr(row.IsCorrect),
			PointsEarned:       row.PointsEarned,
			ActualHomeScore:    nullIntToPtr(row.ActualHomeScore),
			ActualAwayScore:    nullIntToPtr(row.ActualAwayScore),
			GradedAt:           row.GradedAt,
			CreatedAt:          row.CreatedAt,
		})
	}
	return out, nil
}

// MarkGraded is conditional on status = 'pending' so concurrent graders
// cannot both claim the same row.
func (r *PredictionRepository) MarkGraded(ctx context.Context, kind prediction.Kind, id int64, patch prediction.GradePatch) (bool, error) {
	query, args, err := markGradedQuery(kind, id, patch)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark %s prediction graded id=%d: %w", kind, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read mark graded result id=%d: %w", id, err)
	}
	return affected == 1, nil
}

func markGradedQuery(kind prediction.Kind, id int64, patch prediction.GradePatch) (string, []any, error) {
	table, err := predictionTable(kind)
	if err != nil {
		return "", nil, err
	}

	builder := qb.Update(table).
		Set("status", string(prediction.StatusGraded)).
		Set("is_correct", patch.IsCorrect).
		Set("points_earned", patch.PointsEarned).
		Set("graded_at", patch.GradedAt.UTC())
	switch kind {
	case prediction.KindWinner:
		builder.Set("actual_result", string(patch.ActualResult))
	case prediction.KindScore:
		builder.Set("actual_home_score", patch.ActualHome).Set("actual_away_score", patch.ActualAway)
	}

	query, args, err := builder.
		Where(qb.Eq("id", id), qb.Eq("status", string(prediction.StatusPending))).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build mark graded query: %w", err)
	}
	return query, args, nil
}
