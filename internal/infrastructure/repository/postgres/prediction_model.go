package postgres

import (
	"database/sql"
	"time"
)

const winnerPredictionColumns = `id, sport, match_id, email, predicted_result, status, is_correct,
points_earned, actual_result, graded_at, created_at`

const scorePredictionColumns = `id, sport, match_id, email, predicted_home_score, predicted_away_score, status, is_correct,
points_earned, actual_home_score, actual_away_score, graded_at, created_at`

type winnerPredictionTableModel struct {
	ID              int64          `db:"id"`
	Sport           string         `db:"sport"`
	MatchID         int64          `db:"match_id"`
	Email           string         `db:"email"`
	PredictedResult string         `db:"predicted_result"`
	Status          string         `db:"status"`
	IsCorrect       sql.NullBool   `db:"is_correct"`
	PointsEarned    int            `db:"points_earned"`
	ActualResult    sql.NullString `db:"actual_result"`
	GradedAt        *time.Time     `db:"graded_at"`
	CreatedAt       time.Time      `db:"created_at"`
}

type scorePredictionTableModel struct {
	ID                 int64         `db:"id"`
	Sport              string        `db:"sport"`
	MatchID            int64         `db:"match_id"`
	Email              string        `db:"email"`
	PredictedHomeScore int           `db:"predicted_home_score"`
	PredictedAwayScore int           `db:"predicted_away_score"`
	Status             string        `db:"status"`
	IsCorrect          sql.NullBool  `db:"is_correct"`
	PointsEarned       int           `db:"points_earned"`
	ActualHomeScore    sql.NullInt64 `db:"actual_home_score"`
	ActualAwayScore    sql.NullInt64 `db:"actual_away_score"`
	GradedAt           *time.Time    `db:"graded_at"`
	CreatedAt          time.Time     `db:"created_at"`
}
