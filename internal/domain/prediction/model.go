package prediction

import (
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

type Kind string

const (
	KindWinner Kind = "winner"
	KindScore  Kind = "score"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusGraded  Status = "graded"
)

type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

// OutcomeOf returns draw iff the scores are equal.
func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case away > home:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// WinnerPrediction is a user's pick of the match outcome category.
type WinnerPrediction struct {
	ID              int64
	Sport           match.Sport
	MatchID         int64
	Email           string
	PredictedResult Outcome
	Status          Status
	IsCorrect       *bool
	PointsEarned    int
	ActualResult    Outcome
	GradedAt        *time.Time
	CreatedAt       time.Time
}

// ScorePrediction is a user's pick of the exact final score.
type ScorePrediction struct {
	ID                 int64
	Sport              match.Sport
	MatchID            int64
	Email              string
	PredictedHomeScore int
	PredictedAwayScore int
	Status             Status
	IsCorrect          *bool
	PointsEarned       int
	ActualHomeScore    *int
	ActualAwayScore    *int
	GradedAt           *time.Time
	CreatedAt          time.Time
}

// GradePatch is the single terminal write applied to a pending prediction.
type GradePatch struct {
	IsCorrect    bool
	PointsEarned int
	ActualResult Outcome
	ActualHome   int
	ActualAway   int
	GradedAt     time.Time
}

// Result is the normalized terminal result of a match used for grading.
type Result struct {
	MatchID    int64
	HomeScore  int
	AwayScore  int
	Winner     Outcome
	LeagueName string
}

// Partial is one graded prediction's contribution to a user's match outcome.
type Partial struct {
	Points    int
	IsCorrect bool
}
