package prediction

import (
	"context"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

type Repository interface {
	ListPendingMatchIDs(ctx context.Context, sport match.Sport, kind Kind) ([]int64, error)
	ListPendingWinner(ctx context.Context, sport match.Sport, matchID int64) ([]WinnerPrediction, error)
	ListPendingScore(ctx context.Context, sport match.Sport, matchID int64) ([]ScorePrediction, error)
	// MarkGraded applies the patch only while the row is still pending.
	// It reports whether this call performed the transition.
	MarkGraded(ctx context.Context, kind Kind, id int64, patch GradePatch) (bool, error)
}
