package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
)

// EngineMetrics receives counters from the engines and the job runner.
type EngineMetrics interface {
	JobRun(job, status string, duration time.Duration)
	MatchesSaved(sport match.Sport, path string, count int)
	BlacklistedDropped(sport match.Sport, count int)
	StuckRepaired(sport match.Sport, outcome string)
	PredictionGraded(sport match.Sport, kind prediction.Kind, correct bool)
	StreakBonus(milestone int)
}

type noopMetrics struct{}

func (noopMetrics) JobRun(string, string, time.Duration) {}
func (noopMetrics) MatchesSaved(match.Sport, string, int) {}
func (noopMetrics) BlacklistedDropped(match.Sport, int) {}
func (noopMetrics) StuckRepaired(match.Sport, string) {}
func (noopMetrics) PredictionGraded(match.Sport, prediction.Kind, bool) {}
func (noopMetrics) StreakBonus(int) {}

func NewNoopMetrics() EngineMetrics {
	return noopMetrics{}
}

// LiveBoard is a fast shared view of the live match set per sport.
type LiveBoard interface {
	PublishLive(ctx context.Context, sport match.Sport, items []match.Match) error
	ReadLive(ctx context.Context, sport match.Sport) ([]match.Match, bool, error)
}
