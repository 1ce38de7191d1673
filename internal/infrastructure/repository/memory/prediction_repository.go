package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
)

type PredictionRepository struct {
	mu      sync.RWMutex
	winners map[int64]prediction.WinnerPrediction
	scores  map[int64]prediction.ScorePrediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		winners: make(map[int64]prediction.WinnerPrediction),
		scores:  make(map[int64]prediction.ScorePrediction),
	}
}

func (r *PredictionRepository) AddWinner(items ...prediction.WinnerPrediction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if item.Status == "" {
			item.Status = prediction.StatusPending
		}
		r.winners[item.ID] = item
	}
}

func (r *PredictionRepository) AddScore(items ...prediction.ScorePrediction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if item.Status == "" {
			item.Status = prediction.StatusPending
		}
		r.scores[item.ID] = item
	}
}

func (r *PredictionRepository) Winner(id int64) (prediction.WinnerPrediction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.winners[id]
	return item, ok
}

func (r *PredictionRepository) Score(id int64) (prediction.ScorePrediction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.scores[id]
	return item, ok
}

func (r *PredictionRepository) ListPendingMatchIDs(_ context.Context, sport match.Sport, kind prediction.Kind) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{})
	switch kind {
	case prediction.KindWinner:
		for _, item := range r.winners {
			if item.Sport == sport && item.Status == prediction.StatusPending {
				seen[item.MatchID] = struct{}{}
			}
		}
	case prediction.KindScore:
		for _, item := range r.scores {
			if item.Sport == sport && item.Status == prediction.StatusPending {
				seen[item.MatchID] = struct{}{}
			}
		}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *PredictionRepository) ListPendingWinner(_ context.Context, sport match.Sport, matchID int64) ([]prediction.WinnerPrediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.WinnerPrediction, 0)
	for _, item := range r.winners {
		if item.Sport == sport && item.MatchID == matchID && item.Status == prediction.StatusPending {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PredictionRepository) ListPendingScore(_ context.Context, sport match.Sport, matchID int64) ([]prediction.ScorePrediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.ScorePrediction, 0)
	for _, item := range r.scores {
		if item.Sport == sport && item.MatchID == matchID && item.Status == prediction.StatusPending {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PredictionRepository) MarkGraded(_ context.Context, kind prediction.Kind, id int64, patch prediction.GradePatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	correct := patch.IsCorrect
	gradedAt := patch.GradedAt
	switch kind {
	case prediction.KindWinner:
		item, ok := r.winners[id]
		if !ok || item.Status != prediction.StatusPending {
			return false, nil
		}
		item.Status = prediction.StatusGraded
		item.IsCorrect = &correct
		item.PointsEarned = patch.PointsEarned
		item.ActualResult = patch.ActualResult
		item.GradedAt = &gradedAt
		r.winners[id] = item
	case prediction.KindScore:
		item, ok := r.scores[id]
		if !ok || item.Status != prediction.StatusPending {
			return false, nil
		}
		home, away := patch.ActualHome, patch.ActualAway
		item.Status = prediction.StatusGraded
		item.IsCorrect = &correct
		item.PointsEarned = patch.PointsEarned
		item.ActualHomeScore = &home
		item.ActualAwayScore = &away
		item.GradedAt = &gradedAt
		r.scores[id] = item
	default:
		return false, nil
	}
	return true, nil
}
