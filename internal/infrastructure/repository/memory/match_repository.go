package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

type matchKey struct {
	sport match.Sport
	id    int64
}

type MatchRepository struct {
	mu   sync.RWMutex
	rows map[matchKey]match.Match
}

func NewMatchRepository(items ...match.Match) *MatchRepository {
	rows := make(map[matchKey]match.Match, len(items))
	for _, item := range items {
		rows[matchKey{sport: item.Sport, id: item.ID}] = item
	}
	return &MatchRepository{rows: rows}
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := 0
	for _, item := range items {
		key := matchKey{sport: item.Sport, id: item.ID}
		if prev, ok := r.rows[key]; ok {
			if prev.Status.Terminal() {
				continue
			}
			if item.FulltimeHome == nil {
				item.FulltimeHome = prev.FulltimeHome
			}
			if item.FulltimeAway == nil {
				item.FulltimeAway = prev.FulltimeAway
			}
		}
		r.rows[key] = item
		saved++
	}
	return saved, nil
}

func (r *MatchRepository) Query(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.rows {
		if matchesFilter(item, filter) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) Delete(_ context.Context, filter match.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, item := range r.rows {
		if matchesFilter(item, filter) {
			delete(r.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MatchRepository) GetByID(_ context.Context, sport match.Sport, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[matchKey{sport: sport, id: id}]
	return item, ok, nil
}

func (r *MatchRepository) ApplyTerminal(_ context.Context, sport match.Sport, id int64, patch match.TerminalPatch) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matchKey{sport: sport, id: id}
	item, ok := r.rows[key]
	if !ok || !item.IsLive {
		return match.Match{}, false, nil
	}

	item.Status = patch.Status
	item.StatusShort = patch.StatusShort
	item.StatusLong = patch.StatusLong
	item.IsLive = false
	if patch.FulltimeHome != nil {
		item.FulltimeHome = patch.FulltimeHome
	}
	if patch.FulltimeAway != nil {
		item.FulltimeAway = patch.FulltimeAway
	}
	item.LastUpdated = patch.UpdatedAt
	r.rows[key] = item
	return item, true, nil
}

func matchesFilter(item match.Match, f match.Filter) bool {
	if f.Sport != "" && item.Sport != f.Sport {
		return false
	}
	if len(f.IDs) > 0 && !containsID(f.IDs, item.ID) {
		return false
	}
	if f.DateFrom != nil && item.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !item.Date.Before(*f.DateTo) {
		return false
	}
	if f.LeagueID != nil && item.League.ID != *f.LeagueID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if item.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IsLive != nil && item.IsLive != *f.IsLive {
		return false
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
