package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday-engine/internal/domain/userstats"
)

type UserStatsRepository struct {
	mu   sync.RWMutex
	rows map[string]userstats.Stats
}

func NewUserStatsRepository(items ...userstats.Stats) *UserStatsRepository {
	rows := make(map[string]userstats.Stats, len(items))
	for _, item := range items {
		rows[item.Email] = item
	}
	return &UserStatsRepository{rows: rows}
}

func (r *UserStatsRepository) GetByEmail(_ context.Context, email string) (userstats.Stats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[email]
	return item, ok, nil
}

// Apply holds the write lock across the fold.
func (r *UserStatsRepository) Apply(_ context.Context, email string, fold func(userstats.Stats) userstats.Stats) (userstats.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[email]
	if !ok {
		current = userstats.Stats{Email: email}
	}
	next := fold(current)
	next.Email = email
	r.rows[email] = next
	return next, nil
}
