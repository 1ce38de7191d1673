package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
)

type JobRunRepository struct {
	mu   sync.RWMutex
	runs map[string]jobscheduler.RunEvent
}

func NewJobRunRepository() *JobRunRepository {
	return &JobRunRepository{runs: make(map[string]jobscheduler.RunEvent)}
}

// UpsertEvent keeps the latest event per run id.
func (r *JobRunRepository) UpsertEvent(_ context.Context, event jobscheduler.RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[event.RunID] = event
	return nil
}

func (r *JobRunRepository) ListRecent(_ context.Context, limit int) ([]jobscheduler.RunEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.RunEvent, 0, len(r.runs))
	for _, event := range r.runs {
		out = append(out, event)
	}
	// Run ids are time-ordered, which breaks ties between events written
	// in the same instant.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].RunID > out[j].RunID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
