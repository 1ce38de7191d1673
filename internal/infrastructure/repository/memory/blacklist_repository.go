package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
)

type BlacklistRepository struct {
	mu      sync.RWMutex
	entries []blacklist.Entry
}

func NewBlacklistRepository(entries ...blacklist.Entry) *BlacklistRepository {
	return &BlacklistRepository{entries: append([]blacklist.Entry(nil), entries...)}
}

func (r *BlacklistRepository) Add(entries ...blacklist.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
}

func (r *BlacklistRepository) List(_ context.Context) ([]blacklist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]blacklist.Entry(nil), r.entries...), nil
}
