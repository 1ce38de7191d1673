package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/memory"
)

type stubProvider struct {
	sport   match.Sport
	mu      sync.Mutex
	byDate  []match.Match
	live    []match.Match
	byID    map[int64]match.Match
	err     error
	idCalls []int64
}

func newStubProvider(sport match.Sport) *stubProvider {
	return &stubProvider{sport: sport, byID: make(map[int64]match.Match)}
}

func (p *stubProvider) Sport() match.Sport {
	return p.sport
}

func (p *stubProvider) FetchByDate(_ context.Context, _ time.Time) ([]match.Match, error) {
	if p.err != nil {
		return nil, p.err
	}
	return append([]match.Match(nil), p.byDate...), nil
}

func (p *stubProvider) FetchLive(_ context.Context) ([]match.Match, error) {
	if p.err != nil {
		return nil, p.err
	}
	return append([]match.Match(nil), p.live...), nil
}

func (p *stubProvider) FetchByID(_ context.Context, id int64) (match.Match, bool, error) {
	p.mu.Lock()
	p.idCalls = append(p.idCalls, id)
	p.mu.Unlock()
	if p.err != nil {
		return match.Match{}, false, p.err
	}
	item, ok := p.byID[id]
	return item, ok, nil
}

// countingMatchRepository records upsert batches on top of the memory store.
type countingMatchRepository struct {
	*memory.MatchRepository
	mu      sync.Mutex
	batches [][]match.Match
	failIDs map[int64]bool
}

func newCountingMatchRepository(items ...match.Match) *countingMatchRepository {
	return &countingMatchRepository{MatchRepository: memory.NewMatchRepository(items...), failIDs: map[int64]bool{}}
}

func (r *countingMatchRepository) UpsertMany(ctx context.Context, items []match.Match) (int, error) {
	r.mu.Lock()
	r.batches = append(r.batches, append([]match.Match(nil), items...))
	r.mu.Unlock()
	return r.MatchRepository.UpsertMany(ctx, items)
}

func (r *countingMatchRepository) ApplyTerminal(ctx context.Context, sport match.Sport, id int64, patch match.TerminalPatch) (match.Match, bool, error) {
	if r.failIDs[id] {
		return match.Match{}, false, errors.New("connection reset")
	}
	return r.MatchRepository.ApplyTerminal(ctx, sport, id, patch)
}

func (r *countingMatchRepository) upsertedIDs() map[int64]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]int)
	for _, batch := range r.batches {
		for _, item := range batch {
			out[item.ID]++
		}
	}
	return out
}

type recordingLiveBoard struct {
	mu        sync.Mutex
	published map[match.Sport][]match.Match
	err       error
}

func (b *recordingLiveBoard) PublishLive(_ context.Context, sport match.Sport, items []match.Match) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.published == nil {
		b.published = make(map[match.Sport][]match.Match)
	}
	b.published[sport] = append([]match.Match(nil), items...)
	return nil
}

func (b *recordingLiveBoard) ReadLive(_ context.Context, sport match.Sport) ([]match.Match, bool, error) {
	if b.err != nil {
		return nil, false, b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items, ok := b.published[sport]
	return items, ok, nil
}

func footballMatch(id int64, short string, date time.Time, home, away *int) match.Match {
	return match.Match{
		ID:          id,
		Sport:       match.SportFootball,
		Date:        date,
		StatusShort: short,
		HomeScore:   home,
		AwayScore:   away,
		League:      match.League{ID: 88, Name: "Eredivisie"},
	}.Normalize()
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
}
