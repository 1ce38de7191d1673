package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	basecache "github.com/riskibarqy/matchday-engine/internal/platform/cache"
)

// MatchRepository caches read paths of the public match API. Every write
// drops the cached entries of the touched sport.
type MatchRepository struct {
	next    match.Repository
	queries *basecache.Store[[]match.Match]
	byID    *basecache.Store[cachedMatchByID]
}

func NewMatchRepository(next match.Repository, ttl time.Duration) *MatchRepository {
	return &MatchRepository{
		next:    next,
		queries: basecache.NewStore[[]match.Match](ttl),
		byID:    basecache.NewStore[cachedMatchByID](ttl),
	}
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) (int, error) {
	saved, err := r.next.UpsertMany(ctx, items)
	if err != nil {
		return saved, err
	}
	sports := make(map[match.Sport]struct{}, 2)
	for _, item := range items {
		sports[item.Sport] = struct{}{}
	}
	for sport := range sports {
		r.invalidate(ctx, sport)
	}
	return saved, nil
}

func (r *MatchRepository) Query(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	key := matchQueryKey(filter)
	items, err := r.queries.GetOrLoad(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		items, err := r.next.Query(ctx, filter)
		return cloneMatches(items), err
	})
	if err != nil {
		return nil, err
	}
	return cloneMatches(items), nil
}

func (r *MatchRepository) Delete(ctx context.Context, filter match.Filter) (int, error) {
	deleted, err := r.next.Delete(ctx, filter)
	if err != nil {
		return deleted, err
	}
	r.invalidate(ctx, filter.Sport)
	return deleted, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, sport match.Sport, id int64) (match.Match, bool, error) {
	key := "match:" + string(sport) + ":id:" + strconv.FormatInt(id, 10)
	cached, err := r.byID.GetOrLoad(ctx, key, func(ctx context.Context) (cachedMatchByID, error) {
		item, exists, err := r.next.GetByID(ctx, sport, id)
		return cachedMatchByID{value: item, exists: exists}, err
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ApplyTerminal(ctx context.Context, sport match.Sport, id int64, patch match.TerminalPatch) (match.Match, bool, error) {
	item, ok, err := r.next.ApplyTerminal(ctx, sport, id, patch)
	if err != nil {
		return item, ok, err
	}
	if ok {
		r.invalidate(ctx, sport)
	}
	return item, ok, nil
}

// invalidate drops both caches for sport, or everything when sport is empty.
func (r *MatchRepository) invalidate(ctx context.Context, sport match.Sport) {
	prefix := "match:"
	if sport != "" {
		prefix += string(sport) + ":"
	}
	r.queries.DeletePrefix(ctx, prefix)
	r.byID.DeletePrefix(ctx, prefix)
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func matchQueryKey(f match.Filter) string {
	var b strings.Builder
	b.WriteString("match:")
	b.WriteString(string(f.Sport))
	b.WriteString(":query")
	if len(f.IDs) > 0 {
		ids := append([]int64(nil), f.IDs...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		b.WriteString(":ids=")
		for i, id := range ids {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(id, 10))
		}
	}
	if f.DateFrom != nil {
		b.WriteString(":from=" + f.DateFrom.UTC().Format(time.RFC3339))
	}
	if f.DateTo != nil {
		b.WriteString(":to=" + f.DateTo.UTC().Format(time.RFC3339))
	}
	if f.LeagueID != nil {
		b.WriteString(":league=" + strconv.FormatInt(*f.LeagueID, 10))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, status := range f.Statuses {
			statuses = append(statuses, string(status))
		}
		sort.Strings(statuses)
		b.WriteString(":status=" + strings.Join(statuses, ","))
	}
	if f.IsLive != nil {
		b.WriteString(":live=" + strconv.FormatBool(*f.IsLive))
	}
	return b.String()
}

func cloneMatches(items []match.Match) []match.Match {
	return append([]match.Match(nil), items...)
}
