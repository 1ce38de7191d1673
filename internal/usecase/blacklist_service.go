package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/cache"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

const blacklistCacheKey = "blacklist:set"

// BlacklistService serves the deny-list: static config entries merged with
// the match_blacklist table, cached for the store's TTL.
type BlacklistService struct {
	static []blacklist.Entry
	repo   blacklist.Repository
	cache  *cache.Store[blacklist.Set]
	logger *logging.Logger
}

func NewBlacklistService(static []blacklist.Entry, repo blacklist.Repository, store *cache.Store[blacklist.Set], logger *logging.Logger) *BlacklistService {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = cache.NewStore[blacklist.Set](0)
	}
	return &BlacklistService{
		static: append([]blacklist.Entry(nil), static...),
		repo:   repo,
		cache:  store,
		logger: logger.Named("blacklist"),
	}
}

// Snapshot never fails: a failed table read falls back to the static list
// and is retried on the next call.
func (s *BlacklistService) Snapshot(ctx context.Context) blacklist.Set {
	set, err := s.cache.GetOrLoad(ctx, blacklistCacheKey, s.load)
	if err != nil {
		s.logger.WarnContext(ctx, "load match blacklist failed, using static entries", "error", err)
		return blacklist.NewSet(s.static...)
	}
	return set
}

func (s *BlacklistService) Contains(ctx context.Context, sport match.Sport, matchID int64) bool {
	return s.Snapshot(ctx).Contains(sport, matchID)
}

// Reload drops the cached set and reads it again.
func (s *BlacklistService) Reload(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BlacklistService.Reload")
	defer span.End()

	s.cache.DeletePrefix(ctx, "blacklist:")
	set, err := s.cache.GetOrLoad(ctx, blacklistCacheKey, s.load)
	if err != nil {
		return len(s.static), fmt.Errorf("%w: reload match blacklist: %v", ErrDependencyUnavailable, err)
	}
	s.logger.InfoContext(ctx, "match blacklist reloaded", "entries", len(set))
	return len(set), nil
}

func (s *BlacklistService) load(ctx context.Context) (blacklist.Set, error) {
	entries := append([]blacklist.Entry(nil), s.static...)
	if s.repo != nil {
		stored, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, stored...)
	}
	return blacklist.NewSet(entries...), nil
}

// ParseStaticBlacklist reads "sport:id" pairs separated by commas.
func ParseStaticBlacklist(raw string) ([]blacklist.Entry, error) {
	out := make([]blacklist.Entry, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sportRaw, idRaw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: blacklist entry %q must be sport:id", ErrInvalidInput, part)
		}
		sport, ok := match.ParseSport(sportRaw)
		if !ok {
			return nil, fmt.Errorf("%w: blacklist entry %q has unknown sport", ErrInvalidInput, part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idRaw), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: blacklist entry %q has invalid id", ErrInvalidInput, part)
		}
		out = append(out, blacklist.Entry{Sport: sport, MatchID: id, Reason: "static config"})
	}
	return out, nil
}
