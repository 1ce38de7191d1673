package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

// MatchQueryService serves stored matches to the read routes.
type MatchQueryService struct {
	matches   match.Repository
	liveBoard LiveBoard
	location  *time.Location
	logger    *logging.Logger
}

func NewMatchQueryService(matches match.Repository, liveBoard LiveBoard, location *time.Location, logger *logging.Logger) *MatchQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &MatchQueryService{
		matches:   matches,
		liveBoard: liveBoard,
		location:  location,
		logger:    logger.Named("match_query"),
	}
}

// Location is the zone that decides calendar days for date queries.
func (s *MatchQueryService) Location() *time.Location {
	return s.location
}

func (s *MatchQueryService) ListByDate(ctx context.Context, sport match.Sport, date time.Time) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListByDate")
	defer span.End()

	if s.matches == nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, ErrStoreNotConfigured)
	}
	from, to := match.DayRange(date, s.location)
	items, err := s.matches.Query(ctx, match.Filter{Sport: sport, DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("list matches by date: %w", err)
	}
	return items, nil
}

// ListLive prefers the live board and falls back to the store.
func (s *MatchQueryService) ListLive(ctx context.Context, sport match.Sport) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListLive")
	defer span.End()

	if s.liveBoard != nil {
		items, ok, err := s.liveBoard.ReadLive(ctx, sport)
		if err != nil {
			s.logger.WarnContext(ctx, "read live board failed, falling back to store", "sport", string(sport), "error", err)
		} else if ok {
			return items, nil
		}
	}

	if s.matches == nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, ErrStoreNotConfigured)
	}
	live := true
	items, err := s.matches.Query(ctx, match.Filter{Sport: sport, IsLive: &live})
	if err != nil {
		return nil, fmt.Errorf("list live matches: %w", err)
	}
	return items, nil
}

func (s *MatchQueryService) GetByID(ctx context.Context, sport match.Sport, id int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.GetByID")
	defer span.End()

	if id <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be > 0", ErrInvalidInput)
	}
	if s.matches == nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, ErrStoreNotConfigured)
	}
	item, ok, err := s.matches.GetByID(ctx, sport, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %s/%d", ErrNotFound, sport, id)
	}
	return item, nil
}
