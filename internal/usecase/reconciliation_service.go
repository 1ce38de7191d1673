package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

const (
	syncPathToday = "today"
	syncPathLive  = "live"

	stuckOutcomeFinished  = "finished"
	stuckOutcomePostponed = "postponed"
	stuckOutcomeFailed    = "failed"
	stuckOutcomeSkipped   = "skipped"
)

type ReconciliationConfig struct {
	// Location decides which calendar day counts as today.
	Location *time.Location
}

type SyncResult struct {
	Sport   match.Sport `json:"sport"`
	Path    string      `json:"path"`
	Fetched int         `json:"fetched"`
	Dropped int         `json:"dropped"`
	Saved   int         `json:"saved"`
	Skipped bool        `json:"skipped"`
	Reason  string      `json:"reason,omitempty"`
}

type FixStuckRow struct {
	MatchID int64  `json:"match_id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type FixStuckResult struct {
	Sport     match.Sport   `json:"sport"`
	Checked   int           `json:"checked"`
	Finished  int           `json:"finished"`
	Postponed int           `json:"postponed"`
	Failed    int           `json:"failed"`
	Rows      []FixStuckRow `json:"rows"`
	Skipped   bool          `json:"skipped"`
	Reason    string        `json:"reason,omitempty"`
}

// ReconciliationService keeps one sport's stored matches in line with the
// provider and repairs rows stuck in a live state.
type ReconciliationService struct {
	sport     match.Sport
	provider  MatchProvider
	matches   match.Repository
	blacklist *BlacklistService
	liveBoard LiveBoard
	metrics   EngineMetrics
	location  *time.Location
	logger    *logging.Logger
	now       func() time.Time
}

// NewReconciliationService wires one sport. matches, blacklist and
// liveBoard may be nil.
func NewReconciliationService(
	provider MatchProvider,
	matches match.Repository,
	blacklist *BlacklistService,
	liveBoard LiveBoard,
	metrics EngineMetrics,
	cfg ReconciliationConfig,
	logger *logging.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	return &ReconciliationService{
		sport:     provider.Sport(),
		provider:  provider,
		matches:   matches,
		blacklist: blacklist,
		liveBoard: liveBoard,
		metrics:   metrics,
		location:  location,
		logger:    logger.Named("reconciliation").With("sport", string(provider.Sport())),
		now:       time.Now,
	}
}

func (s *ReconciliationService) Sport() match.Sport {
	return s.sport
}

// SyncToday fetches and stores every match on the current calendar day.
// Provider failures are returned and left to the next scheduled run.
func (s *ReconciliationService) SyncToday(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.SyncToday", sportAttr(s.sport))
	defer span.End()

	items, err := s.provider.FetchByDate(ctx, s.now().In(s.location))
	if err != nil {
		return SyncResult{Sport: s.sport, Path: syncPathToday}, fmt.Errorf("%w: sync today: %v", ErrDependencyUnavailable, err)
	}
	return s.save(ctx, syncPathToday, items)
}

// SyncLive stores the provider's live set. An empty set causes no write.
func (s *ReconciliationService) SyncLive(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.SyncLive", sportAttr(s.sport))
	defer span.End()

	items, err := s.provider.FetchLive(ctx)
	if err != nil {
		return SyncResult{Sport: s.sport, Path: syncPathLive}, fmt.Errorf("%w: sync live: %v", ErrDependencyUnavailable, err)
	}

	result, err := s.save(ctx, syncPathLive, items)
	if err != nil {
		return result, err
	}
	s.publishLive(ctx, s.withoutClosed(ctx, s.FilterBlacklisted(ctx, items)))
	return result, nil
}

// withoutClosed drops live items whose stored row is already terminal, so
// a repaired match does not reappear on the live board.
func (s *ReconciliationService) withoutClosed(ctx context.Context, items []match.Match) []match.Match {
	if s.matches == nil || len(items) == 0 {
		return items
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	closed, err := s.matches.Query(ctx, match.Filter{Sport: s.sport, IDs: ids, Statuses: match.TerminalStatuses()})
	if err != nil {
		s.logger.WarnContext(ctx, "load closed matches failed", "error", err)
		return items
	}
	if len(closed) == 0 {
		return items
	}
	skip := make(map[int64]struct{}, len(closed))
	for _, item := range closed {
		skip[item.ID] = struct{}{}
	}
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if _, ok := skip[item.ID]; !ok {
			out = append(out, item)
		}
	}
	return out
}

// FilterBlacklisted drops deny-listed matches. The input slice is not modified.
func (s *ReconciliationService) FilterBlacklisted(ctx context.Context, items []match.Match) []match.Match {
	if s.blacklist == nil || len(items) == 0 {
		return items
	}
	denied := s.blacklist.Snapshot(ctx)
	if len(denied) == 0 {
		return items
	}

	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if denied.Contains(item.Sport, item.ID) {
			s.logger.DebugContext(ctx, "drop blacklisted match", "match_id", item.ID)
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *ReconciliationService) save(ctx context.Context, path string, items []match.Match) (SyncResult, error) {
	result := SyncResult{Sport: s.sport, Path: path, Fetched: len(items)}

	kept := s.FilterBlacklisted(ctx, items)
	result.Dropped = len(items) - len(kept)
	if result.Dropped > 0 {
		s.metrics.BlacklistedDropped(s.sport, result.Dropped)
	}
	if len(kept) == 0 {
		return result, nil
	}
	if s.matches == nil {
		result.Skipped = true
		result.Reason = reasonStoreNotConfigured
		return result, nil
	}

	rows := dedupeMatches(kept, s.now().UTC())
	saved, err := s.matches.UpsertMany(ctx, rows)
	if err != nil {
		return result, fmt.Errorf("upsert %s matches: %w", path, err)
	}
	result.Saved = saved
	s.metrics.MatchesSaved(s.sport, path, saved)
	s.logger.InfoContext(ctx, "matches synced", "path", path, "fetched", result.Fetched, "dropped", result.Dropped, "saved", saved)
	return result, nil
}

func (s *ReconciliationService) publishLive(ctx context.Context, items []match.Match) {
	if s.liveBoard == nil {
		return
	}
	if err := s.liveBoard.PublishLive(ctx, s.sport, items); err != nil {
		s.logger.WarnContext(ctx, "publish live board failed", "count", len(items), "error", err)
	}
}

// FixStuckMatches closes rows still flagged live after maxLive past their
// start. Rows with both scores become finished, the rest postponed. A
// failed row stays live and is picked up again by the next run.
func (s *ReconciliationService) FixStuckMatches(ctx context.Context, maxLive time.Duration) (FixStuckResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.FixStuckMatches", sportAttr(s.sport))
	defer span.End()

	result := FixStuckResult{Sport: s.sport, Rows: []FixStuckRow{}}
	if maxLive <= 0 {
		return result, fmt.Errorf("%w: max live duration must be > 0", ErrInvalidInput)
	}
	if s.matches == nil {
		result.Skipped = true
		result.Reason = reasonStoreNotConfigured
		return result, nil
	}

	now := s.now().UTC()
	cutoff := now.Add(-maxLive)
	live := true
	stuck, err := s.matches.Query(ctx, match.Filter{Sport: s.sport, IsLive: &live, DateTo: &cutoff})
	if err != nil {
		return result, fmt.Errorf("query stuck matches: %w", err)
	}

	var denied blacklist.Set
	if s.blacklist != nil {
		denied = s.blacklist.Snapshot(ctx)
	}

	result.Checked = len(stuck)
	for _, item := range stuck {
		if denied.Contains(item.Sport, item.ID) {
			result.Rows = append(result.Rows, FixStuckRow{MatchID: item.ID, Outcome: stuckOutcomeSkipped})
			continue
		}

		row := s.repairStuck(ctx, item, now)
		switch row.Outcome {
		case stuckOutcomeFinished:
			result.Finished++
		case stuckOutcomePostponed:
			result.Postponed++
		case stuckOutcomeFailed:
			result.Failed++
		}
		if row.Outcome != stuckOutcomeSkipped {
			s.metrics.StuckRepaired(s.sport, row.Outcome)
		}
		result.Rows = append(result.Rows, row)
	}

	if result.Checked > 0 {
		s.logger.InfoContext(ctx, "stuck matches repaired",
			"checked", result.Checked,
			"finished", result.Finished,
			"postponed", result.Postponed,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (s *ReconciliationService) repairStuck(ctx context.Context, item match.Match, now time.Time) FixStuckRow {
	row := FixStuckRow{MatchID: item.ID}
	patch := match.TerminalPatch{UpdatedAt: now}
	if item.HasScore() {
		patch.Status = match.StatusFinished
		patch.StatusShort = match.FinishedCode(s.sport)
		patch.StatusLong = "Match Finished"
		patch.FulltimeHome = match.IntPtr(*item.HomeScore)
		patch.FulltimeAway = match.IntPtr(*item.AwayScore)
	} else {
		patch.Status = match.StatusPostponed
		patch.StatusShort = match.PostponedCode(s.sport)
		patch.StatusLong = "Abandoned"
	}

	written, ok, err := s.matches.ApplyTerminal(ctx, s.sport, item.ID, patch)
	switch {
	case err != nil:
		row.Outcome = stuckOutcomeFailed
		row.Error = err.Error()
		s.logger.WarnContext(ctx, "repair stuck match failed", "match_id", item.ID, "error", err)
	case !ok:
		// Another writer closed the match between query and update.
		row.Outcome = stuckOutcomeSkipped
	case written.IsLive || written.Status != patch.Status:
		row.Outcome = stuckOutcomeFailed
		row.Error = fmt.Sprintf("write not applied: status=%s is_live=%v", written.Status, written.IsLive)
		s.logger.WarnContext(ctx, "repair stuck match not verified", "match_id", item.ID, "status", written.Status)
	default:
		row.Outcome = string(patch.Status)
	}
	return row
}

// PurgeBefore removes finished history older than cutoff. Live rows are kept.
func (s *ReconciliationService) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.PurgeBefore", sportAttr(s.sport))
	defer span.End()

	if s.matches == nil {
		return 0, nil
	}
	live := false
	deleted, err := s.matches.Delete(ctx, match.Filter{Sport: s.sport, DateTo: &cutoff, IsLive: &live})
	if err != nil {
		return 0, fmt.Errorf("purge matches before %s: %w", cutoff.Format(time.DateOnly), err)
	}
	if deleted > 0 {
		s.logger.InfoContext(ctx, "old matches purged", "cutoff", cutoff, "deleted", deleted)
	}
	return deleted, nil
}

// dedupeMatches keeps the last copy of each id, normalizes status and
// stamps the write time.
func dedupeMatches(items []match.Match, now time.Time) []match.Match {
	index := make(map[int64]int, len(items))
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		item = item.Normalize()
		item.LastUpdated = now
		if pos, ok := index[item.ID]; ok {
			out[pos] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
