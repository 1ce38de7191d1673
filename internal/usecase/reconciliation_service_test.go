package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-engine/internal/platform/cache"
)

func newReconciliation(provider *stubProvider, repo match.Repository, deny *BlacklistService, board LiveBoard) *ReconciliationService {
	svc := NewReconciliationService(provider, repo, deny, board, nil, ReconciliationConfig{}, nil)
	svc.now = fixedNow
	return svc
}

func TestReconciliationService_SyncTodayIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	kickoff := fixedNow().Add(-2 * time.Hour)
	provider.byDate = []match.Match{
		footballMatch(1, "FT", kickoff, match.IntPtr(2), match.IntPtr(1)),
		footballMatch(2, "NS", kickoff.Add(3*time.Hour), nil, nil),
	}
	repo := newCountingMatchRepository()
	svc := newReconciliation(provider, repo, nil, nil)

	ctx := context.Background()
	first, err := svc.SyncToday(ctx)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	afterFirst, _ := repo.Query(ctx, match.Filter{Sport: match.SportFootball})

	second, err := svc.SyncToday(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	afterSecond, _ := repo.Query(ctx, match.Filter{Sport: match.SportFootball})

	if first.Saved != 2 || second.Saved != 1 || first.Fetched != 2 {
		t.Fatalf("unexpected results: %+v %+v", first, second)
	}
	if len(afterFirst) != 2 || len(afterSecond) != 2 {
		t.Fatalf("expected two rows, got %d then %d", len(afterFirst), len(afterSecond))
	}
	for i := range afterFirst {
		a, b := afterFirst[i], afterSecond[i]
		if a.ID != b.ID || a.Status != b.Status || !a.LastUpdated.Equal(b.LastUpdated) {
			t.Fatalf("row changed between identical syncs: %+v vs %+v", a, b)
		}
	}
}

func TestReconciliationService_RepairedMatchSurvivesLiveSync(t *testing.T) {
	t.Parallel()

	stale := fixedNow().Add(-5 * time.Hour)
	stuck := footballMatch(7, "2H", stale, match.IntPtr(2), match.IntPtr(1))
	repo := newCountingMatchRepository(stuck)
	provider := newStubProvider(match.SportFootball)
	provider.live = []match.Match{
		footballMatch(7, "2H", stale, match.IntPtr(2), match.IntPtr(1)),
		footballMatch(8, "1H", fixedNow().Add(-20*time.Minute), match.IntPtr(0), match.IntPtr(0)),
	}
	board := &recordingLiveBoard{}
	svc := newReconciliation(provider, repo, nil, board)

	ctx := context.Background()
	fixed, err := svc.FixStuckMatches(ctx, 4*time.Hour)
	if err != nil || fixed.Finished != 1 {
		t.Fatalf("fix stuck matches: %+v err=%v", fixed, err)
	}

	live, err := svc.SyncLive(ctx)
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if live.Saved != 1 {
		t.Fatalf("expected only the open match to be written, got %+v", live)
	}

	row, _, _ := repo.GetByID(ctx, match.SportFootball, 7)
	if row.Status != match.StatusFinished || row.StatusShort != "FT" || row.IsLive {
		t.Fatalf("repaired row was reopened: %+v", row)
	}
	if row.FulltimeHome == nil || *row.FulltimeHome != 2 || row.FulltimeAway == nil || *row.FulltimeAway != 1 {
		t.Fatalf("fulltime score lost: %+v", row)
	}
	if items := board.published[match.SportFootball]; len(items) != 1 || items[0].ID != 8 {
		t.Fatalf("repaired match must not be on the live board: %+v", items)
	}
}

func TestReconciliationService_BlacklistedMatchesAreNeverWritten(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	kickoff := fixedNow().Add(-30 * time.Minute)
	provider.byDate = []match.Match{
		footballMatch(10, "1H", kickoff, match.IntPtr(0), match.IntPtr(0)),
		footballMatch(11, "1H", kickoff, match.IntPtr(1), match.IntPtr(0)),
	}
	provider.live = provider.byDate

	deny := NewBlacklistService(
		[]blacklist.Entry{{Sport: match.SportFootball, MatchID: 10}},
		memory.NewBlacklistRepository(blacklist.Entry{Sport: match.SportFootball, MatchID: 11}),
		cache.NewStore[blacklist.Set](time.Minute),
		nil,
	)
	repo := newCountingMatchRepository()
	board := &recordingLiveBoard{}
	svc := newReconciliation(provider, repo, deny, board)

	ctx := context.Background()
	today, err := svc.SyncToday(ctx)
	if err != nil {
		t.Fatalf("sync today: %v", err)
	}
	live, err := svc.SyncLive(ctx)
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}

	if today.Dropped != 2 || today.Saved != 0 || live.Dropped != 2 || live.Saved != 0 {
		t.Fatalf("expected fully blacklisted no-op, got %+v %+v", today, live)
	}
	if len(repo.upsertedIDs()) != 0 {
		t.Fatalf("blacklisted ids were written: %+v", repo.upsertedIDs())
	}
	if items := board.published[match.SportFootball]; len(items) != 0 {
		t.Fatalf("blacklisted ids were published: %+v", items)
	}
}

func TestReconciliationService_SyncLiveSkipsEmptyWrite(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	repo := newCountingMatchRepository()
	svc := newReconciliation(provider, repo, nil, nil)

	result, err := svc.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if result.Fetched != 0 || result.Saved != 0 || len(repo.batches) != 0 {
		t.Fatalf("expected no write, got result=%+v batches=%d", result, len(repo.batches))
	}
}

func TestReconciliationService_SyncLivePublishesToBoard(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	provider.live = []match.Match{footballMatch(5, "2H", fixedNow().Add(-time.Hour), match.IntPtr(1), match.IntPtr(1))}
	board := &recordingLiveBoard{}
	svc := newReconciliation(provider, newCountingMatchRepository(), nil, board)

	if _, err := svc.SyncLive(context.Background()); err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if items := board.published[match.SportFootball]; len(items) != 1 || items[0].ID != 5 {
		t.Fatalf("unexpected live board: %+v", items)
	}
}

func TestReconciliationService_ProviderFailureIsReported(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	provider.err = errors.New("timeout")
	svc := newReconciliation(provider, newCountingMatchRepository(), nil, nil)

	if _, err := svc.SyncToday(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestReconciliationService_StoreNotConfigured(t *testing.T) {
	t.Parallel()

	provider := newStubProvider(match.SportFootball)
	provider.byDate = []match.Match{footballMatch(1, "NS", fixedNow(), nil, nil)}
	svc := newReconciliation(provider, nil, nil, nil)

	result, err := svc.SyncToday(context.Background())
	if err != nil {
		t.Fatalf("sync today: %v", err)
	}
	if !result.Skipped || result.Reason != reasonStoreNotConfigured || result.Fetched != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stuck, err := svc.FixStuckMatches(context.Background(), 4*time.Hour)
	if err != nil || !stuck.Skipped {
		t.Fatalf("expected skipped repair, got %+v err=%v", stuck, err)
	}
}

func TestReconciliationService_FixStuckMatches(t *testing.T) {
	t.Parallel()

	stale := fixedNow().Add(-5 * time.Hour)
	recent := fixedNow().Add(-1 * time.Hour)
	repo := newCountingMatchRepository(
		footballMatch(1, "2H", stale, match.IntPtr(2), match.IntPtr(1)),
		footballMatch(2, "HT", stale, nil, nil),
		footballMatch(3, "1H", recent, match.IntPtr(0), match.IntPtr(0)),
		footballMatch(4, "2H", stale, match.IntPtr(3), match.IntPtr(3)),
	)
	repo.failIDs[4] = true
	svc := newReconciliation(newStubProvider(match.SportFootball), repo, nil, nil)

	ctx := context.Background()
	result, err := svc.FixStuckMatches(ctx, 4*time.Hour)
	if err != nil {
		t.Fatalf("fix stuck matches: %v", err)
	}
	if result.Checked != 3 || result.Finished != 1 || result.Postponed != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	finished, _, _ := repo.GetByID(ctx, match.SportFootball, 1)
	if finished.Status != match.StatusFinished || finished.StatusShort != "FT" || finished.IsLive {
		t.Fatalf("unexpected finished row: %+v", finished)
	}
	if finished.FulltimeHome == nil || *finished.FulltimeHome != 2 || finished.FulltimeAway == nil || *finished.FulltimeAway != 1 {
		t.Fatalf("expected fulltime 2-1, got %+v", finished)
	}

	postponed, _, _ := repo.GetByID(ctx, match.SportFootball, 2)
	if postponed.Status != match.StatusPostponed || postponed.IsLive || postponed.HomeScore != nil {
		t.Fatalf("unexpected postponed row: %+v", postponed)
	}

	untouched, _, _ := repo.GetByID(ctx, match.SportFootball, 3)
	if !untouched.IsLive {
		t.Fatalf("recent live match must stay live")
	}

	failed, _, _ := repo.GetByID(ctx, match.SportFootball, 4)
	if !failed.IsLive {
		t.Fatalf("failed row must remain live for the next run")
	}

	delete(repo.failIDs, 4)
	retry, err := svc.FixStuckMatches(ctx, 4*time.Hour)
	if err != nil {
		t.Fatalf("retry fix stuck matches: %v", err)
	}
	if retry.Checked != 1 || retry.Finished != 1 {
		t.Fatalf("expected failed row to be repaired on retry, got %+v", retry)
	}
}

func TestReconciliationService_FixStuckMatchesSkipsBlacklisted(t *testing.T) {
	t.Parallel()

	repo := newCountingMatchRepository(footballMatch(7, "2H", fixedNow().Add(-6*time.Hour), match.IntPtr(1), match.IntPtr(0)))
	deny := NewBlacklistService([]blacklist.Entry{{Sport: match.SportFootball, MatchID: 7}}, nil, nil, nil)
	svc := newReconciliation(newStubProvider(match.SportFootball), repo, deny, nil)

	result, err := svc.FixStuckMatches(context.Background(), 4*time.Hour)
	if err != nil {
		t.Fatalf("fix stuck matches: %v", err)
	}
	if result.Finished != 0 || len(result.Rows) != 1 || result.Rows[0].Outcome != stuckOutcomeSkipped {
		t.Fatalf("expected blacklisted row to be skipped, got %+v", result)
	}
}

func TestReconciliationService_PurgeBeforeKeepsLiveRows(t *testing.T) {
	t.Parallel()

	old := fixedNow().AddDate(0, 0, -40)
	repo := newCountingMatchRepository(
		footballMatch(1, "FT", old, match.IntPtr(1), match.IntPtr(0)),
		footballMatch(2, "2H", old, match.IntPtr(1), match.IntPtr(0)),
		footballMatch(3, "FT", fixedNow(), match.IntPtr(1), match.IntPtr(0)),
	)
	svc := newReconciliation(newStubProvider(match.SportFootball), repo, nil, nil)

	deleted, err := svc.PurgeBefore(context.Background(), fixedNow().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one purged row, got %d", deleted)
	}
	if _, ok, _ := repo.GetByID(context.Background(), match.SportFootball, 2); !ok {
		t.Fatalf("live row must be kept")
	}
}
