package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.JobRun("sync-live", "completed", 2*time.Second)
	m.JobRun("sync-live", "skipped", 0)
	m.MatchesSaved(match.SportFootball, "live", 3)
	m.MatchesSaved(match.SportFootball, "live", 0)
	m.BlacklistedDropped(match.SportBasketball, 2)
	m.StuckRepaired(match.SportFootball, "finished")
	m.PredictionGraded(match.SportFootball, prediction.KindWinner, true)
	m.StreakBonus(5)

	if got := testutil.ToFloat64(m.jobRuns.WithLabelValues("sync-live", "completed")); got != 1 {
		t.Fatalf("job runs completed=%v", got)
	}
	if got := testutil.ToFloat64(m.matchesSaved.WithLabelValues("football", "live")); got != 3 {
		t.Fatalf("matches saved=%v", got)
	}
	if got := testutil.ToFloat64(m.blacklistDropped.WithLabelValues("basketball")); got != 2 {
		t.Fatalf("blacklist dropped=%v", got)
	}
	if got := testutil.ToFloat64(m.graded.WithLabelValues("football", string(prediction.KindWinner), "true")); got != 1 {
		t.Fatalf("graded=%v", got)
	}
	if got := testutil.ToFloat64(m.streakBonus.WithLabelValues("5")); got != 1 {
		t.Fatalf("streak bonus=%v", got)
	}
	if got := testutil.CollectAndCount(m.jobDuration); got != 1 {
		t.Fatalf("expected one duration series, got %d", got)
	}
}

func TestMetrics_HandlerExposesNames(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.StuckRepaired(match.SportFootball, "postponed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `matchday_stuck_repaired_total{outcome="postponed",sport="football"} 1`) {
		t.Fatalf("missing stuck repaired series:\n%s", rec.Body.String())
	}
}

func TestStartMetricsServer_Disabled(t *testing.T) {
	t.Parallel()

	if srv := StartMetricsServer(config.Config{MetricsEnabled: false}, NewMetrics(), logging.NewNop()); srv != nil {
		t.Fatalf("expected nil server when disabled")
	}
	if err := StopServer(nil, logging.NewNop(), time.Second); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}
