package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/infrastructure/repository/memory"
	usecasemock "github.com/riskibarqy/matchday-engine/internal/mocks/usecase"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
	"github.com/stretchr/testify/mock"
)

const testJobToken = "secret-token"

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	router   http.Handler
	provider *usecasemock.MatchProvider
	matches  *memory.MatchRepository
	runs     *memory.JobRunRepository
}

func newTestEnv(t *testing.T, items ...match.Match) testEnv {
	t.Helper()

	logger := logging.NewNop()
	provider := &usecasemock.MatchProvider{}
	provider.On("Sport").Return(match.SportFootball).Maybe()
	t.Cleanup(func() { provider.AssertExpectations(t) })

	matches := memory.NewMatchRepository(items...)
	runs := memory.NewJobRunRepository()
	blacklist := usecase.NewBlacklistService(nil, memory.NewBlacklistRepository(), nil, logger)

	engines := []usecase.SportEngines{{
		Reconciliation: usecase.NewReconciliationService(provider, matches, blacklist, nil, nil, usecase.ReconciliationConfig{}, logger),
		Grading:        usecase.NewGradingService(provider, memory.NewPredictionRepository(), memory.NewUserStatsRepository(), nil, usecase.GradingConfig{}, logger),
	}}
	runner := usecase.NewJobRunner(engines, blacklist, runs, nil, nil, nil, usecase.JobRunnerConfig{}, logger)
	query := usecase.NewMatchQueryService(matches, nil, time.UTC, logger)

	handler := NewHandler(query, runner, blacklist, runs, logger)
	handler.now = func() time.Time { return testNow }

	return testEnv{
		router:   NewRouter(handler, logger, nil, testJobToken),
		provider: provider,
		matches:  matches,
		runs:     runs,
	}
}

func storedMatch(id int64, date time.Time, short string, live bool) match.Match {
	return match.Match{
		ID:          id,
		Sport:       match.SportFootball,
		Date:        date,
		Timestamp:   date.Unix(),
		StatusShort: short,
		Status:      match.Classify(match.SportFootball, short),
		IsLive:      live,
		Home:        match.Team{ID: 10, Name: "Arsenal"},
		Away:        match.Team{ID: 11, Name: "Chelsea"},
		HomeScore:   match.IntPtr(1),
		AwayScore:   match.IntPtr(0),
		League:      match.League{ID: 39, Name: "Premier League", Season: 2025},
	}
}

func serve(env testEnv, method, target, body string, internal bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if internal {
		req.Header.Set(internalJobTokenHeader, testJobToken)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func listItems(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()

	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected list object in data: %s", rec.Body.String())
	}
	items, _ := data["items"].([]any)
	if count, _ := data["currentItemCount"].(float64); int(count) != len(items) {
		t.Fatalf("currentItemCount %v does not match %d items", data["currentItemCount"], len(items))
	}
	return items
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env, http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListMatchesByDate_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t,
		storedMatch(1, testNow.Add(-2*time.Hour), "FT", false),
		storedMatch(2, testNow.Add(-48*time.Hour), "FT", false),
	)

	rec := serve(env, http.MethodGet, "/v1/sports/football/matches", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := listItems(t, rec)
	if len(data) != 1 {
		t.Fatalf("expected one match for today, got %+v", data)
	}
	first, _ := data[0].(map[string]any)
	if first["id"] != float64(1) || first["status"] != string(match.StatusFinished) {
		t.Fatalf("unexpected match payload: %+v", first)
	}
}

func TestListMatchesByDate_ExplicitDate(t *testing.T) {
	env := newTestEnv(t, storedMatch(2, testNow.Add(-48*time.Hour), "FT", false))

	rec := serve(env, http.MethodGet, "/v1/sports/football/matches?date=2026-03-12", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := listItems(t, rec)
	if len(data) != 1 {
		t.Fatalf("expected one match, got %+v", data)
	}
}

func TestListMatchesByDate_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]string{
		"bad date":      "/v1/sports/football/matches?date=14-03-2026",
		"unknown sport": "/v1/sports/cricket/matches",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(env, http.MethodGet, target, "", false)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestListLiveMatches_FallsBackToStore(t *testing.T) {
	env := newTestEnv(t,
		storedMatch(1, testNow.Add(-time.Hour), "2H", true),
		storedMatch(2, testNow.Add(-time.Hour), "FT", false),
	)

	rec := serve(env, http.MethodGet, "/v1/sports/football/matches/live", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := listItems(t, rec)
	if len(data) != 1 {
		t.Fatalf("expected only the live match, got %+v", data)
	}
}

func TestGetMatch(t *testing.T) {
	env := newTestEnv(t, storedMatch(7, testNow, "NS", false))

	rec := serve(env, http.MethodGet, "/v1/sports/football/matches/7", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(env, http.MethodGet, "/v1/sports/football/matches/8", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = serve(env, http.MethodGet, "/v1/sports/football/matches/abc", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInternalRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env, http.MethodGet, "/v1/internal/jobs", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRunJob_SyncToday(t *testing.T) {
	env := newTestEnv(t)
	env.provider.On("FetchByDate", mock.Anything, mock.Anything).
		Return([]match.Match{storedMatch(3, testNow, "NS", false)}, nil).Once()

	rec := serve(env, http.MethodPost, "/v1/internal/jobs/sync-today", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok, _ := env.matches.GetByID(context.Background(), match.SportFootball, 3); !ok {
		t.Fatalf("expected synced match to be stored")
	}

	rec = serve(env, http.MethodGet, "/v1/internal/jobs", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	recent, _ := data["recent"].([]any)
	if len(recent) == 0 {
		t.Fatalf("expected recorded job runs, got %+v", data)
	}
}

func TestRunJob_UnknownJob(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env, http.MethodPost, "/v1/internal/jobs/rebuild-everything", "", true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGradeMatch_NotFinished(t *testing.T) {
	env := newTestEnv(t)
	env.provider.On("FetchByID", mock.Anything, int64(9)).
		Return(storedMatch(9, testNow, "2H", true), true, nil).Once()

	rec := serve(env, http.MethodPost, "/v1/internal/sports/football/matches/9/grade", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["ready"] == true {
		t.Fatalf("expected match not ready for grading, got %+v", data)
	}
}

func TestGradeMatch_SportWithoutEngine(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env, http.MethodPost, "/v1/internal/sports/basketball/matches/9/grade", "", true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestFixStuck_ValidatesBody(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"", `{"max_hours_live":0}`, `{"max_hours_live":100}`, `{"max_hours_live":`} {
		rec := serve(env, http.MethodPost, "/v1/internal/sports/football/fix-stuck", body, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestFixStuck_NoStuckMatches(t *testing.T) {
	env := newTestEnv(t, storedMatch(1, time.Now().Add(-30*time.Minute), "1H", true))

	rec := serve(env, http.MethodPost, "/v1/internal/sports/football/fix-stuck", `{"max_hours_live":4}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["checked"] != float64(0) {
		t.Fatalf("expected no stuck matches, got %+v", data)
	}
}

func TestReloadBlacklist(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env, http.MethodPost, "/v1/internal/blacklist/reload", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
