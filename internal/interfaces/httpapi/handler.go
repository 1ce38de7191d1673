package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

const (
	maxRequestBodyBytes = 1 << 20
	recentJobRunsLimit  = 50
)

type Handler struct {
	matches   *usecase.MatchQueryService
	jobs      *usecase.JobRunner
	blacklist *usecase.BlacklistService
	jobRuns   jobscheduler.Repository
	logger    *logging.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler wires the HTTP surface. jobRuns may be nil when no store is
// configured; the job listing then only reports in-process state.
func NewHandler(
	matches *usecase.MatchQueryService,
	jobs *usecase.JobRunner,
	blacklist *usecase.BlacklistService,
	jobRuns jobscheduler.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matches:   matches,
		jobs:      jobs,
		blacklist: blacklist,
		jobRuns:   jobRuns,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
		now:       time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody leaves dst untouched when the body is empty.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func sportFromPath(r *http.Request) (match.Sport, error) {
	raw := r.PathValue("sport")
	sport, ok := match.ParseSport(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown sport %q", usecase.ErrInvalidInput, raw)
	}
	return sport, nil
}

func matchIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("matchID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: match id must be a positive integer", usecase.ErrInvalidInput)
	}
	return id, nil
}
