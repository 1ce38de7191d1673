package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

type fixStuckRequest struct {
	MaxHoursLive int `json:"max_hours_live" validate:"required,min=1,max=72"`
}

// RunJob triggers a named job. A job that is already running reports
// skipped rather than queueing a second run.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunJob")
	defer span.End()

	raw := r.PathValue("job")
	name, ok := usecase.ParseJobName(raw)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown job %q", usecase.ErrInvalidInput, raw))
		return
	}

	result, err := h.jobs.Run(ctx, name, usecase.TriggerManual)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual job failed", "job", string(name), "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Skipped {
		status = http.StatusAccepted
	}
	writeSuccess(ctx, w, status, result)
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobs")
	defer span.End()

	out := jobsOverviewDTO{State: h.jobs.State(), Recent: []jobRunDTO{}}
	if h.jobRuns != nil {
		events, err := h.jobRuns.ListRecent(ctx, recentJobRunsLimit)
		if err != nil {
			h.logger.ErrorContext(ctx, "list job runs failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		for _, event := range events {
			out.Recent = append(out.Recent, jobRunToDTO(event))
		}
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GradeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GradeMatch")
	defer span.End()

	sport, err := sportFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	id, err := matchIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	engine, ok := h.jobs.Engine(sport)
	if !ok || engine.Grading == nil {
		writeError(ctx, w, fmt.Errorf("%w: grading is not enabled for %s", usecase.ErrDependencyUnavailable, sport))
		return
	}

	result, err := engine.Grading.GradeMatch(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "grade match failed", "sport", string(sport), "match_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) FixStuck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixStuck")
	defer span.End()

	sport, err := sportFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req fixStuckRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	engine, ok := h.jobs.Engine(sport)
	if !ok || engine.Reconciliation == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconciliation is not enabled for %s", usecase.ErrDependencyUnavailable, sport))
		return
	}

	result, err := engine.Reconciliation.FixStuckMatches(ctx, time.Duration(req.MaxHoursLive)*time.Hour)
	if err != nil {
		h.logger.ErrorContext(ctx, "fix stuck matches failed", "sport", string(sport), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ReloadBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadBlacklist")
	defer span.End()

	if h.blacklist == nil {
		writeError(ctx, w, fmt.Errorf("%w: blacklist is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	count, err := h.blacklist.Reload(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reload blacklist failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"entries": count})
}
