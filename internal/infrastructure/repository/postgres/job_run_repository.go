package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/matchday-engine/internal/platform/querybuilder"
)

type JobRunRepository struct {
	db *sqlx.DB
}

func NewJobRunRepository(db *sqlx.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

func (r *JobRunRepository) UpsertEvent(ctx context.Context, event jobscheduler.RunEvent) error {
	runID := strings.TrimSpace(event.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	trigger := strings.TrimSpace(event.Trigger)
	if trigger == "" {
		trigger = "unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal job run payload: %w", err)
	}

	model := jobRunInsertModel{
		RunID:     runID,
		JobName:   jobName,
		Trigger:   trigger,
		Payload:   payloadJSON,
		Status:    string(event.Status),
		LastError: optionalString(event.ErrorMessage),
		UpdatedAt: occurredAt,
	}

	switch event.Status {
	case jobscheduler.StatusStarted:
		model.StartedAt = &occurredAt
		model.StartedTraceID = optionalString(event.TraceID)
		model.StartedSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusCompleted, jobscheduler.StatusSkipped:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
	}

	query, args, err := qb.InsertModel("job_runs", model, `ON CONFLICT (run_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    trigger = EXCLUDED.trigger,
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    started_at = CASE
        WHEN EXCLUDED.status = 'started' THEN EXCLUDED.started_at
        ELSE COALESCE(job_runs.started_at, EXCLUDED.started_at)
    END,
    completed_at = CASE
        WHEN EXCLUDED.status IN ('completed', 'skipped') THEN EXCLUDED.completed_at
        ELSE job_runs.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status IN ('completed', 'skipped') THEN NULL
        ELSE job_runs.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    started_trace_id = CASE
        WHEN EXCLUDED.status = 'started' THEN EXCLUDED.started_trace_id
        ELSE job_runs.started_trace_id
    END,
    started_span_id = CASE
        WHEN EXCLUDED.status = 'started' THEN EXCLUDED.started_span_id
        ELSE job_runs.started_span_id
    END,
    completed_trace_id = CASE
        WHEN EXCLUDED.status IN ('completed', 'skipped') THEN EXCLUDED.completed_trace_id
        ELSE job_runs.completed_trace_id
    END,
    completed_span_id = CASE
        WHEN EXCLUDED.status IN ('completed', 'skipped') THEN EXCLUDED.completed_span_id
        ELSE job_runs.completed_span_id
    END,
    failed_trace_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_trace_id
        ELSE job_runs.failed_trace_id
    END,
    failed_span_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_span_id
        ELSE job_runs.failed_span_id
    END,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert job run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job run run_id=%s status=%s: %w", runID, event.Status, err)
	}

	return nil
}

func (r *JobRunRepository) ListRecent(ctx context.Context, limit int) ([]jobscheduler.RunEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := qb.Select(
		"run_id",
		"job_name",
		"trigger",
		"payload::text AS payload",
		"status",
		"last_error",
		"COALESCE(failed_trace_id, completed_trace_id, started_trace_id) AS trace_id",
		"COALESCE(failed_span_id, completed_span_id, started_span_id) AS span_id",
		"updated_at",
	).From("job_runs").
		OrderBy("updated_at DESC", "run_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list job runs query: %w", err)
	}

	var rows []jobRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select job runs: %w", err)
	}

	out := make([]jobscheduler.RunEvent, 0, len(rows))
	for _, row := range rows {
		event := jobscheduler.RunEvent{
			RunID:      row.RunID,
			JobName:    row.JobName,
			Trigger:    row.Trigger,
			Status:     jobscheduler.RunStatus(row.Status),
			OccurredAt: row.UpdatedAt.UTC(),
		}
		if row.LastError != nil {
			event.ErrorMessage = *row.LastError
		}
		if row.TraceID != nil {
			event.TraceID = *row.TraceID
		}
		if row.SpanID != nil {
			event.SpanID = *row.SpanID
		}
		if row.Payload != "" && row.Payload != "{}" {
			var payload map[string]any
			if err := sonic.UnmarshalString(row.Payload, &payload); err == nil {
				event.Payload = payload
			}
		}
		out = append(out, event)
	}
	return out, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
