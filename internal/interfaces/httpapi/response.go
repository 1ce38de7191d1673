package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday-engine/internal/platform/tracing"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "matchday-engine"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

// googleListData is the collection shape: clients read data.items and
// never a bare array.
type googleListData[T any] struct {
	Kind             string `json:"kind"`
	CurrentItemCount int    `json:"currentItemCount"`
	Items            []T    `json:"items"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorMappings is checked in order; the first match wins.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	{usecase.ErrStoreNotConfigured, mappedError{http.StatusServiceUnavailable, "storeNotConfigured", "UNAVAILABLE"}},
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeList wraps items in data.items. A nil slice is sent as [].
func writeList[T any](ctx context.Context, w http.ResponseWriter, kind string, items []T) {
	if items == nil {
		items = []T{}
	}
	writeSuccess(ctx, w, http.StatusOK, googleListData[T]{
		Kind:             kind,
		CurrentItemCount: len(items),
		Items:            items,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	writeErrorBody(ctx, w, mapped, err.Error())
}

// writeInternalError hides the cause from the client.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, internalError, "internal server error")
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, mapped mappedError, msg string) {
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		tracing.Fail(trace.SpanFromContext(ctx), errors.New(msg))
	}
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: msg,
			}},
		},
	})
}

func mapError(_ context.Context, err error) mappedError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.mapped
		}
	}
	return internalError
}
