package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

const (
	dateLayout    = "2006-01-02"
	matchListKind = "matchday#matchList"
)

func (h *Handler) ListMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByDate")
	defer span.End()

	sport, err := sportFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	loc := h.matches.Location()
	date := h.now().In(loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err = time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput))
			return
		}
	}

	items, err := h.matches.ListByDate(ctx, sport, date)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches by date failed", "sport", string(sport), "date", date.Format(dateLayout), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, matchListKind, matchesToDTO(items))
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	sport, err := sportFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matches.ListLive(ctx, sport)
	if err != nil {
		h.logger.ErrorContext(ctx, "list live matches failed", "sport", string(sport), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeList(ctx, w, matchListKind, matchesToDTO(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
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

	item, err := h.matches.GetByID(ctx, sport, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}
