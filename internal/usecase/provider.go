package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

// MatchProvider is one upstream data source for a single sport. Returned
// matches are already transformed into the canonical shape.
type MatchProvider interface {
	Sport() match.Sport
	FetchByDate(ctx context.Context, date time.Time) ([]match.Match, error)
	FetchLive(ctx context.Context) ([]match.Match, error)
	// FetchByID reports ok=false when the provider has no such match.
	FetchByID(ctx context.Context, id int64) (match.Match, bool, error)
}
