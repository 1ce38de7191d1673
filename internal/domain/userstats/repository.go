package userstats

import "context"

type Repository interface {
	GetByEmail(ctx context.Context, email string) (Stats, bool, error)
	// Apply runs fold on the stored row, or on a zero row for a new email,
	// and persists the result. Concurrent Apply calls for one email are
	// serialized so no fold is lost.
	Apply(ctx context.Context, email string, fold func(Stats) Stats) (Stats, error)
}
