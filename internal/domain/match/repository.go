package match

import "context"

type Repository interface {
	// UpsertMany inserts or updates rows keyed by (sport, id). Stored rows
	// that are already finished or postponed are left unchanged and are not
	// counted.
	UpsertMany(ctx context.Context, items []Match) (int, error)
	Query(ctx context.Context, filter Filter) ([]Match, error)
	Delete(ctx context.Context, filter Filter) (int, error)
	GetByID(ctx context.Context, sport Sport, id int64) (Match, bool, error)
	// ApplyTerminal updates the row only while it is still live and returns
	// the stored row after the write. ok is false when nothing was updated.
	ApplyTerminal(ctx context.Context, sport Sport, id int64, patch TerminalPatch) (Match, bool, error)
}
