package jobscheduler

import "context"

type Repository interface {
	UpsertEvent(ctx context.Context, event RunEvent) error
	ListRecent(ctx context.Context, limit int) ([]RunEvent, error)
}
