package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-engine/internal/domain/blacklist"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	qb "github.com/riskibarqy/matchday-engine/internal/platform/querybuilder"
)

type blacklistTableModel struct {
	Sport     string    `db:"sport"`
	MatchID   int64     `db:"match_id"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

type BlacklistRepository struct {
	db *sqlx.DB
}

func NewBlacklistRepository(db *sqlx.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (r *BlacklistRepository) List(ctx context.Context) ([]blacklist.Entry, error) {
	query, args, err := qb.Select("sport", "match_id", "COALESCE(reason, '') AS reason", "created_at").
		From("match_blacklist").
		OrderBy("sport", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select blacklist query: %w", err)
	}

	var rows []blacklistTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select blacklist: %w", err)
	}

	out := make([]blacklist.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, blacklist.Entry{
			Sport:     match.Sport(row.Sport),
			MatchID:   row.MatchID,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
