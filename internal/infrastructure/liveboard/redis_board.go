package liveboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

const defaultTTL = 2 * time.Minute

// Snapshot is the stored and published form of one sport's live set.
type Snapshot struct {
	Sport       match.Sport   `json:"sport"`
	PublishedAt time.Time     `json:"published_at"`
	Matches     []match.Match `json:"matches"`
}

// RedisBoard keeps the latest live set per sport under a TTL key and
// announces every refresh on a per-sport channel.
type RedisBoard struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time
}

func NewRedisBoard(client redis.Cmdable, ttl time.Duration, logger *logging.Logger) *RedisBoard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisBoard{
		client: client,
		ttl:    ttl,
		logger: logger.Named("liveboard"),
		now:    time.Now,
	}
}

func SnapshotKey(sport match.Sport) string {
	return "matchday:live:" + string(sport)
}

func Channel(sport match.Sport) string {
	return "matchday:live-updates:" + string(sport)
}

func (b *RedisBoard) PublishLive(ctx context.Context, sport match.Sport, items []match.Match) error {
	payload, err := EncodeSnapshot(Snapshot{
		Sport:       sport,
		PublishedAt: b.now().UTC(),
		Matches:     items,
	})
	if err != nil {
		return fmt.Errorf("encode live snapshot sport=%s: %w", sport, err)
	}

	pipe := b.client.TxPipeline()
	pipe.Set(ctx, SnapshotKey(sport), payload, b.ttl)
	pipe.Publish(ctx, Channel(sport), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish live snapshot sport=%s: %w", sport, err)
	}

	b.logger.DebugContext(ctx, "live snapshot published", "sport", sport, "count", len(items))
	return nil
}

// ReadLive reports false when no snapshot is stored or it has expired.
func (b *RedisBoard) ReadLive(ctx context.Context, sport match.Sport) ([]match.Match, bool, error) {
	raw, err := b.client.Get(ctx, SnapshotKey(sport)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read live snapshot sport=%s: %w", sport, err)
	}

	snapshot, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode live snapshot sport=%s: %w", sport, err)
	}
	return snapshot.Matches, true, nil
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Matches == nil {
		s.Matches = []match.Match{}
	}
	return sonic.Marshal(s)
}

func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var s Snapshot
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
