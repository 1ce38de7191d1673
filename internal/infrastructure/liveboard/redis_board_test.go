package liveboard

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

func TestSnapshotCodec(t *testing.T) {
	t.Parallel()

	elapsed := 67
	in := Snapshot{
		Sport:       match.SportFootball,
		PublishedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
		Matches: []match.Match{{
			ID:          1208021,
			Sport:       match.SportFootball,
			Status:      match.StatusLive,
			StatusShort: "2H",
			IsLive:      true,
			Elapsed:     &elapsed,
			HomeScore:   match.IntPtr(1),
			AwayScore:   match.IntPtr(1),
		}},
	}

	raw, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Sport != in.Sport || !out.PublishedAt.Equal(in.PublishedAt) {
		t.Fatalf("unexpected header: %+v", out)
	}
	if len(out.Matches) != 1 || out.Matches[0].Elapsed == nil || *out.Matches[0].Elapsed != 67 {
		t.Fatalf("unexpected matches: %+v", out.Matches)
	}
}

func TestEncodeSnapshot_EmptySetIsArray(t *testing.T) {
	t.Parallel()

	raw, err := EncodeSnapshot(Snapshot{Sport: match.SportBasketball})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Matches == nil || len(out.Matches) != 0 {
		t.Fatalf("expected empty non-nil matches, got %#v", out.Matches)
	}
}

func TestRedisBoard_UnreachableServerReturnsError(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	board := NewRedisBoard(client, time.Minute, nil)
	if _, ok, err := board.ReadLive(context.Background(), match.SportFootball); err == nil || ok {
		t.Fatalf("expected read error, got ok=%v err=%v", ok, err)
	}
	if err := board.PublishLive(context.Background(), match.SportFootball, nil); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestKeysAreSportScoped(t *testing.T) {
	t.Parallel()

	if SnapshotKey(match.SportFootball) == SnapshotKey(match.SportBasketball) {
		t.Fatalf("expected distinct snapshot keys")
	}
	if Channel(match.SportFootball) != "matchday:live-updates:football" {
		t.Fatalf("unexpected channel: %s", Channel(match.SportFootball))
	}
}
