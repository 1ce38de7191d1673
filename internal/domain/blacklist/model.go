package blacklist

import (
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
)

// Entry is a match known to be permanently broken upstream.
type Entry struct {
	Sport     match.Sport
	MatchID   int64
	Reason    string
	CreatedAt time.Time
}

// Key identifies a match across sports; provider ids are only unique per sport.
type Key struct {
	Sport   match.Sport
	MatchID int64
}

// Set is an immutable deny-list snapshot.
type Set map[Key]struct{}

func NewSet(entries ...Entry) Set {
	out := make(Set, len(entries))
	for _, e := range entries {
		out[Key{Sport: e.Sport, MatchID: e.MatchID}] = struct{}{}
	}
	return out
}

func (s Set) Contains(sport match.Sport, matchID int64) bool {
	_, ok := s[Key{Sport: sport, MatchID: matchID}]
	return ok
}
