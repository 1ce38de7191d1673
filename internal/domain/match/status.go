package match

import "strings"

type codeSet struct {
	scheduled map[string]struct{}
	live      map[string]struct{}
	finished  map[string]struct{}
	postponed map[string]struct{}
	finish    string
	postpone  string
}

func newSet(codes ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		out[code] = struct{}{}
	}
	return out
}

var codeSets = map[Sport]codeSet{
	SportFootball: {
		scheduled: newSet("TBD", "NS"),
		live:      newSet("1H", "HT", "2H", "ET", "BT", "P", "SUSP", "INT", "LIVE"),
		finished:  newSet("FT", "AET", "PEN"),
		postponed: newSet("PST", "CANC", "ABD", "AWD", "WO"),
		finish:    "FT",
		postpone:  "PST",
	},
	SportBasketball: {
		scheduled: newSet("NS"),
		live:      newSet("Q1", "Q2", "Q3", "Q4", "OT", "BT", "HT"),
		finished:  newSet("FT", "AOT"),
		postponed: newSet("POST", "CANC", "SUSP", "AWD", "ABD"),
		finish:    "FT",
		postpone:  "POST",
	},
}

// Classify maps a provider short code to the coarse status. Unknown codes
// are treated as scheduled so they never count as live.
func Classify(sport Sport, short string) Status {
	set, ok := codeSets[sport]
	if !ok {
		return StatusScheduled
	}
	code := strings.ToUpper(strings.TrimSpace(short))
	if _, ok := set.live[code]; ok {
		return StatusLive
	}
	if _, ok := set.finished[code]; ok {
		return StatusFinished
	}
	if _, ok := set.postponed[code]; ok {
		return StatusPostponed
	}
	return StatusScheduled
}

func IsLiveCode(sport Sport, short string) bool {
	return Classify(sport, short) == StatusLive
}

func IsFinishedCode(sport Sport, short string) bool {
	return Classify(sport, short) == StatusFinished
}

// FinishedCode is the short code written when a stuck match is closed with a score.
func FinishedCode(sport Sport) string {
	if set, ok := codeSets[sport]; ok {
		return set.finish
	}
	return "FT"
}

// PostponedCode is the short code written when a stuck match has no score.
func PostponedCode(sport Sport) string {
	if set, ok := codeSets[sport]; ok {
		return set.postpone
	}
	return "PST"
}

// LiveCodes lists the live short codes for a sport, used by adapters whose
// provider has no native live filter.
func LiveCodes(sport Sport) []string {
	set, ok := codeSets[sport]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set.live))
	for code := range set.live {
		out = append(out, code)
	}
	return out
}
