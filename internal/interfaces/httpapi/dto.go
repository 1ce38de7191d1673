package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/platform/id"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

type teamDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Winner *bool  `json:"winner"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Logo    string `json:"logo,omitempty"`
	Season  int    `json:"season"`
	Round   string `json:"round,omitempty"`
}

type scoreDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type matchDTO struct {
	ID          int64               `json:"id"`
	Sport       string              `json:"sport"`
	Date        string              `json:"date"`
	Timestamp   int64               `json:"timestamp"`
	Status      string              `json:"status"`
	StatusShort string              `json:"status_short"`
	StatusLong  string              `json:"status_long,omitempty"`
	Elapsed     *int                `json:"elapsed"`
	IsLive      bool                `json:"is_live"`
	Home        teamDTO             `json:"home"`
	Away        teamDTO             `json:"away"`
	Score       scoreDTO            `json:"score"`
	Fulltime    scoreDTO            `json:"fulltime"`
	Periods     map[string]scoreDTO `json:"periods,omitempty"`
	League      leagueDTO           `json:"league"`
	Venue       string              `json:"venue,omitempty"`
	LastUpdated string              `json:"last_updated,omitempty"`
}

func matchToDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:          m.ID,
		Sport:       string(m.Sport),
		Date:        m.Date.UTC().Format(time.RFC3339),
		Timestamp:   m.Timestamp,
		Status:      string(m.Status),
		StatusShort: m.StatusShort,
		StatusLong:  m.StatusLong,
		Elapsed:     m.Elapsed,
		IsLive:      m.IsLive,
		Home:        teamDTO{ID: m.Home.ID, Name: m.Home.Name, Logo: m.Home.Logo, Winner: m.Home.Winner},
		Away:        teamDTO{ID: m.Away.ID, Name: m.Away.Name, Logo: m.Away.Logo, Winner: m.Away.Winner},
		Score:       scoreDTO{Home: m.HomeScore, Away: m.AwayScore},
		Fulltime:    scoreDTO{Home: m.FulltimeHome, Away: m.FulltimeAway},
		League: leagueDTO{
			ID:      m.League.ID,
			Name:    m.League.Name,
			Country: m.League.Country,
			Logo:    m.League.Logo,
			Season:  m.League.Season,
			Round:   m.League.Round,
		},
		Venue: m.Venue,
	}
	if !m.LastUpdated.IsZero() {
		out.LastUpdated = m.LastUpdated.UTC().Format(time.RFC3339)
	}
	if len(m.Periods) > 0 {
		out.Periods = make(map[string]scoreDTO, len(m.Periods))
		for name, period := range m.Periods {
			out.Periods[name] = scoreDTO{Home: period.Home, Away: period.Away}
		}
	}
	return out
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

type jobRunDTO struct {
	RunID      string         `json:"run_id"`
	Job        string         `json:"job"`
	Trigger    string         `json:"trigger"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	StartedAt  string         `json:"started_at,omitempty"`
	OccurredAt string         `json:"occurred_at"`
	TraceID    string         `json:"trace_id,omitempty"`
}

func jobRunToDTO(event jobscheduler.RunEvent) jobRunDTO {
	var startedAt string
	if at, ok := id.CreatedAt(event.RunID); ok {
		startedAt = at.Format(time.RFC3339)
	}
	return jobRunDTO{
		StartedAt:  startedAt,
		RunID:      event.RunID,
		Job:        event.JobName,
		Trigger:    event.Trigger,
		Status:     string(event.Status),
		Error:      event.ErrorMessage,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339),
		TraceID:    event.TraceID,
	}
}

type jobsOverviewDTO struct {
	State  []usecase.JobStatus `json:"state"`
	Recent []jobRunDTO         `json:"recent"`
}
