package apisports

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
)

const defaultFootballBaseURL = "https://v3.football.api-sports.io"

// FootballProvider reads API-Football fixtures.
type FootballProvider struct {
	client   *Client
	location *time.Location
	now      func() time.Time
}

var _ usecase.MatchProvider = (*FootballProvider)(nil)

func NewFootballProvider(client *Client, location *time.Location) *FootballProvider {
	if client.baseURL == "" {
		client.baseURL = defaultFootballBaseURL
	}
	if location == nil {
		location = time.UTC
	}
	return &FootballProvider{client: client, location: location, now: time.Now}
}

func (p *FootballProvider) Sport() match.Sport {
	return match.SportFootball
}

func (p *FootballProvider) FetchByDate(ctx context.Context, date time.Time) ([]match.Match, error) {
	query := url.Values{}
	query.Set("date", date.In(p.location).Format(time.DateOnly))
	query.Set("timezone", p.location.String())
	items, err := getJSON[FootballFixture](ctx, p.client, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch football fixtures date=%s: %w", query.Get("date"), err)
	}
	return p.transform(items), nil
}

func (p *FootballProvider) FetchLive(ctx context.Context) ([]match.Match, error) {
	query := url.Values{}
	query.Set("live", "all")
	items, err := getJSON[FootballFixture](ctx, p.client, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch live football fixtures: %w", err)
	}
	return p.transform(items), nil
}

func (p *FootballProvider) FetchByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))
	items, err := getJSON[FootballFixture](ctx, p.client, "/fixtures", query)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("fetch football fixture id=%d: %w", id, err)
	}
	for _, m := range p.transform(items) {
		if m.ID == id {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (p *FootballProvider) transform(items []FootballFixture) []match.Match {
	now := p.now()
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, TransformFootballFixture(item, now))
	}
	return out
}
