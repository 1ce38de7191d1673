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

const defaultBasketballBaseURL = "https://v1.basketball.api-sports.io"

// BasketballProvider reads API-Basketball games. The provider has no live
// filter, so live games are today's games narrowed to the live codes.
type BasketballProvider struct {
	client   *Client
	location *time.Location
	now      func() time.Time
}

var _ usecase.MatchProvider = (*BasketballProvider)(nil)

func NewBasketballProvider(client *Client, location *time.Location) *BasketballProvider {
	if client.baseURL == "" {
		client.baseURL = defaultBasketballBaseURL
	}
	if location == nil {
		location = time.UTC
	}
	return &BasketballProvider{client: client, location: location, now: time.Now}
}

func (p *BasketballProvider) Sport() match.Sport {
	return match.SportBasketball
}

func (p *BasketballProvider) FetchByDate(ctx context.Context, date time.Time) ([]match.Match, error) {
	query := url.Values{}
	query.Set("date", date.In(p.location).Format(time.DateOnly))
	query.Set("timezone", p.location.String())
	items, err := getJSON[BasketballGame](ctx, p.client, "/games", query)
	if err != nil {
		return nil, fmt.Errorf("fetch basketball games date=%s: %w", query.Get("date"), err)
	}
	return p.transform(items), nil
}

func (p *BasketballProvider) FetchLive(ctx context.Context) ([]match.Match, error) {
	today, err := p.FetchByDate(ctx, p.now())
	if err != nil {
		return nil, err
	}
	out := today[:0]
	for _, m := range today {
		if m.IsLive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *BasketballProvider) FetchByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))
	items, err := getJSON[BasketballGame](ctx, p.client, "/games", query)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("fetch basketball game id=%d: %w", id, err)
	}
	for _, m := range p.transform(items) {
		if m.ID == id {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (p *BasketballProvider) transform(items []BasketballGame) []match.Match {
	now := p.now()
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, TransformBasketballGame(item, now))
	}
	return out
}
