package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/alias"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
)

const (
	oddsProviderName = "bookmaker"

	// nhlTournamentName filters the bookmaker event list down to the league
	// this model was trained on.
	nhlTournamentName = "USA - NHL"
)

type eventListResponse struct {
	Events []bookmakerEvent `json:"events"`
}

type bookmakerEvent struct {
	EventID         int64  `json:"eventId"`
	StartTime       string `json:"startTime"`
	HomeParticipant string `json:"homeParticipant"`
	AwayParticipant string `json:"awayParticipant"`
	Tournament      struct {
		Name string `json:"name"`
	} `json:"tournament"`
	MainMarket struct {
		Selections []bookmakerSelection `json:"selections"`
	} `json:"mainMarket"`
}

type bookmakerSelection struct {
	SelectionValue string  `json:"selectionValue"`
	SelectionOdds  float64 `json:"selectionOdds"`
}

// OddsClient fetches upcoming matchups with three-way odds from the
// bookmaker feed. Event lists are cached per window with a short TTL.
type OddsClient struct {
	baseURL  string
	apiKey   string
	client   *Client
	resolver *alias.Resolver
	cache    *gocache.Cache
	logger   *logrus.Logger
}

// NewOddsClient creates a bookmaker feed client.
func NewOddsClient(baseURL, apiKey string, client *Client, resolver *alias.Resolver, cacheTTL time.Duration, logger *logrus.Logger) *OddsClient {
	return &OddsClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   client,
		resolver: resolver,
		cache:    gocache.New(cacheTTL, 2*cacheTTL),
		logger:   logger,
	}
}

// UpcomingMatchups returns NHL matchups starting within the next daysAhead
// days. Matchups whose team names fail to resolve keep an empty abbreviation
// so downstream stages can decide whether to skip them.
func (o *OddsClient) UpcomingMatchups(ctx context.Context, daysAhead int) ([]models.Matchup, error) {
	cacheKey := "upcoming:" + strconv.Itoa(daysAhead)
	if cached, ok := o.cache.Get(cacheKey); ok {
		return cached.([]models.Matchup), nil
	}

	var resp eventListResponse
	url := fmt.Sprintf("%s/events/upcoming?days=%d&apiKey=%s", o.baseURL, daysAhead, o.apiKey)
	if err := o.client.GetJSON(ctx, oddsProviderName, url, &resp); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(oddsProviderName, "error").Inc()
		return nil, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues(oddsProviderName, "ok").Inc()

	matchups := make([]models.Matchup, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if ev.Tournament.Name != nhlTournamentName {
			continue
		}
		matchups = append(matchups, o.toMatchup(ev))
	}

	o.cache.Set(cacheKey, matchups, gocache.DefaultExpiration)
	return matchups, nil
}

func (o *OddsClient) toMatchup(ev bookmakerEvent) models.Matchup {
	m := models.Matchup{
		EventID:   strconv.FormatInt(ev.EventID, 10),
		StartTime: ev.StartTime,
		Home:      ev.HomeParticipant,
		Away:      ev.AwayParticipant,
	}

	for _, sel := range ev.MainMarket.Selections {
		odds := sel.SelectionOdds
		if odds <= 0 {
			continue
		}
		v := odds
		switch sel.SelectionValue {
		case "H", "1":
			m.OddsHome = &v
		case "D", "X":
			m.OddsDraw = &v
		case "A", "2":
			m.OddsAway = &v
		}
	}

	m.HomeAbbr = o.resolveAbbr(ev.HomeParticipant, ev.EventID)
	m.AwayAbbr = o.resolveAbbr(ev.AwayParticipant, ev.EventID)
	return m
}

// resolveAbbr maps a bookmaker participant name to the canonical code,
// logging and returning "" on failure rather than guessing a team.
func (o *OddsClient) resolveAbbr(name string, eventID int64) string {
	abbr, err := o.resolver.Canonical(name)
	if err != nil {
		o.logger.WithFields(logrus.Fields{
			"event_id": eventID,
			"team":     name,
		}).Warn("unresolvable bookmaker team name")
		return ""
	}
	return abbr
}
