package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/puckline/internal/alias"
)

const eventListPayload = `{
	"events": [
		{
			"eventId": 900001,
			"startTime": "2026-01-15T00:00:00Z",
			"homeParticipant": "Boston Bruins",
			"awayParticipant": "Montréal Canadiens",
			"tournament": {"name": "USA - NHL"},
			"mainMarket": {"selections": [
				{"selectionValue": "H", "selectionOdds": 1.85},
				{"selectionValue": "D", "selectionOdds": 4.2},
				{"selectionValue": "A", "selectionOdds": 3.6}
			]}
		},
		{
			"eventId": 900002,
			"startTime": "2026-01-15T02:00:00Z",
			"homeParticipant": "Utah Mammoth",
			"awayParticipant": "Vegas Golden Knights",
			"tournament": {"name": "USA - NHL"},
			"mainMarket": {"selections": [
				{"selectionValue": "H", "selectionOdds": 2.5},
				{"selectionValue": "A", "selectionOdds": 2.1}
			]}
		},
		{
			"eventId": 900003,
			"startTime": "2026-01-15T19:00:00Z",
			"homeParticipant": "Frölunda HC",
			"awayParticipant": "Färjestad BK",
			"tournament": {"name": "Sweden - SHL"},
			"mainMarket": {"selections": []}
		}
	]
}`

func newOddsTestServer(requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt32(requests, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(eventListPayload))
	}))
}

func TestUpcomingMatchupsFiltersAndParses(t *testing.T) {
	server := newOddsTestServer(nil)
	defer server.Close()

	oc := NewOddsClient(server.URL, "key", newTestClient(), alias.New(), time.Minute, discardLogger())
	matchups, err := oc.UpcomingMatchups(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, matchups, 2, "non-NHL tournaments must be dropped")

	first := matchups[0]
	assert.Equal(t, "900001", first.EventID)
	assert.Equal(t, "BOS", first.HomeAbbr)
	assert.Equal(t, "MTL", first.AwayAbbr)
	require.NotNil(t, first.OddsHome)
	require.NotNil(t, first.OddsDraw)
	require.NotNil(t, first.OddsAway)
	assert.InDelta(t, 1.85, *first.OddsHome, 1e-9)
	assert.InDelta(t, 4.2, *first.OddsDraw, 1e-9)
	assert.InDelta(t, 3.6, *first.OddsAway, 1e-9)

	second := matchups[1]
	assert.Equal(t, "ARI", second.HomeAbbr, "renamed franchise maps to its training-time code")
	assert.Equal(t, "VGK", second.AwayAbbr)
	assert.Nil(t, second.OddsDraw, "absent legs stay nil, never zero")
}

func TestUpcomingMatchupsUnresolvableTeam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events": [{
			"eventId": 900010,
			"startTime": "2026-01-16T00:00:00Z",
			"homeParticipant": "Atlantis Krakens",
			"awayParticipant": "Boston Bruins",
			"tournament": {"name": "USA - NHL"},
			"mainMarket": {"selections": [
				{"selectionValue": "H", "selectionOdds": 2.0},
				{"selectionValue": "A", "selectionOdds": 1.9}
			]}
		}]}`))
	}))
	defer server.Close()

	oc := NewOddsClient(server.URL, "key", newTestClient(), alias.New(), time.Minute, discardLogger())
	matchups, err := oc.UpcomingMatchups(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, matchups, 1)
	assert.Empty(t, matchups[0].HomeAbbr)
	assert.Equal(t, "BOS", matchups[0].AwayAbbr)
}

func TestUpcomingMatchupsCaches(t *testing.T) {
	var requests int32
	server := newOddsTestServer(&requests)
	defer server.Close()

	oc := NewOddsClient(server.URL, "key", newTestClient(), alias.New(), time.Minute, discardLogger())
	_, err := oc.UpcomingMatchups(context.Background(), 2)
	require.NoError(t, err)
	_, err = oc.UpcomingMatchups(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestUpcomingMatchupsIgnoresNonPositiveOdds(t *testing.T) {
	ev := bookmakerEvent{EventID: 1}
	ev.Tournament.Name = nhlTournamentName
	ev.MainMarket.Selections = []bookmakerSelection{
		{SelectionValue: "H", SelectionOdds: 0},
		{SelectionValue: "A", SelectionOdds: -1.5},
	}

	oc := &OddsClient{resolver: alias.New(), logger: discardLogger()}
	m := oc.toMatchup(ev)

	assert.Nil(t, m.OddsHome)
	assert.Nil(t, m.OddsAway)
}
