package scraper

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_ListRecentMatches_ParsesPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/matches", r.URL.Path)
		require.Equal(t, "brisbane-heat", r.URL.Query().Get("club"))
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[{"match_id":"m1","club":"brisbane-heat","played_at":1700000000}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 0})
	matches, err := c.ListRecentMatches(t.Context(), "brisbane-heat", time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "m1", matches[0].MatchID)
	require.Equal(t, "brisbane-heat", matches[0].Club)
}

func TestClient_FetchScorecard_ParsesAllFacets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/matches/m1/scorecard", r.URL.Path)
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{
			"batting":[{"player_name":"J. Smith","runs":105,"balls_faced":84,"dismissed":false}],
			"bowling":[{"player_name":"A. Khan","balls_bowled":24,"runs_conceded":18,"wickets":5,"maidens":1}],
			"fielding":[{"player_name":"J. Smith","catches":2,"stumpings":0,"runouts":1}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	sc, err := c.FetchScorecard(t.Context(), "m1")
	require.NoError(t, err)
	require.Equal(t, "m1", sc.MatchID)
	require.Len(t, sc.Batting, 1)
	require.Equal(t, 105, sc.Batting[0].Runs)
	require.Len(t, sc.Bowling, 1)
	require.Equal(t, 5, sc.Bowling[0].Wickets)
	require.Len(t, sc.Fielding, 1)
	require.Equal(t, 2, sc.Fielding[0].Catches)
}

func TestClient_FetchScorecard_RequiresMatchID(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{BaseURL: "http://example.invalid"})
	_, err := c.FetchScorecard(t.Context(), "")
	require.Error(t, err)
}

func TestClient_ExecuteRequest_RetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 2})
	matches, err := c.ListRecentMatches(t.Context(), "brisbane-heat", time.Unix(0, 0))
	require.NoError(t, err)
	require.Empty(t, matches)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_ExecuteRequest_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3})
	_, err := c.ListRecentMatches(t.Context(), "brisbane-heat", time.Unix(0, 0))
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}
