package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log, _ := test.NewNullLogger()

	cfg := config.Default()
	cfg.Game.Size = 4
	cfg.Game.MineCount = 2

	a, err := New(log, cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t)
	resp := request(t, http.MethodGet, srv.URL+"/v1/status", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionTokenRequired(t *testing.T) {
	srv := newTestServer(t)

	resp := request(t, http.MethodPost, srv.URL+"/v1/game", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		GameSessionId string `json:"game_session_id"`
		Token         string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.Token)

	flag := srv.URL + "/v1/game/" + created.GameSessionId + "/flag?row=0&col=0"

	resp = request(t, http.MethodPost, flag, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, http.MethodPost, flag, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, http.MethodPost, flag, created.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, http.MethodPost, flag+"&token="+created.Token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// reads stay public
	resp = request(t, http.MethodGet, srv.URL+"/v1/game/"+created.GameSessionId, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenBoundToSession(t *testing.T) {
	srv := newTestServer(t)

	ids := make([]string, 2)
	tokens := make([]string, 2)
	for i := range 2 {
		resp := request(t, http.MethodPost, srv.URL+"/v1/game", "")
		var created struct {
			GameSessionId string `json:"game_session_id"`
			Token         string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		ids[i], tokens[i] = created.GameSessionId, created.Token
	}

	resp := request(t, http.MethodDelete, srv.URL+"/v1/game/"+ids[0], tokens[1])
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, http.MethodDelete, srv.URL+"/v1/game/"+ids[0], tokens[0])
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestOutcomesWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)
	resp := request(t, http.MethodGet, srv.URL+"/v1/outcomes", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	srv := newTestServer(t)
	request(t, http.MethodPost, srv.URL+"/v1/game", "")

	resp := request(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sweeper_games_started_total 1")
	assert.Contains(t, string(body), "sweeper_active_sessions 1")
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Sessions.IdleTTL = config.Duration{Duration: time.Minute}

	a, err := New(log, cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp := request(t, http.MethodPost, srv.URL+"/v1/game", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, a.store.Len())

	assert.Zero(t, a.sweepOnce(time.Now()))
	assert.Equal(t, 1, a.sweepOnce(time.Now().Add(2*time.Minute)))
	assert.Zero(t, a.store.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(a.metrics.ActiveSessions))
}

func TestNewGameRejectsOversizedBoard(t *testing.T) {
	srv := newTestServer(t)
	resp := request(t, http.MethodPost, srv.URL+"/v1/game?size=100000&mine_count=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
