package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/bootstrap"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/parser"
	"github.com/pable/go-badminton-tracker/internal/state"
)

func newTestServer(t *testing.T) (*httptest.Server, *state.Tracker) {
	t.Helper()
	tr := state.New(bootstrap.Default(), &state.MemStore{}, zap.NewNop())
	srv := httptest.NewServer(New(tr, zap.NewNop()).Routes())
	t.Cleanup(srv.Close)
	return srv, tr
}

func do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestDocumentIsBootstrapCompatible(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/data.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := parser.DecodeBytes(body)
	require.NoError(t, err)
	assert.Len(t, doc.Matches, 17)
	assert.Equal(t, bootstrap.DefaultEventName, doc.EventName)
}

func TestMatchesByCourt(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/api/matches?court=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ms []model.MatchRecord
	require.NoError(t, json.Unmarshal(body, &ms))
	assert.Len(t, ms, 5)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/matches?court=zero", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetAndClearScore(t *testing.T) {
	srv, tr := newTestServer(t)

	resp, body := do(t, http.MethodPut, srv.URL+"/api/matches/m1/score", `{"scoreA":[21,21],"scoreB":[15,18]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var m model.MatchRecord
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, model.StatusFinished, m.Status)
	assert.Equal(t, 1, tr.PlayerStats()["林锋"].Total)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/analysis?player="+url.QueryEscape("林锋"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a model.Analysis
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, 1, a.Summary.Wins)
	assert.Equal(t, 100, a.Summary.WinRate)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/matches/m1/score", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, model.StatusPending, m.Status)
	assert.Empty(t, tr.PlayerStats())
}

func TestScoreErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodPut, srv.URL+"/api/matches/nope/score", `{"scoreA":[1,0],"scoreB":[0,0]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/matches/m1/score", `{"scoreA":[-1,0]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/matches/m1/score", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetScore_BodyTooLarge(t *testing.T) {
	srv, tr := newTestServer(t)

	body := `{"scoreA":[21,21],"scoreB":[3,4],"note":"` + strings.Repeat("x", 2*maxScoreBody) + `"}`
	resp, data := do(t, http.MethodPut, srv.URL+"/api/matches/m1/score", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, string(data), `"error"`)

	m, err := tr.Match("m1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, m.Status)
}

func TestOverviewAndStats(t *testing.T) {
	srv, tr := newTestServer(t)
	_, err := tr.SetScore("m2", model.Score{5, 0}, model.Score{3, 0})
	require.NoError(t, err)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/overview", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ov model.Overview
	require.NoError(t, json.Unmarshal(body, &ov))
	assert.Equal(t, model.Overview{TotalMatches: 17, InProgress: 1, Pending: 16, CourtCount: 3}, ov)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))
}
