package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/bootstrap"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/state"
)

func TestParseScores(t *testing.T) {
	a, b, err := parseScores([]string{"21", "19", "15", "21"})
	require.NoError(t, err)
	assert.Equal(t, model.Score{21, 19}, a)
	assert.Equal(t, model.Score{15, 21}, b)

	_, _, err = parseScores([]string{"21", "-1", "0", "0"})
	assert.True(t, errors.Is(err, state.ErrNegativeScore))

	_, _, err = parseScores([]string{"21", "x", "0", "0"})
	assert.Error(t, err)

	_, _, err = parseScores([]string{"21", "19"})
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, model.CategoryMixed, parseCategory("Mixed"))
	assert.Equal(t, model.CategoryMens, parseCategory("mens"))
	assert.Equal(t, model.CategoryWomens, parseCategory("女双"))
	assert.Equal(t, model.Category("singles"), parseCategory("singles"))
}

func TestFilterMatches(t *testing.T) {
	matches := bootstrap.DefaultMatches()
	matches[0].ScoreA = model.Score{21, 0}
	matches[0].ScoreB = model.Score{18, 0}

	court2 := filterMatches(matches, 2, "", "")
	require.NotEmpty(t, court2)
	for _, m := range court2 {
		assert.Equal(t, 2, m.Court)
	}

	progress := filterMatches(matches, 0, "IN-PROGRESS", "")
	require.Len(t, progress, 1)
	assert.Equal(t, matches[0].ID, progress[0].ID)

	assert.Empty(t, filterMatches(matches, 0, "finished", ""))
	assert.Len(t, filterMatches(matches, 0, "", ""), len(matches))
}

func TestBuildEventContext(t *testing.T) {
	tr := state.New(bootstrap.Default(), &state.MemStore{}, zap.NewNop())
	first := tr.Snapshot().Matches[0]
	_, err := tr.SetScore(first.ID, model.Score{21, 21}, model.Score{10, 12})
	require.NoError(t, err)

	player := first.TeamA[0]
	out, err := buildEventContext(tr, player, nil)
	require.NoError(t, err)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	for _, key := range []string{"event", "overview", "matches", "player_stats", "records", "analysis", "focus_player"} {
		assert.Contains(t, data, key)
	}
	assert.NotContains(t, data, "career")

	var analysis model.Analysis
	require.NoError(t, json.Unmarshal(data["analysis"], &analysis))
	assert.Equal(t, 1, analysis.Summary.Wins)
	assert.Equal(t, 100, analysis.Summary.WinRate)
}
