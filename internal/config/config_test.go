package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-badminton-tracker/internal/bootstrap"
	"github.com/pable/go-badminton-tracker/internal/model"
)

func TestResolve(t *testing.T) {
	t.Setenv(EnvState, "/env/state.json")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvBootstrap, "https://example.com/data.json")
	t.Setenv(EnvAPIKey, "sk-test")

	c := Config{StatePath: "/flag/state.json"}.Resolve()
	assert.Equal(t, "/flag/state.json", c.StatePath, "flag wins over env")
	assert.Equal(t, filepath.Join(DataDir(), "archive.db"), c.DBPath, "default when both are empty")
	assert.Equal(t, "https://example.com/data.json", c.Bootstrap)
	assert.Equal(t, "sk-test", c.APIKey)

	c = Config{}.Resolve()
	assert.Equal(t, "/env/state.json", c.StatePath)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BMTRACK_ROSTER=/from/dotenv.json\n"), 0o644))

	t.Setenv(EnvRoster, "")
	os.Unsetenv(EnvRoster)
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/from/dotenv.json", os.Getenv(EnvRoster))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"male": ["Bob"], "female": ["Ann"]}`), 0o644))

	r, err := LoadRoster(path)
	require.NoError(t, err)
	assert.Equal(t, model.GenderMale, r.GenderOf("Bob"))
	assert.Equal(t, model.GenderFemale, r.GenderOf("Ann"))
	assert.Equal(t, model.GenderUnknown, r.GenderOf("Zed"))

	require.NoError(t, os.WriteFile(path, []byte(`[`), 0o644))
	_, err = LoadRoster(path)
	assert.Error(t, err)
}

func TestDefaultRosterCoversSchedule(t *testing.T) {
	r := DefaultRoster()
	for _, m := range bootstrap.DefaultMatches() {
		for _, p := range m.Players() {
			assert.NotEqual(t, model.GenderUnknown, r.GenderOf(p), p)
		}
	}
	// Every women's doubles pairing is all-female.
	for _, m := range bootstrap.DefaultMatches() {
		if m.Category != model.CategoryWomens {
			continue
		}
		for _, p := range m.Players() {
			assert.Equal(t, model.GenderFemale, r.GenderOf(p), "%s in %s", p, m.ID)
		}
	}
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, model.GenderFemale, g)
	_, err = ParseGender("x")
	assert.Error(t, err)
}
