// Package config resolves file locations and credentials from flags, the
// environment and an optional .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/pable/go-badminton-tracker/internal/model"
)

// Environment variables consulted when a flag is left empty.
const (
	EnvState     = "BMTRACK_STATE"
	EnvDB        = "BMTRACK_DB"
	EnvBootstrap = "BMTRACK_BOOTSTRAP"
	EnvRoster    = "BMTRACK_ROSTER"
	EnvLogFile   = "BMTRACK_LOG_FILE"
	EnvAPIKey    = "ANTHROPIC_API_KEY"
)

// Config holds resolved settings.
type Config struct {
	StatePath string
	DBPath    string
	Bootstrap string
	Roster    string
	LogFile   string
	APIKey    string
	Verbose   bool
}

// LoadDotEnv loads variables from path (default ".env") without overriding
// ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// DataDir is ~/.bmtrack, or the working directory when no home is known.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bmtrack"
	}
	return filepath.Join(home, ".bmtrack")
}

// Resolve fills every empty field from the environment, then from the
// defaults under DataDir.
func (c Config) Resolve() Config {
	c.StatePath = firstNonEmpty(c.StatePath, os.Getenv(EnvState), filepath.Join(DataDir(), "state.json"))
	c.DBPath = firstNonEmpty(c.DBPath, os.Getenv(EnvDB), filepath.Join(DataDir(), "archive.db"))
	c.Bootstrap = firstNonEmpty(c.Bootstrap, os.Getenv(EnvBootstrap))
	c.Roster = firstNonEmpty(c.Roster, os.Getenv(EnvRoster))
	c.LogFile = firstNonEmpty(c.LogFile, os.Getenv(EnvLogFile))
	c.APIKey = firstNonEmpty(c.APIKey, os.Getenv(EnvAPIKey))
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// rosterFile is the on-disk roster shape.
type rosterFile struct {
	Male   []string `json:"male"`
	Female []string `json:"female"`
}

// LoadRoster reads a roster file. An empty path yields DefaultRoster.
func LoadRoster(path string) (model.Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var f rosterFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	r := make(model.Roster, len(f.Male)+len(f.Female))
	for _, n := range f.Male {
		r[n] = model.GenderMale
	}
	for _, n := range f.Female {
		r[n] = model.GenderFemale
	}
	return r, nil
}

// DefaultRoster covers the players of the built-in schedule.
func DefaultRoster() model.Roster {
	r := model.Roster{}
	for _, n := range []string{"林锋", "王小波", "罗蒙", "陈顺星", "陈小洪", "卢志辉", "严勇文", "江锐", "罗琴荩"} {
		r[n] = model.GenderMale
	}
	for _, n := range []string{"田茜", "唐英武", "李祺祺", "高洁", "滕菲", "谢卓珊", "崔倩男", "林小连"} {
		r[n] = model.GenderFemale
	}
	return r
}

// ParseGender accepts male/female and their one-letter forms.
func ParseGender(s string) (model.Gender, error) {
	switch s {
	case "m", "M", "male":
		return model.GenderMale, nil
	case "f", "F", "female":
		return model.GenderFemale, nil
	}
	return model.GenderUnknown, fmt.Errorf("unknown gender %q (want male or female)", s)
}
