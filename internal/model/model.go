package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Category is the doubles format of a match. Values are the labels the
// tournament data carries; anything else is kept verbatim.
type Category string

const (
	CategoryMixed  Category = "混双"
	CategoryMens   Category = "男双"
	CategoryWomens Category = "女双"
)

// KnownCategories lists the built-in categories in display order.
var KnownCategories = []Category{CategoryMixed, CategoryMens, CategoryWomens}

// Label returns a short English label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryMixed:
		return "mixed"
	case CategoryMens:
		return "men's"
	case CategoryWomens:
		return "women's"
	default:
		return string(c)
	}
}

// Rank orders known categories before unknown ones.
func (c Category) Rank() int {
	for i, k := range KnownCategories {
		if c == k {
			return i
		}
	}
	return len(KnownCategories)
}

// Status is derived from the four set scores of a match.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusFinished   Status = "finished"
)

// Side identifies one team of a match.
type Side int

const (
	SideNone Side = 0
	SideA    Side = 1
	SideB    Side = 2
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "-"
	}
}

// Gender is used only to filter player listings.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = "U"
)

// Score holds the points of one side for set 1 and set 2.
type Score [2]int

// Total is the sum of both sets.
func (s Score) Total() int { return s[0] + s[1] }

// UnmarshalJSON never fails. Arrays may have any length; entries that are
// missing, null or not a number read as zero, numeric strings are parsed,
// and negative points are clamped. A value that is not an array reads as
// no points at all.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for i := 0; i < len(s) && i < len(raw); i++ {
		s[i] = points(raw[i])
	}
	return nil
}

// points reads one set entry, returning 0 for anything unusable.
func points(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var str string
		if json.Unmarshal(raw, &str) != nil {
			return 0
		}
		if n, err = strconv.ParseFloat(strings.TrimSpace(str), 64); err != nil {
			return 0
		}
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int(n)
}

// MatchRecord is one scheduled pairing. Status is never set by callers; it is
// recomputed from the scores whenever they change.
type MatchRecord struct {
	ID       string   `json:"id"`
	Round    int      `json:"round"`
	Court    int      `json:"court"`
	Category Category `json:"type"`
	TeamA    []string `json:"teamA"`
	TeamB    []string `json:"teamB"`
	ScoreA   Score    `json:"scoreA"`
	ScoreB   Score    `json:"scoreB"`
	Status   Status   `json:"status"`
}

// Clone returns a deep copy so snapshots never alias roster slices.
func (m MatchRecord) Clone() MatchRecord {
	out := m
	out.TeamA = append([]string(nil), m.TeamA...)
	out.TeamB = append([]string(nil), m.TeamB...)
	return out
}

// SideOf reports which team the player is on. Team A wins when a malformed
// record lists the name on both sides.
func (m MatchRecord) SideOf(player string) Side {
	for _, p := range m.TeamA {
		if p == player {
			return SideA
		}
	}
	for _, p := range m.TeamB {
		if p == player {
			return SideB
		}
	}
	return SideNone
}

// Players returns both rosters, team A first.
func (m MatchRecord) Players() []string {
	out := make([]string, 0, len(m.TeamA)+len(m.TeamB))
	out = append(out, m.TeamA...)
	return append(out, m.TeamB...)
}

// PlayerStats counts finished matches a player took part in.
type PlayerStats struct {
	Total      int
	ByCategory map[Category]int
}

// MarshalJSON flattens the category buckets next to "total".
func (p PlayerStats) MarshalJSON() ([]byte, error) {
	flat := make(map[string]int, len(p.ByCategory)+1)
	for c, n := range p.ByCategory {
		flat[string(c)] = n
	}
	flat["total"] = p.Total
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat object written by MarshalJSON.
func (p *PlayerStats) UnmarshalJSON(data []byte) error {
	var flat map[string]int
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.Total = flat["total"]
	p.ByCategory = make(map[Category]int, len(flat))
	for k, n := range flat {
		if k == "total" {
			continue
		}
		p.ByCategory[Category(k)] = n
	}
	return nil
}

// Document is the single persisted blob.
type Document struct {
	EventName   string                 `json:"eventName"`
	CourtCount  int                    `json:"courtCount"`
	Matches     []MatchRecord          `json:"matches"`
	PlayerStats map[string]PlayerStats `json:"playerStats"`
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	out := Document{
		EventName:  d.EventName,
		CourtCount: d.CourtCount,
		Matches:    make([]MatchRecord, len(d.Matches)),
	}
	for i, m := range d.Matches {
		out.Matches[i] = m.Clone()
	}
	if d.PlayerStats != nil {
		out.PlayerStats = make(map[string]PlayerStats, len(d.PlayerStats))
		for name, s := range d.PlayerStats {
			cp := PlayerStats{Total: s.Total, ByCategory: make(map[Category]int, len(s.ByCategory))}
			for c, n := range s.ByCategory {
				cp.ByCategory[c] = n
			}
			out.PlayerStats[name] = cp
		}
	}
	return out
}

// PlayerNames returns the keys of PlayerStats sorted by name.
func (d Document) PlayerNames() []string {
	names := make([]string, 0, len(d.PlayerStats))
	for n := range d.PlayerStats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AnalysisSummary is the win/loss and set tally for one analysis query.
type AnalysisSummary struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	TotalGames int `json:"totalGames"`
	WinRate    int `json:"winRate"`
	SetsWon    int `json:"setsWon"`
	SetsLost   int `json:"setsLost"`
}

// AnalysisEntry is one selected match. Side and Won are only set when the
// analysis is scoped to a player.
type AnalysisEntry struct {
	Match MatchRecord `json:"match"`
	Side  Side        `json:"side"`
	Won   bool        `json:"won"`
}

// Analysis is the transient result of a record query.
type Analysis struct {
	Player  string          `json:"player,omitempty"`
	Summary AnalysisSummary `json:"summary"`
	Matches []AnalysisEntry `json:"matches"`
}

// PlayerRecord is a per-player win/loss line across finished matches.
type PlayerRecord struct {
	Name    string `json:"name"`
	Played  int    `json:"played"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	WinRate int    `json:"winRate"`
}

// Overview is the headline count block shown on the poster.
type Overview struct {
	TotalMatches int `json:"totalMatches"`
	Finished     int `json:"finished"`
	InProgress   int `json:"inProgress"`
	Pending      int `json:"pending"`
	CourtCount   int `json:"courtCount"`
}

// Roster maps player names to a gender for filtered listings.
type Roster map[string]Gender

// GenderOf returns GenderUnknown for names not on the roster.
func (r Roster) GenderOf(name string) Gender {
	if g, ok := r[name]; ok {
		return g
	}
	return GenderUnknown
}

// ---- Archive records ----

// EventSummary is a lightweight record for archived events.
type EventSummary struct {
	ID           int64
	Hash         string
	EventName    string
	EventDate    string
	CourtCount   int
	TotalMatches int
	Finished     int
	CreatedAt    string
}

// CareerStats aggregates one player across every archived event.
type CareerStats struct {
	Name         string
	Gender       Gender
	Events       int
	TotalMatches int
	Wins         int
	ByCategory   map[Category]int
}

// PartnerRecord counts archived finished matches a player shared a side
// with one partner.
type PartnerRecord struct {
	Partner string
	Matches int
	Wins    int
}

// WinRate returns wins as a percentage of archived matches.
func (c *CareerStats) WinRate() float64 {
	if c.TotalMatches == 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.TotalMatches) * 100
}
