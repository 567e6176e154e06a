package aggregator

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/pable/go-badminton-tracker/internal/model"
)

// PlayerStats counts, for every player, the finished matches they played in
// total and per category. Unfinished matches contribute nothing.
//
// A name listed on both teams of one match is counted once per team; rosters
// are trusted input and are not deduplicated.
func PlayerStats(matches []model.MatchRecord) map[string]model.PlayerStats {
	out := make(map[string]model.PlayerStats)
	for _, m := range matches {
		if StatusOf(m) != model.StatusFinished {
			continue
		}
		for _, name := range m.Players() {
			s, ok := out[name]
			if !ok {
				s = model.PlayerStats{ByCategory: make(map[model.Category]int)}
			}
			s.Total++
			s.ByCategory[m.Category]++
			out[name] = s
		}
	}
	return out
}

// Categories returns every category present in the collection, built-in
// categories first in their canonical order, the rest alphabetically.
func Categories(matches []model.MatchRecord) []model.Category {
	cats := lo.Uniq(lo.Map(matches, func(m model.MatchRecord, _ int) model.Category {
		return m.Category
	}))
	sort.Slice(cats, func(i, j int) bool {
		ri, rj := cats[i].Rank(), cats[j].Rank()
		if ri != rj {
			return ri < rj
		}
		return cats[i] < cats[j]
	})
	return cats
}

// RankPlayers orders player names by total finished matches descending,
// breaking ties by name so the listing is stable.
func RankPlayers(stats map[string]model.PlayerStats) []string {
	names := lo.Keys(stats)
	sort.Slice(names, func(i, j int) bool {
		ti, tj := stats[names[i]].Total, stats[names[j]].Total
		if ti != tj {
			return ti > tj
		}
		return names[i] < names[j]
	})
	return names
}

// FilterByGender keeps names whose roster gender matches g.
func FilterByGender(names []string, roster model.Roster, g model.Gender) []string {
	return lo.Filter(names, func(n string, _ int) bool {
		return roster.GenderOf(n) == g
	})
}

// PlayerRecords folds finished matches into a win/loss line per player.
// A match with equal totals counts as played but neither won nor lost.
// Records are sorted by wins, then win rate, then name.
func PlayerRecords(matches []model.MatchRecord) []model.PlayerRecord {
	index := make(map[string]*model.PlayerRecord)
	get := func(name string) *model.PlayerRecord {
		r, ok := index[name]
		if !ok {
			r = &model.PlayerRecord{Name: name}
			index[name] = r
		}
		return r
	}
	for _, m := range Finished(matches) {
		winner := Winner(m)
		for _, name := range m.TeamA {
			r := get(name)
			r.Played++
			switch winner {
			case model.SideA:
				r.Wins++
			case model.SideB:
				r.Losses++
			}
		}
		for _, name := range m.TeamB {
			r := get(name)
			r.Played++
			switch winner {
			case model.SideB:
				r.Wins++
			case model.SideA:
				r.Losses++
			}
		}
	}

	out := make([]model.PlayerRecord, 0, len(index))
	for _, r := range index {
		r.WinRate = winRate(r.Wins, r.Played)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// winRate is wins/games as a rounded whole percentage, 0 when no games.
func winRate(wins, games int) int {
	if games <= 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(games) * 100))
}
