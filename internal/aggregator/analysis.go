package aggregator

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pable/go-badminton-tracker/internal/model"
)

// Analyze computes the record over finished matches, optionally scoped to one
// player. With an empty player name only sets and games are tallied: win/loss
// has no meaning without a side to take.
//
// The player's side wins a match only with a strictly greater point total, so
// an equal-total match is a loss for the filtered player.
func Analyze(matches []model.MatchRecord, player string) model.Analysis {
	selected := lo.Filter(Finished(matches), func(m model.MatchRecord, _ int) bool {
		return player == "" || lo.Contains(m.TeamA, player) || lo.Contains(m.TeamB, player)
	})

	res := model.Analysis{
		Player:  player,
		Matches: make([]model.AnalysisEntry, 0, len(selected)),
	}
	for _, m := range selected {
		won, lost := SetTally(m)
		res.Summary.SetsWon += won
		res.Summary.SetsLost += lost
		res.Summary.TotalGames++

		entry := model.AnalysisEntry{Match: m.Clone()}
		if player != "" {
			entry.Side = m.SideOf(player)
			entry.Won = playerWon(m, entry.Side)
			if entry.Won {
				res.Summary.Wins++
			} else {
				res.Summary.Losses++
			}
		}
		res.Matches = append(res.Matches, entry)
	}
	res.Summary.WinRate = winRate(res.Summary.Wins, res.Summary.TotalGames)

	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Match.Round > res.Matches[j].Match.Round
	})
	return res
}

func playerWon(m model.MatchRecord, side model.Side) bool {
	totalA, totalB := m.ScoreA.Total(), m.ScoreB.Total()
	if side == model.SideA {
		return totalA > totalB
	}
	return totalB > totalA
}

// Overview counts matches by status for the poster header.
func Overview(doc model.Document) model.Overview {
	ov := model.Overview{
		TotalMatches: len(doc.Matches),
		CourtCount:   doc.CourtCount,
	}
	for _, m := range doc.Matches {
		switch StatusOf(m) {
		case model.StatusFinished:
			ov.Finished++
		case model.StatusInProgress:
			ov.InProgress++
		default:
			ov.Pending++
		}
	}
	return ov
}

// ByCourt returns the matches scheduled on one court in collection order.
func ByCourt(matches []model.MatchRecord, court int) []model.MatchRecord {
	return lo.Filter(matches, func(m model.MatchRecord, _ int) bool {
		return m.Court == court
	})
}

// PosterOrder sorts a copy of the collection by court, then round.
func PosterOrder(matches []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Court != out[j].Court {
			return out[i].Court < out[j].Court
		}
		return out[i].Round < out[j].Round
	})
	return out
}
