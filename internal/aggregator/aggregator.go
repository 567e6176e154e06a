// Package aggregator derives match status, outcomes, player statistics and
// win/loss analysis from a collection of match records.
//
// Every function here is a pure fold over the collection it is given. Nothing
// is cached between calls: the collection is tens of matches, and recomputing
// from scratch means a derived view can never drift from the records.
package aggregator

import (
	"github.com/pable/go-badminton-tracker/internal/model"
)

// DeriveStatus classifies a scoreline given as set 1 and set 2 for side A
// followed by set 1 and set 2 for side B.
//
// A match with only first-set points is in progress even if one side has
// already scored; any second-set point marks it finished.
func DeriveStatus(a1, a2, b1, b2 int) model.Status {
	switch {
	case a1 == 0 && a2 == 0 && b1 == 0 && b2 == 0:
		return model.StatusPending
	case a2 == 0 && b2 == 0:
		return model.StatusInProgress
	default:
		return model.StatusFinished
	}
}

// StatusOf derives the status of a record from its scores.
func StatusOf(m model.MatchRecord) model.Status {
	return DeriveStatus(m.ScoreA[0], m.ScoreA[1], m.ScoreB[0], m.ScoreB[1])
}

// Winner compares total points of a finished match. Unfinished matches and
// equal totals have no winner.
func Winner(m model.MatchRecord) model.Side {
	if StatusOf(m) != model.StatusFinished {
		return model.SideNone
	}
	totalA, totalB := m.ScoreA.Total(), m.ScoreB.Total()
	switch {
	case totalA > totalB:
		return model.SideA
	case totalB > totalA:
		return model.SideB
	default:
		return model.SideNone
	}
}

// SetTally counts sets from team A's side only: a set is won when team A
// scored strictly more, and lost otherwise, so a tied set is one loss.
func SetTally(m model.MatchRecord) (won, lost int) {
	for i := range m.ScoreA {
		if m.ScoreA[i] > m.ScoreB[i] {
			won++
		} else {
			lost++
		}
	}
	return won, lost
}

// Finished filters the collection down to finished matches, preserving order.
func Finished(matches []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if StatusOf(m) == model.StatusFinished {
			out = append(out, m)
		}
	}
	return out
}
