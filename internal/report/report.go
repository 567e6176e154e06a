package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
)

var (
	cPending  = color.New(color.Faint)
	cProgress = color.New(color.FgYellow)
	cFinished = color.New(color.FgGreen)
	cWinner   = color.New(color.Bold)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// StatusLabel renders a status with its colour.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusFinished:
		return cFinished.Sprint("finished")
	case model.StatusInProgress:
		return cProgress.Sprint("in progress")
	default:
		return cPending.Sprint("pending")
	}
}

func team(names []string) string { return strings.Join(names, " / ") }

func setCell(m model.MatchRecord, set int) string {
	if aggregator.StatusOf(m) == model.StatusPending {
		return "—"
	}
	return fmt.Sprintf("%d:%d", m.ScoreA[set], m.ScoreB[set])
}

// PrintEventHeader prints a one-line summary header for the event.
func PrintEventHeader(w io.Writer, doc model.Document) {
	ov := aggregator.Overview(doc)
	fmt.Fprintf(w, "\n%s  |  Courts: %d  |  Matches: %d  |  Finished: %d  |  In progress: %d  |  Pending: %d\n\n",
		doc.EventName, ov.CourtCount, ov.TotalMatches, ov.Finished, ov.InProgress, ov.Pending)
}

// PrintMatchList prints matches one per row in the order given.
func PrintMatchList(w io.Writer, matches []model.MatchRecord) {
	table := newTable(w)
	table.Header("ID", "ROUND", "COURT", "TYPE", "TEAM A", "TEAM B", "SET 1", "SET 2", "TOTAL", "STATUS")
	for _, m := range matches {
		teamA, teamB := team(m.TeamA), team(m.TeamB)
		switch aggregator.Winner(m) {
		case model.SideA:
			teamA = cWinner.Sprint(teamA)
		case model.SideB:
			teamB = cWinner.Sprint(teamB)
		}
		total := "—"
		if aggregator.StatusOf(m) != model.StatusPending {
			total = fmt.Sprintf("%d:%d", m.ScoreA.Total(), m.ScoreB.Total())
		}
		table.Append(
			m.ID,
			strconv.Itoa(m.Round),
			strconv.Itoa(m.Court),
			string(m.Category),
			teamA,
			teamB,
			setCell(m, 0),
			setCell(m, 1),
			total,
			StatusLabel(aggregator.StatusOf(m)),
		)
	}
	table.Render()
}

// PrintMatchCard prints one match in detail.
func PrintMatchCard(w io.Writer, m model.MatchRecord) {
	fmt.Fprintf(w, "\nMatch %s  |  Round %d  |  Court %d  |  %s (%s)  |  %s\n\n",
		m.ID, m.Round, m.Court, m.Category, m.Category.Label(), StatusLabel(aggregator.StatusOf(m)))

	table := newTable(w)
	table.Header(" ", "TEAM", "SET 1", "SET 2", "TOTAL")
	winner := aggregator.Winner(m)
	rows := []struct {
		side  model.Side
		names []string
		score model.Score
	}{
		{model.SideA, m.TeamA, m.ScoreA},
		{model.SideB, m.TeamB, m.ScoreB},
	}
	for _, r := range rows {
		marker := " "
		if winner == r.side {
			marker = ">"
		}
		table.Append(
			marker,
			team(r.names),
			strconv.Itoa(r.score[0]),
			strconv.Itoa(r.score[1]),
			strconv.Itoa(r.score.Total()),
		)
	}
	table.Render()
}

// PrintStatsTable prints one row per player in the given order with a
// column per category.
func PrintStatsTable(w io.Writer, stats map[string]model.PlayerStats, names []string, cats []model.Category) {
	table := newTable(w)
	header := []any{"PLAYER", "TOTAL"}
	for _, c := range cats {
		header = append(header, string(c))
	}
	table.Header(header...)

	for _, n := range names {
		s := stats[n]
		row := []any{n, strconv.Itoa(s.Total)}
		for _, c := range cats {
			row = append(row, strconv.Itoa(s.ByCategory[c]))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintRecords prints per-player win/loss lines.
func PrintRecords(w io.Writer, recs []model.PlayerRecord) {
	table := newTable(w)
	table.Header("PLAYER", "PLAYED", "W", "L", "WIN%")
	for _, r := range recs {
		table.Append(
			r.Name,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			fmt.Sprintf("%d%%", r.WinRate),
		)
	}
	table.Render()
}

// PrintAnalysis prints the record summary and the selected matches.
func PrintAnalysis(w io.Writer, a model.Analysis) {
	s := a.Summary
	if a.Player != "" {
		fmt.Fprintf(w, "\n%s  |  Played: %d  |  W-L: %d-%d  |  Win rate: %d%%  |  Sets: %d-%d\n\n",
			a.Player, s.TotalGames, s.Wins, s.Losses, s.WinRate, s.SetsWon, s.SetsLost)
	} else {
		fmt.Fprintf(w, "\nAll players  |  Finished: %d  |  Sets (team A): %d-%d\n\n",
			s.TotalGames, s.SetsWon, s.SetsLost)
	}
	if len(a.Matches) == 0 {
		fmt.Fprintln(w, "No finished matches.")
		return
	}

	table := newTable(w)
	table.Header("ROUND", "COURT", "TYPE", "TEAM A", "TEAM B", "SET 1", "SET 2", "RESULT")
	for _, e := range a.Matches {
		m := e.Match
		result := "—"
		if a.Player != "" {
			result = "L"
			if e.Won {
				result = cFinished.Sprint("W")
			}
		}
		table.Append(
			strconv.Itoa(m.Round),
			strconv.Itoa(m.Court),
			string(m.Category),
			team(m.TeamA),
			team(m.TeamB),
			setCell(m, 0),
			setCell(m, 1),
			result,
		)
	}
	table.Render()
}

// PrintEvents prints archived events.
func PrintEvents(w io.Writer, events []model.EventSummary) {
	table := newTable(w)
	table.Header("ID", "HASH", "DATE", "EVENT", "COURTS", "MATCHES", "FINISHED")
	for _, e := range events {
		table.Append(
			strconv.FormatInt(e.ID, 10),
			shortHash(e.Hash),
			e.EventDate,
			e.EventName,
			strconv.Itoa(e.CourtCount),
			strconv.Itoa(e.TotalMatches),
			strconv.Itoa(e.Finished),
		)
	}
	table.Render()
}

// PrintCareer prints archived per-player totals.
func PrintCareer(w io.Writer, stats []model.CareerStats) {
	table := newTable(w)
	header := []any{"PLAYER", "G", "EVENTS", "MATCHES", "W", "WIN%"}
	for _, c := range model.KnownCategories {
		header = append(header, string(c))
	}
	table.Header(header...)
	for i := range stats {
		c := &stats[i]
		row := []any{
			c.Name,
			string(c.Gender),
			strconv.Itoa(c.Events),
			strconv.Itoa(c.TotalMatches),
			strconv.Itoa(c.Wins),
			fmt.Sprintf("%.0f%%", c.WinRate()),
		}
		for _, cat := range model.KnownCategories {
			row = append(row, strconv.Itoa(c.ByCategory[cat]))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintPartners prints who a player has partnered with.
func PrintPartners(w io.Writer, partners []model.PartnerRecord) {
	table := newTable(w)
	table.Header("PARTNER", "MATCHES", "W", "WIN%")
	for _, p := range partners {
		rate := 0.0
		if p.Matches > 0 {
			rate = float64(p.Wins) / float64(p.Matches) * 100
		}
		table.Append(
			p.Partner,
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.Wins),
			fmt.Sprintf("%.0f%%", rate),
		)
	}
	table.Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
