package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
)

// topPlayers is how many names the poster lists under "most active".
const topPlayers = 8

// Poster builds a shareable markdown summary: headline counts, every match
// grouped by court, the most active players and the best records.
func Poster(doc model.Document) string {
	var b strings.Builder
	ov := aggregator.Overview(doc)

	fmt.Fprintf(&b, "# %s\n\n", mdCell(doc.EventName))
	fmt.Fprintf(&b, "**%d** matches on **%d** courts: %d finished, %d in progress, %d pending.\n\n",
		ov.TotalMatches, ov.CourtCount, ov.Finished, ov.InProgress, ov.Pending)

	court := 0
	for _, m := range aggregator.PosterOrder(doc.Matches) {
		if m.Court != court {
			court = m.Court
			fmt.Fprintf(&b, "\n## Court %d\n\n", court)
			b.WriteString("| Round | Type | Team A | Score | Team B |\n")
			b.WriteString("|---:|:---:|---|:---:|---|\n")
		}
		teamA, teamB := mdCell(team(m.TeamA)), mdCell(team(m.TeamB))
		switch aggregator.Winner(m) {
		case model.SideA:
			teamA = "**" + teamA + "**"
		case model.SideB:
			teamB = "**" + teamB + "**"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", m.Round, mdCell(string(m.Category)), teamA, posterScore(m), teamB)
	}

	stats := aggregator.PlayerStats(doc.Matches)
	if names := aggregator.RankPlayers(stats); len(names) > 0 {
		b.WriteString("\n## Most active\n\n")
		for i, n := range names {
			if i == topPlayers {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, n, stats[n].Total)
		}
	}

	if recs := aggregator.PlayerRecords(doc.Matches); len(recs) > 0 {
		b.WriteString("\n## Best records\n\n")
		for i, r := range recs {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "- %s: %d-%d (%d%%)\n", r.Name, r.Wins, r.Losses, r.WinRate)
		}
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer(`|`, `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// mdCell keeps user text inside one markdown table cell or heading line.
func mdCell(s string) string {
	return mdEscaper.Replace(s)
}

func posterScore(m model.MatchRecord) string {
	switch aggregator.StatusOf(m) {
	case model.StatusPending:
		return "vs"
	case model.StatusInProgress:
		return fmt.Sprintf("%d:%d *(live)*", m.ScoreA[0], m.ScoreB[0])
	default:
		return fmt.Sprintf("%d:%d, %d:%d", m.ScoreA[0], m.ScoreB[0], m.ScoreA[1], m.ScoreB[1])
	}
}

// RenderMarkdown renders markdown for the terminal with the given glamour
// style ("dark", "light", "notty", ...).
func RenderMarkdown(md, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
