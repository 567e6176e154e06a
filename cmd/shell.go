package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/report"
	"github.com/pable/go-badminton-tracker/internal/state"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive scoring session",
	Long:  "Open a persistent session against the current event. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}

	cGreeting.Printf("bmtrack shell: %s\n", t.Snapshot().EventName)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("bmtrack")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list", "ls":
			shellList(t, args)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <match-id>")
				continue
			}
			m, err := t.Match(args[0])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintMatchCard(os.Stdout, m)
		case "score":
			if len(args) != 5 {
				cError.Fprintln(os.Stderr, "usage: score <match-id> <a1> <a2> <b1> <b2>")
				continue
			}
			shellScore(t, args[0], args[1:])
		case "clear":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: clear <match-id>")
				continue
			}
			if _, err := t.ClearScore(args[0]); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			cMuted.Printf("%s cleared\n", args[0])
		case "stats":
			doc := t.Snapshot()
			names := aggregator.RankPlayers(doc.PlayerStats)
			if len(names) == 0 {
				cMuted.Println("No finished matches yet.")
				continue
			}
			report.PrintStatsTable(os.Stdout, doc.PlayerStats, names, aggregator.Categories(doc.Matches))
		case "analysis":
			report.PrintAnalysis(os.Stdout, t.Analyze(strings.Join(args, " ")))
		case "records":
			report.PrintRecords(os.Stdout, t.PlayerRecords())
		case "overview":
			report.PrintEventHeader(os.Stdout, t.Snapshot())
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [court]", "list matches, optionally for one court"},
		{"show <id>", "show one match"},
		{"score <id> <a1> <a2> <b1> <b2>", "record set scores"},
		{"clear <id>", "clear a match's scores"},
		{"stats", "per-player appearance counts"},
		{"analysis [player]", "win/loss record"},
		{"records", "win/loss table for every player"},
		{"overview", "event progress"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(t *state.Tracker, args []string) {
	court := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid court %q\n", args[0])
			return
		}
		court = n
	}
	matches := t.Matches(court)
	if len(matches) == 0 {
		cMuted.Println("No matches.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
}

func shellScore(t *state.Tracker, id string, args []string) {
	a, b, err := parseScores(args)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	m, err := t.SetScore(id, a, b)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchCard(os.Stdout, m)
}
