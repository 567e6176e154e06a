package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/state"
)

const analyzeSystemPrompt = `You are a badminton doubles analyst. You are given structured data
from a match tracker for one event, and a question from an organiser or player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate scores or results.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise. Prefer short lists over long paragraphs.

Data glossary:
- Each match has two sets. scoreA/scoreB hold the points of team A and team B per set.
- A match is finished once any second-set point is recorded.
- The match winner is the team with more total points over both sets; equal totals have no winner.
- Categories: 混双 mixed doubles, 男双 men's doubles, 女双 women's doubles.
- player_stats counts finished appearances per category.
- records: per player matches, wins, losses and win rate (%).
- career: results across archived events, when an archive exists.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzePlayer string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-powered grounded analysis of the event (requires ANTHROPIC_API_KEY)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVarP(&analyzePlayer, "player", "p", "", "focus the analysis on one player")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	if analyzePlayer != "" {
		if _, ok := t.PlayerStats()[analyzePlayer]; !ok {
			return fmt.Errorf("no finished matches for player %q", analyzePlayer)
		}
	}

	dataJSON, err := buildEventContext(t, analyzePlayer, careerContext(analyzePlayer))
	if err != nil {
		return err
	}
	log.Debug("analysis context", zap.Int("bytes", len(dataJSON)))

	key := analyzeAPIKey
	if key == "" {
		key = cfg.APIKey
	}
	return callAnthropic(cmd.Context(), key, analyzeModel, dataJSON, question)
}

// buildEventContext serializes the tracker's derived views for the model prompt.
func buildEventContext(t *state.Tracker, player string, career []model.CareerStats) (string, error) {
	doc := t.Snapshot()
	type matchRow struct {
		ID       string   `json:"id"`
		Round    int      `json:"round"`
		Court    int      `json:"court"`
		Category string   `json:"category"`
		TeamA    []string `json:"teamA"`
		TeamB    []string `json:"teamB"`
		ScoreA   [2]int   `json:"scoreA"`
		ScoreB   [2]int   `json:"scoreB"`
		Status   string   `json:"status"`
	}
	rows := make([]matchRow, 0, len(doc.Matches))
	for _, m := range doc.Matches {
		rows = append(rows, matchRow{
			ID:       m.ID,
			Round:    m.Round,
			Court:    m.Court,
			Category: m.Category.Label(),
			TeamA:    m.TeamA,
			TeamB:    m.TeamB,
			ScoreA:   m.ScoreA,
			ScoreB:   m.ScoreB,
			Status:   string(m.Status),
		})
	}

	data := map[string]interface{}{
		"event":        doc.EventName,
		"overview":     t.Overview(),
		"matches":      rows,
		"player_stats": doc.PlayerStats,
		"records":      t.PlayerRecords(),
	}
	if player != "" {
		data["focus_player"] = player
		data["analysis"] = t.Analyze(player)
	}
	if len(career) > 0 {
		data["career"] = career
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	return string(b), nil
}

// careerContext reads archived results when an archive exists. Failures are
// logged and ignored; the current event is enough to answer most questions.
func careerContext(player string) []model.CareerStats {
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return nil
	}
	db, err := openArchive()
	if err != nil {
		log.Debug("archive unavailable", zap.Error(err))
		return nil
	}
	defer db.Close()

	var names []string
	if player != "" {
		names = []string{player}
	}
	stats, err := db.CareerStats(names...)
	if err != nil {
		log.Debug("career query failed", zap.Error(err))
		return nil
	}
	return stats
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
