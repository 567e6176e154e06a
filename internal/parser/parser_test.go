package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pable/go-badminton-tracker/internal/model"
)

const sampleDoc = `{
  "eventName": "2026-03-02 周末活动",
  "courtCount": 2,
  "matches": [
    {"id": "m1", "round": 1, "court": 1, "type": "混双", "teamA": ["A", "B"], "teamB": ["C", "D"], "scoreA": [21, 19], "scoreB": [15, 21], "status": "pending"},
    {"id": "m2", "round": 1, "court": 2, "type": "男双", "teamA": ["E", "F"], "teamB": ["G", "H"], "scoreA": [11], "scoreB": [null, 0], "status": "finished"},
    {"round": 2, "court": 1, "type": "女双", "teamA": ["A", "C"], "teamB": ["I", "J"]}
  ],
  "playerStats": {"ghost": {"total": 99}}
}`

func TestDecode_Normalizes(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if len(doc.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(doc.Matches))
	}

	// Stored status is ignored in favour of the scores.
	if doc.Matches[0].Status != model.StatusFinished {
		t.Errorf("m1 status: want finished, got %q", doc.Matches[0].Status)
	}
	if doc.Matches[1].Status != model.StatusInProgress {
		t.Errorf("m2 status: want in-progress, got %q", doc.Matches[1].Status)
	}
	if doc.Matches[1].ScoreA != (model.Score{11, 0}) || doc.Matches[1].ScoreB != (model.Score{0, 0}) {
		t.Errorf("m2 scores: missing entries should read as 0, got %v %v", doc.Matches[1].ScoreA, doc.Matches[1].ScoreB)
	}
	if doc.Matches[2].ID == "" {
		t.Error("m3 should have been assigned an id")
	}
	if doc.Matches[2].Status != model.StatusPending {
		t.Errorf("m3 status: want pending, got %q", doc.Matches[2].Status)
	}

	// The stats cache is rebuilt, not trusted.
	if _, ok := doc.PlayerStats["ghost"]; ok {
		t.Error("stale playerStats entry should be discarded")
	}
	if doc.PlayerStats["A"].Total != 1 {
		t.Errorf("A total: want 1, got %d", doc.PlayerStats["A"].Total)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"matches": [`,
		"missing matches": `{"eventName": "x"}`,
		"matches object":  `{"matches": {"id": "m1"}}`,
		"matches null":    `{"matches": null}`,
		"top-level array": `[1, 2, 3]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(in))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestDecode_LenientScores(t *testing.T) {
	in := `{"matches": [
	  {"id": "s1", "scoreA": ["11", ""], "scoreB": [9, null]},
	  {"id": "s2", "scoreA": "n/a", "scoreB": [true]}
	]}`
	doc, err := DecodeBytes([]byte(in))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	first := doc.Matches[0]
	if first.ScoreA != (model.Score{11, 0}) || first.ScoreB != (model.Score{9, 0}) {
		t.Errorf("s1 scores = %v / %v", first.ScoreA, first.ScoreB)
	}
	if first.Status != model.StatusInProgress {
		t.Errorf("s1 status = %q, want in-progress", first.Status)
	}
	second := doc.Matches[1]
	if second.ScoreA != (model.Score{}) || second.ScoreB != (model.Score{}) {
		t.Errorf("s2 scores = %v / %v, want zeros", second.ScoreA, second.ScoreB)
	}
	if second.Status != model.StatusPending {
		t.Errorf("s2 status = %q, want pending", second.Status)
	}
}

func TestDecode_DuplicateIDs(t *testing.T) {
	in := `{"matches": [{"id": "x"}, {"id": "x"}]}`
	doc, err := DecodeBytes([]byte(in))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if doc.Matches[0].ID != "x" {
		t.Errorf("first occurrence should keep its id, got %q", doc.Matches[0].ID)
	}
	if doc.Matches[1].ID == "x" {
		t.Error("duplicate id should be replaced")
	}
}

func TestNormalize_CourtCount(t *testing.T) {
	doc := model.Document{Matches: []model.MatchRecord{{ID: "a", Court: 4}}}
	Normalize(&doc)
	if doc.CourtCount != 4 {
		t.Errorf("court count should cover court 4, got %d", doc.CourtCount)
	}

	empty := model.Document{}
	Normalize(&empty)
	if empty.CourtCount != DefaultCourtCount {
		t.Errorf("empty document court count: want %d, got %d", DefaultCourtCount, empty.CourtCount)
	}
}

// TestRoundTrip: exporting then importing reproduces the same collection.
func TestRoundTrip(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Encode(&buf, *doc, Options{Compress: compress}); err != nil {
			t.Fatalf("Encode(compress=%v): %v", compress, err)
		}
		back, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(compress=%v): %v", compress, err)
		}
		if diff := cmp.Diff(doc.Matches, back.Matches); diff != "" {
			t.Errorf("compress=%v: matches differ (-want +got):\n%s", compress, diff)
		}
		if diff := cmp.Diff(doc.PlayerStats, back.PlayerStats); diff != "" {
			t.Errorf("compress=%v: stats differ (-want +got):\n%s", compress, diff)
		}
		if back.EventName != doc.EventName || back.CourtCount != doc.CourtCount {
			t.Errorf("compress=%v: header mismatch: %q/%d", compress, back.EventName, back.CourtCount)
		}
	}
}

func TestEncode_Indented(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, model.Document{EventName: "x"}, Options{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\n  \"eventName\": \"x\"") {
		t.Errorf("expected two-space indentation, got:\n%s", out)
	}
	if !strings.Contains(out, `"matches": []`) {
		t.Errorf("empty matches should encode as [], got:\n%s", out)
	}
}

func TestHash_Stable(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	h1, err := Hash(*doc)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, _ := Hash(doc.Clone())
	if h1 != h2 || len(h1) != 64 {
		t.Errorf("hash unstable or malformed: %s vs %s", h1, h2)
	}

	doc.Matches[0].ScoreA[0]++
	h3, _ := Hash(*doc)
	if h3 == h1 {
		t.Error("hash should change with the scores")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, hash, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.EventName != "2026-03-02 周末活动" || hash == "" {
		t.Errorf("unexpected result: %q %q", doc.EventName, hash)
	}

	if _, _, err := ParseFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestExportFileName(t *testing.T) {
	cases := []struct {
		event    string
		compress bool
		want     string
	}{
		{"2026 马年首秀战", false, "2026_马年首秀战_比分数据.json"},
		{"Spring/Cup!", true, "Spring_Cup__比分数据.json.zst"},
		{"  ", false, "event_比分数据.json"},
	}
	for _, c := range cases {
		if got := ExportFileName(c.event, c.compress); got != c.want {
			t.Errorf("ExportFileName(%q) = %q, want %q", c.event, got, c.want)
		}
	}
}
