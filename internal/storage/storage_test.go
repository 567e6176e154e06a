package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pable/go-badminton-tracker/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var archiveTime = time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)

func sampleDoc(name string) model.Document {
	return model.Document{
		EventName:  name,
		CourtCount: 2,
		Matches: []model.MatchRecord{
			{ID: "m1", Round: 1, Court: 1, Category: model.CategoryMixed,
				TeamA: []string{"Ann", "Bob"}, TeamB: []string{"Cat", "Dan"},
				ScoreA: model.Score{21, 21}, ScoreB: model.Score{15, 18}},
			{ID: "m2", Round: 1, Court: 2, Category: model.CategoryMens,
				TeamA: []string{"Bob", "Dan"}, TeamB: []string{"Eli", "Fox"},
				ScoreA: model.Score{10, 12}, ScoreB: model.Score{21, 21}},
			{ID: "m3", Round: 2, Court: 1, Category: model.CategoryMixed,
				TeamA: []string{"Ann", "Dan"}, TeamB: []string{"Cat", "Bob"},
				ScoreA: model.Score{11, 0}, ScoreB: model.Score{9, 0}},
		},
	}
}

var roster = model.Roster{"Ann": model.GenderFemale, "Cat": model.GenderFemale, "Bob": model.GenderMale}

func TestEventDate(t *testing.T) {
	if got := EventDate("周末 2026-02-14 活动", archiveTime); got != "2026-02-14" {
		t.Errorf("date from name: got %s", got)
	}
	if got := EventDate("no date", archiveTime); got != "2026-03-09" {
		t.Errorf("fallback date: got %s", got)
	}
}

func TestArchiveAndExists(t *testing.T) {
	db := openMemDB(t)

	id, err := db.ArchiveEvent(sampleDoc("Club 2026-03-01"), "abc123", roster, archiveTime)
	if err != nil {
		t.Fatalf("ArchiveEvent: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero event id")
	}

	exists, err := db.EventExists("abc123")
	if err != nil {
		t.Fatalf("EventExists: %v", err)
	}
	if !exists {
		t.Error("expected event to exist after archive")
	}
	exists2, _ := db.EventExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent event to not exist")
	}

	// The hash is unique.
	if _, err := db.ArchiveEvent(sampleDoc("again"), "abc123", roster, archiveTime); err == nil {
		t.Error("expected duplicate hash to be rejected")
	}
}

func TestListEvents(t *testing.T) {
	db := openMemDB(t)
	for _, e := range []struct{ name, hash string }{
		{"Older 2026-01-05", "h1"},
		{"Newer 2026-02-05", "h2"},
		{"Undated", "h3"},
	} {
		if _, err := db.ArchiveEvent(sampleDoc(e.name), e.hash, roster, archiveTime); err != nil {
			t.Fatalf("ArchiveEvent %s: %v", e.hash, err)
		}
	}

	list, err := db.ListEvents(0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 events, got %d", len(list))
	}
	// Ordered by event_date DESC: the undated one takes the archive date.
	want := []string{"h3", "h2", "h1"}
	for i, h := range want {
		if list[i].Hash != h {
			t.Errorf("position %d: want %s, got %s", i, h, list[i].Hash)
		}
	}
	if list[0].TotalMatches != 3 || list[0].Finished != 2 || list[0].CourtCount != 2 {
		t.Errorf("unexpected counts: %+v", list[0])
	}

	limited, _ := db.ListEvents(1)
	if len(limited) != 1 {
		t.Errorf("limit 1: got %d events", len(limited))
	}
}

func TestGetEventAndMatches(t *testing.T) {
	db := openMemDB(t)
	id, err := db.ArchiveEvent(sampleDoc("Club"), "deadbeef1234", roster, archiveTime)
	if err != nil {
		t.Fatalf("ArchiveEvent: %v", err)
	}

	byPrefix, err := db.GetEvent("deadbeef")
	if err != nil || byPrefix == nil {
		t.Fatalf("GetEvent by prefix: %v %v", byPrefix, err)
	}
	if byPrefix.ID != id {
		t.Errorf("prefix lookup: want id %d, got %d", id, byPrefix.ID)
	}
	byID, _ := db.GetEvent("1")
	if byID == nil || byID.Hash != "deadbeef1234" {
		t.Errorf("id lookup failed: %+v", byID)
	}
	for _, ref := range []string{"zzz", "%", "_", "dead%", "", "deadbeef12345"} {
		missing, err := db.GetEvent(ref)
		if err != nil || missing != nil {
			t.Errorf("GetEvent(%q): expected nil, got %+v %v", ref, missing, err)
		}
	}

	ms, err := db.GetEventMatches(id)
	if err != nil {
		t.Fatalf("GetEventMatches: %v", err)
	}
	if len(ms) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(ms))
	}
	if ms[0].ID != "m1" || ms[2].ID != "m3" {
		t.Errorf("order by round/court: got %s %s %s", ms[0].ID, ms[1].ID, ms[2].ID)
	}
	if ms[0].Status != model.StatusFinished || ms[2].Status != model.StatusInProgress {
		t.Errorf("statuses not preserved: %s %s", ms[0].Status, ms[2].Status)
	}
	if len(ms[1].TeamB) != 2 || ms[1].TeamB[1] != "Fox" || ms[1].ScoreB != (model.Score{21, 21}) {
		t.Errorf("m2 not preserved: %+v", ms[1])
	}
}

func TestArchive_TeamNamesRoundTrip(t *testing.T) {
	db := openMemDB(t)
	doc := model.Document{
		EventName:  "Commas",
		CourtCount: 1,
		Matches: []model.MatchRecord{{
			ID: "c1", Round: 1, Court: 1, Category: model.CategoryMens,
			TeamA:  []string{"Smith, J.", "Lee"},
			TeamB:  []string{"O'Neil", `Ann "Ace" Wu`},
			ScoreA: model.Score{21, 21}, ScoreB: model.Score{10, 12},
		}},
	}
	id, err := db.ArchiveEvent(doc, "c0ffee", roster, archiveTime)
	if err != nil {
		t.Fatalf("ArchiveEvent: %v", err)
	}
	ms, err := db.GetEventMatches(id)
	if err != nil {
		t.Fatalf("GetEventMatches: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d", len(ms))
	}
	if diff := cmp.Diff(doc.Matches[0].TeamA, ms[0].TeamA); diff != "" {
		t.Errorf("teamA mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doc.Matches[0].TeamB, ms[0].TeamB); diff != "" {
		t.Errorf("teamB mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitTeam_CommaFallback(t *testing.T) {
	if got := splitTeam("Ann,Bob"); len(got) != 2 || got[1] != "Bob" {
		t.Errorf("splitTeam comma form = %q", got)
	}
	if got := splitTeam(""); got == nil || len(got) != 0 {
		t.Errorf("splitTeam empty = %#v", got)
	}
}

func TestCareerStats(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.ArchiveEvent(sampleDoc("E1"), "h1", roster, archiveTime); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ArchiveEvent(sampleDoc("E2"), "h2", roster, archiveTime); err != nil {
		t.Fatal(err)
	}

	stats, err := db.CareerStats("Bob")
	if err != nil {
		t.Fatalf("CareerStats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stats))
	}
	bob := stats[0]
	// Per event Bob plays m1 (won) and m2 (lost); m3 is unfinished.
	if bob.Events != 2 || bob.TotalMatches != 4 || bob.Wins != 2 {
		t.Errorf("Bob totals: %+v", bob)
	}
	if bob.ByCategory[model.CategoryMixed] != 2 || bob.ByCategory[model.CategoryMens] != 2 {
		t.Errorf("Bob categories: %v", bob.ByCategory)
	}
	if bob.Gender != model.GenderMale {
		t.Errorf("Bob gender: %s", bob.Gender)
	}
	if bob.WinRate() != 50 {
		t.Errorf("Bob win rate: %v", bob.WinRate())
	}

	all, err := db.CareerStats()
	if err != nil {
		t.Fatalf("CareerStats(all): %v", err)
	}
	if len(all) != 6 {
		t.Errorf("expected 6 players, got %d", len(all))
	}
	for _, c := range all {
		if c.Name == "Eli" && c.Gender != model.GenderUnknown {
			t.Errorf("unrostered player should be U, got %s", c.Gender)
		}
	}
}

func TestPartners(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.ArchiveEvent(sampleDoc("E1"), "h1", roster, archiveTime); err != nil {
		t.Fatal(err)
	}
	ps, err := db.Partners("Bob")
	if err != nil {
		t.Fatalf("Partners: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 partners, got %+v", ps)
	}
	// Ann (won together) sorts before Dan (lost together).
	if ps[0].Partner != "Ann" || ps[0].Wins != 1 || ps[1].Partner != "Dan" || ps[1].Wins != 0 {
		t.Errorf("unexpected partners: %+v", ps)
	}
}

func TestDeleteEvent(t *testing.T) {
	db := openMemDB(t)
	id, err := db.ArchiveEvent(sampleDoc("E1"), "h1", roster, archiveTime)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteEvent(id); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if ok, _ := db.EventExists("h1"); ok {
		t.Error("event should be gone")
	}
	_, rows, err := db.QueryRaw("SELECT COUNT(1) FROM participations")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if rows[0][0] != "0" {
		t.Errorf("participations left behind: %s", rows[0][0])
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.ArchiveEvent(sampleDoc("E1"), "h1", roster, archiveTime); err != nil {
		t.Fatal(err)
	}
	cols, rows, err := db.QueryRaw("SELECT name, gender FROM players WHERE name = 'Ann'")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "name" {
		t.Errorf("unexpected columns: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Ann" || rows[0][1] != "F" {
		t.Errorf("unexpected rows: %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
