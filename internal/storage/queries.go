package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
)

// EventExists returns true if an event with the given hash is already archived.
func (db *DB) EventExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM events WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// EventDate returns the first YYYY-MM-DD found in the event name, else the
// date of now.
func EventDate(eventName string, now time.Time) string {
	if d := datePattern.FindString(eventName); d != "" {
		return d
	}
	return now.Format("2006-01-02")
}

// ArchiveEvent stores the document, its matches, players and one
// participation row per player per finished match, all in one transaction.
// It returns the new event id.
func (db *DB) ArchiveEvent(doc model.Document, hash string, roster model.Roster, now time.Time) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	finished := aggregator.Finished(doc.Matches)
	res, err := tx.Exec(`
		INSERT INTO events(hash, event_name, event_date, court_count, total_matches, finished, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		hash, doc.EventName, EventDate(doc.EventName, now), doc.CourtCount,
		len(doc.Matches), len(finished), now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	playerIDs, err := upsertPlayers(tx, doc.Matches, roster)
	if err != nil {
		return 0, err
	}

	matchStmt, err := tx.Prepare(`
		INSERT INTO matches(event_id, match_key, match_round, court, match_type, team_a, team_b,
			score_a1, score_a2, score_b1, score_b2, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer matchStmt.Close()

	partStmt, err := tx.Prepare(`
		INSERT INTO participations(event_id, player_id, match_id, match_type, team,
			score_team, score_opponent, is_winner)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer partStmt.Close()

	for _, m := range doc.Matches {
		status := aggregator.StatusOf(m)
		res, err := matchStmt.Exec(
			eventID, m.ID, m.Round, m.Court, string(m.Category),
			joinTeam(m.TeamA), joinTeam(m.TeamB),
			m.ScoreA[0], m.ScoreA[1], m.ScoreB[0], m.ScoreB[1], string(status),
		)
		if err != nil {
			return 0, fmt.Errorf("insert match %s: %w", m.ID, err)
		}
		if status != model.StatusFinished {
			continue
		}
		matchID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}

		winner := aggregator.Winner(m)
		totalA, totalB := m.ScoreA.Total(), m.ScoreB.Total()
		sides := []struct {
			side    model.Side
			players []string
			own     int
			opp     int
		}{
			{model.SideA, m.TeamA, totalA, totalB},
			{model.SideB, m.TeamB, totalB, totalA},
		}
		for _, s := range sides {
			for _, name := range s.players {
				if _, err := partStmt.Exec(
					eventID, playerIDs[name], matchID, string(m.Category), s.side.String(),
					s.own, s.opp, boolInt(winner == s.side),
				); err != nil {
					return 0, fmt.Errorf("insert participation for %s: %w", name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return eventID, nil
}

// upsertPlayers makes sure every rostered name has a players row and
// returns their ids. A known gender replaces a stored 'U'.
func upsertPlayers(tx *sql.Tx, matches []model.MatchRecord, roster model.Roster) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, m := range matches {
		for _, name := range m.Players() {
			if _, ok := ids[name]; ok {
				continue
			}
			g := roster.GenderOf(name)
			if _, err := tx.Exec(`
				INSERT INTO players(name, gender) VALUES (?, ?)
				ON CONFLICT(name) DO UPDATE SET gender = excluded.gender
				WHERE players.gender = 'U'`, name, string(g)); err != nil {
				return nil, fmt.Errorf("upsert player %s: %w", name, err)
			}
			var id int64
			if err := tx.QueryRow("SELECT id FROM players WHERE name = ?", name).Scan(&id); err != nil {
				return nil, err
			}
			ids[name] = id
		}
	}
	return ids, nil
}

const eventColumns = `id, hash, event_name, event_date, court_count, total_matches, finished, created_at`

func scanEvent(row interface{ Scan(...any) error }) (model.EventSummary, error) {
	var e model.EventSummary
	err := row.Scan(&e.ID, &e.Hash, &e.EventName, &e.EventDate, &e.CourtCount,
		&e.TotalMatches, &e.Finished, &e.CreatedAt)
	return e, err
}

// ListEvents returns archived events ordered by event date, newest first.
// A limit <= 0 returns every event.
func (db *DB) ListEvents(limit int) ([]model.EventSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT `+eventColumns+`
		FROM events ORDER BY event_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EventSummary
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEvent finds an event by numeric id or by hash prefix. It returns nil
// when nothing matches.
func (db *DB) GetEvent(ref string) (*model.EventSummary, error) {
	if ref == "" {
		return nil, nil
	}
	var row *sql.Row
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		row = db.conn.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	} else {
		row = db.conn.QueryRow(`SELECT `+eventColumns+` FROM events
			WHERE substr(hash, 1, length(?)) = ? ORDER BY id LIMIT 1`, ref, ref)
	}
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEventMatches returns the archived matches of one event ordered by
// round then court.
func (db *DB) GetEventMatches(eventID int64) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_key, match_round, court, match_type, team_a, team_b,
		       score_a1, score_a2, score_b1, score_b2, status
		FROM matches WHERE event_id = ? ORDER BY match_round, court, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var m model.MatchRecord
		var cat, teamA, teamB, status string
		if err := rows.Scan(&m.ID, &m.Round, &m.Court, &cat, &teamA, &teamB,
			&m.ScoreA[0], &m.ScoreA[1], &m.ScoreB[0], &m.ScoreB[1], &status); err != nil {
			return nil, err
		}
		m.Category = model.Category(cat)
		m.TeamA = splitTeam(teamA)
		m.TeamB = splitTeam(teamB)
		m.Status = model.Status(status)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteEvent removes an archived event and everything hanging off it.
func (db *DB) DeleteEvent(eventID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		"DELETE FROM participations WHERE event_id = ?",
		"DELETE FROM matches WHERE event_id = ?",
		"DELETE FROM events WHERE id = ?",
	} {
		if _, err := tx.Exec(q, eventID); err != nil {
			return fmt.Errorf("delete event %d: %w", eventID, err)
		}
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// joinTeam stores a team as a JSON array so names may contain any character.
func joinTeam(names []string) string {
	if names == nil {
		names = []string{}
	}
	b, _ := json.Marshal(names)
	return string(b)
}

// splitTeam reads a team column. Values that are not a JSON array are
// treated as comma-separated names.
func splitTeam(s string) []string {
	var names []string
	if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &names) == nil {
		return names
	}
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
