package storage

import (
	"fmt"
	"strings"

	"github.com/pable/go-badminton-tracker/internal/model"
)

// CareerStats returns archived totals per player, most matches first. With
// no names every player is returned.
func (db *DB) CareerStats(names ...string) ([]model.CareerStats, error) {
	where := ""
	args := make([]interface{}, 0, len(names))
	if len(names) > 0 {
		where = fmt.Sprintf("WHERE p.name IN (%s)", placeholders(len(names)))
		for _, n := range names {
			args = append(args, n)
		}
	}

	query := fmt.Sprintf(`
		SELECT p.name, p.gender,
		       COUNT(DISTINCT pa.event_id),
		       COUNT(pa.id),
		       COALESCE(SUM(pa.is_winner), 0)
		FROM players p
		LEFT JOIN participations pa ON pa.player_id = p.id
		%s
		GROUP BY p.id
		ORDER BY COUNT(pa.id) DESC, p.name`, where)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CareerStats
	index := map[string]int{}
	for rows.Next() {
		var c model.CareerStats
		var gender string
		if err := rows.Scan(&c.Name, &gender, &c.Events, &c.TotalMatches, &c.Wins); err != nil {
			return nil, err
		}
		c.Gender = model.Gender(gender)
		c.ByCategory = map[model.Category]int{}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := db.fillCategories(out, index, where, args); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) fillCategories(out []model.CareerStats, index map[string]int, where string, args []interface{}) error {
	query := fmt.Sprintf(`
		SELECT p.name, pa.match_type, COUNT(1)
		FROM participations pa
		JOIN players p ON p.id = pa.player_id
		%s
		GROUP BY p.id, pa.match_type`, where)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, cat string
		var n int
		if err := rows.Scan(&name, &cat, &n); err != nil {
			return err
		}
		if i, ok := index[name]; ok {
			out[i].ByCategory[model.Category(cat)] = n
		}
	}
	return rows.Err()
}

// Partners returns who the player has shared a side with, most matches first.
func (db *DB) Partners(name string) ([]model.PartnerRecord, error) {
	rows, err := db.conn.Query(`
		SELECT q.name, COUNT(1), COALESCE(SUM(me.is_winner), 0)
		FROM participations me
		JOIN players p ON p.id = me.player_id
		JOIN participations mate ON mate.match_id = me.match_id
		                        AND mate.team = me.team
		                        AND mate.player_id <> me.player_id
		JOIN players q ON q.id = mate.player_id
		WHERE p.name = ?
		GROUP BY q.id
		ORDER BY COUNT(1) DESC, SUM(me.is_winner) DESC, q.name`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PartnerRecord
	for rows.Next() {
		var r model.PartnerRecord
		if err := rows.Scan(&r.Partner, &r.Matches, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
