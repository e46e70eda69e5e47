package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-shuttle-metrics/internal/model"
)

// RallyExists returns true if a rally with the given hash is already stored.
func (db *DB) RallyExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM rallies WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRally inserts a rally record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRally(s model.RallySummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO rallies(hash, source, analyzed_at, label, sample_count, shot_count, duration_ms, avg_pressure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Hash, s.Source, s.AnalyzedAt, s.Label,
		s.SampleCount, s.ShotCount, s.DurationMS, s.AvgPressure,
	)
	return err
}

// InsertShots bulk-inserts shot records in a transaction.
func (db *DB) InsertShots(shots []model.ShotRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO shots(
			rally_hash, shot_index, start_ms, end_ms, shot_type, owner,
			contact_x, contact_y, landing_x, landing_y,
			contact_zone, landing_zone,
			speed_proxy, height_proxy, opponent_movement, opponent_dir_change, recovery_quality,
			phase, initiative, pressure, open_zones
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range shots {
		e, f := s.Event, s.Features
		_, err = stmt.Exec(
			s.RallyHash, e.Index, e.StartMS, e.EndMS, e.Type.String(), e.Owner.String(),
			e.Contact.X, e.Contact.Y, e.Landing.X, e.Landing.Y,
			f.ContactZone, f.LandingZone,
			f.SpeedProxy, f.HeightProxy, f.OpponentMovement, f.OpponentDirChange, f.RecoveryQuality,
			f.State.Phase.String(), f.State.Initiative.String(), f.State.Pressure,
			zonesString(f.State.OpenZones),
		)
		if err != nil {
			return fmt.Errorf("insert shots for %s/%d: %w", s.RallyHash, e.Index, err)
		}
	}
	return tx.Commit()
}

// InsertRecommendations bulk-inserts recommendations and their rationale
// entries in one transaction.
func (db *DB) InsertRecommendations(recs []model.Recommendation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	recStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO recommendations(
			rally_hash, shot_index, rank, shot_type, target_zone, path, score, confidence
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	ratStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO rationales(
			rally_hash, shot_index, rank, category, impact, description
		) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer ratStmt.Close()

	for _, r := range recs {
		pathJSON, err := json.Marshal(r.Path)
		if err != nil {
			return err
		}
		_, err = recStmt.Exec(
			r.RallyHash, r.ShotIndex, r.Rank, r.Type.String(), r.TargetZone,
			string(pathJSON), r.Score, r.Confidence,
		)
		if err != nil {
			return fmt.Errorf("insert recommendations for %s/%d/%d: %w", r.RallyHash, r.ShotIndex, r.Rank, err)
		}
		for _, e := range r.Rationale {
			_, err = ratStmt.Exec(
				r.RallyHash, r.ShotIndex, r.Rank, e.Category.String(), e.Impact, e.Description,
			)
			if err != nil {
				return fmt.Errorf("insert rationales for %s/%d/%d: %w", r.RallyHash, r.ShotIndex, r.Rank, err)
			}
		}
	}
	return tx.Commit()
}

// ListRallies returns all stored rally summaries ordered by analyzed_at desc.
func (db *DB) ListRallies() ([]model.RallySummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, analyzed_at, label, sample_count, shot_count, duration_ms, avg_pressure
		FROM rallies ORDER BY analyzed_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RallySummary
	for rows.Next() {
		var s model.RallySummary
		if err := rows.Scan(&s.Hash, &s.Source, &s.AnalyzedAt, &s.Label,
			&s.SampleCount, &s.ShotCount, &s.DurationMS, &s.AvgPressure); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRallyByPrefix finds the first rally whose hash starts with the given prefix.
func (db *DB) GetRallyByPrefix(prefix string) (*model.RallySummary, error) {
	var s model.RallySummary
	err := db.conn.QueryRow(`
		SELECT hash, source, analyzed_at, label, sample_count, shot_count, duration_ms, avg_pressure
		FROM rallies WHERE hash LIKE ? LIMIT 1`, prefix+"%").
		Scan(&s.Hash, &s.Source, &s.AnalyzedAt, &s.Label,
			&s.SampleCount, &s.ShotCount, &s.DurationMS, &s.AvgPressure)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetShots returns all shot records for a rally hash, ordered by shot index.
func (db *DB) GetShots(rallyHash string) ([]model.ShotRecord, error) {
	rows, err := db.conn.Query(`
		SELECT shot_index, start_ms, end_ms, shot_type, owner,
		       contact_x, contact_y, landing_x, landing_y,
		       contact_zone, landing_zone,
		       speed_proxy, height_proxy, opponent_movement, opponent_dir_change, recovery_quality,
		       phase, initiative, pressure, open_zones
		FROM shots WHERE rally_hash = ?
		ORDER BY shot_index`, rallyHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShotRecord
	for rows.Next() {
		var s model.ShotRecord
		var typStr, ownerStr, phaseStr, initStr, zonesStr string
		if err := rows.Scan(
			&s.Event.Index, &s.Event.StartMS, &s.Event.EndMS, &typStr, &ownerStr,
			&s.Event.Contact.X, &s.Event.Contact.Y, &s.Event.Landing.X, &s.Event.Landing.Y,
			&s.Features.ContactZone, &s.Features.LandingZone,
			&s.Features.SpeedProxy, &s.Features.HeightProxy,
			&s.Features.OpponentMovement, &s.Features.OpponentDirChange, &s.Features.RecoveryQuality,
			&phaseStr, &initStr, &s.Features.State.Pressure, &zonesStr,
		); err != nil {
			return nil, err
		}
		s.RallyHash = rallyHash
		s.Event.Type = model.ParseShotType(typStr)
		s.Event.Owner = model.ParseSide(ownerStr)
		s.Features.State.Phase = model.ParsePhase(phaseStr)
		s.Features.State.Initiative = model.ParseInitiative(initStr)
		s.Features.State.OpenZones = parseZones(zonesStr)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRecommendations returns all recommendations for a rally hash with their
// rationale entries attached, ordered by shot index then rank.
func (db *DB) GetRecommendations(rallyHash string) ([]model.Recommendation, error) {
	rows, err := db.conn.Query(`
		SELECT shot_index, rank, shot_type, target_zone, path, score, confidence
		FROM recommendations WHERE rally_hash = ?
		ORDER BY shot_index, rank`, rallyHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Recommendation
	for rows.Next() {
		var r model.Recommendation
		var typStr, pathJSON string
		if err := rows.Scan(&r.ShotIndex, &r.Rank, &typStr, &r.TargetZone,
			&pathJSON, &r.Score, &r.Confidence); err != nil {
			return nil, err
		}
		r.RallyHash = rallyHash
		r.Type = model.ParseShotType(typStr)
		if err := json.Unmarshal([]byte(pathJSON), &r.Path); err != nil {
			return nil, fmt.Errorf("decode path for %s/%d/%d: %w", rallyHash, r.ShotIndex, r.Rank, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		rationale, err := db.getRationale(rallyHash, out[i].ShotIndex, out[i].Rank)
		if err != nil {
			return nil, err
		}
		out[i].Rationale = rationale
	}
	return out, nil
}

func (db *DB) getRationale(rallyHash string, shotIndex, rank int) ([]model.RecommendationRationale, error) {
	rows, err := db.conn.Query(`
		SELECT category, impact, description
		FROM rationales WHERE rally_hash = ? AND shot_index = ? AND rank = ?
		ORDER BY category`, rallyHash, shotIndex, rank)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RecommendationRationale
	for rows.Next() {
		var e model.RecommendationRationale
		var catStr string
		if err := rows.Scan(&catStr, &e.Impact, &e.Description); err != nil {
			return nil, err
		}
		e.Category = model.ParseRationaleCategory(catStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteRally removes a rally and all of its derived rows in one transaction.
func (db *DB) DeleteRally(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"rationales", "recommendations", "shots", "rallies"} {
		col := "rally_hash"
		if table == "rallies" {
			col = "hash"
		}
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE "+col+" = ?", hash); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Overview is the database-wide aggregate shown by the summary command.
type Overview struct {
	TotalRallies int
	Earliest     string
	Latest       string
	TotalShots   int
	TotalMS      int64
	AvgPressure  float64
}

// GetOverview returns high-level aggregates over all stored rallies.
func (db *DB) GetOverview() (*Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	var shots, ms sql.NullInt64
	var press sql.NullFloat64
	err := db.conn.QueryRow(`
		SELECT COUNT(1), MIN(analyzed_at), MAX(analyzed_at),
		       SUM(shot_count), SUM(duration_ms), AVG(avg_pressure)
		FROM rallies`).
		Scan(&ov.TotalRallies, &earliest, &latest, &shots, &ms, &press)
	if err != nil {
		return nil, err
	}
	ov.Earliest = earliest.String
	ov.Latest = latest.String
	ov.TotalShots = int(shots.Int64)
	ov.TotalMS = ms.Int64
	ov.AvgPressure = press.Float64
	return &ov, nil
}

// TypeBreakdown is one row of the shot-type distribution across all rallies.
type TypeBreakdown struct {
	Type        model.ShotType
	Count       int
	AvgSpeed    float64
	AvgPressure float64
}

// ShotTypeBreakdown aggregates stored shots by type, most frequent first.
func (db *DB) ShotTypeBreakdown() ([]TypeBreakdown, error) {
	rows, err := db.conn.Query(`
		SELECT shot_type, COUNT(1), AVG(speed_proxy), AVG(pressure)
		FROM shots GROUP BY shot_type ORDER BY COUNT(1) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeBreakdown
	for rows.Next() {
		var b TypeBreakdown
		var typStr string
		if err := rows.Scan(&typStr, &b.Count, &b.AvgSpeed, &b.AvgPressure); err != nil {
			return nil, err
		}
		b.Type = model.ParseShotType(typStr)
		out = append(out, b)
	}
	return out, rows.Err()
}

// PhaseBreakdown is one row of the phase distribution across all rallies.
type PhaseBreakdown struct {
	Phase       model.Phase
	Count       int
	AvgPressure float64
}

// PhaseDistribution aggregates stored shots by rally phase.
func (db *DB) PhaseDistribution() ([]PhaseBreakdown, error) {
	rows, err := db.conn.Query(`
		SELECT phase, COUNT(1), AVG(pressure)
		FROM shots GROUP BY phase ORDER BY COUNT(1) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PhaseBreakdown
	for rows.Next() {
		var b PhaseBreakdown
		var phaseStr string
		if err := rows.Scan(&phaseStr, &b.Count, &b.AvgPressure); err != nil {
			return nil, err
		}
		b.Phase = model.ParsePhase(phaseStr)
		out = append(out, b)
	}
	return out, rows.Err()
}

// TrendRow is one analysis day in the trend query.
type TrendRow struct {
	AnalyzedAt  string
	Rallies     int
	Shots       int
	AvgPressure float64
	AvgTopScore float64
}

// Trend aggregates stored rallies per analysis day, oldest first. label
// restricts the aggregate to rallies with that session label; empty means all.
// AvgTopScore averages the rank-1 recommendation score over the day's shots.
func (db *DB) Trend(label string) ([]TrendRow, error) {
	rows, err := db.conn.Query(`
		SELECT r.analyzed_at,
		       COUNT(DISTINCT r.hash),
		       SUM(r.shot_count),
		       AVG(r.avg_pressure),
		       COALESCE((
		           SELECT AVG(score) FROM recommendations rec
		           JOIN rallies r2 ON r2.hash = rec.rally_hash
		           WHERE rec.rank = 1 AND r2.analyzed_at = r.analyzed_at
		             AND (? = '' OR r2.label = ?)
		       ), 0)
		FROM rallies r
		WHERE ? = '' OR r.label = ?
		GROUP BY r.analyzed_at ORDER BY r.analyzed_at`,
		label, label, label, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendRow
	for rows.Next() {
		var t TrendRow
		if err := rows.Scan(&t.AnalyzedAt, &t.Rallies, &t.Shots, &t.AvgPressure, &t.AvgTopScore); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Query runs an arbitrary read-only statement and returns column names plus
// rows rendered as strings. Backs the sql command.
func (db *DB) Query(q string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(q)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func zonesString(zones []int) string {
	parts := make([]string, len(zones))
	for i, z := range zones {
		parts[i] = strconv.Itoa(z)
	}
	return strings.Join(parts, ",")
}

func parseZones(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	zones := make([]int, 0, len(parts))
	for _, p := range parts {
		z, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		zones = append(zones, z)
	}
	return zones
}
