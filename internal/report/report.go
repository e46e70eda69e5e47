package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

// PrintRallySummary prints a one-line summary header for the rally.
func PrintRallySummary(w io.Writer, s model.RallySummary) {
	label := s.Label
	if label == "" {
		label = "—"
	}
	fmt.Fprintf(w, "\nSource: %s  |  Analyzed: %s  |  Label: %s  |  Shots: %d  |  Duration: %.1fs  |  Tempo: %.2f shots/s  |  Hash: %s\n\n",
		s.Source, s.AnalyzedAt, label, s.ShotCount,
		float64(s.DurationMS)/1000, s.ShotsPerSecond(), shortHash(s.Hash))
}

// PrintRallyTable prints the stored rally list.
func PrintRallyTable(w io.Writer, rallies []model.RallySummary) {
	table := newTable(w)
	table.Header("HASH", "ANALYZED", "SOURCE", "LABEL", "SAMPLES", "SHOTS", "DURATION", "TEMPO", "AVG_PRESS")

	for _, s := range rallies {
		label := s.Label
		if label == "" {
			label = "—"
		}
		table.Append(
			shortHash(s.Hash),
			s.AnalyzedAt,
			s.Source,
			label,
			strconv.Itoa(s.SampleCount),
			strconv.Itoa(s.ShotCount),
			fmt.Sprintf("%.1fs", float64(s.DurationMS)/1000),
			fmt.Sprintf("%.2f", s.ShotsPerSecond()),
			fmt.Sprintf("%.2f", s.AvgPressure),
		)
	}
	table.Render()
}

// PrintShotTable prints the per-shot table for one rally.
// Columns: IDX | TYPE | SIDE | START | DUR | FROM | TO | SPEED | HEIGHT | PHASE | PRESS
func PrintShotTable(w io.Writer, shots []model.ShotRecord) {
	table := newTable(w)
	table.Header("IDX", "TYPE", "SIDE", "START", "DUR", "FROM", "TO", "SPEED", "HEIGHT", "PHASE", "PRESS")

	for _, s := range shots {
		e, f := s.Event, s.Features
		table.Append(
			strconv.Itoa(e.Index),
			e.Type.String(),
			e.Owner.String(),
			fmt.Sprintf("%.1fs", float64(e.StartMS)/1000),
			fmt.Sprintf("%dms", e.DurationMS()),
			ZoneLabel(f.ContactZone),
			ZoneLabel(f.LandingZone),
			fmt.Sprintf("%.2f", f.SpeedProxy),
			fmt.Sprintf("%.2f", f.HeightProxy),
			f.State.Phase.String(),
			fmt.Sprintf("%.2f", f.State.Pressure),
		)
	}
	table.Render()
}

// PrintRecommendationTable prints ranked recommendations. Rationale entries
// follow as indented lines under the table, grouped per shot.
func PrintRecommendationTable(w io.Writer, recs []model.Recommendation) {
	table := newTable(w)
	table.Header("SHOT", "RANK", "TYPE", "TARGET", "SCORE", "CONF")

	for _, r := range recs {
		table.Append(
			strconv.Itoa(r.ShotIndex),
			strconv.Itoa(r.Rank),
			r.Type.String(),
			ZoneLabel(r.TargetZone),
			fmt.Sprintf("%.1f", r.Score),
			fmt.Sprintf("%.2f", r.Confidence),
		)
	}
	table.Render()

	for _, r := range recs {
		if len(r.Rationale) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nShot %d, rank %d (%s → %s):\n", r.ShotIndex, r.Rank, r.Type, ZoneLabel(r.TargetZone))
		for _, e := range r.Rationale {
			fmt.Fprintf(w, "  %+.2f  %-17s %s\n", e.Impact, e.Category.String(), e.Description)
		}
	}
	fmt.Fprintln(w)
}

// PrintTypeBreakdown prints the shot-type distribution across all rallies.
func PrintTypeBreakdown(w io.Writer, rows []storage.TypeBreakdown) {
	table := newTable(w)
	table.Header("TYPE", "COUNT", "AVG_SPEED", "AVG_PRESS")

	for _, b := range rows {
		table.Append(
			b.Type.String(),
			strconv.Itoa(b.Count),
			fmt.Sprintf("%.2f", b.AvgSpeed),
			fmt.Sprintf("%.2f", b.AvgPressure),
		)
	}
	table.Render()
}

// PrintPhaseDistribution prints the phase distribution across all rallies.
func PrintPhaseDistribution(w io.Writer, rows []storage.PhaseBreakdown) {
	table := newTable(w)
	table.Header("PHASE", "COUNT", "AVG_PRESS")

	for _, b := range rows {
		table.Append(
			b.Phase.String(),
			strconv.Itoa(b.Count),
			fmt.Sprintf("%.2f", b.AvgPressure),
		)
	}
	table.Render()
}

// PrintTrendTable prints the per-day trend, oldest first.
func PrintTrendTable(w io.Writer, rows []storage.TrendRow) {
	table := newTable(w)
	table.Header("DAY", "RALLIES", "SHOTS", "AVG_PRESS", "AVG_TOP_SCORE")

	for _, t := range rows {
		topScore := "—"
		if t.AvgTopScore > 0 {
			topScore = fmt.Sprintf("%.1f", t.AvgTopScore)
		}
		table.Append(
			t.AnalyzedAt,
			strconv.Itoa(t.Rallies),
			strconv.Itoa(t.Shots),
			fmt.Sprintf("%.2f", t.AvgPressure),
			topScore,
		)
	}
	table.Render()
}

// PrintQueryResult prints an arbitrary query result from the sql command.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)

	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// ZoneLabel renders a zone id as depth+lane shorthand: F/M/B rows crossed
// with L/C/R lanes, front row nearest the net.
func ZoneLabel(zone int) string {
	rows := [court.GridSize]string{"F", "M", "B"}
	lanes := [court.GridSize]string{"L", "C", "R"}
	return rows[court.ZoneRow(zone)] + lanes[court.ZoneCol(zone)]
}

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

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
