package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  rallies(hash, source, analyzed_at, label, sample_count, shot_count,
    duration_ms, avg_pressure)
  shots(rally_hash, shot_index, start_ms, end_ms, shot_type, owner,
    contact_x, contact_y, landing_x, landing_y, contact_zone, landing_zone,
    speed_proxy, height_proxy, opponent_movement, opponent_dir_change, recovery_quality,
    phase, initiative, pressure, open_zones)
  recommendations(rally_hash, shot_index, rank, shot_type, target_zone,
    path, score, confidence)
  rationales(rally_hash, shot_index, rank, category, impact, description)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.Query(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
