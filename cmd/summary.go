package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

// summaryCmd displays a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all rallies stored in the database:
total rally count, date range, shot-type breakdown, and phase distribution.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalRallies == 0 {
		fmt.Fprintln(os.Stdout, "No rallies stored yet. Run 'shuttlemetrics parse <trajectory.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Rallies stored : %d\n", ov.TotalRallies)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.Earliest, ov.Latest)
	fmt.Fprintf(os.Stdout, "  Total shots    : %d\n", ov.TotalShots)
	fmt.Fprintf(os.Stdout, "  Play time      : %.1fs\n", float64(ov.TotalMS)/1000)
	fmt.Fprintf(os.Stdout, "  Avg pressure   : %.2f\n", ov.AvgPressure)

	types, err := db.ShotTypeBreakdown()
	if err != nil {
		return fmt.Errorf("get type breakdown: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Shot Types ---\n\n")
	report.PrintTypeBreakdown(os.Stdout, types)

	phases, err := db.PhaseDistribution()
	if err != nil {
		return fmt.Errorf("get phase distribution: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Phases ---\n\n")
	report.PrintPhaseDistribution(os.Stdout, phases)

	return nil
}
