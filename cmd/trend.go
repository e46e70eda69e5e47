package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var trendLabel string

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Chronological per-day analysis trend",
	Args:  cobra.NoArgs,
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendLabel, "label", "", "only rallies with this session label")
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	rows, err := db.Trend(trendLabel)
	if err != nil {
		return fmt.Errorf("query trend: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("no rallies found")
		return nil
	}

	report.PrintTrendTable(os.Stdout, rows)
	return nil
}
