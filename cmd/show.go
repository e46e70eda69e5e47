package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored rally by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rally, err := db.GetRallyByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query rally: %w", err)
	}
	if rally == nil {
		fmt.Fprintf(os.Stderr, "No rally found with hash prefix %q\n", prefix)
		return nil
	}

	shots, err := db.GetShots(rally.Hash)
	if err != nil {
		return fmt.Errorf("get shots: %w", err)
	}
	recs, err := db.GetRecommendations(rally.Hash)
	if err != nil {
		return fmt.Errorf("get recommendations: %w", err)
	}

	report.PrintRallySummary(os.Stdout, *rally)
	report.PrintShotTable(os.Stdout, shots)
	report.PrintRecommendationTable(os.Stdout, recs)
	return nil
}
