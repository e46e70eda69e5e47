package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

// recsShot limits output to a single decision point. -1 means all shots.
var recsShot int

var recsCmd = &cobra.Command{
	Use:   "recs <hash-prefix>",
	Short: "Show shot recommendations for a stored rally",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecs,
}

func init() {
	recsCmd.Flags().IntVar(&recsShot, "shot", -1, "only recommendations for this shot index")
}

func runRecs(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rally, err := db.GetRallyByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query rally: %w", err)
	}
	if rally == nil {
		fmt.Fprintf(os.Stderr, "No rally found with hash prefix %q\n", args[0])
		return nil
	}

	recs, err := db.GetRecommendations(rally.Hash)
	if err != nil {
		return fmt.Errorf("get recommendations: %w", err)
	}
	if recsShot >= 0 {
		filtered := []model.Recommendation{}
		for _, r := range recs {
			if r.ShotIndex == recsShot {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}
	if len(recs) == 0 {
		fmt.Println("No recommendations stored for this rally.")
		return nil
	}

	report.PrintRallySummary(os.Stdout, *rally)
	report.PrintRecommendationTable(os.Stdout, recs)
	return nil
}
