package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

// shots command flags.
var (
	shotsType  string
	shotsPhase string
	shotsSide  string
)

var shotsCmd = &cobra.Command{
	Use:   "shots <hash-prefix>",
	Short: "List the shots of a stored rally",
	Long: `Prints the per-shot breakdown of a rally, optionally filtered.

Examples:
  shuttlemetrics shots a3f9
  shuttlemetrics shots a3f9 --type smash
  shuttlemetrics shots a3f9 --phase attack --side near`,
	Args: cobra.ExactArgs(1),
	RunE: runShots,
}

func init() {
	shotsCmd.Flags().StringVar(&shotsType, "type", "", "only shots of this type (clear, drop, smash, drive, net, lift)")
	shotsCmd.Flags().StringVar(&shotsPhase, "phase", "", "only shots in this phase (attack, defense, neutral)")
	shotsCmd.Flags().StringVar(&shotsSide, "side", "", "only shots hit by this side (near, far)")
}

func runShots(cmd *cobra.Command, args []string) error {
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

	shots, err := db.GetShots(rally.Hash)
	if err != nil {
		return fmt.Errorf("get shots: %w", err)
	}

	filtered := shots[:0]
	for _, s := range shots {
		if shotsType != "" && s.Event.Type != model.ParseShotType(shotsType) {
			continue
		}
		if shotsPhase != "" && s.Features.State.Phase != model.ParsePhase(shotsPhase) {
			continue
		}
		if shotsSide != "" && s.Event.Owner != model.ParseSide(shotsSide) {
			continue
		}
		filtered = append(filtered, s)
	}

	if len(filtered) == 0 {
		fmt.Println("No shots match the given filters.")
		return nil
	}

	report.PrintRallySummary(os.Stdout, *rally)
	report.PrintShotTable(os.Stdout, filtered)
	return nil
}
