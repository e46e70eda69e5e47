package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var exportOut string

// rallyExport is the top-level JSON schema written by the export command.
type rallyExport struct {
	Summary         model.RallySummary     `json:"summary"`
	Shots           []model.ShotRecord     `json:"shots"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored rally as JSON",
	Long: `Writes the full analysis of a rally (summary, shots, recommendations)
as a JSON document, for plotting or downstream tooling.

Example:
  shuttlemetrics export a3f9 --out rally.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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
	recs, err := db.GetRecommendations(rally.Hash)
	if err != nil {
		return fmt.Errorf("get recommendations: %w", err)
	}

	doc := rallyExport{Summary: *rally, Shots: shots, Recommendations: recs}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}
