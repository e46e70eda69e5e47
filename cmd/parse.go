package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/analysis"
	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/parser"
	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var parseLabel string

var parseCmd = &cobra.Command{
	Use:   "parse <trajectory.json>",
	Short: "Analyze a rally trajectory file and store the results",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseLabel, "label", "", "session label stored with the rally (e.g. training)")
}

func runParse(cmd *cobra.Command, args []string) error {
	trajPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", trajPath)
	raw, err := parser.ParseFile(trajPath)
	if err != nil {
		return fmt.Errorf("parse trajectory: %w", err)
	}
	if parseLabel != "" {
		raw.Label = parseLabel
	}

	exists, err := db.RallyExists(raw.Hash)
	if err != nil {
		return fmt.Errorf("check rally: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Rally %s already stored — showing cached results.\n\n", raw.Hash[:12])
		return showByHash(db, raw.Hash)
	}

	res, err := analysis.Run(cfg, raw)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if err := db.InsertRally(res.Summary); err != nil {
		return fmt.Errorf("insert rally: %w", err)
	}
	if err := db.InsertShots(res.Shots); err != nil {
		return fmt.Errorf("insert shots: %w", err)
	}
	if err := db.InsertRecommendations(res.Recs); err != nil {
		return fmt.Errorf("insert recommendations: %w", err)
	}

	report.PrintRallySummary(os.Stdout, res.Summary)
	report.PrintShotTable(os.Stdout, res.Shots)
	report.PrintRecommendationTable(os.Stdout, res.Recs)
	return nil
}

func showByHash(db *storage.DB, hash string) error {
	rally, err := db.GetRallyByPrefix(hash)
	if err != nil || rally == nil {
		return fmt.Errorf("rally not found: %s", hash)
	}
	shots, err := db.GetShots(rally.Hash)
	if err != nil {
		return err
	}
	recs, err := db.GetRecommendations(rally.Hash)
	if err != nil {
		return err
	}
	report.PrintRallySummary(os.Stdout, *rally)
	report.PrintShotTable(os.Stdout, shots)
	report.PrintRecommendationTable(os.Stdout, recs)
	return nil
}
