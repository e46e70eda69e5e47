package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/analysis"
	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/storage"
	"github.com/pable/go-shuttle-metrics/internal/tracker"
)

// fetch command flags.
var (
	// fetchServer is the tracker base URL.
	fetchServer string
	// fetchCount is the number of rallies to ingest.
	fetchCount int
	// fetchLabel restricts ingestion to rallies with this session label.
	fetchLabel string
)

// fetchCmd downloads recent rallies from a tracker instance and ingests them.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and ingest rallies from a tracker server",
	Long: `Fetches recent rallies from a shuttle tracker instance, downloads their
trajectories, analyzes them, and stores the results.

Examples:
  shuttlemetrics fetch --server http://court-tracker.local:8080 --count 20
  shuttlemetrics fetch --server http://court-tracker.local:8080 --label training`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchServer, "server", "", "tracker base URL (required)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 10, "number of rallies to ingest")
	fetchCmd.Flags().StringVar(&fetchLabel, "label", "", "only ingest rallies with this session label")
	_ = fetchCmd.MarkFlagRequired("server")
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	client := tracker.NewClient(fetchServer, loadTrackerAPIKey())

	// Over-fetch the listing to leave room for label filtering.
	listLimit := fetchCount * 3
	if listLimit < 30 {
		listLimit = 30
	}
	items, err := client.ListRallies(listLimit)
	if err != nil {
		return fmt.Errorf("list rallies: %w", err)
	}

	ingested := 0
	for _, item := range items {
		if ingested >= fetchCount {
			break
		}
		if fetchLabel != "" && item.Label != fetchLabel {
			continue
		}

		fmt.Printf("[%d/%d] %s  label=%-12s  samples=%d\n",
			ingested+1, fetchCount, item.ID, item.Label, item.Samples)

		raw, err := client.DownloadRally(item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [error] download: %v\n", err)
			continue
		}

		exists, err := db.RallyExists(raw.Hash)
		if err != nil {
			return err
		}
		if exists {
			fmt.Printf("  already stored\n")
			ingested++
			continue
		}

		res, err := analysis.Run(cfg, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [error] analyze: %v\n", err)
			continue
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

		fmt.Printf("  stored: %d shots, %d recommendations\n", len(res.Shots), len(res.Recs))
		ingested++
	}

	fmt.Printf("\nDone: %d/%d rallies ingested\n", ingested, fetchCount)
	return nil
}

// loadTrackerAPIKey returns the tracker API key from the TRACKER_API_KEY
// environment variable or ~/.shuttlemetrics/tracker_api_key. Empty means
// unauthenticated.
func loadTrackerAPIKey() string {
	if v := os.Getenv("TRACKER_API_KEY"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(home, ".shuttlemetrics", "tracker_api_key"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
