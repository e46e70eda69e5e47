package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes one rally or the whole metrics database.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete a rally or the entire metrics database",
	Long: `With a hash prefix, delete that rally and its shots and recommendations.
Without arguments, permanently delete the SQLite metrics database file.
Re-parse your trajectories afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropRally(args[0])
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropRally(prefix string) error {
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

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete rally %s (%s, %d shots)\n",
			rally.Hash[:12], rally.AnalyzedAt, rally.ShotCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if err := db.DeleteRally(rally.Hash); err != nil {
		return fmt.Errorf("delete rally: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted rally %s\n", rally.Hash[:12])
	return nil
}
