package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rallies",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		rallies, err := db.ListRallies()
		if err != nil {
			return err
		}
		if len(rallies) == 0 {
			fmt.Println("No rallies stored yet. Run 'shuttlemetrics parse <trajectory.json>' to add one.")
			return nil
		}
		report.PrintRallyTable(os.Stdout, rallies)
		return nil
	},
}
