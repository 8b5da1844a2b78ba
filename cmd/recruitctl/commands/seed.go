package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-recruit-assistant/internal/config"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
)

var seedFile string

// NewSeedCmd creates the schedule import command.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the interview schedule CSV into the slot pool",
		Long: `Import interview slots from a CSV file (position, date, time, available).
Rows already present are left untouched, so re-running is safe.`,
		RunE: runSeed,
	}

	cmd.Flags().StringVar(&seedFile, "file", "", "Schedule CSV path (defaults to SCHEDULE_PATH)")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := seedFile
	if path == "" {
		path = cfg.SchedulePath
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	n, err := repo.ImportScheduleCSV(cmd.Context(), db, f)
	if err != nil {
		return fmt.Errorf("import schedule: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d slot(s) from %s\n", n, path)
	return nil
}
