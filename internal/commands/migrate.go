package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/pkg/database"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert the database schema",
		Long:      "Apply every pending migration (up, the default) or revert the latest one (down).",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.Up
			if len(args) == 1 {
				direction = database.Direction(args[0])
			}
			if direction != database.Up && direction != database.Down {
				return &ExitError{Code: 2, Err: fmt.Errorf("unknown direction %q: use up or down", args[0])}
			}

			cfg, logger, err := a.config(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return &ExitError{Code: 2, Err: errors.New("database URL required: set PGSQL_URL or --database-url")}
			}
			if err := database.Migrate(cfg.DatabaseURL, direction, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", direction)
			return nil
		},
	}
}
