package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sidegames-golf/sidegames/db"
	"github.com/sidegames-golf/sidegames/logger"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, err := db.Connect(a.cfg.DB, dbConnectTimeout, a.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := dbConn.Close(); err != nil {
					a.log.Error("failed to close database connection", logger.Err(err))
				}
			}()

			applied, err := db.Migrate(cmd.Context(), dbConn, a.log)
			if err != nil {
				return err
			}
			a.log.Info("migrations complete", slog.Int("applied", applied))
			return nil
		},
	}
}
