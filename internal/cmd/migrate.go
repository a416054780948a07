package cmd

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/foraginglink/backend/internal/cmd/flags"
	"github.com/foraginglink/backend/internal/database"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database tables",
	Flags: flags.Database(),
	Action: func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		db, err := database.New(cfg.Database, slog.Default())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		slog.Info("database migrated")
		return nil
	},
}
