package cmd

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/foraginglink/backend/internal/cmd/flags"
	"github.com/foraginglink/backend/internal/database"
	"github.com/foraginglink/backend/internal/services"
)

var promoteCmd = &cli.Command{
	Name:  "promote",
	Usage: "Grant or revoke staff status for a user",
	Flags: append([]cli.Flag{flags.USERNAME, flags.REVOKE}, flags.Database()...),
	Action: func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		log := slog.Default()
		db, err := database.New(cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		auth := services.NewAuthService(db.GetDB(), nil, cfg.ImageBase, log)
		username := c.String("username")
		staff := !c.Bool("revoke")

		return auth.SetStaff(ctx, username, staff)
	},
}
