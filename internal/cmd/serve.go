package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/foraginglink/backend/internal/cmd/flags"
	"github.com/foraginglink/backend/internal/database"
	"github.com/foraginglink/backend/internal/notify"
	"github.com/foraginglink/backend/internal/server"
	"github.com/foraginglink/backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Migrate the database and serve the HTTP API",
	Flags: flags.Server(),
	Action: func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := slog.Default()

		db, err := database.New(cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return err
		}

		svcs := services.New(db.GetDB(), cfg, notify.New(cfg.Twilio, log), log)
		srv := server.NewServer(cfg, db, svcs, log)

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return listen(ctx, srv, log)
	},
}

func listen(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errs := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}
