package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/server"
)

func serveCommand() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := commonRun()
			if err != nil {
				return err
			}

			if !skipMigrate {
				if err := db.Migrate(cfg.DB, log); err != nil {
					return err
				}
			}

			conn, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			defer conn.Close()
			log.WithField("dbname", cfg.DB.DBName).Info("connected to DB")

			app, err := server.NewApp(cfg, conn, log, nil)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			if cfg.IsDev() {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, app, server.NewRouter(app))
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}
