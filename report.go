package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"KMA-backend/internal/attendance"
	"KMA-backend/internal/platform/db"
	"KMA-backend/internal/report"
	"KMA-backend/internal/server"
)

func reportCommand() *cobra.Command {
	var contextFlag string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the attendance payment report as CSV to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := commonRun()
			if err != nil {
				return err
			}
			conn, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			defer conn.Close()

			app, err := server.NewApp(cfg, conn, log, nil)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}

			var filter *attendance.Context
			if contextFlag != "" {
				mc, err := app.Attendance.ParseContext(contextFlag)
				if err != nil {
					return err
				}
				filter = &mc
			}
			rows, err := app.Reports.Build(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return report.WriteCSV(os.Stdout, rows)
		},
	}
	cmd.Flags().StringVar(&contextFlag, "context", "", "general, execo or subcommittee:<id> (default: all subcommittees)")
	return cmd
}
