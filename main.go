package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"KMA-backend/internal/platform/config"
	"KMA-backend/internal/platform/logger"
)

const programName = "kma"

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
)

// commonRun: 設定読み込みとロガー準備（全サブコマンド共通）
func commonRun() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if globalFlags.debug {
		level = "debug"
	}
	log := logger.New(level)

	// コンテナのCPU制限に GOMAXPROCS を合わせる
	if _, err := maxprocs.Set(maxprocs.Logger(log.Infof)); err != nil {
		log.WithError(err).Warn("maxprocs")
	}
	log.WithFields(logrus.Fields{"mode": cfg.Mode, "version": cfg.Version}).Info(programName)
	return cfg, log, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Committee membership & attendance backend",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "config/config.yaml", "path to config file (empty to use env only)")

	// サブコマンド省略時は serve
	serve := serveCommand()
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(reportCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
