package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"adachi/analytics"
	"adachi/bot"
	"adachi/commands"
	"adachi/config"
	"adachi/logger"
	"adachi/pool"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "adachi",
	Short:         "Adachi cube Discord bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return run(ctx, config.Path(configPath))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and check the config file and media folders, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path(configPath)
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if _, err := pool.New(cfg.TrueFolderPath, cfg.MaybeFolderPath, cfg.FalseFolderPath); err != nil {
			return err
		}
		sink, err := analytics.New(cfg.InfluxHost, cfg.InfluxDatabase, cfg.AnalyticsIdentifier)
		if err != nil {
			return err
		}
		defer sink.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (identifier=%s telemetry=%t status=%q)\n",
			path, sink.Identifier(), cfg.TelemetryEnabled(), cfg.StatusListen)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("config file (default $%s or %s)", config.EnvConfigPath, config.DefaultConfigPath))
	rootCmd.AddCommand(validateCmd)
}

func run(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})

	pools, err := pool.New(cfg.TrueFolderPath, cfg.MaybeFolderPath, cfg.FalseFolderPath)
	if err != nil {
		return err
	}

	sink, err := analytics.New(cfg.InfluxHost, cfg.InfluxDatabase, cfg.AnalyticsIdentifier)
	if err != nil {
		return errors.Wrap(err, "init analytics")
	}
	defer sink.Close()

	appCtx := &commands.AppContext{
		Log:              logger.Default(),
		Analytics:        sink,
		Pools:            pools,
		SupportServerURL: cfg.SupportServerURL,
	}

	b, err := bot.New(cfg, appCtx)
	if err != nil {
		return err
	}
	logger.Info("Botを起動します", "config", path, "telemetry", cfg.TelemetryEnabled())
	return b.Start(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "adachi:", err)
		os.Exit(1)
	}
}
