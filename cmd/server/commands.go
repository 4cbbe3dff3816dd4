package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"perfdash/internal/app/server"
	"perfdash/internal/platform/config"
	"perfdash/internal/platform/db"
)

const (
	envFileFlag = "env-file"
	addrFlag    = "addr"
)

func envFileFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: ".env",
			Usage: "Optional dotenv file loaded before reading the environment",
		},
	}
}

func serveFlags() map[string]cobraflags.Flag {
	flags := envFileFlags()
	flags[addrFlag] = &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: "",
		Usage: "Listen address, overrides APP_ADDR",
	}
	return flags
}

func newRootCommand() *cobra.Command {
	flags := serveFlags()
	root := &cobra.Command{
		Use:           "perfdash",
		Short:         "Employee performance dashboard",
		Long:          "perfdash serves an HTML dashboard of employees and their KRAs, KPIs, appraisal, goals and 360 feedback.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	cobraflags.RegisterMap(root, flags)

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newSeedCommand())
	return root
}

func newServeCommand() *cobra.Command {
	flags := serveFlags()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	flags := envFileFlags()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), flags, func(ctx context.Context, env *environment) error {
				if err := db.Migrate(ctx, env.pool, db.Migrations()); err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}
				env.logger.Info("migrations applied")
				return nil
			})
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newSeedCommand() *cobra.Command {
	flags := envFileFlags()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo employees into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), flags, func(ctx context.Context, env *environment) error {
				if err := db.Migrate(ctx, env.pool, db.Migrations()); err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}
				if err := db.Seed(ctx, env.pool); err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				env.logger.Info("demo data seeded")
				return nil
			})
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func loadConfig(flags map[string]cobraflags.Flag) (config.Config, *slog.Logger, error) {
	if err := config.LoadEnvFile(flags[envFileFlag].GetString()); err != nil {
		return config.Config{}, nil, fmt.Errorf("load env file: %w", err)
	}
	cfg := config.Load()
	if flag, ok := flags[addrFlag]; ok && flag.GetString() != "" {
		cfg.Addr = flag.GetString()
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func runServe(ctx context.Context, flags map[string]cobraflags.Flag) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return reportError(logger, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		return reportError(logger, err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		return reportError(logger, fmt.Errorf("server failed: %w", err))
	}
	logger.Info("server stopped")
	return nil
}
