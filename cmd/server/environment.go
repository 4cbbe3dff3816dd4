package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfdash/internal/platform/db"
)

type environment struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// withPool runs fn against a freshly opened pool and closes it afterwards.
func withPool(ctx context.Context, flags map[string]cobraflags.Flag, fn func(context.Context, *environment) error) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return reportError(logger, err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return reportError(logger, fmt.Errorf("db connect failed: %w", err))
	}
	defer pool.Close()

	if err := fn(ctx, &environment{pool: pool, logger: logger}); err != nil {
		return reportError(logger, err)
	}
	return nil
}

func reportError(logger *slog.Logger, err error) error {
	if logger != nil {
		logger.Error("perfdash failed", "err", err)
	} else {
		fmt.Fprintln(os.Stderr, "perfdash:", err)
	}
	return err
}
