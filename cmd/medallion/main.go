package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/medallion/internal/app"
	"github.com/vk/medallion/internal/cli"
	"github.com/vk/medallion/internal/hcl"
)

// main is the entrypoint of the pipeline binary. A recurring schedule (for
// example hourly cron) invokes it without --select to materialize everything.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	if exitErr := cli.MaterializeExit(err); exitErr != nil {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.ParseMaterialize(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if err := app.LoadEnv(appConfig.EnvFile); err != nil {
		return err
	}

	loader := hcl.NewLoader(hcl.EnvFromOS())
	pipeline, err := app.NewApp(ctx, outW, appConfig, loader)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	return pipeline.Run(ctx)
}
