package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/medallion/internal/app"
	"github.com/vk/medallion/internal/cli"
	"github.com/vk/medallion/internal/hcl"
)

// main is the entrypoint of the interactive query tool. An interrupt ends
// the loop and closes the session cleanly.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if exitErr := cli.QueryExit(err); exitErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

func run(ctx context.Context, in io.Reader, out, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.ParseQuery(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if err := app.LoadEnv(cfg.EnvFile); err != nil {
		return err
	}
	return app.RunQuery(ctx, cfg, hcl.NewLoader(hcl.EnvFromOS()), in, out, errW)
}
