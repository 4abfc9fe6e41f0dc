package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/marsview/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	filter := flag.String("filter", "", "initial filter: all, rent, or buy (optional)")
	refreshSeconds := flag.Int("refresh", 0, "auto refresh interval in seconds (optional, 0 uses config)")
	once := flag.Bool("once", false, "fetch once, print a table, and exit")
	mock := flag.Bool("mock", false, "serve built-in sample listings instead of the remote API")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Filter:     *filter,
		Mock:       *mock,
	}
	if secs := *refreshSeconds; secs > 0 {
		opts.RefreshEvery = time.Duration(secs) * time.Second
	}

	var err error
	if *once {
		opts.LogOutput = os.Stderr
		err = app.RunOnce(ctx, opts, os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "marsview: %v\n", err)
		return 1
	}
	return 0
}
