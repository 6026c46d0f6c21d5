package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/tomz197/orbshot/internal/config"
	"github.com/tomz197/orbshot/internal/loop"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds everything main does so deferred cleanup (log file, raw mode)
// happens before the process exits.
func run() error {
	configPath := pflag.StringP("config", "c", "", "path to a config file (yaml, toml or json)")
	seed := pflag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog, err := newLogger(config.GetEnv("ORBSHOT_LOG", ""), *logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger.Info("starting", "seed", *seed)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Config: cfg,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		logger.Error("game error", "err", err)
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

// newLogger builds the game logger. Log lines would corrupt the rendered
// screen, so they go to the file at path, or nowhere when path is empty.
// The returned func closes the file.
func newLogger(path, level string) (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = io.Discard
	closeFn := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "orbshot",
		Level:           lvl,
	})
	return logger, closeFn, nil
}
