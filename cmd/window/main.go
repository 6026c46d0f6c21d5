package main

import (
	"errors"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
	"github.com/tomz197/orbshot/internal/config"
	"github.com/tomz197/orbshot/internal/game"
	"github.com/tomz197/orbshot/internal/window"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a config file (yaml, toml or json)")
	seed := pflag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "orbshot",
	})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("invalid log level", "err", err)
	}
	logger.SetLevel(level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger.Info("starting", "seed", *seed)

	g := game.New(cfg,
		game.WithLogger(logger),
		game.WithRand(rand.New(rand.NewSource(*seed))),
	)

	ebiten.SetWindowSize(int(cfg.Field.Width), int(cfg.Field.Height))
	ebiten.SetWindowTitle("orbshot")
	ebiten.SetTPS(cfg.Timing.TickRate)

	if err := ebiten.RunGame(window.New(g)); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game error", "err", err)
	}
}
