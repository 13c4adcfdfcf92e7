package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "polyroids: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	seed, err := config.GetEnvInt64("GAME_SEED", time.Now().UnixNano())
	if err != nil {
		return err
	}
	tickRate, err := config.GetEnvInt64("GAME_TICK_RATE", 60)
	if err != nil {
		return err
	}
	loopCfg := config.DefaultLoop()
	loopCfg.TickRate = int(tickRate)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Loop:     &loopCfg,
		Seed:     seed,
		Logger:   logger,
		Renderer: lipgloss.NewRenderer(os.Stdout),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

// newLogger logs to LOG_FILE, if set. The terminal belongs to the game.
func newLogger() (*log.Logger, func(), error) {
	path := config.GetEnv("LOG_FILE", "")
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}

	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "polyroids",
	})
	return logger, func() { _ = f.Close() }, nil
}
