// Package loop hosts a game in a terminal: a fixed-rate cycle of input,
// due timers, simulation tick and render.
package loop

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/draw"
	"github.com/tomz197/polyroids/internal/game"
	"github.com/tomz197/polyroids/internal/input"
	"github.com/tomz197/polyroids/internal/timer"
)

// Options configures Run. Zero values fall back to defaults.
type Options struct {
	Game         *config.Game
	Loop         *config.Loop
	Seed         int64
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
	Renderer     *lipgloss.Renderer // HUD styles; defaults to 256 colors on w
}

// Run plays one game on r and w until the player quits, r ends, or ctx is
// done. It returns nil when the player quits.
func Run(ctx context.Context, r io.ByteReader, w io.Writer, opts Options) error {
	opts = withDefaults(w, opts)

	clock := timer.RealClock{}
	queue := timer.NewQueue(clock)
	g, err := game.New(*opts.Game, clock, queue, rand.New(rand.NewSource(opts.Seed)), game.WithLogger(opts.Logger))
	if err != nil {
		return err
	}

	stream := input.StartStream(r, opts.Loop.KeyHold, clock)
	scr := newScreen(w, opts)
	frameTime := opts.Loop.TickInterval()

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)
	defer draw.ClearScreen(w)

	opts.Logger.Debug("game started", "seed", opts.Seed, "tick", frameTime)

	for {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// ===== INPUT PHASE =====
		frame := stream.Read()
		if frame.Quit {
			opts.Logger.Debug("game ended", "score", g.State().Score, "high_score", g.State().HighScore)
			return nil
		}

		// ===== UPDATE PHASE =====
		queue.RunDue()
		g.Tick(frame.Input)

		// ===== DRAW PHASE =====
		if err := scr.draw(g.Snapshot()); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
}

func withDefaults(w io.Writer, opts Options) Options {
	if opts.Game == nil {
		cfg := config.Default()
		opts.Game = &cfg
	}
	if opts.Loop == nil {
		cfg := config.DefaultLoop()
		opts.Loop = &cfg
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.NewRenderer(w)
		opts.Renderer.SetColorProfile(termenv.ANSI256)
	}
	return opts
}
