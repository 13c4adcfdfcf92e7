package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/game"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func fastLoop() *config.Loop {
	cfg := config.DefaultLoop()
	cfg.TickRate = 1000
	return &cfg
}

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("  q")), &out, Options{
		Loop:         fastLoop(),
		TermSizeFunc: fixedSize(80, 24),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "\033[?25l") {
		t.Errorf("cursor not hidden first: %q", got[:min(len(got), 20)])
	}
	if !strings.HasSuffix(got, "\033[?25h") {
		t.Error("cursor not restored on exit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, bufio.NewReader(pr), io.Discard, Options{
		Loop:         fastLoop(),
		TermSizeFunc: fixedSize(80, 24),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Width = 0
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), io.Discard, Options{
		Game:         &cfg,
		TermSizeFunc: fixedSize(80, 24),
	})
	if err == nil || !strings.Contains(err.Error(), "new game") {
		t.Errorf("Run = %v, want a config error", err)
	}
}

func TestScreenClearsOnStatusChange(t *testing.T) {
	var out bytes.Buffer
	r := lipgloss.NewRenderer(&out)
	r.SetColorProfile(termenv.Ascii)
	cfg := config.Default()
	scr := newScreen(&out, Options{
		Game:         &cfg,
		Loop:         fastLoop(),
		TermSizeFunc: fixedSize(200, 100),
		Renderer:     r,
	})

	snap := game.Snapshot{Field: cfg.Field, State: game.State{Lives: 3, Level: 1, Status: game.StatusPlaying}}
	const clearSeq = "\033[H\033[2J"

	frame := func() string {
		t.Helper()
		out.Reset()
		if err := scr.draw(snap); err != nil {
			t.Fatalf("draw: %v", err)
		}
		return out.String()
	}

	if got := frame(); !strings.Contains(got, clearSeq) || !strings.Contains(got, "┌") {
		t.Errorf("first frame should clear and draw the border: %q", got)
	}
	if got := frame(); strings.Contains(got, clearSeq) {
		t.Error("steady frame cleared the screen")
	}

	snap.State.Status = game.StatusGameOver
	got := frame()
	if !strings.Contains(got, clearSeq) || !strings.Contains(got, "GAME OVER") {
		t.Errorf("game over frame: %q", got)
	}
}
