package loop

import (
	"io"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/draw"
	"github.com/tomz197/polyroids/internal/game"
)

// screen owns the terminal side of a session: canvas, HUD and resize
// handling.
type screen struct {
	w        io.Writer
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	hud      *draw.HUD
	size     draw.TermSizeFunc
	loop     config.Loop
	status   game.Status
	hasDrawn bool
}

func newScreen(w io.Writer, opts Options) *screen {
	s := &screen{
		w:    w,
		hud:  draw.NewHUD(opts.Renderer),
		size: opts.TermSizeFunc,
		loop: *opts.Loop,
	}

	termWidth, termHeight, err := s.size()
	if err != nil {
		termWidth, termHeight = 80, 24
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, s.loop.MaxTermWidth, s.loop.MaxTermHeight)
	s.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, opts.Game.Field.Width, opts.Game.Field.Height)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.canvas.SetProfile(opts.Renderer.ColorProfile())
	s.cw = draw.NewChunkWriter(w, offsetCol, offsetRow)
	return s
}

// resize handles terminal size changes, clamping to the max render
// resolution. It clears the terminal when the render area moves.
func (s *screen) resize() {
	termWidth, termHeight, err := s.size()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, s.loop.MaxTermWidth, s.loop.MaxTermHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		s.cw.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw.SetOffset(offsetCol, offsetRow)
}

// draw renders one frame.
func (s *screen) draw(snap game.Snapshot) error {
	s.resize()

	// Banners from the previous status would otherwise stay on screen.
	if !s.hasDrawn || snap.State.Status != s.status {
		s.cw.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.status = snap.State.Status
		s.hasDrawn = true
	}

	// The score line changes width; erase it and let the canvas repaint it.
	s.cw.MoveCursor(1, 1)
	s.cw.WriteString("\033[2K")
	s.canvas.InvalidateRow(0)

	s.canvas.Clear()
	draw.Scene(s.canvas, snap)
	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(s.cw); err != nil {
		return err
	}
	s.hud.Draw(s.cw, s.canvas.TerminalWidth(), s.canvas.TerminalHeight(), snap.State, snap.Ship.Invincible)

	return s.cw.Flush()
}
