package draw

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/polyroids/internal/game"
)

// reserveShip is the glyph for each life not currently in play.
const reserveShip = "▲"

// HUD draws the score line and status banners.
type HUD struct {
	score   lipgloss.Style
	ships   lipgloss.Style
	high    lipgloss.Style
	banner  lipgloss.Style
	hint    lipgloss.Style
	warning lipgloss.Style
}

// NewHUD creates HUD styles bound to r, so colors match the output the
// HUD is written to.
func NewHUD(r *lipgloss.Renderer) *HUD {
	return &HUD{
		score:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		ships:   r.NewStyle().Foreground(lipgloss.Color("39")),
		high:    r.NewStyle().Foreground(lipgloss.Color("245")),
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203")),
		hint:    r.NewStyle().Foreground(lipgloss.Color("250")),
		warning: r.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	}
}

// Draw writes the HUD for state into a width x height render area.
func (h *HUD) Draw(cw *ChunkWriter, width, height int, state game.State, invincible bool) {
	left := h.score.Render(fmt.Sprintf("%d", state.Score))
	if reserve := state.Lives - 1; reserve > 0 {
		left += " " + h.ships.Render(strings.Repeat(reserveShip, reserve))
	}
	cw.WriteAt(2, 1, left)

	right := h.high.Render(fmt.Sprintf("HI %d  LV %d", state.HighScore, state.Level))
	cw.WriteAt(max(width-lipgloss.Width(right), 1), 1, right)

	if invincible {
		tag := h.warning.Render("INVINCIBLE")
		cw.WriteAt(max((width-lipgloss.Width(tag))/2, 1), 1, tag)
	}

	switch state.Status {
	case game.StatusGameOver:
		h.center(cw, width, height/2-2, h.banner.Render("GAME OVER"))
		h.center(cw, width, height/2+2, h.hint.Render("Press P to play again"))
	case game.StatusTransitioning:
		h.center(cw, width, height/2, h.hint.Render(fmt.Sprintf("LEVEL %d", state.Level+1)))
	case game.StatusPlaying, game.StatusExploding, game.StatusRespawning:
	}
}

// center writes a possibly multi-line block horizontally centered with its
// first line at row.
func (h *HUD) center(cw *ChunkWriter, width, row int, block string) {
	for i, line := range strings.Split(block, "\n") {
		cw.WriteAt(max((width-lipgloss.Width(line))/2, 1), row+i, line)
	}
}
