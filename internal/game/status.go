package game

import "fmt"

// Status is the game's lifecycle phase.
type Status int

const (
	StatusPlaying       Status = iota // Normal simulation
	StatusExploding                   // Ship destroyed, respawn timer pending
	StatusRespawning                  // Waiting for the center to clear
	StatusTransitioning               // Level cleared, level timer pending
	StatusGameOver                    // Waiting for a restart
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusExploding:
		return "exploding"
	case StatusRespawning:
		return "respawning"
	case StatusTransitioning:
		return "transitioning"
	case StatusGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// acceptsInput reports whether ship controls are honored.
func (s Status) acceptsInput() bool {
	switch s {
	case StatusPlaying, StatusTransitioning:
		return true
	default:
		return false
	}
}

// shipVulnerable reports whether rocks can destroy the ship.
func (s Status) shipVulnerable() bool {
	switch s {
	case StatusPlaying, StatusTransitioning:
		return true
	default:
		return false
	}
}
