package config

import "time"

// Loop tunables for the real-time host.
type Loop struct {
	TickRate int           // Simulation ticks per second
	KeyHold  time.Duration // A key counts as held this long after its last byte

	// Max render resolution; larger terminals get a centered, bordered canvas.
	MaxTermWidth  int
	MaxTermHeight int
}

// DefaultLoop returns 60 ticks per second with terminal auto-repeat bridging.
func DefaultLoop() Loop {
	return Loop{
		TickRate:      60,
		KeyHold:       120 * time.Millisecond,
		MaxTermWidth:  120,
		MaxTermHeight: 60,
	}
}

// TickInterval returns the duration of one tick.
func (l Loop) TickInterval() time.Duration {
	if l.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(l.TickRate)
}
