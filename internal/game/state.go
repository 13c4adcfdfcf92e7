package game

// State holds the counters the HUD shows and the state machine's position.
type State struct {
	Score         int
	Level         int
	Lives         int
	HighScore     int // Best score this process; survives restarts
	NextExtraLife int
	Status        Status
	Epoch         uint64 // Bumped on every restart; deferred callbacks compare it
}

// Input is one tick's worth of player commands. Left, Right and Thrust are
// held; Fire, ToggleInvincible and Restart are edge-triggered.
type Input struct {
	Left             bool
	Right            bool
	Thrust           bool
	Fire             bool
	ToggleInvincible bool
	Restart          bool
}
