// Package game runs the simulation: entity collections, the collision and
// fission engine, and the epoch-guarded state machine. A Game is owned by a
// single goroutine; deferred transitions arrive through a timer.Scheduler
// that the host drains between ticks.
package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/object"
	"github.com/tomz197/polyroids/internal/physics"
	"github.com/tomz197/polyroids/internal/timer"
)

// ErrMissingCollaborator is returned by New when a clock, scheduler or random
// source is nil.
var ErrMissingCollaborator = errors.New("missing collaborator")

// Game is the simulation context.
type Game struct {
	cfg   config.Game
	clock timer.Clock
	sched timer.Scheduler
	rng   *rand.Rand
	log   *log.Logger

	state State

	ship           *object.Ship
	rocks          []*object.Rock
	toSpawn        []*object.Rock // Fragments added after the collision pass
	projectiles    []*object.Projectile
	rockExplosions []*object.RockExplosion
	shipExplosions []*object.ShipExplosion

	grid *physics.SpatialGrid
	near []int

	snap Snapshot
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger for state changes and dropped timers.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// New validates cfg and starts a game at level 1.
func New(cfg config.Game, clock timer.Clock, sched timer.Scheduler, rng *rand.Rand, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	if clock == nil || sched == nil || rng == nil {
		return nil, fmt.Errorf("new game: %w", ErrMissingCollaborator)
	}

	g := &Game{
		cfg:   cfg,
		clock: clock,
		sched: sched,
		rng:   rng,
		log:   log.New(io.Discard),
		grid:  physics.NewSpatialGrid(cfg.Field.Width, cfg.Field.Height, object.MaxExtent(cfg.Rocks)),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ship = object.NewShip(cfg.Ship, g.center())
	g.reset()
	return g, nil
}

// State returns a copy of the counters and status.
func (g *Game) State() State {
	return g.state
}

// Snapshot returns the world as of the end of the last tick.
func (g *Game) Snapshot() Snapshot {
	return g.snap
}

// Restart begins a new game at level 1. Pending timers from the previous
// game become no-ops. The high score is kept.
func (g *Game) Restart() {
	g.state.Epoch++
	g.reset()
	g.log.Debug("restart", "epoch", g.state.Epoch, "high_score", g.state.HighScore)
}

// reset clears counters and collections and spawns the first level.
func (g *Game) reset() {
	g.state = State{
		Level:         1,
		Lives:         g.cfg.Rules.InitialLives,
		HighScore:     g.state.HighScore,
		NextExtraLife: g.cfg.Rules.ExtraLifeScore,
		Status:        StatusPlaying,
		Epoch:         g.state.Epoch,
	}

	invincible := g.ship.Invincible
	g.ship.Reset(g.center())
	g.ship.Invincible = invincible

	g.rocks = g.rocks[:0]
	g.toSpawn = g.toSpawn[:0]
	g.projectiles = g.projectiles[:0]
	g.rockExplosions = g.rockExplosions[:0]
	g.shipExplosions = g.shipExplosions[:0]

	g.spawnLevelRocks()
	g.snap = g.snapshot()
}

// Tick advances the simulation by one frame.
func (g *Game) Tick(in Input) {
	ctx := object.UpdateContext{Field: g.cfg.Field, Now: g.clock.Now()}
	status := g.state.Status

	switch status {
	case StatusRespawning:
		g.tryRespawn()
	case StatusGameOver:
		if in.Restart {
			g.Restart()
			return
		}
	}

	if status.acceptsInput() {
		g.applyInput(in, ctx)
		g.ship.Update(ctx)
	}

	g.projectiles = object.UpdateAll(g.projectiles, ctx)
	g.updateRocks(ctx)
	g.rockExplosions = object.UpdateAll(g.rockExplosions, ctx)
	g.shipExplosions = object.UpdateAll(g.shipExplosions, ctx)

	g.endTick()
	g.snap = g.snapshot()
}

// applyInput copies held controls onto the ship and handles edge commands.
func (g *Game) applyInput(in Input, ctx object.UpdateContext) {
	g.ship.RotatingLeft = in.Left
	g.ship.RotatingRight = in.Right
	g.ship.Thrusting = in.Thrust

	if in.ToggleInvincible {
		g.ship.Invincible = !g.ship.Invincible
		g.log.Debug("invincibility toggled", "on", g.ship.Invincible)
	}
	if in.Fire {
		g.fire(ctx)
	}
}

// fire launches a projectile unless the cap is reached.
func (g *Game) fire(ctx object.UpdateContext) {
	if g.ship.Dead || len(g.projectiles) >= g.cfg.Projectiles.Max {
		return
	}
	g.projectiles = append(g.projectiles, object.NewProjectile(g.ship, g.cfg.Projectiles, ctx.Now))
}

// endTick sweeps consumed projectiles, settles score-driven counters and
// starts the level transition once the field is clear.
func (g *Game) endTick() {
	kept := g.projectiles[:0]
	for _, p := range g.projectiles {
		if !p.Dead {
			kept = append(kept, p)
		}
	}
	clear(g.projectiles[len(kept):])
	g.projectiles = kept

	g.state.HighScore = max(g.state.HighScore, g.state.Score)
	for g.state.Score >= g.state.NextExtraLife {
		if g.state.Lives < g.cfg.Rules.MaxLives {
			g.state.Lives++
		}
		g.state.NextExtraLife += g.cfg.Rules.ExtraLifeScore
		g.log.Debug("extra life", "lives", g.state.Lives, "next", g.state.NextExtraLife)
	}

	if len(g.rocks) == 0 && g.state.Status == StatusPlaying {
		g.beginTransition()
	}
}

// spawnLevelRocks fills the field with large rocks for the current level.
func (g *Game) spawnLevelRocks() {
	for i := 0; i < levelRockCount(g.cfg.Rocks, g.state.Level); i++ {
		rock, err := object.NewRock(g.rng, g.cfg.Rocks, object.RockLarge, object.SpawnPoint(g.rng, g.cfg.Field))
		if err != nil {
			g.log.Error("spawn rock", "err", err)
			continue
		}
		g.rocks = append(g.rocks, rock)
	}
}

// levelRockCount returns clamp(BaseCount+level, 2, MaxPerLevel).
func levelRockCount(cfg config.Rocks, level int) int {
	return min(max(cfg.BaseCount+level, 2), cfg.MaxPerLevel)
}

func (g *Game) center() physics.Vec {
	return physics.Vec{X: g.cfg.Field.Width / 2, Y: g.cfg.Field.Height / 2}
}
