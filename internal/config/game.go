package config

import (
	"errors"
	"fmt"
	"time"
)

// Field is the toroidal playfield.
type Field struct {
	Width  float64
	Height float64
}

// Ship tunables. Speeds are per tick, angles in degrees per tick.
type Ship struct {
	Width    float64
	Height   float64
	Accel    float64 // Thrust added per tick
	Decel    float64 // Per-axis drag toward zero per tick
	TurnRate float64
	MaxSpeed float64

	FlashTicks  int // Respawn shield duration
	FlashPeriod int // Ticks per visibility toggle while shielded
}

// Projectiles tunables.
type Projectiles struct {
	Max      int // Live projectile cap; firing above it is a no-op
	Speed    float64
	Lifetime time.Duration
}

// RockClass describes one obstacle size class.
type RockClass struct {
	Size  float64 // Diameter; generation radius is Size/2
	Sides int
	Score int
}

// Rocks tunables.
type Rocks struct {
	Small  RockClass
	Medium RockClass
	Large  RockClass

	MinSpeed float64 // Per axis, random sign
	MaxSpeed float64
	MinSpin  float64 // Degrees per tick, random sign
	MaxSpin  float64

	// Rocks per level: clamp(BaseCount+level, 2, MaxPerLevel).
	BaseCount   int
	MaxPerLevel int
}

// Explosions tunables. Pure presentation.
type Explosions struct {
	SegmentAlpha     float64
	SegmentFade      float64 // Alpha lost per tick
	SegmentSpeed     float64 // Outward speed along the edge midpoint direction
	InheritedSpeed   float64 // Fraction of the rock's velocity
	SegmentJitter    float64
	SegmentMinSpin   float64
	SegmentMaxSpin   float64
	OrbitMinSpeed    float64
	OrbitMaxSpeed    float64
	Particles        int
	ParticleMinSpeed float64
	ParticleMaxSpeed float64
	ParticleMinSize  float64
	ParticleMaxSize  float64
	ParticleLifetime time.Duration
}

// Rules covers lives, scoring thresholds and state machine delays.
type Rules struct {
	InitialLives   int
	MaxLives       int
	ExtraLifeScore int // Extra ship every this many points
	RespawnRadius  float64
	RespawnDelay   time.Duration // exploding -> respawning
	LevelDelay     time.Duration // transitioning -> playing
}

// Game holds every tunable the simulation consumes.
type Game struct {
	Field       Field
	Ship        Ship
	Projectiles Projectiles
	Rocks       Rocks
	Explosions  Explosions
	Rules       Rules
}

// Default returns the classic tuning: a 400x400 field at 60 ticks per second.
func Default() Game {
	return Game{
		Field: Field{Width: 400, Height: 400},
		Ship: Ship{
			Width:       14,
			Height:      20,
			Accel:       0.1,
			Decel:       0.003,
			TurnRate:    4,
			MaxSpeed:    3,
			FlashTicks:  120,
			FlashPeriod: 6,
		},
		Projectiles: Projectiles{
			Max:      5,
			Speed:    3,
			Lifetime: 1800 * time.Millisecond,
		},
		Rocks: Rocks{
			Small:       RockClass{Size: 20, Sides: 6, Score: 100},
			Medium:      RockClass{Size: 40, Sides: 8, Score: 50},
			Large:       RockClass{Size: 60, Sides: 10, Score: 20},
			MinSpeed:    0.25,
			MaxSpeed:    1,
			MinSpin:     0.3,
			MaxSpin:     1.5,
			BaseCount:   2,
			MaxPerLevel: 5,
		},
		Explosions: Explosions{
			SegmentAlpha:     200,
			SegmentFade:      2,
			SegmentSpeed:     0.15,
			InheritedSpeed:   0.5,
			SegmentJitter:    0.05,
			SegmentMinSpin:   40,
			SegmentMaxSpin:   75,
			OrbitMinSpeed:    0.5,
			OrbitMaxSpeed:    1,
			Particles:        20,
			ParticleMinSpeed: 0.25,
			ParticleMaxSpeed: 1,
			ParticleMinSize:  2,
			ParticleMaxSize:  4,
			ParticleLifetime: 10 * time.Second,
		},
		Rules: Rules{
			InitialLives:   3,
			MaxLives:       10,
			ExtraLifeScore: 10000,
			RespawnRadius:  100,
			RespawnDelay:   2 * time.Second,
			LevelDelay:     2 * time.Second,
		},
	}
}

// Validate reports every malformed value at once.
func (g Game) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(g.Field.Width > 0 && g.Field.Height > 0, "field: size %vx%v must be positive", g.Field.Width, g.Field.Height)

	check(g.Ship.Width > 0 && g.Ship.Height > 0, "ship: size %vx%v must be positive", g.Ship.Width, g.Ship.Height)
	check(g.Ship.MaxSpeed > 0, "ship: max speed %v must be positive", g.Ship.MaxSpeed)
	check(g.Ship.Accel >= 0 && g.Ship.Decel >= 0, "ship: accel and decel must not be negative")
	check(g.Ship.FlashTicks >= 0, "ship: flash ticks %d must not be negative", g.Ship.FlashTicks)
	check(g.Ship.FlashPeriod > 0, "ship: flash period %d must be positive", g.Ship.FlashPeriod)

	check(g.Projectiles.Max >= 0, "projectiles: max %d must not be negative", g.Projectiles.Max)
	check(g.Projectiles.Lifetime > 0, "projectiles: lifetime %v must be positive", g.Projectiles.Lifetime)

	for _, c := range []struct {
		name  string
		class RockClass
	}{
		{"small", g.Rocks.Small},
		{"medium", g.Rocks.Medium},
		{"large", g.Rocks.Large},
	} {
		check(c.class.Sides >= 3, "rocks: %s sides %d, need at least 3", c.name, c.class.Sides)
		check(c.class.Size > 0, "rocks: %s size %v must be positive", c.name, c.class.Size)
		check(c.class.Score >= 0, "rocks: %s score %d must not be negative", c.name, c.class.Score)
	}
	check(g.Rocks.Small.Size < g.Rocks.Medium.Size && g.Rocks.Medium.Size < g.Rocks.Large.Size,
		"rocks: sizes must grow small < medium < large")
	check(g.Rocks.MinSpeed >= 0 && g.Rocks.MinSpeed <= g.Rocks.MaxSpeed, "rocks: speed range [%v, %v] invalid", g.Rocks.MinSpeed, g.Rocks.MaxSpeed)
	check(g.Rocks.MinSpin >= 0 && g.Rocks.MinSpin <= g.Rocks.MaxSpin, "rocks: spin range [%v, %v] invalid", g.Rocks.MinSpin, g.Rocks.MaxSpin)
	check(g.Rocks.MaxPerLevel >= 2, "rocks: max per level %d, need at least 2", g.Rocks.MaxPerLevel)

	check(g.Explosions.SegmentFade > 0, "explosions: segment fade %v must be positive", g.Explosions.SegmentFade)
	check(g.Explosions.Particles >= 0, "explosions: particle count %d must not be negative", g.Explosions.Particles)

	check(g.Rules.InitialLives > 0, "rules: initial lives %d must be positive", g.Rules.InitialLives)
	check(g.Rules.MaxLives >= g.Rules.InitialLives, "rules: max lives %d below initial lives %d", g.Rules.MaxLives, g.Rules.InitialLives)
	check(g.Rules.ExtraLifeScore > 0, "rules: extra life score %d must be positive", g.Rules.ExtraLifeScore)
	check(g.Rules.RespawnRadius >= 0, "rules: respawn radius %v must not be negative", g.Rules.RespawnRadius)
	check(g.Rules.RespawnDelay >= 0 && g.Rules.LevelDelay >= 0, "rules: delays must not be negative")

	return errors.Join(errs...)
}
