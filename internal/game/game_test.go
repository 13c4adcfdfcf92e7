package game

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/object"
	"github.com/tomz197/polyroids/internal/physics"
	"github.com/tomz197/polyroids/internal/timer"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	*Game
	clock *timer.ManualClock
	queue *timer.Queue
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	clock := timer.NewManualClock(start)
	queue := timer.NewQueue(clock)
	g, err := New(config.Default(), clock, queue, rand.New(rand.NewSource(1)), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{Game: g, clock: clock, queue: queue}
}

// wait advances time and fires whatever became due, like the host loop does
// between ticks.
func (h *harness) wait(d time.Duration) {
	h.clock.Advance(d)
	h.queue.RunDue()
}

// squareRock is a stationary, non-spinning rock covering pos +/- half.
func squareRock(size object.RockSize, pos physics.Vec, half float64) *object.Rock {
	shape, _ := physics.NewPolygon([]physics.Vec{
		{X: -half, Y: -half}, {X: half, Y: -half}, {X: half, Y: half}, {X: -half, Y: half},
	})
	return &object.Rock{Body: object.Body{Pos: pos, Shape: shape}, Size: size}
}

func parked(pos physics.Vec) *object.Projectile {
	return &object.Projectile{Pos: pos, Expires: start.Add(time.Hour)}
}

var (
	center = physics.Vec{X: 200, Y: 200}
	corner = physics.Vec{X: 20, Y: 20}
)

func TestNewValidates(t *testing.T) {
	cfg := config.Default()
	cfg.Rocks.Small.Sides = 2
	clock := timer.NewManualClock(start)
	_, err := New(cfg, clock, timer.NewQueue(clock), rand.New(rand.NewSource(1)))
	if err == nil || !strings.HasPrefix(err.Error(), "new game:") || !strings.Contains(err.Error(), "sides 2") {
		t.Errorf("bad config error = %v", err)
	}

	_, err = New(config.Default(), nil, timer.NewQueue(clock), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("nil clock error = %v, want ErrMissingCollaborator", err)
	}
}

func TestNewGameStartsAtLevelOne(t *testing.T) {
	h := newHarness(t)
	s := h.State()
	if s.Status != StatusPlaying || s.Level != 1 || s.Lives != 3 || s.Score != 0 || s.NextExtraLife != 10000 {
		t.Errorf("initial state = %+v", s)
	}
	if len(h.rocks) != 3 {
		t.Fatalf("got %d rocks, want 3", len(h.rocks))
	}
	for _, r := range h.rocks {
		if r.Size != object.RockLarge {
			t.Errorf("level rock is %s, want large", r.Size)
		}
	}
	if snap := h.Snapshot(); len(snap.Rocks) != 3 || !snap.Ship.Visible {
		t.Errorf("initial snapshot: %d rocks, ship visible %v", len(snap.Rocks), snap.Ship.Visible)
	}
}

func TestLevelRockCount(t *testing.T) {
	cfg := config.Default().Rocks
	for level, want := range map[int]int{0: 2, 1: 3, 2: 4, 3: 5, 10: 5} {
		if got := levelRockCount(cfg, level); got != want {
			t.Errorf("level %d: %d rocks, want %d", level, got, want)
		}
	}
}

func TestLargeFissionScoresOnce(t *testing.T) {
	h := newHarness(t)
	pos := physics.Vec{X: 100, Y: 100}
	h.rocks = []*object.Rock{squareRock(object.RockLarge, pos, 10)}
	h.projectiles = []*object.Projectile{parked(pos)}

	h.Tick(Input{})

	if len(h.rocks) != 2 {
		t.Fatalf("got %d rocks after fission, want 2", len(h.rocks))
	}
	for _, r := range h.rocks {
		if r.Size != object.RockMedium {
			t.Errorf("fragment is %s, want medium", r.Size)
		}
		if r.Pos != pos {
			t.Errorf("fragment at %v, want %v", r.Pos, pos)
		}
	}
	if got := h.State().Score; got != 20 {
		t.Errorf("score = %d, want 20", got)
	}
	if len(h.projectiles) != 0 {
		t.Errorf("projectile not consumed")
	}
	if len(h.rockExplosions) != 1 || len(h.rockExplosions[0].Segments) != 4 {
		t.Errorf("want one four-segment explosion, got %d", len(h.rockExplosions))
	}
}

func TestFirstHitWins(t *testing.T) {
	h := newHarness(t)
	pos := physics.Vec{X: 100, Y: 100}
	h.rocks = []*object.Rock{squareRock(object.RockLarge, pos, 10)}
	h.projectiles = []*object.Projectile{
		parked(pos),
		parked(physics.Vec{X: 104, Y: 97}),
		parked(physics.Vec{X: 300, Y: 300}),
	}

	h.Tick(Input{})

	if got := h.State().Score; got != 20 {
		t.Errorf("score = %d, want 20 once", got)
	}
	if len(h.rocks) != 2 {
		t.Errorf("got %d rocks, want 2", len(h.rocks))
	}
	if len(h.rockExplosions) != 1 {
		t.Errorf("got %d explosions, want 1", len(h.rockExplosions))
	}
	if len(h.projectiles) != 1 || h.projectiles[0].Pos != (physics.Vec{X: 300, Y: 300}) {
		t.Errorf("both hitting projectiles should be consumed, kept %d", len(h.projectiles))
	}
}

func TestSmallRockVanishes(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{
		squareRock(object.RockSmall, physics.Vec{X: 100, Y: 100}, 5),
		squareRock(object.RockSmall, corner, 5),
	}
	h.projectiles = []*object.Projectile{parked(physics.Vec{X: 100, Y: 100})}

	h.Tick(Input{})

	if len(h.rocks) != 1 || h.rocks[0].Pos != corner {
		t.Errorf("small rock should leave no fragments, rocks = %d", len(h.rocks))
	}
	if got := h.State().Score; got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
}

func TestHeadOnKill(t *testing.T) {
	tests := []struct {
		lives     int
		wantLives int
		want      Status
	}{
		{3, 2, StatusExploding},
		{1, 0, StatusGameOver},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			h := newHarness(t)
			h.state.Lives = tt.lives
			h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}

			h.Tick(Input{})

			if !h.ship.Dead {
				t.Error("ship should be dead")
			}
			s := h.State()
			if s.Lives != tt.wantLives || s.Status != tt.want {
				t.Errorf("lives=%d status=%s, want lives=%d status=%s", s.Lives, s.Status, tt.wantLives, tt.want)
			}
			if len(h.shipExplosions) != 1 {
				t.Errorf("got %d ship explosions, want 1", len(h.shipExplosions))
			}
			if h.Snapshot().Ship.Visible {
				t.Error("dead ship should not be drawn")
			}
		})
	}
}

func TestShipHitOnlyOncePerTick(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{
		squareRock(object.RockLarge, center, 15),
		squareRock(object.RockMedium, center, 12),
	}
	h.Tick(Input{})
	if got := h.State().Lives; got != 2 {
		t.Errorf("lives = %d, want 2", got)
	}
	if h.queue.Len() != 1 {
		t.Errorf("got %d respawn timers, want 1", h.queue.Len())
	}
}

func TestInvincibleShipSurvives(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}

	h.Tick(Input{ToggleInvincible: true})

	if h.ship.Dead || h.State().Status != StatusPlaying {
		t.Errorf("invincible ship destroyed, status %s", h.State().Status)
	}
	if !h.Snapshot().Ship.Invincible {
		t.Error("snapshot should report invincibility")
	}
}

func TestRespawnCycle(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})
	if h.State().Status != StatusExploding {
		t.Fatalf("status = %s, want exploding", h.State().Status)
	}

	h.wait(h.cfg.Rules.RespawnDelay - time.Millisecond)
	if h.State().Status != StatusExploding {
		t.Fatalf("respawn timer fired early")
	}
	h.wait(time.Millisecond)
	if h.State().Status != StatusRespawning {
		t.Fatalf("status = %s, want respawning", h.State().Status)
	}

	// The rock still covers the center.
	h.Tick(Input{})
	if h.State().Status != StatusRespawning || !h.ship.Dead {
		t.Fatalf("respawned into a rock: status %s", h.State().Status)
	}

	h.rocks[0].Pos = corner
	h.Tick(Input{})
	if h.State().Status != StatusPlaying {
		t.Fatalf("status = %s, want playing", h.State().Status)
	}
	if h.ship.Dead || h.ship.Pos != center || h.ship.Vel != (physics.Vec{}) {
		t.Errorf("ship not reset at center: %+v", h.ship.Body)
	}
	if !h.ship.Shielded() {
		t.Error("respawned ship should be shielded")
	}

	// Shielded ship flies through rocks.
	h.rocks[0].Pos = center
	h.Tick(Input{})
	if h.ship.Dead {
		t.Error("shielded ship destroyed")
	}
}

func TestStaleRespawnTimer(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, WithLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})))
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})

	h.Restart()
	h.wait(h.cfg.Rules.RespawnDelay)

	s := h.State()
	if s.Status != StatusPlaying || s.Epoch != 1 || s.Lives != 3 {
		t.Errorf("stale respawn timer changed state: %+v", s)
	}
	if !strings.Contains(buf.String(), "stale timer dropped") {
		t.Errorf("stale timer not logged:\n%s", buf.String())
	}
}

func TestLevelAdvance(t *testing.T) {
	h := newHarness(t)
	h.rocks = nil
	h.Tick(Input{})
	if h.State().Status != StatusTransitioning {
		t.Fatalf("status = %s, want transitioning", h.State().Status)
	}

	// Ship still flies between levels.
	h.Tick(Input{Thrust: true})
	if h.ship.Vel == (physics.Vec{}) {
		t.Error("ship ignored thrust while transitioning")
	}

	h.wait(h.cfg.Rules.LevelDelay)
	s := h.State()
	if s.Status != StatusPlaying || s.Level != 2 {
		t.Fatalf("after level timer: %+v", s)
	}
	if len(h.rocks) != 4 {
		t.Errorf("level 2 has %d rocks, want 4", len(h.rocks))
	}
}

func TestStaleLevelTimerAfterRestart(t *testing.T) {
	h := newHarness(t)
	h.state.Score = 700
	h.rocks = nil
	h.Tick(Input{})
	if h.State().Status != StatusTransitioning {
		t.Fatalf("status = %s, want transitioning", h.State().Status)
	}

	h.Restart()
	h.wait(h.cfg.Rules.LevelDelay)

	s := h.State()
	if s.Status != StatusPlaying || s.Level != 1 || s.Epoch != 1 || s.Score != 0 {
		t.Errorf("stale level timer changed state: %+v", s)
	}
	if s.HighScore != 700 {
		t.Errorf("high score = %d, want 700 kept across restart", s.HighScore)
	}
	if len(h.rocks) != 3 {
		t.Errorf("got %d rocks, want the restart's 3", len(h.rocks))
	}
}

func TestLevelTimerAfterShipDeath(t *testing.T) {
	h := newHarness(t)
	h.rocks = nil
	h.Tick(Input{})
	if h.State().Status != StatusTransitioning {
		t.Fatalf("status = %s, want transitioning", h.State().Status)
	}

	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})
	if h.State().Status != StatusExploding {
		t.Fatalf("status = %s, want exploding", h.State().Status)
	}

	// Level and respawn timers are both due now; only the respawn applies.
	h.wait(h.cfg.Rules.LevelDelay)
	s := h.State()
	if s.Level != 1 || s.Status != StatusRespawning {
		t.Fatalf("level timer acted after ship death: %+v", s)
	}

	h.rocks = nil
	h.Tick(Input{})
	if got := h.State().Status; got != StatusTransitioning {
		t.Errorf("status = %s, want a fresh transition", got)
	}
}

func TestExtraLife(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		lives     int
		wantLives int
		wantNext  int
	}{
		{"exactly threshold", 9900, 3, 4, 20000},
		{"below threshold", 9800, 3, 3, 10000},
		{"capped", 9950, 10, 10, 20000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.state.Score = tt.score
			h.state.Lives = tt.lives
			pos := physics.Vec{X: 100, Y: 100}
			h.rocks = []*object.Rock{squareRock(object.RockSmall, pos, 5), squareRock(object.RockSmall, corner, 5)}
			h.projectiles = []*object.Projectile{parked(pos)}

			h.Tick(Input{})

			s := h.State()
			if s.Lives != tt.wantLives || s.NextExtraLife != tt.wantNext {
				t.Errorf("lives=%d next=%d, want lives=%d next=%d", s.Lives, s.NextExtraLife, tt.wantLives, tt.wantNext)
			}
			if s.HighScore != s.Score {
				t.Errorf("high score %d, want %d", s.HighScore, s.Score)
			}
		})
	}
}

func TestNoScoreOutsidePlaying(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})
	if h.State().Status != StatusExploding {
		t.Fatalf("status = %s, want exploding", h.State().Status)
	}

	pos := physics.Vec{X: 100, Y: 100}
	h.rocks = append(h.rocks, squareRock(object.RockLarge, pos, 10))
	h.projectiles = []*object.Projectile{parked(pos)}
	h.Tick(Input{})

	if got := h.State().Score; got != 0 {
		t.Errorf("score = %d while exploding, want 0", got)
	}
	if len(h.rocks) != 3 {
		t.Errorf("fission should still happen, got %d rocks", len(h.rocks))
	}
}

func TestFireCapAndExpiry(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{squareRock(object.RockSmall, corner, 5)}

	for i := 0; i < 10; i++ {
		h.Tick(Input{Fire: true})
	}
	if got := len(h.projectiles); got != h.cfg.Projectiles.Max {
		t.Fatalf("got %d projectiles, want cap %d", got, h.cfg.Projectiles.Max)
	}
	if got := len(h.Snapshot().Projectiles); got != h.cfg.Projectiles.Max {
		t.Errorf("snapshot has %d projectiles", got)
	}

	h.clock.Advance(h.cfg.Projectiles.Lifetime)
	h.Tick(Input{})
	if len(h.projectiles) != 0 {
		t.Errorf("%d projectiles outlived their lifetime", len(h.projectiles))
	}
}

func TestInputGating(t *testing.T) {
	h := newHarness(t)
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})

	h.Tick(Input{Fire: true, Thrust: true, Left: true, ToggleInvincible: true, Restart: true})
	if len(h.projectiles) != 0 || h.ship.Invincible || h.ship.Thrusting {
		t.Error("input honored while exploding")
	}
	if h.State().Status != StatusExploding {
		t.Errorf("restart honored outside game over, status %s", h.State().Status)
	}
}

func TestGameOverRestart(t *testing.T) {
	h := newHarness(t)
	h.state.Lives = 1
	h.state.Score = 1234
	h.rocks = []*object.Rock{squareRock(object.RockLarge, center, 15)}
	h.Tick(Input{})
	if h.State().Status != StatusGameOver {
		t.Fatalf("status = %s, want game-over", h.State().Status)
	}
	if h.queue.Len() != 0 {
		t.Error("game over should not schedule a respawn")
	}

	h.Tick(Input{Fire: true})
	if len(h.projectiles) != 0 {
		t.Error("fired during game over")
	}

	h.Tick(Input{Restart: true})
	s := h.State()
	if s.Status != StatusPlaying || s.Score != 0 || s.Lives != 3 || s.Level != 1 || s.Epoch != 1 {
		t.Errorf("after restart: %+v", s)
	}
	if s.HighScore != 1234 {
		t.Errorf("high score = %d, want 1234", s.HighScore)
	}
	if h.ship.Dead || len(h.shipExplosions) != 0 || len(h.rocks) != 3 {
		t.Error("restart left the old world behind")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t)
	h.Tick(Input{})
	snap := h.Snapshot()
	want := h.rocks[0].WorldPoints()[0]

	snap.Rocks[0].Points[0] = physics.Vec{X: -1, Y: -1}
	snap.Ship.Points[0] = physics.Vec{X: -1, Y: -1}

	if got := h.rocks[0].WorldPoints()[0]; got != want {
		t.Errorf("rock changed through snapshot: %v", got)
	}
	if h.ship.Nose() == (physics.Vec{X: -1, Y: -1}) {
		t.Error("ship changed through snapshot")
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		StatusPlaying:       "playing",
		StatusExploding:     "exploding",
		StatusRespawning:    "respawning",
		StatusTransitioning: "transitioning",
		StatusGameOver:      "game-over",
		Status(42):          "Status(42)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
