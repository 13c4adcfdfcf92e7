package game

import (
	"slices"

	"github.com/tomz197/polyroids/internal/object"
)

// updateRocks runs the collision and fission pass, moves surviving rocks and
// then adds the fragments born this tick.
func (g *Game) updateRocks(ctx object.UpdateContext) {
	g.indexProjectiles()

	for _, r := range g.rocks {
		if r.Dead {
			continue
		}
		if g.shipCanBeHit() && g.shipHits(r) {
			g.destroyShip()
		}
		g.checkProjectileHits(r)
	}

	g.rocks = object.UpdateAll(g.rocks, ctx)
	g.flushSpawned()
}

// indexProjectiles rebuilds the broad-phase grid from live projectiles.
func (g *Game) indexProjectiles() {
	g.grid.Clear()
	for i, p := range g.projectiles {
		if !p.Dead {
			g.grid.Insert(p.Pos, i)
		}
	}
}

// candidates returns projectile indices that could be inside r, in list order.
func (g *Game) candidates(r *object.Rock) []int {
	g.near = g.near[:0]
	if r.Extent() > g.grid.CellSize() {
		for i := range g.projectiles {
			g.near = append(g.near, i)
		}
		return g.near
	}
	g.near = g.grid.Near(r.Pos, g.near)
	slices.Sort(g.near)
	return g.near
}

func (g *Game) shipCanBeHit() bool {
	s := g.ship
	return g.state.Status.shipVulnerable() && !s.Dead && !s.Invincible && !s.Shielded()
}

// shipHits tests the ship's center and every vertex against the rock.
func (g *Game) shipHits(r *object.Rock) bool {
	for _, pt := range g.ship.HitPoints() {
		if r.Contains(pt) {
			return true
		}
	}
	return false
}

// checkProjectileHits consumes every live projectile inside r. Only the first
// one destroys the rock; the rest hit a rock that is already gone.
func (g *Game) checkProjectileHits(r *object.Rock) {
	for _, i := range g.candidates(r) {
		p := g.projectiles[i]
		if p.Dead || !r.Contains(p.Pos) {
			continue
		}
		p.Dead = true
		if !r.Dead {
			g.destroyRock(r)
		}
	}
}

// destroyRock marks r dead, queues its fragments and explosion, and scores it
// while the game is in play.
func (g *Game) destroyRock(r *object.Rock) {
	r.Dead = true
	g.rockExplosions = append(g.rockExplosions, object.NewRockExplosion(g.rng, r, g.cfg.Explosions))

	frags, err := r.Split(g.rng, g.cfg.Rocks)
	if err != nil {
		g.log.Error("split rock", "size", r.Size, "err", err)
	}
	for _, f := range frags {
		g.spawn(f)
	}

	if g.state.Status == StatusPlaying {
		g.state.Score += r.Score(g.cfg.Rocks)
	}
}

// spawn queues a rock to be added after the current pass.
func (g *Game) spawn(r *object.Rock) {
	g.toSpawn = append(g.toSpawn, r)
}

// flushSpawned adds all queued rocks and clears the queue.
func (g *Game) flushSpawned() {
	g.rocks = append(g.rocks, g.toSpawn...)
	clear(g.toSpawn)
	g.toSpawn = g.toSpawn[:0]
}
