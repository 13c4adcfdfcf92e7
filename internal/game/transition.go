package game

import (
	"github.com/tomz197/polyroids/internal/object"
)

// setStatus is the only place the status changes.
func (g *Game) setStatus(s Status) {
	if g.state.Status == s {
		return
	}
	g.log.Debug("status", "from", g.state.Status, "to", s, "epoch", g.state.Epoch, "level", g.state.Level)
	g.state.Status = s
}

// destroyShip handles a rock hitting the ship.
func (g *Game) destroyShip() {
	g.ship.Dead = true
	g.shipExplosions = append(g.shipExplosions,
		object.NewShipExplosion(g.rng, g.ship.Pos, g.cfg.Explosions, g.clock.Now()))

	g.state.Lives--
	if g.state.Lives <= 0 {
		g.setStatus(StatusGameOver)
		return
	}
	g.setStatus(StatusExploding)

	epoch := g.state.Epoch
	g.sched.After(g.cfg.Rules.RespawnDelay, func() { g.respawnTimer(epoch) })
}

// respawnTimer moves exploding to respawning.
func (g *Game) respawnTimer(epoch uint64) {
	if !g.current(epoch, StatusExploding, "respawn") {
		return
	}
	g.setStatus(StatusRespawning)
}

// tryRespawn places the ship once no rock overlaps the exclusion circle.
func (g *Game) tryRespawn() {
	center := g.center()
	for _, r := range g.rocks {
		if r.Shape.IntersectsCircle(r.Pos, center, g.cfg.Rules.RespawnRadius) {
			return
		}
	}
	g.ship.Reset(center)
	g.ship.StartFlash()
	g.setStatus(StatusPlaying)
}

// beginTransition starts the pause between levels.
func (g *Game) beginTransition() {
	g.setStatus(StatusTransitioning)
	epoch := g.state.Epoch
	g.sched.After(g.cfg.Rules.LevelDelay, func() { g.levelTimer(epoch) })
}

// levelTimer advances to the next level.
func (g *Game) levelTimer(epoch uint64) {
	if !g.current(epoch, StatusTransitioning, "level") {
		return
	}
	g.state.Level++
	g.spawnLevelRocks()
	g.log.Debug("level", "level", g.state.Level, "rocks", len(g.rocks))
	g.setStatus(StatusPlaying)
}

// current reports whether a deferred callback scheduled under epoch for the
// given status still applies.
func (g *Game) current(epoch uint64, want Status, timer string) bool {
	if epoch == g.state.Epoch && g.state.Status == want {
		return true
	}
	g.log.Debug("stale timer dropped", "timer", timer,
		"epoch", epoch, "current_epoch", g.state.Epoch, "status", g.state.Status)
	return false
}
