package world

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
)

// MineBlast is the explosion of a mine set off by another blast.
var MineBlast = model.Blast{MinRange: 2, MaxRange: 6, Damage: 50, CreatureDamage: 2}

type detonation struct {
	at    mgl64.Vec3
	blast model.Blast
}

// Explode applies blast at position. Players take falloff damage, mortal
// creatures take CreatureDamage and mines in range chain-detonate.
func (w *World) Explode(at mgl64.Vec3, blast model.Blast) {
	queue := []detonation{{at: at, blast: blast}}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		queue = append(queue, w.detonate(d)...)
	}
}

// detonate applies one explosion and returns the mines it set off.
// Creature kills run without w.mu held: a dying hunter explodes in turn.
func (w *World) detonate(d detonation) []detonation {
	maxSq := d.blast.MaxRange * d.blast.MaxRange

	w.players.Range(func(_, value any) bool {
		p := value.(*Player)
		dist := model.Distance(d.at, p.Position())
		if dmg := d.blast.DamageAt(dist); dmg > 0 && p.damage(dmg) {
			slog.Info("player killed by explosion", "player", p.ID(), "distance", dist)
		}
		return true
	})

	w.mu.RLock()
	creatures := make([]*Creature, 0, len(w.creatures))
	for _, c := range w.creatures {
		creatures = append(creatures, c)
	}
	var mines []*Obstacle
	for _, o := range w.obstacles {
		if o.kind == model.ObstacleMine && model.DistanceSquared(d.at, o.pos) <= maxSq {
			mines = append(mines, o)
		}
	}
	w.mu.RUnlock()

	if d.blast.CreatureDamage > 0 {
		for _, c := range creatures {
			if model.DistanceSquared(d.at, w.creaturePosition(c)) <= maxSq {
				c.Damage(d.blast.CreatureDamage)
			}
		}
	}

	var chained []detonation
	for _, m := range mines {
		if m.destroy() {
			chained = append(chained, detonation{at: m.pos, blast: MineBlast})
		}
	}
	return chained
}

// Remains is the body left by a killed player.
type Remains struct {
	player model.PlayerID
	world  *World

	mu       sync.Mutex
	position mgl64.Vec3
	released bool
	dropped  bool
}

// Position returns where the remains are.
func (r *Remains) Position() mgl64.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

// MoveTo carries the remains.
func (r *Remains) MoveTo(pos mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.released {
		r.position = pos
	}
}

// Release detaches the remains. Without drop they leave the world.
func (r *Remains) Release(drop bool) {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.dropped = drop
	r.mu.Unlock()

	if !drop {
		r.world.mu.Lock()
		if r.world.remains[r.player] == r {
			delete(r.world.remains, r.player)
		}
		r.world.mu.Unlock()
	}
}

// Dropped reports whether the remains were left in the world.
func (r *Remains) Dropped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Bleed applies the heavy-damage feedback.
func (w *World) Bleed(id model.PlayerID) {
	if p, ok := w.GetPlayer(id); ok {
		p.bleed()
	}
}

// Kill kills the player and leaves remains at their position.
func (w *World) Kill(id model.PlayerID) {
	p, ok := w.GetPlayer(id)
	if !ok || !p.kill() {
		return
	}
	r := &Remains{player: id, world: w, position: p.Position()}
	w.mu.Lock()
	w.remains[id] = r
	w.mu.Unlock()
	slog.Info("player killed", "player", id)
}

// Remains returns the body of a killed player.
func (w *World) Remains(id model.PlayerID) (ai.Remains, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.remains[id]
	if !ok {
		return nil, false
	}
	return r, true
}

var (
	_ ai.Effects        = (*World)(nil)
	_ ai.Victims        = (*World)(nil)
	_ ai.SpatialQuery   = (*World)(nil)
	_ ai.CreatureLookup = (*World)(nil)
)
