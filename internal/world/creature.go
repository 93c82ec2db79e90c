package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/ai"
)

// Creature is a non-player agent: another enemy or a hunter's own
// collision proxy.
type Creature struct {
	id     uint32
	mortal bool
	hunter bool
	onKill func()

	mu     sync.Mutex
	pos    mgl64.Vec3
	health int
	dead   bool
}

// AddCreature spawns a creature with the given health. Immortal creatures
// ignore damage and kills.
func (w *World) AddCreature(pos mgl64.Vec3, health int, mortal bool) *Creature {
	c := &Creature{id: w.ids.NextCreatureID(), mortal: mortal, pos: pos, health: health}
	w.mu.Lock()
	w.creatures[c.id] = c
	w.mu.Unlock()
	return c
}

// AddHunterCreature registers the collision proxy of a hunter body. Killing
// it calls onKill, which destroys the hunter.
func (w *World) AddHunterCreature(id uint32, onKill func()) *Creature {
	c := &Creature{id: id, mortal: true, hunter: true, health: 1, onKill: onKill}
	w.mu.Lock()
	w.creatures[id] = c
	w.mu.Unlock()
	return c
}

// RemoveCreature forgets a creature.
func (w *World) RemoveCreature(id uint32) {
	w.mu.Lock()
	delete(w.creatures, id)
	w.mu.Unlock()
}

// Creature resolves a collider id.
func (w *World) Creature(id uint32) (ai.Creature, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.creatures[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// creaturePosition returns where a creature stands. Hunter proxies follow
// their body.
func (w *World) creaturePosition(c *Creature) mgl64.Vec3 {
	if c.hunter {
		w.mu.RLock()
		b, ok := w.bodies[c.id]
		w.mu.RUnlock()
		if ok {
			return b.Transform().Position
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *Creature) ObjectID() uint32    { return c.id }
func (c *Creature) CanDie() bool        { return c.mortal }
func (c *Creature) SameArchetype() bool { return c.hunter }

func (c *Creature) Dead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dead
}

// Health returns the remaining hit points.
func (c *Creature) Health() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// Kill kills a mortal creature once.
func (c *Creature) Kill() {
	if !c.markDead() {
		return
	}
	if c.onKill != nil {
		c.onKill()
	}
}

// Damage subtracts hit points and kills at zero.
func (c *Creature) Damage(amount int) {
	if amount <= 0 || !c.mortal {
		return
	}
	c.mu.Lock()
	c.health -= amount
	lethal := c.health <= 0 && !c.dead
	c.mu.Unlock()
	if lethal {
		c.Kill()
	}
}

func (c *Creature) markDead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mortal || c.dead {
		return false
	}
	c.dead = true
	c.health = 0
	return true
}

var _ ai.Creature = (*Creature)(nil)
