package world

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
)

// arriveEpsilon snaps a body onto its destination.
const arriveEpsilon = 1e-3

// Body is a hunter body placed in the world. Step moves it in a straight
// line toward the last requested destination; there is no navmesh.
type Body struct {
	id    uint32
	world *World

	mu          sync.Mutex
	transform   model.Transform
	destination mgl64.Vec3
	moving      bool
	despawned   bool
}

// SpawnBody places a new hunter body at pos.
func (w *World) SpawnBody(id uint32, pos mgl64.Vec3) *Body {
	b := &Body{id: id, world: w, transform: model.NewTransform(pos)}
	w.mu.Lock()
	w.bodies[id] = b
	w.mu.Unlock()
	return b
}

// ID returns the body's object id.
func (b *Body) ID() uint32 { return b.id }

// Transform returns the current position and rotation.
func (b *Body) Transform() model.Transform {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform
}

// SetRotation sets the body rotation.
func (b *Body) SetRotation(q mgl64.Quat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transform.Rotation = q
}

// RequestDestination starts moving toward pos on the next Step.
func (b *Body) RequestDestination(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destination = model.OnPlane(pos, b.transform.Position.Y())
	b.moving = true
}

// Moving reports whether the body has not reached its destination yet.
func (b *Body) Moving() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moving
}

// Despawn removes the body from the world. Repeated calls are no-ops.
func (b *Body) Despawn() {
	b.mu.Lock()
	if b.despawned {
		b.mu.Unlock()
		return
	}
	b.despawned = true
	b.moving = false
	b.mu.Unlock()

	b.world.mu.Lock()
	delete(b.world.bodies, b.id)
	b.world.mu.Unlock()
	b.world.RemoveCreature(b.id)

	slog.Debug("hunter body despawned", "id", b.id)
}

// Despawned reports whether Despawn was called.
func (b *Body) Despawned() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.despawned
}

func (b *Body) step(dt, speed float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.moving || b.despawned {
		return
	}
	delta := b.destination.Sub(b.transform.Position)
	dist := delta.Len()
	travel := speed * dt
	if dist <= travel || dist < arriveEpsilon {
		b.transform.Position = b.destination
		b.moving = false
		return
	}
	b.transform.Position = b.transform.Position.Add(delta.Mul(travel / dist))
}

// Step advances every body toward its destination. It runs before the
// controllers on each fixed tick.
func (w *World) Step(dt float64) {
	w.mu.RLock()
	bodies := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		bodies = append(bodies, b)
	}
	w.mu.RUnlock()

	for _, b := range bodies {
		b.step(dt, w.chaseSpeed)
	}
}

var (
	_ ai.Body   = (*Body)(nil)
	_ ai.System = (*World)(nil)
)
