package world

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// Obstacle is a destructible level object: a door, turret or mine.
type Obstacle struct {
	id    uint32
	kind  model.ObstacleKind
	pos   mgl64.Vec3
	world *World

	mu   sync.Mutex
	open bool
	gone bool
}

// AddObstacle places a new obstacle and returns it.
func (w *World) AddObstacle(kind model.ObstacleKind, pos mgl64.Vec3) (*Obstacle, error) {
	switch kind {
	case model.ObstacleDoor, model.ObstacleTurret, model.ObstacleMine:
	default:
		return nil, fmt.Errorf("unknown obstacle kind %d", kind)
	}
	o := &Obstacle{id: w.ids.NextObstacleID(), kind: kind, pos: pos, world: w}
	w.mu.Lock()
	w.obstacles[o.id] = o
	w.mu.Unlock()
	return o, nil
}

// Destructibles returns every obstacle still in the world.
func (w *World) Destructibles() []model.Destructible {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]model.Destructible, 0, len(w.obstacles))
	for _, o := range w.obstacles {
		out = append(out, o)
	}
	return out
}

func (o *Obstacle) ID() uint32               { return o.id }
func (o *Obstacle) Kind() model.ObstacleKind { return o.kind }
func (o *Obstacle) Position() mgl64.Vec3     { return o.pos }

// Exists is false once the obstacle was destroyed.
func (o *Obstacle) Exists() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.gone
}

// Passable is true for an opened door.
func (o *Obstacle) Passable() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.kind == model.ObstacleDoor && o.open
}

// SetOpen opens or closes a door. Other kinds ignore it.
func (o *Obstacle) SetOpen(open bool) {
	if o.kind != model.ObstacleDoor {
		return
	}
	o.mu.Lock()
	o.open = open
	o.mu.Unlock()
}

// Destroy removes the obstacle from the world.
func (o *Obstacle) Destroy() {
	o.destroy()
}

// destroy reports whether this call removed the obstacle.
func (o *Obstacle) destroy() bool {
	o.mu.Lock()
	if o.gone {
		o.mu.Unlock()
		return false
	}
	o.gone = true
	o.mu.Unlock()

	o.world.mu.Lock()
	delete(o.world.obstacles, o.id)
	o.world.mu.Unlock()
	return true
}

var _ model.Destructible = (*Obstacle)(nil)
