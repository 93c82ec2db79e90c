package ai

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// Obstacles tracks destructibles discovered at spawn time.
// The set only holds references; the world owns the objects.
// Only the fixed tick touches it, so no locking.
type Obstacles struct {
	entries []model.Destructible
}

// NewObstacles creates tracked set from the destructibles resolved at spawn.
// Nil entries are skipped.
func NewObstacles(found []model.Destructible) *Obstacles {
	o := &Obstacles{entries: make([]model.Destructible, 0, len(found))}
	for _, d := range found {
		if d != nil {
			o.entries = append(o.entries, d)
		}
	}
	return o
}

// Len returns number of tracked destructibles.
func (o *Obstacles) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Count returns number of tracked destructibles of kind.
func (o *Obstacles) Count(kind model.ObstacleKind) int {
	if o == nil {
		return 0
	}
	n := 0
	for _, d := range o.entries {
		if d.Kind() == kind {
			n++
		}
	}
	return n
}

// Sweep destroys every tracked destructible within radius of at and calls
// onDestroy for each one. Entries that no longer exist are pruned silently,
// passable ones are left alone. Returns number destroyed.
func (o *Obstacles) Sweep(at mgl64.Vec3, radius float64, onDestroy func(model.Destructible)) int {
	if o == nil || len(o.entries) == 0 {
		return 0
	}

	radiusSq := radius * radius
	destroyed := 0
	kept := o.entries[:0]
	for _, d := range o.entries {
		if !d.Exists() {
			if IsDebugEnabled() {
				slog.Debug("pruned stale destructible", "id", d.ID(), "kind", d.Kind())
			}
			continue
		}
		if d.Passable() || model.DistanceSquared(at, d.Position()) > radiusSq {
			kept = append(kept, d)
			continue
		}

		d.Destroy()
		destroyed++
		if onDestroy != nil {
			onDestroy(d)
		}
	}

	clear(o.entries[len(kept):])
	o.entries = kept
	return destroyed
}
