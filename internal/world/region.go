package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/hunter/internal/model"
)

// Region is one cell of the spatial grid holding the players inside it.
// Queries read an immutable snapshot rebuilt lazily after membership changes.
type Region struct {
	rx, rz int32

	players sync.Map // map[model.PlayerID]*Player

	snapshotCache atomic.Value // []*Player (immutable after rebuild)
	snapshotDirty atomic.Bool
	version       atomic.Uint64
}

// NewRegion creates a new region
func NewRegion(rx, rz int32) *Region {
	return &Region{rx: rx, rz: rz}
}

// RX returns region X index
func (r *Region) RX() int32 { return r.rx }

// RZ returns region Z index
func (r *Region) RZ() int32 { return r.rz }

// Version returns current region version (incremented on Add/Remove).
func (r *Region) Version() uint64 {
	return r.version.Load()
}

// AddPlayer adds player to region (concurrent-safe)
func (r *Region) AddPlayer(p *Player) {
	r.players.Store(p.ID(), p)
	r.version.Add(1)
	r.snapshotDirty.Store(true)
}

// RemovePlayer removes player from region (concurrent-safe)
func (r *Region) RemovePlayer(id model.PlayerID) {
	r.players.Delete(id)
	r.version.Add(1)
	r.snapshotDirty.Store(true)
}

// Players returns cached snapshot of players in this region.
// IMPORTANT: Returned slice is immutable — DO NOT modify.
func (r *Region) Players() []*Player {
	if !r.snapshotDirty.Load() {
		if cache := r.snapshotCache.Load(); cache != nil {
			return cache.([]*Player)
		}
	}
	return r.rebuildSnapshot()
}

func (r *Region) rebuildSnapshot() []*Player {
	players := make([]*Player, 0, 4)
	r.players.Range(func(_, value any) bool {
		players = append(players, value.(*Player))
		return true
	})

	r.snapshotCache.Store(players)
	r.snapshotDirty.Store(false)
	return players
}
