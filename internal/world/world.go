package world

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// DefaultChaseSpeed is the hunter pursuit speed in units per second.
const DefaultChaseSpeed = 9.0

// World is the session's level: players on a region grid, static walls,
// destructible obstacles, creatures and hunter bodies. One World exists per
// session; it is not a process singleton.
type World struct {
	regions [][]*Region // [RegionsPerAxis][RegionsPerAxis]
	players sync.Map    // map[model.PlayerID]*Player

	ids        *ObjectIDGenerator
	chaseSpeed float64

	mu        sync.RWMutex
	walls     []Box
	obstacles map[uint32]*Obstacle
	creatures map[uint32]*Creature
	bodies    map[uint32]*Body
	remains   map[model.PlayerID]*Remains
}

// New creates an empty world. Non-positive chaseSpeed uses DefaultChaseSpeed.
func New(chaseSpeed float64) *World {
	if chaseSpeed <= 0 {
		chaseSpeed = DefaultChaseSpeed
	}
	w := &World{
		ids:        NewObjectIDGenerator(),
		chaseSpeed: chaseSpeed,
		obstacles:  make(map[uint32]*Obstacle),
		creatures:  make(map[uint32]*Creature),
		bodies:     make(map[uint32]*Body),
		remains:    make(map[model.PlayerID]*Remains),
	}
	w.regions = make([][]*Region, RegionsPerAxis)
	for rx := range RegionsPerAxis {
		w.regions[rx] = make([]*Region, RegionsPerAxis)
		for rz := range RegionsPerAxis {
			w.regions[rx][rz] = NewRegion(int32(rx), int32(rz))
		}
	}
	return w
}

// IDs returns the session's object id generator.
func (w *World) IDs() *ObjectIDGenerator { return w.ids }

// GetRegion returns region at world position. Returns nil out of bounds.
func (w *World) GetRegion(pos mgl64.Vec3) *Region {
	rx, rz := CoordToRegionIndex(pos.X(), pos.Z())
	if !IsValidRegionIndex(rx, rz) {
		return nil
	}
	return w.regions[rx][rz]
}

// AddPlayer places p into the world.
func (w *World) AddPlayer(p *Player) error {
	region := w.GetRegion(p.Position())
	if region == nil {
		return fmt.Errorf("invalid coordinates for player %d: %v", p.ID(), p.Position())
	}
	if _, loaded := w.players.LoadOrStore(p.ID(), p); loaded {
		return fmt.Errorf("player %d already in world", p.ID())
	}
	region.AddPlayer(p)
	return nil
}

// MovePlayer updates position and region membership.
func (w *World) MovePlayer(id model.PlayerID, pos mgl64.Vec3) error {
	p, ok := w.GetPlayer(id)
	if !ok {
		return fmt.Errorf("player %d not found", id)
	}
	to := w.GetRegion(pos)
	if to == nil {
		return fmt.Errorf("invalid coordinates for player %d: %v", id, pos)
	}
	from := w.GetRegion(p.Position())
	p.setPosition(pos)
	if from != to {
		if from != nil {
			from.RemovePlayer(id)
		}
		to.AddPlayer(p)
	}
	return nil
}

// RemovePlayer removes a player (disconnect).
func (w *World) RemovePlayer(id model.PlayerID) {
	value, ok := w.players.LoadAndDelete(id)
	if !ok {
		return
	}
	if region := w.GetRegion(value.(*Player).Position()); region != nil {
		region.RemovePlayer(id)
	}
}

// GetPlayer returns player by id.
func (w *World) GetPlayer(id model.PlayerID) (*Player, bool) {
	value, ok := w.players.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*Player), true
}

// PlayerCount returns number of players in world.
func (w *World) PlayerCount() int {
	count := 0
	w.players.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// AddWall adds static level geometry.
func (w *World) AddWall(b Box) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.walls = append(w.walls, b)
}

// forEachPlayerNear calls fn for every player in regions overlapping the
// square of half-size rng around origin. fn returns false to stop.
func (w *World) forEachPlayerNear(origin mgl64.Vec3, rng float64, fn func(*Player) bool) {
	minX, minZ := CoordToRegionIndex(origin.X()-rng, origin.Z()-rng)
	maxX, maxZ := CoordToRegionIndex(origin.X()+rng, origin.Z()+rng)
	minX, minZ = ClampRegionIndex(minX), ClampRegionIndex(minZ)
	maxX, maxZ = ClampRegionIndex(maxX), ClampRegionIndex(maxZ)

	for rx := minX; rx <= maxX; rx++ {
		for rz := minZ; rz <= maxZ; rz++ {
			for _, p := range w.regions[rx][rz].Players() {
				if !fn(p) {
					return
				}
			}
		}
	}
}

// ClosestPlayer returns the nearest living player to origin.
func (w *World) ClosestPlayer(origin mgl64.Vec3, requireSight bool) (model.PlayerView, bool, error) {
	var (
		best  model.PlayerView
		found bool
		short = math.Inf(1)
	)
	w.players.Range(func(_, value any) bool {
		v := value.(*Player).View()
		if v.Dead {
			return true
		}
		d := model.DistanceSquared(origin, v.Position)
		if d >= short || (requireSight && w.Blocked(origin, v.Position)) {
			return true
		}
		best, short, found = v, d, true
		return true
	})
	return best, found, nil
}

// PlayersInSight returns living players within rng of origin with clear line of sight.
func (w *World) PlayersInSight(origin mgl64.Vec3, rng float64) ([]model.PlayerView, error) {
	var out []model.PlayerView
	rngSq := rng * rng
	w.forEachPlayerNear(origin, rng, func(p *Player) bool {
		v := p.View()
		if !v.Dead && model.DistanceSquared(origin, v.Position) <= rngSq && !w.Blocked(origin, v.Position) {
			out = append(out, v)
		}
		return true
	})
	return out, nil
}

// Player looks up a player view by id.
func (w *World) Player(id model.PlayerID) (model.PlayerView, bool) {
	p, ok := w.GetPlayer(id)
	if !ok {
		return model.PlayerView{}, false
	}
	return p.View(), true
}

// Blocked reports whether any wall intersects the segment from→to.
func (w *World) Blocked(from, to mgl64.Vec3) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, b := range w.walls {
		if b.IntersectsSegment(from, to) {
			return true
		}
	}
	return false
}
