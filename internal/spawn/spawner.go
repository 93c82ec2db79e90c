package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
	"github.com/udisondev/hunter/internal/session"
	"github.com/udisondev/hunter/internal/world"
)

var (
	// ErrSpawnLimit is returned when the level already holds the maximum count.
	ErrSpawnLimit = errors.New("hunter spawn limit reached")
	// ErrNoPower is returned when the level power pool cannot pay for a hunter.
	ErrNoPower = errors.New("not enough spawn power")
	// ErrLevelDisabled is returned when the level weight is zero.
	ErrLevelDisabled = errors.New("hunters disabled on level")
)

// Config holds what every spawned hunter shares.
type Config struct {
	Power     float64
	Max       int
	Tuning    ai.Tuning
	Mechanics ai.Mechanics
	Debug     bool
	// Local is the player controlled on this host, zero when dedicated.
	Local model.PlayerID
	// Present attaches a logging presentation view to every hunter.
	Present bool
	Volume  float64
}

// Spawner creates hunters for the current level and keeps the tick
// manager and session registry in sync with their lifetime.
type Spawner struct {
	cfg      Config
	weights  *Weights
	world    *world.World
	ticks    *ai.TickManager
	registry *session.Registry
	channel  replication.Channel

	mu        sync.Mutex
	level     string
	power     float64
	alive     int
	obstacles []model.Destructible
	resolved  bool
	views     map[uint32]*ai.Observer
}

// NewSpawner creates a spawner. BeginLevel must be called before Spawn.
func NewSpawner(
	cfg Config,
	weights *Weights,
	w *world.World,
	ticks *ai.TickManager,
	registry *session.Registry,
	ch replication.Channel,
) *Spawner {
	if ch == nil {
		ch = replication.Discard{}
	}
	return &Spawner{
		cfg:      cfg,
		weights:  weights,
		world:    w,
		ticks:    ticks,
		registry: registry,
		channel:  ch,
		views:    make(map[uint32]*ai.Observer),
	}
}

// BeginLevel starts a new level with the given power pool. Destructibles
// are resolved again on the next spawn.
func (s *Spawner) BeginLevel(level string, power float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	s.power = power
	s.alive = 0
	s.obstacles = nil
	s.resolved = false

	slog.Info("level started", "level", level, "power", power, "weight", s.weights.For(level))
}

// Weight returns the spawn weight of the current level.
func (s *Spawner) Weight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weights.For(s.level)
}

// Alive returns the number of hunters spawned on this level and not yet destroyed.
func (s *Spawner) Alive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// Power returns the remaining level power.
func (s *Spawner) Power() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.power
}

// Spawn places a hunter at pos, registers it and starts it.
func (s *Spawner) Spawn(pos mgl64.Vec3) (*ai.Hunter, error) {
	obstacles, err := s.reserve()
	if err != nil {
		return nil, err
	}

	id := s.world.IDs().NextHunterID()
	body := s.world.SpawnBody(id, pos)

	h, err := ai.NewHunter(ai.HunterConfig{
		ID:        id,
		Tuning:    s.cfg.Tuning,
		Mechanics: s.cfg.Mechanics,
		Local:     s.cfg.Local,
		Debug:     s.cfg.Debug,
		Obstacles: obstacles,
	}, ai.Deps{
		Body:      body,
		Space:     s.world,
		Victims:   s.world,
		Effects:   s.world,
		Creatures: s.world,
		Channel:   s.channel,
	})
	if err != nil {
		body.Despawn()
		s.refund()
		return nil, fmt.Errorf("creating hunter: %w", err)
	}

	if err := s.registry.Register(h); err != nil {
		body.Despawn()
		s.refund()
		return nil, fmt.Errorf("registering hunter %d: %w", id, err)
	}

	s.world.AddHunterCreature(id, func() {
		if err := h.Kill(); err != nil {
			slog.Debug("hunter already destroyed", "hunter", id)
		}
	})
	h.SetDestroyedFunc(s.onDestroyed)
	s.ticks.Register(id, h)
	if s.cfg.Present {
		s.attachView(id, body)
	}

	slog.Info("hunter spawned", "hunter", id, "position", pos, "obstacles", len(obstacles))
	return h, nil
}

// reserve checks weight, count and power and books a slot. Destructibles
// are resolved on the first spawn of a level and shared after that.
func (s *Spawner) reserve() ([]model.Destructible, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.weights.For(s.level) <= 0 {
		return nil, fmt.Errorf("level %q: %w", s.level, ErrLevelDisabled)
	}
	if s.alive >= s.cfg.Max {
		return nil, fmt.Errorf("level %q holds %d/%d: %w", s.level, s.alive, s.cfg.Max, ErrSpawnLimit)
	}
	if s.power < s.cfg.Power {
		return nil, fmt.Errorf("level %q has %.1f, needs %.1f: %w", s.level, s.power, s.cfg.Power, ErrNoPower)
	}
	s.alive++
	s.power -= s.cfg.Power

	if !s.resolved {
		s.obstacles = s.world.Destructibles()
		s.resolved = true
	}
	return s.obstacles, nil
}

// attachView presents the hunter from its own replicated commands, the
// same way a remote participant does.
func (s *Spawner) attachView(id uint32, body *world.Body) {
	o := ai.NewObserver(ai.ObserverConfig{
		Hunter: id,
		Local:  s.cfg.Local,
		Volume: s.cfg.Volume,
		Tuning: s.cfg.Tuning,
	}, s.channel, s.world, body, ai.LogPresenter{Hunter: id}, nil)
	o.Start()
	s.ticks.AddView(id, o)

	s.mu.Lock()
	s.views[id] = o
	s.mu.Unlock()
}

func (s *Spawner) refund() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive--
	s.power += s.cfg.Power
}

func (s *Spawner) onDestroyed(id uint32) {
	s.registry.Unregister(id)
	s.ticks.Unregister(id)

	s.mu.Lock()
	if s.alive > 0 {
		s.alive--
	}
	view := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()

	if view != nil {
		view.Stop()
	}

	slog.Info("hunter removed from session", "hunter", id)
}
