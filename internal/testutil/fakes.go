package testutil

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
)

// Space is an in-memory spatial query.
type Space struct {
	mu      sync.Mutex
	players map[model.PlayerID]model.PlayerView
	// Err is returned by every query while set.
	Err error
	// BlockAll makes every line-of-sight check fail.
	BlockAll bool
}

// NewSpace creates Space with players.
func NewSpace(players ...model.PlayerView) *Space {
	s := &Space{players: make(map[model.PlayerID]model.PlayerView)}
	for _, p := range players {
		s.players[p.ID] = p
	}
	return s
}

// Put adds or replaces a player.
func (s *Space) Put(p model.PlayerView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

// Move sets a player's position.
func (s *Space) Move(id model.PlayerID, pos mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players[id]
	p.ID = id
	p.Position = pos
	s.players[id] = p
}

// Remove deletes a player.
func (s *Space) Remove(id model.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
}

func (s *Space) ClosestPlayer(origin mgl64.Vec3, requireSight bool) (model.PlayerView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.PlayerView{}, false, s.Err
	}
	var (
		best  model.PlayerView
		found bool
		short = math.Inf(1)
	)
	for _, p := range s.players {
		if p.Dead || (requireSight && s.BlockAll) {
			continue
		}
		if d := model.Distance(origin, p.Position); d < short || (d == short && p.ID < best.ID) {
			best, short, found = p, d, true
		}
	}
	return best, found, nil
}

func (s *Space) PlayersInSight(origin mgl64.Vec3, rng float64) ([]model.PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.BlockAll {
		return nil, nil
	}
	var out []model.PlayerView
	for _, p := range s.players {
		if !p.Dead && model.Distance(origin, p.Position) <= rng {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Space) Player(id model.PlayerID) (model.PlayerView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	return p, ok
}

func (s *Space) Blocked(from, to mgl64.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.BlockAll
}

// Body is a hunter body that only moves when told to.
type Body struct {
	mu           sync.Mutex
	transform    model.Transform
	Destinations []mgl64.Vec3
	Despawned    bool
}

// NewBody creates Body at pos.
func NewBody(pos mgl64.Vec3) *Body {
	return &Body{transform: model.NewTransform(pos)}
}

func (b *Body) Transform() model.Transform {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform
}

func (b *Body) SetRotation(q mgl64.Quat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transform.Rotation = q
}

func (b *Body) RequestDestination(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Destinations = append(b.Destinations, pos)
}

func (b *Body) Despawn() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Despawned = true
}

// MoveTo teleports the body.
func (b *Body) MoveTo(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transform.Position = pos
}

// LastDestination returns the most recent destination request.
func (b *Body) LastDestination() (mgl64.Vec3, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Destinations) == 0 {
		return mgl64.Vec3{}, false
	}
	return b.Destinations[len(b.Destinations)-1], true
}

// Remains records what the hunter does with a body.
type Remains struct {
	Moves    int
	Last     mgl64.Vec3
	Released bool
	Dropped  bool
}

func (r *Remains) MoveTo(pos mgl64.Vec3) {
	r.Moves++
	r.Last = pos
}

func (r *Remains) Release(drop bool) {
	r.Released = true
	r.Dropped = drop
}

// Victims records elimination effects. Remains appear on kill unless NoRemains is set.
type Victims struct {
	Bled      []model.PlayerID
	Killed    []model.PlayerID
	NoRemains bool
	bodies    map[model.PlayerID]*Remains
}

func (v *Victims) Bleed(id model.PlayerID) { v.Bled = append(v.Bled, id) }

func (v *Victims) Kill(id model.PlayerID) {
	v.Killed = append(v.Killed, id)
	if v.NoRemains {
		return
	}
	if v.bodies == nil {
		v.bodies = make(map[model.PlayerID]*Remains)
	}
	v.bodies[id] = &Remains{}
}

func (v *Victims) Remains(id model.PlayerID) (ai.Remains, bool) {
	r, ok := v.bodies[id]
	if !ok {
		return nil, false
	}
	return r, true
}

// Body returns the recorded remains of id.
func (v *Victims) Body(id model.PlayerID) *Remains {
	return v.bodies[id]
}

// Blast is one recorded explosion.
type Blast struct {
	At    mgl64.Vec3
	Blast model.Blast
}

// Effects records explosions.
type Effects struct {
	Blasts []Blast
}

func (e *Effects) Explode(at mgl64.Vec3, b model.Blast) {
	e.Blasts = append(e.Blasts, Blast{At: at, Blast: b})
}

// Creature is a scripted collider.
type Creature struct {
	ID     uint32
	Mortal bool
	IsDead bool
	Hunter bool
	Kills  int
}

func (c *Creature) ObjectID() uint32    { return c.ID }
func (c *Creature) CanDie() bool        { return c.Mortal }
func (c *Creature) Dead() bool          { return c.IsDead }
func (c *Creature) SameArchetype() bool { return c.Hunter }
func (c *Creature) Kill()               { c.Kills++; c.IsDead = true }

// Creatures is a CreatureLookup over a map.
type Creatures map[uint32]ai.Creature

func (c Creatures) Creature(id uint32) (ai.Creature, bool) {
	cr, ok := c[id]
	return cr, ok
}

// Destructible is a scripted obstacle.
type Destructible struct {
	Id        uint32
	Type      model.ObstacleKind
	At        mgl64.Vec3
	Gone      bool
	Open      bool
	Destroyed int
}

func (d *Destructible) ID() uint32               { return d.Id }
func (d *Destructible) Kind() model.ObstacleKind { return d.Type }
func (d *Destructible) Position() mgl64.Vec3     { return d.At }
func (d *Destructible) Exists() bool             { return !d.Gone }
func (d *Destructible) Passable() bool           { return d.Open }
func (d *Destructible) Destroy()                 { d.Destroyed++; d.Gone = true }

// Clock is a manually advanced wall clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates Clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Recorder is a loopback channel that remembers every broadcast.
type Recorder struct {
	*replication.Loopback

	mu   sync.Mutex
	sent []replication.Command
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Loopback: replication.NewLoopback()}
}

func (r *Recorder) Broadcast(cmd replication.Command) error {
	r.mu.Lock()
	r.sent = append(r.sent, cmd)
	r.mu.Unlock()
	return r.Loopback.Broadcast(cmd)
}

// Sent returns every broadcast command in order.
func (r *Recorder) Sent() []replication.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]replication.Command(nil), r.sent...)
}

// Kinds returns the kinds of every broadcast command in order.
func (r *Recorder) Kinds() []replication.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]replication.Kind, 0, len(r.sent))
	for _, c := range r.sent {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

// Presenter records presentation calls as short strings, e.g. "trigger:Activate".
type Presenter struct {
	mu     sync.Mutex
	calls  []string
	Eye    model.Color
	Light  float64
	Scrape float64
}

func (p *Presenter) record(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *Presenter) SetTrigger(name string)      { p.record("trigger:%s", name) }
func (p *Presenter) SetBool(name string, v bool) { p.record("bool:%s=%t", name, v) }
func (p *Presenter) PlayOneShot(clip string, volume float64) {
	p.record("oneshot:%s@%.2f", clip, volume)
}
func (p *Presenter) PlayLoop(clip string, volume float64) { p.record("loop:%s@%.2f", clip, volume) }
func (p *Presenter) StopLoop()                            { p.record("stoploop") }
func (p *Presenter) SendParticleEvent(event string)       { p.record("vfx:%s", event) }
func (p *Presenter) SetEyeEmission(c model.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Eye = c
}
func (p *Presenter) SetInternalLight(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Light = v
}
func (p *Presenter) SetScrapeLights(_ bool, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scrape = v
}
func (p *Presenter) SpawnExplosion(at mgl64.Vec3, big bool) { p.record("explosion:big=%t", big) }

// Calls returns recorded calls in order.
func (p *Presenter) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Count returns how many times call was recorded.
func (p *Presenter) Count(call string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Listener is a local player stand-in.
type Listener struct {
	PlayerID model.PlayerID
	At       mgl64.Vec3
	Shakes   []bool
	Fear     []float64
}

func (l *Listener) ID() model.PlayerID            { return l.PlayerID }
func (l *Listener) Position() (mgl64.Vec3, bool)  { return l.At, true }
func (l *Listener) ShakeCamera(big bool)          { l.Shakes = append(l.Shakes, big) }
func (l *Listener) JumpToFearLevel(level float64) { l.Fear = append(l.Fear, level) }

var (
	_ ai.SpatialQuery   = (*Space)(nil)
	_ ai.Body           = (*Body)(nil)
	_ ai.Victims        = (*Victims)(nil)
	_ ai.Effects        = (*Effects)(nil)
	_ ai.Creature       = (*Creature)(nil)
	_ ai.CreatureLookup = Creatures(nil)
	_ ai.Presenter      = (*Presenter)(nil)
	_ ai.Listener       = (*Listener)(nil)
	_ model.Destructible = (*Destructible)(nil)
)
