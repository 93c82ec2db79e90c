package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
)

// ErrHunterDestroyed is returned by operations on a hunter that was already killed.
var ErrHunterDestroyed = errors.New("hunter destroyed")

// mouthOffset is where carried remains sit, in hunter-local space.
// The mesh faces +X.
var mouthOffset = mgl64.Vec3{0.8, 1.5, 0}

// stagnationStep is the tick length ChaseAverageMin is expressed for. The
// minimum scales with dt so shorter ticks do not read as stalls.
const stagnationStep = 0.02

// Fear levels raised by a resolved scan on the scanning player.
const (
	scanFearDormant = 0.2
	scanFearChasing = 0.5
)

// CreatureLookup resolves a collider id into a creature.
type CreatureLookup interface {
	Creature(id uint32) (Creature, bool)
}

// HunterConfig describes one hunter instance.
type HunterConfig struct {
	ID        uint32
	Tuning    Tuning
	Mechanics Mechanics
	// Local is the player controlled on the authoritative participant, zero for dedicated hosts.
	Local model.PlayerID
	// Debug starts the hunter in the developer state.
	Debug bool
	// Obstacles are the destructibles resolved once at spawn.
	Obstacles []model.Destructible
}

// Deps are the collaborators a hunter drives.
type Deps struct {
	Body      Body
	Space     SpatialQuery
	Victims   Victims
	Effects   Effects
	Creatures CreatureLookup
	Channel   replication.Channel
	// Now is the wall clock used for re-aim throttling. Defaults to time.Now.
	Now func() time.Time
	// Rand drives the reactivation roll and debug targets.
	Rand *rand.Rand
}

// stateTimers are the per-state elapsed times in seconds.
type stateTimers struct {
	activation   float64
	reactivation float64
	reset        float64
	consume      float64
}

// Hunter is the authoritative controller of one hunter.
//
// All mutation happens inside FixedTick or methods called from the same
// goroutine. Inputs from other goroutines go through Enqueue.
type Hunter struct {
	id        uint32
	tuning    Tuning
	mechanics Mechanics
	local     model.PlayerID
	debug     bool

	body      Body
	space     SpatialQuery
	victims   Victims
	effects   Effects
	creatures CreatureLookup
	channel   replication.Channel
	now       func() time.Time
	rng       *rand.Rand

	state     model.HunterState
	lastState model.HunterState
	published atomic.Uint32
	seq       uint64

	target       *TargetTracker
	timers       stateTimers
	scan         scanTracker
	obstacles    *Obstacles
	elimination  *Elimination
	chaseAverage float64
	lastChasePos mgl64.Vec3

	isRunning atomic.Bool
	destroyed atomic.Bool

	inboxMu sync.Mutex
	inbox   []replication.Command

	destroyedFunc func(id uint32)
}

// NewHunter creates an authoritative hunter. The hunter is Dormant until Start.
func NewHunter(cfg HunterConfig, deps Deps) (*Hunter, error) {
	if cfg.ID == 0 {
		return nil, errors.New("hunter id must not be zero")
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("hunter %d tuning: %w", cfg.ID, err)
	}
	if deps.Body == nil || deps.Space == nil || deps.Victims == nil || deps.Effects == nil {
		return nil, fmt.Errorf("hunter %d: body, space, victims and effects are required", cfg.ID)
	}
	if deps.Channel == nil {
		deps.Channel = replication.Discard{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(cfg.ID)))
	}

	h := &Hunter{
		id:        cfg.ID,
		tuning:    cfg.Tuning,
		mechanics: cfg.Mechanics,
		local:     cfg.Local,
		debug:     cfg.Debug,
		body:      deps.Body,
		space:     deps.Space,
		victims:   deps.Victims,
		effects:   deps.Effects,
		creatures: deps.Creatures,
		channel:   deps.Channel,
		now:       deps.Now,
		rng:       deps.Rand,
		state:     model.StateDormant,
		lastState: model.StateDormant,
		target:    NewTargetTracker(cfg.Tuning.RetargetWindow),
		obstacles: NewObstacles(cfg.Obstacles),
	}
	h.published.Store(uint32(model.StateDormant))
	return h, nil
}

// SetDestroyedFunc installs a callback fired once after the hunter is killed.
func (h *Hunter) SetDestroyedFunc(fn func(id uint32)) {
	h.destroyedFunc = fn
}

// ID returns the hunter object id.
func (h *Hunter) ID() uint32 { return h.id }

// Start begins simulation. A debug hunter immediately picks a random target.
func (h *Hunter) Start() {
	if h.destroyed.Load() || !h.isRunning.CompareAndSwap(false, true) {
		return
	}
	h.broadcast(replication.StateSync(h.id))
	if h.debug {
		h.switchState(model.StateDebug)
		if h.state == model.StateDebug {
			h.broadcast(replication.StateSync(h.id))
		}
	}
	slog.Info("hunter started", "hunter", h.id, "state", h.state)
}

// Stop halts simulation and cancels any elimination in flight.
func (h *Hunter) Stop() {
	if !h.isRunning.CompareAndSwap(true, false) {
		return
	}
	h.cancelElimination()
	slog.Info("hunter stopped", "hunter", h.id)
}

// State returns the last published state. Safe from any goroutine.
func (h *Hunter) State() model.HunterState {
	return model.HunterState(h.published.Load())
}

// Destroyed reports whether the hunter was killed.
func (h *Hunter) Destroyed() bool { return h.destroyed.Load() }

// Target returns the tracked player and pursuit destination.
func (h *Hunter) Target() (model.PlayerID, mgl64.Vec3) {
	return h.target.Player(), h.target.Position()
}

// TargetRotation returns the orientation the hunter eases toward.
func (h *Hunter) TargetRotation() mgl64.Quat { return h.target.Rotation() }

// PendingScan returns the scan waiting to resolve, if any.
func (h *Hunter) PendingScan() (PendingScan, bool) {
	return h.scan.pending, h.scan.active
}

// ChaseAverage returns the stagnation detector's moving displacement average.
func (h *Hunter) ChaseAverage() float64 { return h.chaseAverage }

// Obstacles returns the tracked destructible set.
func (h *Hunter) Obstacles() *Obstacles { return h.obstacles }

// Elimination returns the elimination in flight, or nil.
func (h *Hunter) Elimination() *Elimination { return h.elimination }

// Override forces the state from outside the machine (developer console).
// Entry effects run at the start of the next fixed tick. Must be called
// from the tick goroutine.
func (h *Hunter) Override(s model.HunterState) {
	if !s.Valid() {
		return
	}
	h.state = s
}

// Enqueue queues an input command for the next fixed tick. Safe from any goroutine.
func (h *Hunter) Enqueue(cmd replication.Command) {
	if !cmd.Kind.Input() || h.destroyed.Load() {
		return
	}
	if cmd.Hunter != 0 && cmd.Hunter != h.id {
		return
	}
	h.inboxMu.Lock()
	h.inbox = append(h.inbox, cmd)
	h.inboxMu.Unlock()
}

func (h *Hunter) drainInbox() {
	h.inboxMu.Lock()
	pending := h.inbox
	h.inbox = nil
	h.inboxMu.Unlock()

	for _, cmd := range pending {
		switch cmd.Kind {
		case replication.KindScan:
			h.Scan(cmd.Target, cmd.Position)
		case replication.KindTouch:
			h.Touch(cmd.Target, cmd.Collider)
		case replication.KindLight:
			h.LightExposure(cmd.Target, cmd.Position)
		}
	}
}

// FixedTick advances the authoritative simulation by dt seconds.
func (h *Hunter) FixedTick(dt float64) {
	if !h.isRunning.Load() || h.destroyed.Load() {
		return
	}

	h.drainInbox()
	if h.destroyed.Load() {
		return
	}

	// Detect transitions driven from outside the machine.
	if h.state != h.lastState {
		h.enterState()
		h.broadcast(replication.StateSync(h.id))
	}

	pos := h.body.Transform().Position
	closest, found, err := h.space.ClosestPlayer(pos, false)
	sensed := err == nil
	if err != nil && IsDebugEnabled() {
		slog.Debug("perception skipped", "hunter", h.id, "error", err)
	}

	switch h.state {
	case model.StateDormant, model.StateDebug:
		if sensed {
			if h.dormantPerception(pos, closest, found) {
				return
			}
		}
		h.resolveScan(dt)

	case model.StateActivating:
		h.timers.activation += dt
		if h.timers.activation >= h.tuning.ActivationDuration {
			h.switchState(model.StateChasing)
			h.broadcast(replication.StateSync(h.id))
		}

	case model.StateChasing:
		h.chaseTick(dt, pos, closest, found, sensed)

	case model.StateReactivating:
		h.timers.reactivation += dt
		if h.timers.reactivation >= h.tuning.ReactivationDuration {
			h.concludeReactivation(pos)
		}

	case model.StateResetting:
		h.timers.reset += dt
		if h.timers.reset >= h.tuning.ResetDuration {
			h.switchState(model.StateDormant)
			h.broadcast(replication.StateSync(h.id))
		}

	case model.StateConsuming:
		h.timers.consume += dt
		if h.elimination != nil {
			h.elimination.Advance(dt, h.mouth())
		}
		if h.timers.consume >= h.tuning.ConsumeDuration {
			h.switchState(model.StateDormant)
			h.broadcast(replication.StateSync(h.id))
		}
	}
}

// dormantPerception runs touch, light and proximity checks. Returns true when
// a target was accepted.
func (h *Hunter) dormantPerception(pos mgl64.Vec3, closest model.PlayerView, found bool) bool {
	if found && !closest.Dead && inReach(pos, closest.Position, h.tuning.TouchRadius, h.tuning.VerticalBand) {
		return h.requestTarget(closest.ID, closest.Position, h.tuning.TouchOvershoot)
	}

	if p, ok, err := LocalLightExposure(h.space, pos, h.local, h.tuning); err == nil && ok {
		if h.requestTarget(p.ID, p.Position, 0) {
			return true
		}
	}

	if h.mechanics.ProximitySense {
		if p, ok, err := ClosestVisible(h.space, pos, h.mechanics.ProximityDistance); err == nil && ok {
			return h.requestTarget(p.ID, p.Position, 0)
		}
	}
	return false
}

func (h *Hunter) chaseTick(dt float64, pos mgl64.Vec3, closest model.PlayerView, found, sensed bool) {
	if sensed {
		if p, ok, err := LocalLightExposure(h.space, pos, h.local, h.tuning); err == nil && ok {
			h.requestTarget(p.ID, p.Position, 0)
		}
	}

	h.resolveScan(dt)
	if h.state != model.StateChasing {
		return
	}

	if sensed && found && !closest.Dead &&
		inReach(pos, closest.Position, h.tuning.ContactRadius, h.tuning.VerticalBand) {
		h.consume(closest.ID)
		return
	}

	h.obstacles.Sweep(pos, h.tuning.DemolishRadius, func(d model.Destructible) {
		at := d.Position()
		h.effects.Explode(at, model.DemolishBlast)
		h.broadcast(replication.Demolish(h.id, at))
		if IsDebugEnabled() {
			slog.Debug("obstacle demolished", "hunter", h.id, "kind", d.Kind(), "id", d.ID())
		}
	})

	displacement := model.Distance(pos, h.lastChasePos)
	h.lastChasePos = pos
	h.chaseAverage = (h.chaseAverage + displacement) / 2

	arrived := model.Distance(model.OnPlane(pos, 0), model.OnPlane(h.target.Position(), 0)) <= h.tuning.ArrivalRadius
	if arrived || h.chaseAverage < h.tuning.ChaseAverageMin*dt/stagnationStep {
		h.concludePursuit(arrived)
	}
}

// concludePursuit rolls between reactivating and resetting.
func (h *Hunter) concludePursuit(arrived bool) {
	draw := h.rng.Float64() * 100
	if IsDebugEnabled() {
		slog.Debug("pursuit concluded",
			"hunter", h.id,
			"arrived", arrived,
			"average", h.chaseAverage,
			"draw", draw)
	}
	if draw < h.mechanics.ReactivationChance {
		h.reactivate()
		return
	}
	h.reset()
}

func (h *Hunter) concludeReactivation(pos mgl64.Vec3) {
	p, ok, err := h.space.ClosestPlayer(pos, true)
	if err != nil {
		// Retry next tick.
		return
	}
	if !ok || p.Dead {
		h.reset()
		return
	}
	// A throttled re-aim stays in Reactivating and retries next tick.
	h.requestTarget(p.ID, p.Position, h.tuning.ReactivationOvershoot)
}

// Scan registers a scan ping from player at pos. Returns true when it became
// the pending scan.
func (h *Hunter) Scan(player model.PlayerID, pos mgl64.Vec3) bool {
	if h.destroyed.Load() || !h.state.AcceptsScans() {
		return false
	}
	origin := h.body.Transform().Position
	dist := model.Distance(origin, pos)
	if dist > h.tuning.ScanRange {
		return false
	}
	if !scanSightClear(h.space, origin, pos) {
		return false
	}
	return h.scan.register(player, ScanDelay(dist, h.tuning.ScanSpeed))
}

func (h *Hunter) resolveScan(dt float64) {
	done, ok := h.scan.advance(dt)
	if !ok {
		return
	}

	p, found := h.space.Player(done.Player)
	if !found || p.Dead {
		return
	}
	origin := h.body.Transform().Position
	if !scanSightClear(h.space, origin, p.Position) {
		return
	}

	h.broadcast(replication.Ping(h.id, p.ID))

	overshoot := h.tuning.ScanOvershoot
	if h.state == model.StateChasing {
		overshoot = 0
	}
	h.requestTarget(p.ID, p.Position, overshoot)
}

// Touch handles a collision input. Players touching a dormant hunter wake it;
// a chasing hunter consumes them. Non-player colliders are creatures.
func (h *Hunter) Touch(player model.PlayerID, collider uint32) {
	if h.destroyed.Load() {
		return
	}
	if player == 0 {
		if h.creatures == nil {
			return
		}
		if c, ok := h.creatures.Creature(collider); ok {
			h.CollideWithCreature(c)
		}
		return
	}

	p, ok := h.space.Player(player)
	if !ok || p.Dead {
		return
	}
	switch h.state {
	case model.StateChasing:
		h.consume(p.ID)
	case model.StateDormant, model.StateDebug:
		h.requestTarget(p.ID, p.Position, h.tuning.TouchOvershoot)
	}
}

// LightExposure handles a participant reporting its own player shining light
// at the hunter.
func (h *Hunter) LightExposure(player model.PlayerID, pos mgl64.Vec3) {
	if h.destroyed.Load() {
		return
	}
	switch h.state {
	case model.StateDormant, model.StateDebug, model.StateChasing:
		h.requestTarget(player, pos, 0)
	}
}

// RequestTarget asks the hunter to pursue player at pos. It returns false
// when throttled or when the current state does not take this target.
func (h *Hunter) RequestTarget(player model.PlayerID, pos mgl64.Vec3) bool {
	if h.destroyed.Load() {
		return false
	}
	return h.requestTarget(player, pos, 0)
}

func (h *Hunter) requestTarget(player model.PlayerID, pos mgl64.Vec3, overshoot float64) bool {
	now := h.now()
	if !h.target.Allow(now) || !h.state.AcceptsTargets() {
		return false
	}
	if h.state == model.StateChasing && h.target.Player() != 0 && player != h.target.Player() {
		return false
	}

	origin := h.body.Transform().Position
	dest := model.OnPlane(pos, origin.Y())
	if overshoot > 0 {
		dest = model.Overshoot(origin, dest, overshoot)
	}
	h.target.Accept(now, player, origin, dest)

	switch h.state {
	case model.StateDormant, model.StateDebug:
		h.switchState(model.StateActivating)
	case model.StateChasing:
		h.body.RequestDestination(h.target.Position())
	case model.StateReactivating:
		h.switchState(model.StateChasing)
	}

	h.broadcast(replication.SetTarget(h.id, player, h.target.Position()))
	if IsDebugEnabled() {
		slog.Debug("target accepted",
			"hunter", h.id,
			"target", player,
			"state", h.state)
	}
	return true
}

func (h *Hunter) reactivate() {
	pos := h.body.Transform().Position
	h.target.Hold(pos)
	h.body.RequestDestination(pos)
	if p, ok, err := ClosestVisible(h.space, pos, h.tuning.VisibleRange); err == nil && ok {
		h.target.Face(p.Position.Sub(pos))
	}
	h.switchState(model.StateReactivating)
	h.broadcast(replication.Reactivate(h.id))
}

func (h *Hunter) reset() {
	h.switchState(model.StateResetting)
	h.broadcast(replication.Reset(h.id))
}

func (h *Hunter) consume(player model.PlayerID) {
	if h.state != model.StateChasing {
		return
	}
	pos := h.body.Transform().Position
	h.target.Hold(pos)
	h.body.RequestDestination(pos)

	h.switchState(model.StateConsuming)
	h.cancelElimination()
	h.elimination = NewElimination(player, h.victims, h.tuning, h.mechanics.BodiesEnabled)
	h.broadcast(replication.Consume(h.id, player))

	slog.Info("hunter consuming player",
		"hunter", h.id,
		"target", player,
		"elimination", h.elimination.ID())
}

// CollideWithCreature handles bumping into another creature while chasing.
// Mortal creatures die. Hitting another hunter kills it and then destroys
// this one.
func (h *Hunter) CollideWithCreature(c Creature) {
	if h.destroyed.Load() || h.state != model.StateChasing || c == nil {
		return
	}
	if c.CanDie() && !c.Dead() {
		c.Kill()
		if IsDebugEnabled() {
			slog.Debug("creature killed", "hunter", h.id, "creature", c.ObjectID())
		}
	}
	if c.SameArchetype() {
		if err := h.Kill(); err != nil && IsDebugEnabled() {
			slog.Debug("collision kill ignored", "hunter", h.id, "error", err)
		}
	}
}

// Kill destroys the hunter with the death explosion.
func (h *Hunter) Kill() error {
	if !h.destroyed.CompareAndSwap(false, true) {
		return ErrHunterDestroyed
	}
	h.cancelElimination()
	h.isRunning.Store(false)

	pos := h.body.Transform().Position
	h.effects.Explode(pos, model.DeathBlast)
	h.broadcast(replication.Explode(h.id, pos))
	h.body.Despawn()

	slog.Info("hunter destroyed", "hunter", h.id, "state", h.state)

	if h.destroyedFunc != nil {
		h.destroyedFunc(h.id)
	}
	return nil
}

// switchState sets the state and runs entry effects if it changed.
func (h *Hunter) switchState(s model.HunterState) {
	h.state = s
	h.enterState()
}

// enterState runs entry effects once for a state not yet observed.
// lastState is updated first, so a nested transition from an entry
// effect cannot re-enter the outer state.
func (h *Hunter) enterState() {
	if h.state == h.lastState {
		return
	}
	from := h.lastState
	s := h.state
	h.lastState = s
	h.published.Store(uint32(s))
	h.timers = stateTimers{}

	if !s.AcceptsScans() {
		h.scan.clear()
	}
	if s != model.StateConsuming {
		h.cancelElimination()
	}

	if IsDebugEnabled() {
		slog.Debug("hunter state changed", "hunter", h.id, "from", from, "to", s)
	}

	switch s {
	case model.StateDebug:
		pos := h.body.Transform().Position
		r := h.tuning.DebugTargetRange
		point := pos.Add(mgl64.Vec3{(h.rng.Float64()*2 - 1) * r, 0, (h.rng.Float64()*2 - 1) * r})
		h.requestTarget(0, point, 0)

	case model.StateChasing:
		pos := h.body.Transform().Position
		h.chaseAverage = h.tuning.ChaseAverageSeed
		h.lastChasePos = pos
		h.body.RequestDestination(h.target.Position())
	}
}

func (h *Hunter) cancelElimination() {
	if h.elimination == nil {
		return
	}
	h.elimination.Cancel()
	h.elimination = nil
}

func (h *Hunter) mouth() mgl64.Vec3 {
	tr := h.body.Transform()
	return tr.Position.Add(tr.Rotation.Rotate(mouthOffset))
}

// broadcast stamps cmd with the next sequence number and the resulting state.
func (h *Hunter) broadcast(cmd replication.Command) {
	h.seq++
	cmd.Seq = h.seq
	cmd.Hunter = h.id
	cmd.State = h.state
	cmd.Rotation = h.target.Rotation()
	if cmd.Kind == replication.KindState || cmd.Kind == replication.KindReactivate {
		cmd.Target = h.target.Player()
		cmd.Position = h.target.Position()
	}
	if err := h.channel.Broadcast(cmd); err != nil {
		slog.Warn("broadcast failed",
			"hunter", h.id,
			"kind", cmd.Kind,
			"error", err)
	}
}
