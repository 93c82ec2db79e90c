package ai

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
)

// ObserverConfig describes a non-authoritative replica of one hunter.
type ObserverConfig struct {
	Hunter uint32
	Local  model.PlayerID
	Volume float64
	Tuning Tuning
}

// Observer is a participant's read-only view of a hunter. It mirrors
// replicated commands, replays presentation and reports the local
// player's own perception inputs back to the authoritative side.
type Observer struct {
	cfg     ObserverConfig
	mirror  *Mirror
	visuals *Visuals
	channel replication.Channel
	space   SpatialQuery
	pose    Pose
	now     func() time.Time

	lastLightReport time.Time
	unsubscribe     func()
	isRunning       atomic.Bool
}

// NewObserver creates an observer and subscribes it to ch.
func NewObserver(cfg ObserverConfig, ch replication.Channel, space SpatialQuery, pose Pose, presenter Presenter, listener Listener) *Observer {
	mirror := NewMirror(cfg.Hunter)
	o := &Observer{
		cfg:     cfg,
		mirror:  mirror,
		visuals: NewVisuals(mirror, presenter, pose, listener, cfg.Volume, cfg.Tuning),
		channel: ch,
		space:   space,
		pose:    pose,
		now:     time.Now,
	}
	o.unsubscribe = ch.Subscribe(func(cmd replication.Command) {
		mirror.Apply(cmd)
	})
	return o
}

// Mirror returns the replicated state.
func (o *Observer) Mirror() *Mirror { return o.mirror }

// Visuals returns the presentation driver.
func (o *Observer) Visuals() *Visuals { return o.visuals }

// Start starts the observer.
func (o *Observer) Start() { o.isRunning.Store(true) }

// Stop unsubscribes from the channel.
func (o *Observer) Stop() {
	if !o.isRunning.CompareAndSwap(true, false) {
		return
	}
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
}

// State returns the replicated state.
func (o *Observer) State() model.HunterState {
	return o.mirror.Snapshot().State
}

// FixedTick checks the local player's light exposure and reports it.
// Reports are throttled to the retarget window, since the authoritative
// side would reject them anyway.
func (o *Observer) FixedTick(float64) {
	if !o.isRunning.Load() || o.cfg.Local == 0 {
		return
	}
	snap := o.mirror.Snapshot()
	if snap.Destroyed {
		return
	}
	switch snap.State {
	case model.StateDormant, model.StateDebug, model.StateChasing:
	default:
		return
	}

	now := o.now()
	if !o.lastLightReport.IsZero() && now.Sub(o.lastLightReport) <= o.cfg.Tuning.RetargetWindow {
		return
	}

	p, ok, err := LocalLightExposure(o.space, o.pose.Transform().Position, o.cfg.Local, o.cfg.Tuning)
	if err != nil || !ok {
		return
	}
	o.lastLightReport = now
	o.send(replication.Light(o.cfg.Hunter, p.ID, p.Position))
}

// PresentationTick eases the visuals.
func (o *Observer) PresentationTick(dt float64) {
	o.visuals.PresentationTick(dt)
}

// ReportScan sends the local player's scan to the authoritative side.
func (o *Observer) ReportScan(pos, facing mgl64.Vec3) {
	o.send(replication.Scan(o.cfg.Hunter, o.cfg.Local, pos, facing))
}

// ReportTouch sends a collision between the hunter and player or collider.
func (o *Observer) ReportTouch(player model.PlayerID, collider uint32) {
	o.send(replication.Touch(o.cfg.Hunter, player, collider))
}

func (o *Observer) send(cmd replication.Command) {
	if err := o.channel.Broadcast(cmd); err != nil {
		slog.Warn("input not sent",
			"hunter", o.cfg.Hunter,
			"kind", cmd.Kind,
			"error", err)
	}
}

var (
	_ Controller = (*Observer)(nil)
	_ View       = (*Observer)(nil)
)
