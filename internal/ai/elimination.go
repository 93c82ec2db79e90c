package ai

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/udisondev/hunter/internal/model"
)

// eliminationStep is the current phase of an elimination.
type eliminationStep uint8

const (
	stepBleed eliminationStep = iota
	stepAwaitRemains
	stepAwaitAttach
	stepAttached
	stepDone
)

// Elimination kills one victim and carries its remains in the hunter's mouth
// for the middle part of the consume duration.
//
// It is advanced by the fixed tick instead of running in its own goroutine,
// so every wait is a timer check and cancellation is a flag. Each wait has an
// upper bound, so the sequence always reaches stepDone.
type Elimination struct {
	id      uuid.UUID
	victim  model.PlayerID
	victims Victims
	tuning  Tuning
	drop    bool

	elapsed   float64
	killedAt  float64
	step      eliminationStep
	remains   Remains
	cancelled bool
}

// NewElimination prepares an elimination of victim. drop leaves the remains in
// the world on release instead of deactivating them.
func NewElimination(victim model.PlayerID, victims Victims, t Tuning, drop bool) *Elimination {
	return &Elimination{
		id:      uuid.New(),
		victim:  victim,
		victims: victims,
		tuning:  t,
		drop:    drop,
	}
}

// ID returns the unique id of this elimination, used in logs.
func (e *Elimination) ID() uuid.UUID { return e.id }

// Victim returns the player being eliminated.
func (e *Elimination) Victim() model.PlayerID { return e.victim }

// Done reports whether the sequence finished or was cancelled.
func (e *Elimination) Done() bool {
	return e.cancelled || e.step == stepDone
}

// Attached reports whether remains are currently carried.
func (e *Elimination) Attached() bool {
	return e.step == stepAttached && e.remains != nil
}

// Advance moves the sequence forward by dt. mouth is where carried remains are held.
func (e *Elimination) Advance(dt float64, mouth mgl64.Vec3) {
	if e.Done() {
		return
	}
	e.elapsed += dt

	attachFrom := e.tuning.AttachFrom * e.tuning.ConsumeDuration
	attachUntil := e.tuning.AttachUntil * e.tuning.ConsumeDuration

	// Steps fall through within a tick when their condition already holds.
	for {
		switch e.step {
		case stepBleed:
			if e.elapsed < e.tuning.BleedDelay {
				return
			}
			e.victims.Bleed(e.victim)
			e.victims.Kill(e.victim)
			e.killedAt = e.elapsed
			e.step = stepAwaitRemains

		case stepAwaitRemains:
			if r, ok := e.victims.Remains(e.victim); ok && r != nil {
				e.remains = r
				e.step = stepAwaitAttach
				continue
			}
			if e.elapsed-e.killedAt >= e.tuning.RemainsTimeout {
				if IsDebugEnabled() {
					slog.Debug("remains never appeared, skipping attach",
						"elimination", e.id,
						"victim", e.victim)
				}
				e.step = stepDone
			}
			return

		case stepAwaitAttach:
			if e.elapsed < attachFrom {
				return
			}
			e.step = stepAttached

		case stepAttached:
			if e.elapsed >= attachUntil {
				e.release()
				e.step = stepDone
				return
			}
			e.remains.MoveTo(mouth)
			return

		default:
			return
		}
	}
}

// Cancel stops the sequence and lets go of carried remains.
// Cancelling twice is a no-op.
func (e *Elimination) Cancel() {
	if e.Done() {
		return
	}
	e.cancelled = true
	e.release()
}

func (e *Elimination) release() {
	if e.remains == nil {
		return
	}
	e.remains.Release(e.drop)
	e.remains = nil
}
