package ai

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// Audio clips.
const (
	ClipActivate   = "activate"
	ClipChase      = "chase"
	ClipReactivate = "reactivate"
	ClipReset      = "reset"
	ClipConsume    = "consume"
	ClipPing       = "ping"
)

// Animation parameters.
const (
	AnimActivate   = "Activate"
	AnimDeactivate = "Deactivate"
	AnimOpenDoors  = "OpenDoors"
	AnimCloseDoors = "CloseDoors"
	AnimChase      = "Chase"
	AnimChasing    = "Chasing"
)

// Particle events.
const (
	VFXChaseBegin   = "ChaseBegin"
	VFXChaseEnd     = "ChaseEnd"
	VFXConsumeBegin = "ConsumeBegin"
	VFXConsumeEnd   = "ConsumeEnd"
)

// Presentation targets.
const (
	eyeIntensityActivating = 100000
	eyeIntensityChasing    = 500000
	lightActivating        = 40000
	lightChasing           = 20000
	scrapeChasing          = 4000
	scrapeFlicker          = 3000

	pingVolume        = 1.5
	chaseBackTiltDeg  = 8
	stopForwardTilt   = 10
	closeShakeBig     = 4
	closeShakeSmall   = 7
	blastShakeBig     = 14
	blastShakeSmall   = 25
	fearCloseConsume  = 1.0
	fearCloseStopping = 0.7
)

// Presenter is the rendering, animation and audio playback collaborator.
type Presenter interface {
	SetTrigger(name string)
	SetBool(name string, v bool)
	// PlayOneShot plays clip once at volume (already scaled by the local volume setting).
	PlayOneShot(clip string, volume float64)
	PlayLoop(clip string, volume float64)
	StopLoop()
	SendParticleEvent(event string)
	// SetEyeEmission sets the eye material emission (color scaled by intensity).
	SetEyeEmission(c model.Color)
	SetInternalLight(intensity float64)
	SetScrapeLights(enabled bool, intensity float64)
	SpawnExplosion(at mgl64.Vec3, big bool)
}

// StateSource is the replicated state a presentation driver reads.
type StateSource interface {
	Snapshot() Snapshot
	DrainCues() []Cue
}

// Visuals replays entry effects and eases continuous parameters for one
// hunter on one participant. It compares the replicated state against the
// last state it observed every tick, so a lost or duplicated notification
// can neither skip nor repeat an entry effect.
type Visuals struct {
	source    StateSource
	presenter Presenter
	pose      Pose
	listener  Listener
	volume    float64
	tuning    Tuning
	rng       *rand.Rand

	observed    model.HunterState
	initialized bool
	exploded    bool
	stateTime   float64

	rotationSpeed  float64
	eyeColor       model.Color
	eyeIntensity   float64
	internalLight  float64
	scrapeLight    float64
	scrapeEnabled  bool
	lastPosition   mgl64.Vec3
	bloodTriggered bool
}

// NewVisuals creates a presentation driver. listener may be nil on a
// dedicated host; volume is the local volume multiplier.
func NewVisuals(source StateSource, presenter Presenter, pose Pose, listener Listener, volume float64, t Tuning) *Visuals {
	return &Visuals{
		source:    source,
		presenter: presenter,
		pose:      pose,
		listener:  listener,
		volume:    math.Max(volume, 0),
		tuning:    t,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		eyeColor:  model.EyeDormant,
	}
}

// Observed returns the last state whose entry effects were replayed.
func (v *Visuals) Observed() model.HunterState { return v.observed }

// EyeColor returns the current eased eye color.
func (v *Visuals) EyeColor() model.Color { return v.eyeColor }

// EyeIntensity returns the current eased eye intensity.
func (v *Visuals) EyeIntensity() float64 { return v.eyeIntensity }

// InternalLight returns the current eased internal light intensity.
func (v *Visuals) InternalLight() float64 { return v.internalLight }

// PresentationTick eases visuals by dt seconds.
func (v *Visuals) PresentationTick(dt float64) {
	snap := v.source.Snapshot()
	for _, c := range v.source.DrainCues() {
		v.playCue(c)
	}
	if snap.Destroyed || v.exploded {
		return
	}

	if !v.initialized || snap.State != v.observed {
		v.initialized = true
		v.observed = snap.State
		v.stateTime = 0
		v.enter(snap.State)
	}
	v.stateTime += dt

	switch snap.State {
	case model.StateDormant:
		v.eyeColor = v.eyeColor.Lerp(model.EyeDormant, dt)
		v.eyeIntensity = model.Lerp(v.eyeIntensity, 0, dt)
		v.internalLight = model.Lerp(v.internalLight, 0, dt*8)

	case model.StateActivating:
		if v.stateTime > v.tuning.ActivationSpinWindup {
			v.rampRotationSpeed(dt)
			v.easeRotation(snap.TargetRotation, dt*v.rotationSpeed*4)
		}
		v.eyeColor = v.eyeColor.Lerp(model.EyeDetect, dt)
		v.eyeIntensity = model.Lerp(v.eyeIntensity, eyeIntensityActivating, dt)
		v.internalLight = model.Lerp(v.internalLight, lightActivating, dt/4)

	case model.StateChasing:
		v.eyeColor = v.eyeColor.Lerp(model.EyeChase, dt)
		v.eyeIntensity = model.Lerp(v.eyeIntensity, eyeIntensityChasing, dt*2)

		pos := v.pose.Transform().Position
		if moved := pos.Sub(v.lastPosition); moved.Len() > 0 {
			facing := FacingRotation(moved).Mul(model.Euler(chaseBackTiltDeg, mgl64.Vec3{0, 0, -1}))
			v.easeRotation(facing, dt*4)
		}
		v.lastPosition = pos

		v.internalLight = model.Lerp(v.internalLight, lightChasing, dt)
		flicker := (v.rng.Float64()*2 - 1) * scrapeFlicker
		v.scrapeLight = model.Lerp(v.scrapeLight+flicker, scrapeChasing, dt*2)

	case model.StateReactivating:
		v.rampRotationSpeed(dt)
		v.easeRotation(snap.TargetRotation, dt*v.rotationSpeed*6)

	case model.StateResetting, model.StateConsuming:
		if snap.State == model.StateConsuming && !v.bloodTriggered && v.stateTime > v.tuning.ConsumeBloodWindup {
			v.presenter.SendParticleEvent(VFXConsumeBegin)
			v.bloodTriggered = true
		}
		v.easeRotation(snap.TargetRotation, dt*8)
		v.eyeColor = v.eyeColor.Lerp(model.EyeChase, dt)
		v.eyeIntensity = model.Lerp(v.eyeIntensity, 0, dt)
		v.internalLight = model.Lerp(v.internalLight, 0, dt*2)
		v.scrapeLight = model.Lerp(v.scrapeLight, 0, dt*8)
	}

	v.presenter.SetEyeEmission(v.eyeColor.Scale(v.eyeIntensity))
	v.presenter.SetInternalLight(v.internalLight)
	v.presenter.SetScrapeLights(v.scrapeEnabled, v.scrapeLight)
}

// enter fires the one-shot effects of state s.
func (v *Visuals) enter(s model.HunterState) {
	switch s {
	case model.StateDormant:
		v.presenter.StopLoop()
		v.rotationSpeed = 0
		v.scrapeLight = 0
		v.scrapeEnabled = false
		v.presenter.SetTrigger(AnimDeactivate)
		v.presenter.SetBool(AnimChasing, false)
		v.presenter.SendParticleEvent(VFXConsumeEnd)
		v.presenter.SendParticleEvent(VFXChaseEnd)
		v.bloodTriggered = false

	case model.StateActivating:
		v.presenter.PlayOneShot(ClipActivate, v.volume)
		v.presenter.SetTrigger(AnimActivate)

	case model.StateChasing:
		v.lastPosition = v.pose.Transform().Position
		v.presenter.PlayLoop(ClipChase, v.volume)
		v.presenter.SetTrigger(AnimOpenDoors)
		v.scrapeEnabled = true
		v.presenter.SetTrigger(AnimChase)
		v.presenter.SetBool(AnimChasing, true)
		v.presenter.SendParticleEvent(VFXChaseBegin)

	case model.StateReactivating, model.StateResetting, model.StateConsuming:
		v.rotationSpeed = 0
		v.presenter.StopLoop()
		tr := v.pose.Transform()
		v.pose.SetRotation(tr.Rotation.Mul(model.Euler(stopForwardTilt, mgl64.Vec3{0, 0, 1})))
		v.presenter.SetBool(AnimChasing, false)
		v.presenter.SetTrigger(AnimCloseDoors)
		v.presenter.SendParticleEvent(VFXChaseEnd)
		v.closeEncounter(s, tr.Position)

		switch s {
		case model.StateConsuming:
			v.presenter.PlayOneShot(ClipConsume, v.volume)
		case model.StateReactivating:
			v.presenter.PlayOneShot(ClipReactivate, v.volume)
		default:
			v.presenter.PlayOneShot(ClipReset, v.volume)
		}
	}
}

// closeEncounter shakes the local camera and raises fear when the local
// player stands next to a hunter that just stopped.
func (v *Visuals) closeEncounter(s model.HunterState, at mgl64.Vec3) {
	if v.listener == nil {
		return
	}
	pos, ok := v.listener.Position()
	if !ok {
		return
	}
	dist := model.Distance(pos, at)
	if dist >= closeShakeSmall {
		return
	}
	v.listener.ShakeCamera(dist < closeShakeBig)
	if dist < closeShakeBig {
		if s == model.StateConsuming {
			v.listener.JumpToFearLevel(fearCloseConsume)
		} else {
			v.listener.JumpToFearLevel(fearCloseStopping)
		}
	}
}

func (v *Visuals) playCue(c Cue) {
	switch c.Kind {
	case CuePing:
		v.eyeColor = model.EyeScan
		v.presenter.PlayOneShot(ClipPing, pingVolume*v.volume)
		if v.listener != nil && v.listener.ID() == c.Player {
			v.listener.JumpToFearLevel(c.FearLevel)
		}

	case CueBlast:
		v.presenter.SpawnExplosion(c.At, c.Big)
		if c.Big {
			v.exploded = true
			v.presenter.StopLoop()
		}
		if v.listener == nil {
			return
		}
		if pos, ok := v.listener.Position(); ok {
			dist := model.Distance(pos, c.At)
			if dist < blastShakeBig {
				v.listener.ShakeCamera(true)
			} else if dist < blastShakeSmall {
				v.listener.ShakeCamera(false)
			}
		}
	}
}

// rampRotationSpeed eases the rotation speed toward its maximum, faster as it closes in.
func (v *Visuals) rampRotationSpeed(dt float64) {
	diff := math.Abs(v.tuning.MaxRotationSpeed - v.rotationSpeed)
	if diff == 0 {
		return
	}
	v.rotationSpeed = model.Lerp(v.rotationSpeed, v.tuning.MaxRotationSpeed, dt/diff)
}

func (v *Visuals) easeRotation(to mgl64.Quat, t float64) {
	tr := v.pose.Transform()
	v.pose.SetRotation(model.Slerp(tr.Rotation, to, t))
}
