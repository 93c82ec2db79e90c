package ai

import (
	"fmt"
	"time"
)

// Tuning holds the fixed behavior constants of the hunter archetype.
// Durations are in seconds of simulation time, distances in world units.
type Tuning struct {
	ActivationDuration   float64
	ActivationSpinWindup float64
	ReactivationDuration float64
	ResetDuration        float64
	ConsumeDuration      float64
	ConsumeBloodWindup   float64

	// RetargetWindow bounds how often a new target may be accepted (wall clock).
	RetargetWindow time.Duration

	TouchOvershoot        float64
	ScanOvershoot         float64
	ReactivationOvershoot float64

	TouchRadius    float64
	ContactRadius  float64
	VerticalBand   float64
	ArrivalRadius  float64
	DemolishRadius float64

	LightRange       float64
	LightConeDeg     float64
	VisibleRange     float64
	ScanRange        float64
	ScanSpeed        float64
	ChaseAverageSeed float64
	ChaseAverageMin  float64

	MaxRotationSpeed float64
	DebugTargetRange float64

	// Elimination sequence.
	BleedDelay     float64
	RemainsTimeout float64
	AttachFrom     float64 // fraction of ConsumeDuration
	AttachUntil    float64 // fraction of ConsumeDuration
}

// DefaultTuning returns the archetype constants.
func DefaultTuning() Tuning {
	return Tuning{
		ActivationDuration:   1.5,
		ActivationSpinWindup: 0.45,
		ReactivationDuration: 1,
		ResetDuration:        1,
		ConsumeDuration:      2.2,
		ConsumeBloodWindup:   1,

		RetargetWindow: 200 * time.Millisecond,

		TouchOvershoot:        1.75,
		ScanOvershoot:         1,
		ReactivationOvershoot: 1.25,

		TouchRadius:    1.75,
		ContactRadius:  2,
		VerticalBand:   2,
		ArrivalRadius:  1,
		DemolishRadius: 3,

		LightRange:       15,
		LightConeDeg:     30,
		VisibleRange:     30,
		ScanRange:        90,
		ScanSpeed:        30,
		ChaseAverageSeed: 100,
		ChaseAverageMin:  0.1,

		MaxRotationSpeed: 90,
		DebugTargetRange: 25,

		BleedDelay:     0.25,
		RemainsTimeout: 0.5,
		AttachFrom:     0.25,
		AttachUntil:    0.75,
	}
}

// Validate rejects constants that would break the tick math.
func (t Tuning) Validate() error {
	if t.ScanSpeed <= 0 {
		return fmt.Errorf("scan speed must be positive, got %v", t.ScanSpeed)
	}
	if t.RetargetWindow < 0 {
		return fmt.Errorf("retarget window must not be negative, got %v", t.RetargetWindow)
	}
	if t.AttachFrom < 0 || t.AttachUntil > 1 || t.AttachFrom > t.AttachUntil {
		return fmt.Errorf("attach window [%v, %v] outside [0, 1]", t.AttachFrom, t.AttachUntil)
	}
	if t.ChaseAverageMin >= t.ChaseAverageSeed {
		return fmt.Errorf("chase average minimum %v must be below seed %v", t.ChaseAverageMin, t.ChaseAverageSeed)
	}
	return nil
}

// Mechanics are the configurable gameplay knobs.
type Mechanics struct {
	// ReactivationChance is compared against a draw in [0, 100).
	ReactivationChance float64
	// BodiesEnabled drops remains instead of deactivating them.
	BodiesEnabled bool
	// ProximitySense lunges at visible players within ProximityDistance while dormant.
	ProximitySense    bool
	ProximityDistance float64
}

// DefaultMechanics returns the stock gameplay knobs.
func DefaultMechanics() Mechanics {
	return Mechanics{
		ReactivationChance: 50,
		ProximityDistance:  8,
	}
}
