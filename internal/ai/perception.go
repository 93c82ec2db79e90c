package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// scanRayLift offsets scan line-of-sight rays off the floor and slightly
// sideways so thin props do not block them.
var scanRayLift = mgl64.Vec3{0.2, 2, 0}

// PendingScan is a delayed scan detection waiting to reach the hunter.
type PendingScan struct {
	Player   model.PlayerID
	Elapsed  float64
	Duration float64
}

// Remaining returns the time left until the scan resolves.
func (s PendingScan) Remaining() float64 {
	return s.Duration - s.Elapsed
}

// scanTracker holds at most one pending scan.
type scanTracker struct {
	pending PendingScan
	active  bool
}

// register records a scan from player arriving after delay. A pending scan
// is only replaced when the new delay is shorter than its remaining time.
func (s *scanTracker) register(player model.PlayerID, delay float64) bool {
	if !s.active {
		s.pending = PendingScan{Player: player, Duration: delay}
		s.active = true
		return true
	}
	if delay < s.pending.Remaining() {
		s.pending.Player = player
		s.pending.Duration = s.pending.Elapsed + delay
		return true
	}
	return false
}

// advance moves the scan forward by dt and reports a scan ready to resolve.
// The resolved scan is cleared.
func (s *scanTracker) advance(dt float64) (PendingScan, bool) {
	if !s.active {
		return PendingScan{}, false
	}
	s.pending.Elapsed += dt
	if s.pending.Elapsed <= s.pending.Duration {
		return PendingScan{}, false
	}
	done := s.pending
	s.clear()
	return done, true
}

func (s *scanTracker) clear() {
	s.pending = PendingScan{}
	s.active = false
}

// ScanDelay returns how long a scan ping takes to travel distance.
func ScanDelay(distance, speed float64) float64 {
	if speed <= 0 || distance <= 0 {
		return 0
	}
	return distance / speed
}

// scanSightClear checks the lifted line of sight between hunter and player.
func scanSightClear(space SpatialQuery, hunter, player mgl64.Vec3) bool {
	return !space.Blocked(hunter.Add(scanRayLift), player.Add(scanRayLift))
}

// inVerticalBand reports whether p is level with origin.
func inVerticalBand(origin, p mgl64.Vec3, band float64) bool {
	return math.Abs(p.Y()-origin.Y()) < band
}

// inReach reports whether p is within radius of origin and inside the vertical band.
func inReach(origin, p mgl64.Vec3, radius, band float64) bool {
	return inVerticalBand(origin, p, band) && model.Distance(origin, p) < radius
}

// emitsLightAt reports whether player shines usable light at target.
// Pocket lights and held flashlights must point within coneDeg of target;
// any other enabled light on a held object counts regardless of direction.
func emitsLightAt(player model.PlayerView, target mgl64.Vec3, coneDeg float64) bool {
	inCone := model.AngleDeg(player.Forward, target.Sub(player.Position)) < coneDeg

	if player.Lights.PocketLightOn && inCone {
		return true
	}
	if !player.Lights.Holding {
		return false
	}
	for _, l := range player.Lights.HeldLights {
		if !l.Emitting() {
			continue
		}
		if !player.Lights.HeldIsFlashlight || inCone {
			return true
		}
	}
	return false
}

// ClosestLightEmitter returns the nearest visible player shining light at origin.
func ClosestLightEmitter(space SpatialQuery, origin mgl64.Vec3, t Tuning) (model.PlayerView, bool, error) {
	players, err := space.PlayersInSight(origin, t.LightRange)
	if err != nil {
		return model.PlayerView{}, false, err
	}

	var (
		best  model.PlayerView
		found bool
		short = math.Inf(1)
	)
	for _, p := range players {
		if p.Dead || !emitsLightAt(p, origin, t.LightConeDeg) {
			continue
		}
		if d := model.Distance(p.Position, origin); d < short {
			short = d
			best = p
			found = true
		}
	}
	return best, found, nil
}

// LocalLightExposure reports whether the local player is the closest light
// emitter at origin. A participant can only evaluate its own player's lights,
// so only a positive answer for local is ever reported.
func LocalLightExposure(space SpatialQuery, origin mgl64.Vec3, local model.PlayerID, t Tuning) (model.PlayerView, bool, error) {
	if local == 0 {
		return model.PlayerView{}, false, nil
	}
	p, ok, err := ClosestLightEmitter(space, origin, t)
	if err != nil || !ok || p.ID != local {
		return model.PlayerView{}, false, err
	}
	return p, true, nil
}

// ClosestVisible returns the nearest living player in sight within rng.
func ClosestVisible(space SpatialQuery, origin mgl64.Vec3, rng float64) (model.PlayerView, bool, error) {
	players, err := space.PlayersInSight(origin, rng)
	if err != nil {
		return model.PlayerView{}, false, err
	}

	var (
		best  model.PlayerView
		found bool
		short = math.Inf(1)
	)
	for _, p := range players {
		if p.Dead {
			continue
		}
		if d := model.Distance(p.Position, origin); d < short {
			short = d
			best = p
			found = true
		}
	}
	return best, found, nil
}
