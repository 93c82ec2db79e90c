package ai

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// modelYawOffset aligns the hunter mesh (which faces +X) with a look rotation.
const modelYawOffset = 90

// TargetTracker holds the current pursuit target and throttles re-aiming.
type TargetTracker struct {
	window time.Duration

	player   model.PlayerID
	position mgl64.Vec3
	rotation mgl64.Quat
	accepted time.Time
}

// NewTargetTracker creates a tracker accepting at most one target per window.
func NewTargetTracker(window time.Duration) *TargetTracker {
	return &TargetTracker{window: window, rotation: mgl64.QuatIdent()}
}

// Allow reports whether a new target may be accepted at now.
func (t *TargetTracker) Allow(now time.Time) bool {
	if t.accepted.IsZero() {
		return true
	}
	return now.Sub(t.accepted) > t.window
}

// Accept stores player as target aiming at pos from origin.
// pos is flattened to the origin's height.
func (t *TargetTracker) Accept(now time.Time, player model.PlayerID, origin, pos mgl64.Vec3) {
	pos = model.OnPlane(pos, origin.Y())
	t.player = player
	t.position = pos
	t.rotation = FacingRotation(pos.Sub(origin))
	t.accepted = now
}

// Hold pins the destination to pos without changing target or facing.
func (t *TargetTracker) Hold(pos mgl64.Vec3) {
	t.position = pos
}

// Face sets the eased rotation toward dir without changing the destination.
func (t *TargetTracker) Face(dir mgl64.Vec3) {
	t.rotation = FacingRotation(dir)
}

// Player returns the tracked player id.
func (t *TargetTracker) Player() model.PlayerID { return t.player }

// Position returns the last known target position (the pursuit destination).
func (t *TargetTracker) Position() mgl64.Vec3 { return t.position }

// Rotation returns the orientation the hunter eases toward.
func (t *TargetTracker) Rotation() mgl64.Quat { return t.rotation }

// FacingRotation returns the hunter orientation facing along dir.
func FacingRotation(dir mgl64.Vec3) mgl64.Quat {
	return model.LookRotation(dir).Mul(model.Euler(modelYawOffset, model.Up))
}
