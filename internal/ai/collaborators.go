package ai

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// SpatialQuery is the world's proximity and visibility service.
// An empty result is (zero, false, nil); a non-nil error is a transient
// fault and the caller skips that perception step for the current tick.
type SpatialQuery interface {
	// ClosestPlayer returns the nearest living player to origin.
	ClosestPlayer(origin mgl64.Vec3, requireSight bool) (model.PlayerView, bool, error)
	// PlayersInSight returns living players within rng of origin with a clear line of sight.
	PlayersInSight(origin mgl64.Vec3, rng float64) ([]model.PlayerView, error)
	// Player looks up a player by id.
	Player(id model.PlayerID) (model.PlayerView, bool)
	// Blocked reports whether level geometry intersects the segment from→to.
	Blocked(from, to mgl64.Vec3) bool
}

// Body is the creature-lifecycle capability the hunter drives:
// its transform, its pathing destination and its removal.
type Body interface {
	Transform() model.Transform
	SetRotation(q mgl64.Quat)
	// RequestDestination hands a destination to the pathing service.
	RequestDestination(pos mgl64.Vec3)
	// Despawn removes the body from the world.
	Despawn()
}

// Remains is a killed player's body.
type Remains interface {
	MoveTo(pos mgl64.Vec3)
	// Release detaches the remains: drop leaves them in the world, otherwise they are deactivated.
	Release(drop bool)
}

// Victims applies elimination effects to players.
type Victims interface {
	Bleed(id model.PlayerID)
	Kill(id model.PlayerID)
	// Remains returns the body of a killed player once it exists.
	Remains(id model.PlayerID) (Remains, bool)
}

// Creature is another agent the hunter can collide with.
type Creature interface {
	ObjectID() uint32
	CanDie() bool
	Dead() bool
	Kill()
	// SameArchetype is true for other hunters.
	SameArchetype() bool
}

// Effects applies area damage in the world.
type Effects interface {
	Explode(at mgl64.Vec3, blast model.Blast)
}

// Pose is the transform a presentation driver eases. On the authoritative
// participant it is the hunter's own Body.
type Pose interface {
	Transform() model.Transform
	SetRotation(q mgl64.Quat)
}

// Listener is the locally controlled player on a participant.
type Listener interface {
	ID() model.PlayerID
	Position() (mgl64.Vec3, bool)
	ShakeCamera(big bool)
	JumpToFearLevel(level float64)
}
