package model

import "github.com/go-gl/mathgl/mgl64"

// ObstacleKind classifies a destructible world obstacle.
type ObstacleKind uint8

const (
	ObstacleDoor ObstacleKind = iota + 1
	ObstacleTurret
	ObstacleMine
)

// String returns human-readable obstacle kind
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleDoor:
		return "door"
	case ObstacleTurret:
		return "turret"
	case ObstacleMine:
		return "mine"
	default:
		return "unknown"
	}
}

// Destructible is a world-owned obstacle the hunter can break through.
// The hunter only holds it weakly: once Exists returns false it is pruned.
type Destructible interface {
	ID() uint32
	Kind() ObstacleKind
	Position() mgl64.Vec3
	// Exists is false once another system removed the object.
	Exists() bool
	// Passable is true for obstacles that no longer block (an opened door).
	Passable() bool
	// Destroy removes the obstacle from the world.
	Destroy()
}
