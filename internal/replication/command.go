package replication

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// ErrUnknownKind is returned when a frame carries a kind this build does not know.
var ErrUnknownKind = errors.New("unknown command kind")

// Kind identifies a replicated command.
type Kind string

// Authoritative → observers.
const (
	KindSetTarget  Kind = "set_target"
	KindReactivate Kind = "reactivate"
	KindConsume    Kind = "consume"
	KindReset      Kind = "reset"
	KindExplode    Kind = "explode"
	KindPing       Kind = "ping"
	KindDemolish   Kind = "demolish"
	KindState      Kind = "state"
)

// Observers → authoritative.
const (
	KindScan  Kind = "scan"
	KindTouch Kind = "touch"
	KindLight Kind = "light"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSetTarget, KindReactivate, KindConsume, KindReset, KindExplode,
		KindPing, KindDemolish, KindState, KindScan, KindTouch, KindLight:
		return true
	default:
		return false
	}
}

// Input reports whether k travels from a participant to the authoritative side.
func (k Kind) Input() bool {
	return k == KindScan || k == KindTouch || k == KindLight
}

// Command is one replicated message. Commands are one-way and delivered
// at least once, in some order; receivers must be idempotent on Seq.
type Command struct {
	// Seq is assigned by the authoritative side, strictly increasing per hunter.
	// Inputs carry zero.
	Seq    uint64            `json:"seq"`
	Kind   Kind              `json:"kind"`
	Hunter uint32            `json:"hunter"`
	State  model.HunterState `json:"state"`
	// Target is the player the command refers to (set_target, consume, ping, inputs).
	Target model.PlayerID `json:"target,omitempty"`
	// Position is the pursuit destination (set_target), effect origin
	// (explode, demolish) or the sender position (inputs).
	Position mgl64.Vec3 `json:"position"`
	// Facing is the sender's forward axis (scan input).
	Facing mgl64.Vec3 `json:"facing"`
	// Rotation is the orientation the hunter eases toward.
	Rotation mgl64.Quat `json:"rotation"`
	// Collider is the colliding entity id (touch input).
	Collider uint32 `json:"collider,omitempty"`
}

// Validate checks envelope fields.
func (c Command) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("command %q: %w", c.Kind, ErrUnknownKind)
	}
	if !c.State.Valid() {
		return fmt.Errorf("command %s: invalid state %d", c.Kind, c.State)
	}
	// A scan without a hunter id is addressed to every hunter in the session.
	if c.Hunter == 0 && c.Kind != KindScan {
		return fmt.Errorf("command %s: missing hunter id", c.Kind)
	}
	return nil
}

// SetTarget builds a set_target command.
func SetTarget(hunter uint32, target model.PlayerID, pos mgl64.Vec3) Command {
	return Command{Kind: KindSetTarget, Hunter: hunter, Target: target, Position: pos}
}

// Reactivate builds a reactivate command.
func Reactivate(hunter uint32) Command {
	return Command{Kind: KindReactivate, Hunter: hunter}
}

// Consume builds a consume command.
func Consume(hunter uint32, target model.PlayerID) Command {
	return Command{Kind: KindConsume, Hunter: hunter, Target: target}
}

// Reset builds a reset command.
func Reset(hunter uint32) Command {
	return Command{Kind: KindReset, Hunter: hunter}
}

// Explode builds an explode command.
func Explode(hunter uint32, at mgl64.Vec3) Command {
	return Command{Kind: KindExplode, Hunter: hunter, Position: at}
}

// Ping builds a resolved scan cue addressed to the scanning player.
func Ping(hunter uint32, player model.PlayerID) Command {
	return Command{Kind: KindPing, Hunter: hunter, Target: player}
}

// Demolish builds an obstacle demolition cue.
func Demolish(hunter uint32, at mgl64.Vec3) Command {
	return Command{Kind: KindDemolish, Hunter: hunter, Position: at}
}

// StateSync builds a plain state update for timer driven transitions.
func StateSync(hunter uint32) Command {
	return Command{Kind: KindState, Hunter: hunter}
}

// Scan builds a scan input.
func Scan(hunter uint32, player model.PlayerID, pos, facing mgl64.Vec3) Command {
	return Command{Kind: KindScan, Hunter: hunter, Target: player, Position: pos, Facing: facing}
}

// Touch builds a touch input. player is zero when the collider is not a player.
func Touch(hunter uint32, player model.PlayerID, collider uint32) Command {
	return Command{Kind: KindTouch, Hunter: hunter, Target: player, Collider: collider}
}

// Light builds a light exposure self-report.
func Light(hunter uint32, player model.PlayerID, pos mgl64.Vec3) Command {
	return Command{Kind: KindLight, Hunter: hunter, Target: player, Position: pos}
}
