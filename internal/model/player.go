package model

import "github.com/go-gl/mathgl/mgl64"

// PlayerID identifies a session participant's avatar.
type PlayerID uint64

// Light is one light component attached to a held object.
type Light struct {
	Enabled   bool
	Intensity float64
	Range     float64
}

// Emitting reports whether the light actually illuminates anything.
func (l Light) Emitting() bool {
	return l.Enabled && l.Intensity > 0 && l.Range > 0
}

// LightSource describes everything a player carries that can shine at a hunter.
type LightSource struct {
	// PocketLightOn is true while a pocketed flashlight is switched on.
	PocketLightOn bool
	// Holding is true while the player holds any object in hand.
	Holding bool
	// HeldIsFlashlight marks the held object as directional (cone check applies).
	HeldIsFlashlight bool
	// HeldLights are the light components of the held object.
	HeldLights []Light
}

// PlayerView is a read-only snapshot of a player taken by the spatial query collaborator.
type PlayerView struct {
	ID       PlayerID
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Dead     bool
	Lights   LightSource
}
