package ai

import "github.com/udisondev/hunter/internal/model"

// Controller is an authoritative behavior controller driven by the TickManager.
type Controller interface {
	// Start starts the controller
	Start()

	// Stop stops the controller
	Stop()

	// State returns the current behavior state
	State() model.HunterState

	// FixedTick performs one authoritative simulation step of dt seconds
	FixedTick(dt float64)
}

// View is a presentation driver eased at the presentation rate.
type View interface {
	PresentationTick(dt float64)
}

// System is a world service stepped once per fixed tick before controllers
// (pathing, explosions).
type System interface {
	Step(dt float64)
}

var _ Controller = (*Hunter)(nil)
