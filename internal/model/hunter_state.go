package model

// HunterState is the discrete behavior state of a hunter.
// Values are stable: they travel over the replication channel.
type HunterState uint16

const (
	// StateDebug - developer state, immediately aims at a random point
	StateDebug HunterState = iota
	// StateDormant - idle, listening for touch, light and scan
	StateDormant
	// StateActivating - windup before the first lunge
	StateActivating
	// StateChasing - moving toward the last known target position
	StateChasing
	// StateReactivating - short windup re-aiming at the nearest visible player
	StateReactivating
	// StateResetting - cooldown before returning to Dormant
	StateResetting
	// StateConsuming - elimination in progress
	StateConsuming
)

// String returns human-readable state name
func (s HunterState) String() string {
	switch s {
	case StateDebug:
		return "DEBUG"
	case StateDormant:
		return "DORMANT"
	case StateActivating:
		return "ACTIVATING"
	case StateChasing:
		return "CHASING"
	case StateReactivating:
		return "REACTIVATING"
	case StateResetting:
		return "RESETTING"
	case StateConsuming:
		return "CONSUMING"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the known states.
func (s HunterState) Valid() bool {
	return s <= StateConsuming
}

// AcceptsTargets reports whether a target request may be applied in this state.
// Chasing only accepts the target it is already pursuing; see ai.Hunter.RequestTarget.
func (s HunterState) AcceptsTargets() bool {
	switch s {
	case StateDormant, StateDebug, StateChasing, StateReactivating:
		return true
	default:
		return false
	}
}

// AcceptsScans reports whether a scan ping registers in this state.
func (s HunterState) AcceptsScans() bool {
	switch s {
	case StateDormant, StateDebug, StateChasing:
		return true
	default:
		return false
	}
}
