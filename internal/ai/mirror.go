package ai

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
)

// cueHistory bounds how far behind the latest seq a one-shot cue is still deduplicated.
const cueHistory = 128

// Snapshot is the replicated view of one hunter.
type Snapshot struct {
	Seq            uint64
	State          model.HunterState
	Target         model.PlayerID
	TargetPosition mgl64.Vec3
	TargetRotation mgl64.Quat
	Destroyed      bool
}

// CueKind identifies a one-shot cue.
type CueKind uint8

const (
	// CuePing is a resolved scan heard by the scanning player.
	CuePing CueKind = iota + 1
	// CueBlast is an explosion (death or demolition).
	CueBlast
)

// Cue is a one-shot presentation event carried by a command.
type Cue struct {
	Kind      CueKind
	Player    model.PlayerID
	FearLevel float64
	At        mgl64.Vec3
	Big       bool
}

// Mirror is a read-only replica of a hunter, fed by replicated commands.
// Commands older than the newest applied one never roll the state back;
// one-shot cues are delivered once per seq regardless of arrival order.
type Mirror struct {
	hunter uint32

	mu       sync.Mutex
	snap     Snapshot
	cueSeen  map[uint64]struct{}
	cues     []Cue
	received uint64
	dropped  uint64
}

// NewMirror creates a replica of hunter in the Dormant state.
func NewMirror(hunter uint32) *Mirror {
	return &Mirror{
		hunter: hunter,
		snap: Snapshot{
			State:          model.StateDormant,
			TargetRotation: mgl64.QuatIdent(),
		},
		cueSeen: make(map[uint64]struct{}),
	}
}

// Hunter returns the replicated hunter id.
func (m *Mirror) Hunter() uint32 { return m.hunter }

// Apply folds cmd into the replica. It returns true when cmd changed the
// snapshot or queued a cue; duplicates and stale commands return false.
func (m *Mirror) Apply(cmd replication.Command) bool {
	if cmd.Hunter != m.hunter || cmd.Kind.Input() || cmd.Seq == 0 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.received++

	cued := m.applyCue(cmd)

	if cmd.Seq <= m.snap.Seq {
		if !cued {
			m.dropped++
		}
		return cued
	}

	m.snap.Seq = cmd.Seq
	if !m.snap.Destroyed {
		m.snap.State = cmd.State
	}
	m.snap.TargetRotation = cmd.Rotation

	switch cmd.Kind {
	case replication.KindSetTarget, replication.KindState, replication.KindReactivate:
		m.snap.Target = cmd.Target
		m.snap.TargetPosition = cmd.Position
	case replication.KindConsume:
		m.snap.Target = cmd.Target
	case replication.KindExplode:
		m.snap.Destroyed = true
	}
	m.pruneCues()
	return true
}

// applyCue queues the one-shot cue carried by cmd if its seq was not seen yet.
func (m *Mirror) applyCue(cmd replication.Command) bool {
	var cue Cue
	switch cmd.Kind {
	case replication.KindPing:
		fear := scanFearDormant
		if cmd.State == model.StateChasing {
			fear = scanFearChasing
		}
		cue = Cue{Kind: CuePing, Player: cmd.Target, FearLevel: fear}
	case replication.KindExplode:
		cue = Cue{Kind: CueBlast, At: cmd.Position, Big: true}
	case replication.KindDemolish:
		cue = Cue{Kind: CueBlast, At: cmd.Position}
	default:
		return false
	}

	if m.snap.Seq > cueHistory && cmd.Seq < m.snap.Seq-cueHistory {
		return false
	}
	if _, seen := m.cueSeen[cmd.Seq]; seen {
		return false
	}
	m.cueSeen[cmd.Seq] = struct{}{}
	m.cues = append(m.cues, cue)
	return true
}

func (m *Mirror) pruneCues() {
	if m.snap.Seq <= cueHistory {
		return
	}
	floor := m.snap.Seq - cueHistory
	for seq := range m.cueSeen {
		if seq < floor {
			delete(m.cueSeen, seq)
		}
	}
}

// Snapshot returns the current replica state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// DrainCues returns and clears queued one-shot cues.
func (m *Mirror) DrainCues() []Cue {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.cues) == 0 {
		return nil
	}
	cues := m.cues
	m.cues = nil
	return cues
}

// Stats returns number of commands received and dropped as duplicates or stale.
func (m *Mirror) Stats() (received, dropped uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received, m.dropped
}
