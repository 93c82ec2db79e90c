// Package session holds the hunters alive in one game session.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
)

// ErrDuplicateHunter is returned when a hunter id is registered twice.
var ErrDuplicateHunter = errors.New("hunter already registered")

// Member is a hunter as the session sees it.
type Member interface {
	ID() uint32
	State() model.HunterState
	// Enqueue hands an input command to the hunter's next fixed tick.
	Enqueue(cmd replication.Command)
}

// Registry is the session-scoped set of live hunters. Its lifetime is the
// session's; there is no process-wide instance.
type Registry struct {
	id uuid.UUID

	mu      sync.RWMutex
	members map[uint32]Member
}

// NewRegistry creates an empty registry with a fresh session id.
func NewRegistry() *Registry {
	return &Registry{
		id:      uuid.New(),
		members: make(map[uint32]Member),
	}
}

// ID returns the session id.
func (r *Registry) ID() uuid.UUID { return r.id }

// Register adds a hunter.
func (r *Registry) Register(m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID()]; ok {
		return fmt.Errorf("session %s hunter %d: %w", r.id, m.ID(), ErrDuplicateHunter)
	}
	r.members[m.ID()] = m
	slog.Info("hunter registered", "session", r.id, "hunter", m.ID(), "count", len(r.members))
	return nil
}

// Unregister removes a hunter and reports whether it was present.
func (r *Registry) Unregister(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	slog.Info("hunter unregistered", "session", r.id, "hunter", id, "count", len(r.members))
	return true
}

// Get returns a hunter by id.
func (r *Registry) Get(id uint32) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m, ok
}

// Len returns the number of live hunters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// ForEach calls fn for every hunter in id order until fn returns false.
// fn runs on a snapshot, so it may Register or Unregister.
func (r *Registry) ForEach(fn func(Member) bool) {
	r.mu.RLock()
	snapshot := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		snapshot = append(snapshot, m)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID() < snapshot[j].ID() })
	for _, m := range snapshot {
		if !fn(m) {
			return
		}
	}
}

// Route delivers an input command. A scan without a hunter id reaches
// every hunter; other inputs go to the addressed hunter only. Outputs and
// commands for unknown hunters are dropped.
func (r *Registry) Route(cmd replication.Command) {
	if !cmd.Kind.Input() {
		return
	}
	if cmd.Hunter == 0 {
		if cmd.Kind != replication.KindScan {
			slog.Warn("dropped unaddressed input", "session", r.id, "kind", cmd.Kind)
			return
		}
		r.ForEach(func(m Member) bool {
			addressed := cmd
			addressed.Hunter = m.ID()
			m.Enqueue(addressed)
			return true
		})
		return
	}
	m, ok := r.Get(cmd.Hunter)
	if !ok {
		slog.Debug("dropped input for unknown hunter", "session", r.id, "hunter", cmd.Hunter, "kind", cmd.Kind)
		return
	}
	m.Enqueue(cmd)
}

// Attach routes every input received on ch. The returned func detaches.
func (r *Registry) Attach(ch replication.Channel) func() {
	return ch.Subscribe(r.Route)
}
