package replication

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Channel delivers commands to every session participant.
// Implementations are one-way and at-least-once; ordering is not guaranteed.
type Channel interface {
	// Broadcast sends cmd to all participants.
	Broadcast(cmd Command) error
	// Subscribe registers fn for every received command. The returned func
	// removes the subscription.
	Subscribe(fn func(Command)) (unsubscribe func())
}

// Encode serializes cmd into a wire frame.
func Encode(cmd Command) ([]byte, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encoding command %s: %w", cmd.Kind, err)
	}
	return data, nil
}

// Decode parses a wire frame.
func Decode(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	return cmd, nil
}

// Loopback is an in-process Channel. Broadcast delivers synchronously to
// every subscriber; used by single-process hosts and tests.
type Loopback struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Command)
}

// NewLoopback creates an empty Loopback.
func NewLoopback() *Loopback {
	return &Loopback{subs: make(map[int]func(Command))}
}

// Broadcast delivers cmd to all current subscribers.
func (l *Loopback) Broadcast(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("loopback broadcast: %w", err)
	}

	l.mu.RLock()
	subs := make([]func(Command), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.RUnlock()

	for _, fn := range subs {
		fn(cmd)
	}
	return nil
}

// Subscribe registers fn.
func (l *Loopback) Subscribe(fn func(Command)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Discard is a Channel that drops everything. Used when a host runs without transport.
type Discard struct{}

// Broadcast drops cmd.
func (Discard) Broadcast(Command) error { return nil }

// Subscribe never calls fn.
func (Discard) Subscribe(func(Command)) func() { return func() {} }
