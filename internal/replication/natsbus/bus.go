package natsbus

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/udisondev/hunter/internal/replication"
)

// Role selects which direction a Bus publishes on.
type Role int

const (
	// RoleHost publishes commands and receives inputs.
	RoleHost Role = iota
	// RoleObserver publishes inputs and receives commands.
	RoleObserver
)

// Subjects derived from a session base subject.
func commandSubject(base string) string { return base + ".commands" }
func inputSubject(base string) string   { return base + ".inputs" }

// Bus is a replication.Channel over NATS core pub/sub.
// NATS core is at-most-once; the state-diff replay on observers tolerates loss.
type Bus struct {
	nc   *nats.Conn
	role Role
	base string

	// own is delivered locally: a host also presents its own commands.
	own *replication.Loopback
}

// Connect dials url and returns a Bus for the session subject base.
func Connect(url, base string, role Role, opts ...nats.Option) (*Bus, error) {
	opts = append([]nats.Option{nats.Name("hunterd")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats %s: %w", url, err)
	}
	return New(nc, base, role), nil
}

// New wraps an existing connection.
func New(nc *nats.Conn, base string, role Role) *Bus {
	return &Bus{nc: nc, role: role, base: base, own: replication.NewLoopback()}
}

// Broadcast publishes cmd on the subject matching the bus role.
func (b *Bus) Broadcast(cmd replication.Command) error {
	subject := commandSubject(b.base)
	if b.role == RoleObserver {
		if !cmd.Kind.Input() {
			return fmt.Errorf("observer cannot publish %s", cmd.Kind)
		}
		subject = inputSubject(b.base)
	}

	data, err := replication.Encode(cmd)
	if err != nil {
		return err
	}
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing %s on %s: %w", cmd.Kind, subject, err)
	}

	if b.role == RoleHost {
		return b.own.Broadcast(cmd)
	}
	return nil
}

// Subscribe registers fn for the opposite direction of the bus role
// (plus the host's own commands when acting as host).
func (b *Bus) Subscribe(fn func(replication.Command)) func() {
	subject := inputSubject(b.base)
	if b.role == RoleObserver {
		subject = commandSubject(b.base)
	}

	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) {
		cmd, err := replication.Decode(m.Data)
		if err != nil {
			slog.Warn("discarding malformed nats frame", "subject", m.Subject, "error", err)
			return
		}
		fn(cmd)
	})
	if err != nil {
		slog.Error("nats subscribe failed", "subject", subject, "error", err)
	}

	var unsubOwn func()
	if b.role == RoleHost {
		unsubOwn = b.own.Subscribe(fn)
	}

	return func() {
		if sub != nil {
			if err := sub.Unsubscribe(); err != nil {
				slog.Warn("nats unsubscribe", "subject", subject, "error", err)
			}
		}
		if unsubOwn != nil {
			unsubOwn()
		}
	}
}

// Close drains and closes the connection.
func (b *Bus) Close() error {
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return fmt.Errorf("draining nats: %w", err)
	}
	return nil
}
