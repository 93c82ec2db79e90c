package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/udisondev/hunter/internal/replication"
)

// Client is the observer side of a websocket replication channel.
// Broadcast sends inputs to the host; Subscribe receives host commands.
type Client struct {
	conn *websocket.Conn
	wmu  sync.Mutex

	local *replication.Loopback
	done  chan struct{}
}

// Dial connects to a Hub at rawURL as observer id.
func Dial(ctx context.Context, rawURL, id string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing hub url %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("id", id)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dialing hub %s: %w", u.Redacted(), err)
	}

	c := &Client{
		conn:  conn,
		local: replication.NewLoopback(),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Broadcast sends an input to the host. Only input kinds are accepted.
func (c *Client) Broadcast(cmd replication.Command) error {
	if !cmd.Kind.Input() {
		return fmt.Errorf("observer cannot send %s", cmd.Kind)
	}
	data, err := replication.Encode(cmd)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("sending %s: %w", cmd.Kind, err)
	}
	return nil
}

// Subscribe registers fn for host commands.
func (c *Client) Subscribe(fn func(replication.Command)) func() {
	return c.local.Subscribe(fn)
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection.
func (c *Client) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wmu.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		cmd, err := replication.Decode(payload)
		if err != nil {
			slog.Warn("discarding malformed frame from hub", "error", err)
			continue
		}

		if err := c.local.Broadcast(cmd); err != nil {
			slog.Warn("delivering hub command", "error", err)
		}
	}
}
