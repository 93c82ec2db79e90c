package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/hunter/internal/replication"
)

const writeWait = 5 * time.Second

// peer is one connected observer.
type peer struct {
	id   string
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (p *peer) write(data []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is the authoritative side of a websocket replication channel.
// Broadcast fans frames out to every connected observer and to local
// subscribers; frames received from observers are delivered to local
// subscribers only.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	peers map[string]*peer

	local *replication.Loopback
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		peers: make(map[string]*peer),
		local: replication.NewLoopback(),
	}
}

// Broadcast sends cmd to every observer and local subscriber.
// Peers that fail to accept the frame are dropped.
func (h *Hub) Broadcast(cmd replication.Command) error {
	data, err := replication.Encode(cmd)
	if err != nil {
		return err
	}

	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if err := p.write(data); err != nil {
			slog.Warn("dropping replication peer", "peer", p.id, "error", err)
			h.drop(p)
		}
	}

	return h.local.Broadcast(cmd)
}

// Subscribe registers fn for broadcasts and observer inputs.
func (h *Hub) Subscribe(fn func(replication.Command)) func() {
	return h.local.Subscribe(fn)
}

// PeerCount returns number of connected observers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Handle upgrades an observer connection. The observer id comes from the
// "id" query parameter.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "peer", id, "error", err)
		return
	}

	p := &peer{id: id, conn: conn}
	h.mu.Lock()
	if old, ok := h.peers[id]; ok {
		_ = old.conn.Close()
	}
	h.peers[id] = p
	h.mu.Unlock()

	slog.Info("replication peer connected", "peer", id)
	h.readLoop(p)
}

// readLoop delivers observer inputs until the connection closes.
func (h *Hub) readLoop(p *peer) {
	defer h.drop(p)

	for {
		_, payload, err := p.conn.ReadMessage()
		if err != nil {
			return
		}

		cmd, err := replication.Decode(payload)
		if err != nil {
			slog.Warn("discarding malformed frame", "peer", p.id, "error", err)
			continue
		}
		if !cmd.Kind.Input() {
			slog.Warn("discarding non-input frame from observer", "peer", p.id, "kind", cmd.Kind)
			continue
		}

		if err := h.local.Broadcast(cmd); err != nil {
			slog.Warn("delivering observer input", "peer", p.id, "error", err)
		}
	}
}

// drop removes p unless it was already replaced by a reconnect.
func (h *Hub) drop(p *peer) {
	h.mu.Lock()
	current, ok := h.peers[p.id]
	if ok && current == p {
		delete(h.peers, p.id)
	}
	h.mu.Unlock()

	_ = p.conn.Close()
	if ok && current == p {
		slog.Info("replication peer disconnected", "peer", p.id)
	}
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]*peer)
	h.mu.Unlock()

	for _, p := range peers {
		p.wmu.Lock()
		_ = p.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		p.wmu.Unlock()
		_ = p.conn.Close()
	}
}
