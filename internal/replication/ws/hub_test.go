package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hunter/internal/replication"
	"github.com/udisondev/hunter/internal/testutil"
)

type inbox struct {
	mu   sync.Mutex
	cmds []replication.Command
}

func (i *inbox) add(c replication.Command) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cmds = append(i.cmds, c)
}

func (i *inbox) kinds() []replication.Kind {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]replication.Kind, 0, len(i.cmds))
	for _, c := range i.cmds {
		out = append(out, c.Kind)
	}
	return out
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, id string) *Client {
	t.Helper()
	c, err := Dial(testutil.ContextWithTimeout(t, 2*time.Second), url, id)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHub_RoundTrip(t *testing.T) {
	hub, url := startHub(t)
	client := dial(t, url, "observer-1")
	require.Eventually(t, func() bool { return hub.PeerCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	var hostSide, observerSide inbox
	hub.Subscribe(hostSide.add)
	client.Subscribe(observerSide.add)

	require.NoError(t, hub.Broadcast(replication.Reset(7)))
	require.NoError(t, client.Broadcast(replication.Scan(0, 3, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1})))

	assert.Eventually(t, func() bool {
		return len(observerSide.kinds()) == 1 && len(hostSide.kinds()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []replication.Kind{replication.KindReset}, observerSide.kinds())
	assert.ElementsMatch(t, []replication.Kind{replication.KindReset, replication.KindScan}, hostSide.kinds())
}

func TestClient_RejectsOutputs(t *testing.T) {
	_, url := startHub(t)
	client := dial(t, url, "observer-1")

	assert.Error(t, client.Broadcast(replication.Reset(7)))
}

func TestHub_MissingID(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	hub.Handle(rec, httptest.NewRequest(http.MethodGet, "/replicate", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHub_ReconnectReplacesPeer(t *testing.T) {
	hub, url := startHub(t)
	first := dial(t, url, "observer-1")
	require.Eventually(t, func() bool { return hub.PeerCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	dial(t, url, "observer-1")

	select {
	case <-first.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("replaced connection was not closed")
	}
	assert.Equal(t, 1, hub.PeerCount())
}

func TestHub_CloseDisconnectsPeers(t *testing.T) {
	hub, url := startHub(t)
	client := dial(t, url, "observer-1")
	require.Eventually(t, func() bool { return hub.PeerCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client not disconnected")
	}
	assert.Zero(t, hub.PeerCount())
}
