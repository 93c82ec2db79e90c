package ai_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
	"github.com/udisondev/hunter/internal/testutil"
)

const frame = 0.016

// observe wires a mirror and visuals to the harness channel. Every command is
// delivered twice to emulate at-least-once transport.
func observe(t *testing.T, hs *harness, listener ai.Listener) (*ai.Mirror, *ai.Visuals, *testutil.Presenter) {
	t.Helper()

	mirror := ai.NewMirror(hunterID)
	presenter := &testutil.Presenter{}
	visuals := ai.NewVisuals(mirror, presenter, hs.body, listener, 1, ai.DefaultTuning())
	for range 2 {
		unsub := hs.ch.Subscribe(func(cmd replication.Command) { mirror.Apply(cmd) })
		t.Cleanup(unsub)
	}
	return mirror, visuals, presenter
}

func present(v *ai.Visuals, frames int) {
	for range frames {
		v.PresentationTick(frame)
	}
}

func TestVisuals_EntryEffectsOncePerTransition(t *testing.T) {
	hs := newHarness(t, withChance(0))
	mirror, visuals, presenter := observe(t, hs, nil)
	present(visuals, 3)

	hs.chase(t, 1, mgl64.Vec3{1, 0, 0})
	present(visuals, 3)
	hs.tick(step)
	require.Equal(t, model.StateResetting, hs.h.State())
	present(visuals, 3)
	hs.tick(ai.DefaultTuning().ResetDuration + step)
	require.Equal(t, model.StateDormant, hs.h.State())
	present(visuals, 3)

	// Replay everything out of order.
	sent := hs.ch.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		assert.False(t, mirror.Apply(sent[i]))
	}
	present(visuals, 3)

	assert.Equal(t, model.StateDormant, visuals.Observed())
	// Activating was skipped between two presentation ticks: level triggered
	// replay only fires the states actually observed.
	assert.Equal(t, 1, presenter.Count("loop:chase@1.00"))
	assert.Equal(t, 1, presenter.Count("trigger:Chase"))
	assert.Equal(t, 1, presenter.Count("vfx:ChaseBegin"))
	assert.Equal(t, 1, presenter.Count("oneshot:reset@1.00"))
	assert.Equal(t, 1, presenter.Count("trigger:CloseDoors"))
	assert.Equal(t, 2, presenter.Count("trigger:Deactivate"), "initial observation and the return")

	_, dropped := mirror.Stats()
	assert.Positive(t, dropped)
}

func TestVisuals_ActivationCue(t *testing.T) {
	hs := newHarness(t)
	_, visuals, presenter := observe(t, hs, nil)
	present(visuals, 1)

	require.True(t, hs.h.RequestTarget(1, mgl64.Vec3{10, 0, 0}))
	present(visuals, 10)

	assert.Equal(t, 1, presenter.Count("oneshot:activate@1.00"))
	assert.Equal(t, 1, presenter.Count("trigger:Activate"))
	assert.Positive(t, visuals.EyeIntensity())
	assert.Positive(t, visuals.InternalLight())
}

func TestVisuals_CloseEncounterShakesAndScares(t *testing.T) {
	hs := newHarness(t, withChance(0))
	listener := &testutil.Listener{PlayerID: 9, At: mgl64.Vec3{3, 0, 0}}
	_, visuals, _ := observe(t, hs, listener)

	hs.chase(t, 1, mgl64.Vec3{1, 0, 0})
	present(visuals, 1)
	hs.tick(step)
	require.Equal(t, model.StateResetting, hs.h.State())
	present(visuals, 1)

	assert.Equal(t, []bool{true}, listener.Shakes)
	assert.Equal(t, []float64{0.7}, listener.Fear)
}

func TestVisuals_PingCue(t *testing.T) {
	hs := newHarness(t)
	listener := &testutil.Listener{PlayerID: 2, At: mgl64.Vec3{40, 0, 0}}
	_, visuals, presenter := observe(t, hs, listener)
	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{6, 0, 0}})

	require.True(t, hs.h.Scan(2, mgl64.Vec3{6, 0, 0}))
	hs.tick(0.3)
	present(visuals, 1)

	assert.Equal(t, 1, presenter.Count("oneshot:ping@1.50"))
	assert.Equal(t, []float64{0.2}, listener.Fear)
}

func TestVisuals_ExplosionStopsPresentation(t *testing.T) {
	hs := newHarness(t)
	listener := &testutil.Listener{PlayerID: 2, At: mgl64.Vec3{20, 0, 0}}
	_, visuals, presenter := observe(t, hs, listener)
	present(visuals, 1)

	require.NoError(t, hs.h.Kill())
	present(visuals, 3)

	assert.Equal(t, 1, presenter.Count("explosion:big=true"))
	assert.Equal(t, []bool{false}, listener.Shakes)
}

func TestMirror_DropsStaleAndForeign(t *testing.T) {
	m := ai.NewMirror(1)

	cmd := replication.SetTarget(1, 4, mgl64.Vec3{1, 0, 2})
	cmd.Seq = 5
	cmd.State = model.StateActivating
	require.True(t, m.Apply(cmd))
	assert.False(t, m.Apply(cmd), "duplicate")

	old := replication.Reset(1)
	old.Seq = 3
	old.State = model.StateResetting
	assert.False(t, m.Apply(old), "stale")

	foreign := cmd
	foreign.Hunter = 2
	foreign.Seq = 9
	assert.False(t, m.Apply(foreign))

	input := replication.Scan(1, 4, mgl64.Vec3{}, mgl64.Vec3{})
	input.Seq = 10
	assert.False(t, m.Apply(input))

	snap := m.Snapshot()
	assert.Equal(t, uint64(5), snap.Seq)
	assert.Equal(t, model.StateActivating, snap.State)
	assert.Equal(t, model.PlayerID(4), snap.Target)
	assert.Equal(t, mgl64.Vec3{1, 0, 2}, snap.TargetPosition)
}

func TestMirror_CuesDeliveredOncePerSeq(t *testing.T) {
	m := ai.NewMirror(1)

	ping := replication.Ping(1, 3)
	ping.Seq = 4
	ping.State = model.StateChasing

	next := replication.StateSync(1)
	next.Seq = 6
	next.State = model.StateChasing

	require.True(t, m.Apply(next))
	assert.True(t, m.Apply(ping), "late cue still delivered")
	assert.False(t, m.Apply(ping))

	cues := m.DrainCues()
	require.Len(t, cues, 1)
	assert.Equal(t, ai.CuePing, cues[0].Kind)
	assert.Equal(t, model.PlayerID(3), cues[0].Player)
	assert.InDelta(t, 0.5, cues[0].FearLevel, 1e-9)
	assert.Empty(t, m.DrainCues())
}

func TestMirror_ExplodeMarksDestroyed(t *testing.T) {
	m := ai.NewMirror(1)

	boom := replication.Explode(1, mgl64.Vec3{1, 2, 3})
	boom.Seq = 2
	boom.State = model.StateChasing
	require.True(t, m.Apply(boom))

	snap := m.Snapshot()
	assert.True(t, snap.Destroyed)

	cues := m.DrainCues()
	require.Len(t, cues, 1)
	assert.True(t, cues[0].Big)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, cues[0].At)
}
