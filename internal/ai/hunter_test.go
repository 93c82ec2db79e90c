package ai_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/model"
	"github.com/udisondev/hunter/internal/replication"
	"github.com/udisondev/hunter/internal/testutil"
)

const (
	hunterID = 7
	step     = 0.02
)

type harness struct {
	h       *ai.Hunter
	space   *testutil.Space
	body    *testutil.Body
	victims *testutil.Victims
	effects *testutil.Effects
	ch      *testutil.Recorder
	clock   *testutil.Clock
}

type option func(*ai.HunterConfig, *ai.Deps)

func withChance(c float64) option {
	return func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Mechanics.ReactivationChance = c }
}

func withObstacles(ds ...model.Destructible) option {
	return func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Obstacles = ds }
}

func withRetargetWindow(d time.Duration) option {
	return func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Tuning.RetargetWindow = d }
}

func withLocal(id model.PlayerID) option {
	return func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Local = id }
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	hs := &harness{
		space:   testutil.NewSpace(),
		body:    testutil.NewBody(mgl64.Vec3{}),
		victims: &testutil.Victims{},
		effects: &testutil.Effects{},
		ch:      testutil.NewRecorder(),
		clock:   testutil.NewClock(),
	}
	cfg := ai.HunterConfig{
		ID:        hunterID,
		Tuning:    ai.DefaultTuning(),
		Mechanics: ai.DefaultMechanics(),
	}
	deps := ai.Deps{
		Body:    hs.body,
		Space:   hs.space,
		Victims: hs.victims,
		Effects: hs.effects,
		Channel: hs.ch,
		Now:     hs.clock.Now,
		Rand:    rand.New(rand.NewPCG(1, 2)),
	}
	for _, o := range opts {
		o(&cfg, &deps)
	}

	h, err := ai.NewHunter(cfg, deps)
	require.NoError(t, err)
	h.Start()
	hs.h = h
	return hs
}

// tick advances both the simulation and the wall clock.
func (hs *harness) tick(dt float64) {
	hs.clock.Advance(time.Duration(dt * float64(time.Second)))
	hs.h.FixedTick(dt)
}

// chase drives a fresh hunter into Chasing toward pos.
func (hs *harness) chase(t *testing.T, player model.PlayerID, pos mgl64.Vec3) {
	t.Helper()
	require.True(t, hs.h.RequestTarget(player, pos))
	require.Equal(t, model.StateActivating, hs.h.State())
	hs.tick(ai.DefaultTuning().ActivationDuration + step)
	require.Equal(t, model.StateChasing, hs.h.State())
}

func TestNewHunter_Validation(t *testing.T) {
	_, err := ai.NewHunter(ai.HunterConfig{Tuning: ai.DefaultTuning()}, ai.Deps{})
	assert.Error(t, err, "zero id")

	_, err = ai.NewHunter(ai.HunterConfig{ID: 1, Tuning: ai.DefaultTuning()}, ai.Deps{})
	assert.Error(t, err, "missing collaborators")

	bad := ai.DefaultTuning()
	bad.ScanSpeed = 0
	_, err = ai.NewHunter(ai.HunterConfig{ID: 1, Tuning: bad}, ai.Deps{})
	assert.Error(t, err, "invalid tuning")
}

func TestHunter_TouchActivatesWithOvershoot(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 3, Position: mgl64.Vec3{1.5, 0.5, 0}})

	hs.tick(step)

	assert.Equal(t, model.StateActivating, hs.h.State())
	player, dest := hs.h.Target()
	assert.Equal(t, model.PlayerID(3), player)
	// Aimed 1.75 past the player, away from the hunter, on the hunter's plane.
	assert.InDelta(t, 3.25, dest.X(), 1e-9)
	assert.InDelta(t, 0, dest.Y(), 1e-9)
	assert.InDelta(t, 0, dest.Z(), 1e-9)

	sent := hs.ch.Sent()
	last := sent[len(sent)-1]
	assert.Equal(t, replication.KindSetTarget, last.Kind)
	assert.Equal(t, model.StateActivating, last.State)
}

func TestHunter_TouchIgnoresOtherFloors(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 3, Position: mgl64.Vec3{0.5, 3, 0}})

	hs.tick(step)

	assert.Equal(t, model.StateDormant, hs.h.State())
}

func TestHunter_ArrivalWithZeroChanceResets(t *testing.T) {
	hs := newHarness(t, withChance(0))
	hs.chase(t, 1, mgl64.Vec3{10, 0, 0})

	hs.body.MoveTo(mgl64.Vec3{9.2, 0, 0})
	hs.tick(step)

	assert.Equal(t, model.StateResetting, hs.h.State())
	assert.NotContains(t, hs.ch.Kinds(), replication.KindReactivate)
	assert.Contains(t, hs.ch.Kinds(), replication.KindReset)

	hs.tick(ai.DefaultTuning().ResetDuration + step)
	assert.Equal(t, model.StateDormant, hs.h.State())
}

func TestHunter_ArrivalWithFullChanceReactivates(t *testing.T) {
	hs := newHarness(t, withChance(100))
	hs.chase(t, 1, mgl64.Vec3{10, 0, 0})

	hs.body.MoveTo(mgl64.Vec3{9.5, 0, 0})
	hs.tick(step)
	require.Equal(t, model.StateReactivating, hs.h.State())

	// Destination is held on the hunter itself while it winds up.
	dest, ok := hs.body.LastDestination()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{9.5, 0, 0}, dest)

	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{9.5, 0, 8}})
	hs.tick(ai.DefaultTuning().ReactivationDuration + step)

	assert.Equal(t, model.StateChasing, hs.h.State())
	player, target := hs.h.Target()
	assert.Equal(t, model.PlayerID(2), player)
	assert.InDelta(t, 8+1.25, target.Z(), 1e-9)
}

func TestHunter_ReactivationWithoutTargetResets(t *testing.T) {
	hs := newHarness(t, withChance(100))
	hs.chase(t, 1, mgl64.Vec3{10, 0, 0})

	hs.body.MoveTo(mgl64.Vec3{10, 0, 0})
	hs.tick(step)
	require.Equal(t, model.StateReactivating, hs.h.State())

	hs.tick(ai.DefaultTuning().ReactivationDuration + step)
	assert.Equal(t, model.StateResetting, hs.h.State())
}

func TestHunter_ThrottledReactivationRetries(t *testing.T) {
	hs := newHarness(t, withChance(100), withRetargetWindow(5*time.Second))
	hs.chase(t, 1, mgl64.Vec3{10, 0, 0})

	hs.body.MoveTo(mgl64.Vec3{10, 0, 0})
	hs.tick(step)
	require.Equal(t, model.StateReactivating, hs.h.State())

	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{10, 0, 8}})
	hs.tick(ai.DefaultTuning().ReactivationDuration + step)
	assert.Equal(t, model.StateReactivating, hs.h.State(), "re-aim refused, still winding up")
	assert.NotContains(t, hs.ch.Kinds(), replication.KindReset)

	hs.clock.Advance(5 * time.Second)
	hs.tick(step)
	assert.Equal(t, model.StateChasing, hs.h.State())
	player, _ := hs.h.Target()
	assert.Equal(t, model.PlayerID(2), player)
}

func TestHunter_DemolishesNearbyObstacles(t *testing.T) {
	door := &testutil.Destructible{Id: 1, Type: model.ObstacleDoor, At: mgl64.Vec3{2, 0, 0}}
	turret := &testutil.Destructible{Id: 2, Type: model.ObstacleTurret, At: mgl64.Vec3{10, 0, 0}}
	stale := &testutil.Destructible{Id: 3, Type: model.ObstacleMine, At: mgl64.Vec3{1, 0, 0}, Gone: true}
	open := &testutil.Destructible{Id: 4, Type: model.ObstacleDoor, At: mgl64.Vec3{0, 0, 1}, Open: true}

	hs := newHarness(t, withObstacles(door, turret, stale, open))
	require.Equal(t, 4, hs.h.Obstacles().Len())
	hs.chase(t, 1, mgl64.Vec3{50, 0, 0})

	hs.tick(step)

	assert.Equal(t, model.StateChasing, hs.h.State())
	assert.Equal(t, 1, door.Destroyed)
	assert.Zero(t, turret.Destroyed)
	assert.Zero(t, stale.Destroyed, "stale entries are pruned, not destroyed")
	assert.Zero(t, open.Destroyed)
	assert.Equal(t, 2, hs.h.Obstacles().Len())
	assert.Equal(t, 0, hs.h.Obstacles().Count(model.ObstacleMine))

	require.Len(t, hs.effects.Blasts, 1)
	assert.Equal(t, model.DemolishBlast, hs.effects.Blasts[0].Blast)
	assert.Equal(t, door.At, hs.effects.Blasts[0].At)
	assert.Contains(t, hs.ch.Kinds(), replication.KindDemolish)
}

func TestHunter_ScanDelayOnlyShortens(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 1, Position: mgl64.Vec3{30, 0, 0}})
	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{6, 0, 0}})
	hs.space.Put(model.PlayerView{ID: 3, Position: mgl64.Vec3{0, 0, 12}})

	require.True(t, hs.h.Scan(1, mgl64.Vec3{30, 0, 0}))
	scan, ok := hs.h.PendingScan()
	require.True(t, ok)
	assert.InDelta(t, 1.0, scan.Remaining(), 1e-9)

	hs.tick(0.1)

	require.True(t, hs.h.Scan(2, mgl64.Vec3{6, 0, 0}))
	scan, _ = hs.h.PendingScan()
	assert.Equal(t, model.PlayerID(2), scan.Player)
	assert.InDelta(t, 0.2, scan.Remaining(), 1e-9)

	assert.False(t, hs.h.Scan(3, mgl64.Vec3{0, 0, 12}), "a longer delay never replaces a pending scan")
	scan, _ = hs.h.PendingScan()
	assert.InDelta(t, 0.2, scan.Remaining(), 1e-9)

	hs.tick(0.1)
	assert.Equal(t, model.StateDormant, hs.h.State())
	hs.tick(0.15)

	assert.Equal(t, model.StateActivating, hs.h.State())
	player, dest := hs.h.Target()
	assert.Equal(t, model.PlayerID(2), player)
	assert.InDelta(t, 7, dest.X(), 1e-9)
	_, pending := hs.h.PendingScan()
	assert.False(t, pending)
	assert.Contains(t, hs.ch.Kinds(), replication.KindPing)
}

func TestHunter_ScanBoundaries(t *testing.T) {
	assert.Zero(t, ai.ScanDelay(0, 30))
	assert.InDelta(t, 3.0, ai.ScanDelay(90, 30), 1e-9)

	hs := newHarness(t)
	assert.True(t, hs.h.Scan(1, mgl64.Vec3{}), "scan at distance zero")
	scan, _ := hs.h.PendingScan()
	assert.Zero(t, scan.Duration)

	hs = newHarness(t)
	assert.True(t, hs.h.Scan(1, mgl64.Vec3{90, 0, 0}))
	scan, _ = hs.h.PendingScan()
	assert.InDelta(t, 90.0/30.0, scan.Duration, 1e-9)

	hs = newHarness(t)
	assert.False(t, hs.h.Scan(1, mgl64.Vec3{90.5, 0, 0}), "out of range")

	hs = newHarness(t)
	hs.space.BlockAll = true
	assert.False(t, hs.h.Scan(1, mgl64.Vec3{5, 0, 0}), "no line of sight")
}

func TestHunter_ScanDroppedWhenSightLost(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 1, Position: mgl64.Vec3{15, 0, 0}})
	require.True(t, hs.h.Scan(1, mgl64.Vec3{15, 0, 0}))

	hs.space.BlockAll = true
	hs.tick(1)

	assert.Equal(t, model.StateDormant, hs.h.State())
	assert.NotContains(t, hs.ch.Kinds(), replication.KindPing)
}

func TestHunter_ConsumeWithoutRemains(t *testing.T) {
	hs := newHarness(t)
	hs.victims.NoRemains = true
	hs.chase(t, 4, mgl64.Vec3{5, 0, 0})

	hs.space.Put(model.PlayerView{ID: 4, Position: mgl64.Vec3{1, 0, 0}})
	hs.tick(step)
	require.Equal(t, model.StateConsuming, hs.h.State())
	hs.space.Remove(4)

	var (
		elapsed  float64
		doneAt   float64
		attached bool
	)
	for hs.h.State() == model.StateConsuming && elapsed < 5 {
		hs.tick(step)
		elapsed += step
		if e := hs.h.Elimination(); e != nil {
			attached = attached || e.Attached()
			if e.Done() && doneAt == 0 {
				doneAt = elapsed
			}
		}
	}

	assert.Equal(t, model.StateDormant, hs.h.State())
	assert.Equal(t, []model.PlayerID{4}, hs.victims.Bled)
	assert.Equal(t, []model.PlayerID{4}, hs.victims.Killed)
	assert.False(t, attached)
	assert.InDelta(t, 0.25+0.5, doneAt, step+1e-9)
	assert.InDelta(t, 2.2, elapsed, step+1e-9)
}

func TestHunter_ConsumeCarriesRemains(t *testing.T) {
	hs := newHarness(t, func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Mechanics.BodiesEnabled = true })
	hs.chase(t, 4, mgl64.Vec3{5, 0, 0})

	hs.space.Put(model.PlayerView{ID: 4, Position: mgl64.Vec3{1.5, 0, 0}})
	hs.tick(step)
	require.Equal(t, model.StateConsuming, hs.h.State())
	hs.space.Remove(4)

	for range 150 {
		hs.tick(step)
	}

	assert.Equal(t, model.StateDormant, hs.h.State())
	body := hs.victims.Body(4)
	require.NotNil(t, body)
	assert.Positive(t, body.Moves)
	assert.True(t, body.Released)
	assert.True(t, body.Dropped)
}

func TestHunter_KillCancelsElimination(t *testing.T) {
	hs := newHarness(t)
	var destroyed []uint32
	hs.h.SetDestroyedFunc(func(id uint32) { destroyed = append(destroyed, id) })
	hs.chase(t, 4, mgl64.Vec3{5, 0, 0})

	hs.space.Put(model.PlayerView{ID: 4, Position: mgl64.Vec3{1, 0, 0}})
	hs.tick(step)
	hs.space.Remove(4)
	for range 40 {
		hs.tick(step)
	}
	elim := hs.h.Elimination()
	require.NotNil(t, elim)
	require.True(t, elim.Attached())

	require.NoError(t, hs.h.Kill())

	assert.True(t, hs.h.Destroyed())
	assert.True(t, hs.body.Despawned)
	assert.True(t, elim.Done())
	assert.True(t, hs.victims.Body(4).Released)
	assert.Equal(t, []uint32{hunterID}, destroyed)
	require.NotEmpty(t, hs.effects.Blasts)
	assert.Equal(t, model.DeathBlast, hs.effects.Blasts[len(hs.effects.Blasts)-1].Blast)
	assert.Contains(t, hs.ch.Kinds(), replication.KindExplode)

	moves := hs.victims.Body(4).Moves
	hs.tick(step)
	assert.Equal(t, moves, hs.victims.Body(4).Moves, "no mutation after destruction")
	assert.True(t, errors.Is(hs.h.Kill(), ai.ErrHunterDestroyed))
	assert.Equal(t, []uint32{hunterID}, destroyed)
}

func TestHunter_CreatureCollision(t *testing.T) {
	hs := newHarness(t)
	bug := &testutil.Creature{ID: 20, Mortal: true}
	hs.h.CollideWithCreature(bug)
	assert.Zero(t, bug.Kills, "only while chasing")

	hs.chase(t, 1, mgl64.Vec3{20, 0, 0})
	hs.h.CollideWithCreature(bug)
	assert.Equal(t, 1, bug.Kills)

	other := &testutil.Creature{ID: 21, Mortal: true, Hunter: true}
	hs.h.CollideWithCreature(other)
	assert.Equal(t, 1, other.Kills, "the other hunter dies too")
	assert.True(t, hs.h.Destroyed())
}

func TestHunter_StagnationConcludesAfterGrace(t *testing.T) {
	hs := newHarness(t, withChance(0))
	hs.chase(t, 1, mgl64.Vec3{30, 0, 0})
	assert.InDelta(t, ai.DefaultTuning().ChaseAverageSeed, hs.h.ChaseAverage(), 1e-9)

	for i := range 9 {
		hs.tick(step)
		require.Equal(t, model.StateChasing, hs.h.State(), "tick %d", i+1)
	}
	hs.tick(step)
	assert.Equal(t, model.StateResetting, hs.h.State())
}

func TestHunter_ShortTicksAtChaseSpeedKeepChasing(t *testing.T) {
	const dt = 0.005
	hs := newHarness(t, withChance(0))
	hs.chase(t, 1, mgl64.Vec3{30, 0, 0})

	pos := mgl64.Vec3{}
	for i := range 40 {
		pos = pos.Add(mgl64.Vec3{9 * dt, 0, 0})
		hs.body.MoveTo(pos)
		hs.tick(dt)
		require.Equal(t, model.StateChasing, hs.h.State(), "tick %d", i+1)
	}

	for range 3 {
		hs.tick(dt)
	}
	assert.Equal(t, model.StateResetting, hs.h.State(), "a real stall still concludes")
}

func TestHunter_ChaseAverageReseededOnReentry(t *testing.T) {
	hs := newHarness(t, withChance(100))
	hs.chase(t, 1, mgl64.Vec3{30, 0, 0})

	hs.tick(step)
	assert.InDelta(t, 50, hs.h.ChaseAverage(), 1e-9)

	// Arrive, reactivate and re-enter chase toward a fresh player.
	hs.body.MoveTo(mgl64.Vec3{30, 0, 0})
	hs.tick(step)
	require.Equal(t, model.StateReactivating, hs.h.State())
	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{30, 0, 10}})
	hs.tick(ai.DefaultTuning().ReactivationDuration + step)
	require.Equal(t, model.StateChasing, hs.h.State())

	assert.InDelta(t, ai.DefaultTuning().ChaseAverageSeed, hs.h.ChaseAverage(), 1e-9)
}

func TestHunter_RequestTargetThrottled(t *testing.T) {
	hs := newHarness(t)

	assert.True(t, hs.h.RequestTarget(1, mgl64.Vec3{10, 0, 0}))
	_, first := hs.h.Target()
	before := len(hs.ch.Sent())

	assert.False(t, hs.h.RequestTarget(1, mgl64.Vec3{10, 0, 0}))
	_, second := hs.h.Target()

	assert.Equal(t, first, second)
	assert.Equal(t, before, len(hs.ch.Sent()))
	assert.Equal(t, model.StateActivating, hs.h.State())
}

func TestHunter_ChasingOnlyReaimsAtSameTarget(t *testing.T) {
	hs := newHarness(t)
	hs.chase(t, 1, mgl64.Vec3{20, 0, 0})

	assert.False(t, hs.h.RequestTarget(2, mgl64.Vec3{0, 0, 20}))
	assert.True(t, hs.h.RequestTarget(1, mgl64.Vec3{25, 0, 0}))

	dest, _ := hs.body.LastDestination()
	assert.Equal(t, mgl64.Vec3{25, 0, 0}, dest)
	assert.Equal(t, model.StateChasing, hs.h.State())
}

func TestHunter_PerceptionFaultSkipsTick(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 3, Position: mgl64.Vec3{1, 0, 0}})
	hs.space.Err = errors.New("query failed")

	hs.tick(step)
	assert.Equal(t, model.StateDormant, hs.h.State())

	hs.space.Err = nil
	hs.tick(step)
	assert.Equal(t, model.StateActivating, hs.h.State())
}

func TestHunter_LocalLightExposure(t *testing.T) {
	hs := newHarness(t, withLocal(5))
	hs.space.Put(model.PlayerView{
		ID:       5,
		Position: mgl64.Vec3{10, 0, 0},
		Forward:  mgl64.Vec3{-1, 0, 0},
		Lights:   model.LightSource{PocketLightOn: true},
	})

	hs.tick(step)

	assert.Equal(t, model.StateActivating, hs.h.State())
	player, dest := hs.h.Target()
	assert.Equal(t, model.PlayerID(5), player)
	assert.InDelta(t, 10, dest.X(), 1e-9, "light exposure does not overshoot")
}

func TestHunter_LightPointedAwayIgnored(t *testing.T) {
	hs := newHarness(t, withLocal(5))
	hs.space.Put(model.PlayerView{
		ID:       5,
		Position: mgl64.Vec3{10, 0, 0},
		Forward:  mgl64.Vec3{1, 0, 0},
		Lights:   model.LightSource{PocketLightOn: true},
	})

	hs.tick(step)

	assert.Equal(t, model.StateDormant, hs.h.State())
}

func TestHunter_ProximitySense(t *testing.T) {
	hs := newHarness(t, func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Mechanics.ProximitySense = true })
	hs.space.Put(model.PlayerView{ID: 9, Position: mgl64.Vec3{0, 0, 6}})

	hs.tick(step)

	assert.Equal(t, model.StateActivating, hs.h.State())
}

func TestHunter_EnqueuedInputs(t *testing.T) {
	hs := newHarness(t)
	hs.space.Put(model.PlayerView{ID: 2, Position: mgl64.Vec3{3, 0, 0}})

	hs.h.Enqueue(replication.Scan(0, 2, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{-1, 0, 0}))
	hs.h.Enqueue(replication.Scan(hunterID+1, 2, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}))
	_, pending := hs.h.PendingScan()
	assert.False(t, pending, "inputs wait for the fixed tick")

	hs.tick(step)
	scan, pending := hs.h.PendingScan()
	require.True(t, pending)
	assert.Equal(t, model.PlayerID(2), scan.Player)

	hs.tick(0.2)
	assert.Equal(t, model.StateActivating, hs.h.State())
}

func TestHunter_TouchInputWhileChasingConsumes(t *testing.T) {
	hs := newHarness(t)
	hs.chase(t, 1, mgl64.Vec3{20, 0, 0})
	hs.space.Put(model.PlayerView{ID: 6, Position: mgl64.Vec3{5, 0, 0}})

	hs.h.Enqueue(replication.Touch(hunterID, 6, 0))
	hs.tick(step)

	assert.Equal(t, model.StateConsuming, hs.h.State())
	require.NotNil(t, hs.h.Elimination())
	assert.Equal(t, model.PlayerID(6), hs.h.Elimination().Victim())
}

func TestHunter_DebugStartPicksRandomTarget(t *testing.T) {
	hs := newHarness(t, func(cfg *ai.HunterConfig, _ *ai.Deps) { cfg.Debug = true })

	assert.Equal(t, model.StateActivating, hs.h.State())
	player, dest := hs.h.Target()
	assert.Zero(t, player)
	assert.LessOrEqual(t, dest.X(), 25.0)
	assert.GreaterOrEqual(t, dest.X(), -25.0)
	assert.LessOrEqual(t, dest.Z(), 25.0)
	assert.GreaterOrEqual(t, dest.Z(), -25.0)
}

func TestHunter_OverrideRunsEntryOnNextTick(t *testing.T) {
	hs := newHarness(t)

	hs.h.Override(model.StateResetting)
	assert.Equal(t, model.StateDormant, hs.h.State(), "published on the next tick")

	hs.tick(step)
	assert.Equal(t, model.StateResetting, hs.h.State())

	hs.tick(ai.DefaultTuning().ResetDuration)
	assert.Equal(t, model.StateDormant, hs.h.State())
}

func TestHunter_SequenceStrictlyIncreases(t *testing.T) {
	hs := newHarness(t, withChance(0))
	hs.chase(t, 1, mgl64.Vec3{1, 0, 0})
	hs.tick(step)

	var last uint64
	for _, cmd := range hs.ch.Sent() {
		assert.Greater(t, cmd.Seq, last)
		assert.Equal(t, uint32(hunterID), cmd.Hunter)
		last = cmd.Seq
	}
}
