package world

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

func TestNewRegion(t *testing.T) {
	region := NewRegion(10, 20)

	if region.RX() != 10 {
		t.Errorf("RX() = %d, want 10", region.RX())
	}
	if region.RZ() != 20 {
		t.Errorf("RZ() = %d, want 20", region.RZ())
	}
}

func TestRegion_AddRemovePlayer(t *testing.T) {
	region := NewRegion(0, 0)
	p := NewPlayer(100, mgl64.Vec3{})

	region.AddPlayer(p)

	players := region.Players()
	if len(players) != 1 {
		t.Fatalf("Players() count = %d, want 1", len(players))
	}
	if players[0].ID() != 100 {
		t.Errorf("Players()[0].ID() = %d, want 100", players[0].ID())
	}

	region.RemovePlayer(100)
	if n := len(region.Players()); n != 0 {
		t.Errorf("Players() count after remove = %d, want 0", n)
	}
}

func TestRegion_SnapshotCached(t *testing.T) {
	region := NewRegion(0, 0)
	region.AddPlayer(NewPlayer(1, mgl64.Vec3{}))

	first := region.Players()
	second := region.Players()
	if &first[0] != &second[0] {
		t.Error("Players() rebuilt snapshot without membership change")
	}

	region.AddPlayer(NewPlayer(2, mgl64.Vec3{}))
	if n := len(region.Players()); n != 2 {
		t.Errorf("Players() count = %d, want 2", n)
	}
}

func TestRegion_Version(t *testing.T) {
	region := NewRegion(0, 0)
	v0 := region.Version()

	region.AddPlayer(NewPlayer(1, mgl64.Vec3{}))
	v1 := region.Version()
	if v1 <= v0 {
		t.Errorf("Version() after add = %d, want > %d", v1, v0)
	}

	region.RemovePlayer(1)
	if v2 := region.Version(); v2 <= v1 {
		t.Errorf("Version() after remove = %d, want > %d", v2, v1)
	}
}

func TestRegion_ConcurrentAccess(t *testing.T) {
	region := NewRegion(0, 0)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			id := model.PlayerID(i + 1)
			region.AddPlayer(NewPlayer(id, mgl64.Vec3{}))
			_ = region.Players()
		})
	}
	wg.Wait()

	if n := len(region.Players()); n != 100 {
		t.Errorf("Players() count = %d, want 100", n)
	}
}

func TestCoordToRegionIndex(t *testing.T) {
	tests := []struct {
		name   string
		x, z   float64
		rx, rz int32
	}{
		{"world min", WorldMin, WorldMin, 0, 0},
		{"origin", 0, 0, 32, 32},
		{"just below origin", -0.5, -0.5, 31, 31},
		{"last region", WorldMax - 1, WorldMax - 1, RegionsPerAxis - 1, RegionsPerAxis - 1},
		{"out of bounds", WorldMax + 1, WorldMin - 1, RegionsPerAxis, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, rz := CoordToRegionIndex(tt.x, tt.z)
			if rx != tt.rx || rz != tt.rz {
				t.Errorf("CoordToRegionIndex(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.z, rx, rz, tt.rx, tt.rz)
			}
		})
	}
}

func TestClampRegionIndex(t *testing.T) {
	if got := ClampRegionIndex(-5); got != 0 {
		t.Errorf("ClampRegionIndex(-5) = %d, want 0", got)
	}
	if got := ClampRegionIndex(RegionsPerAxis + 3); got != RegionsPerAxis-1 {
		t.Errorf("ClampRegionIndex(overflow) = %d, want %d", got, RegionsPerAxis-1)
	}
	x, z := RegionIndexToCoord(32, 32)
	if x != RegionSize/2 || z != RegionSize/2 {
		t.Errorf("RegionIndexToCoord(32, 32) = (%v, %v), want (16, 16)", x, z)
	}
}
