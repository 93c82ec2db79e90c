package world

import "math"

// Grid constants. The level is a square on the XZ plane split into regions.
const (
	// RegionSize is the edge of one region in world units.
	RegionSize = 32.0

	// World boundaries (world units)
	WorldMin = -1024.0
	WorldMax = 1024.0

	// Regions per axis: (WorldMax - WorldMin) / RegionSize
	RegionsPerAxis = 64
)

// CoordToRegionIndex converts an XZ world coordinate to region index.
func CoordToRegionIndex(x, z float64) (rx, rz int32) {
	rx = int32(math.Floor((x - WorldMin) / RegionSize))
	rz = int32(math.Floor((z - WorldMin) / RegionSize))
	return rx, rz
}

// IsValidRegionIndex checks if region index is within valid bounds
func IsValidRegionIndex(rx, rz int32) bool {
	return rx >= 0 && rx < RegionsPerAxis && rz >= 0 && rz < RegionsPerAxis
}

// ClampRegionIndex clamps an index into the grid.
func ClampRegionIndex(i int32) int32 {
	return max(0, min(i, RegionsPerAxis-1))
}

// RegionIndexToCoord returns the world coordinate of the region center.
func RegionIndexToCoord(rx, rz int32) (x, z float64) {
	x = WorldMin + (float64(rx)+0.5)*RegionSize
	z = WorldMin + (float64(rz)+0.5)*RegionSize
	return x, z
}
