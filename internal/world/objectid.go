package world

import "sync/atomic"

// ObjectIDGenerator generates unique object IDs for session entities.
//
// ID ranges (convention):
//
//	0x00000000:              invalid
//	0x10000000 - 0x1FFFFFFF: hunters
//	0x20000000 - 0x2FFFFFFF: destructible obstacles
//	0x30000000 - 0x3FFFFFFF: other creatures
type ObjectIDGenerator struct {
	nextHunterID   atomic.Uint32
	nextObstacleID atomic.Uint32
	nextCreatureID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextHunterID.Store(0x10000000)
	gen.nextObstacleID.Store(0x20000000)
	gen.nextCreatureID.Store(0x30000000)
	return gen
}

// NextHunterID generates next unique hunter object ID.
func (g *ObjectIDGenerator) NextHunterID() uint32 {
	return g.nextHunterID.Add(1)
}

// NextObstacleID generates next unique obstacle object ID.
func (g *ObjectIDGenerator) NextObstacleID() uint32 {
	return g.nextObstacleID.Add(1)
}

// NextCreatureID generates next unique creature object ID.
func (g *ObjectIDGenerator) NextCreatureID() uint32 {
	return g.nextCreatureID.Add(1)
}

// IsHunterID reports whether id is in the hunter range.
func IsHunterID(id uint32) bool {
	return id >= 0x10000000 && id < 0x20000000
}
