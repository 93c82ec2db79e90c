package model

// Blast describes an explosion: full damage inside MinRange, linear falloff
// to zero at MaxRange.
type Blast struct {
	MinRange       float64
	MaxRange       float64
	Damage         float64
	CreatureDamage int
}

// Explosion presets.
var (
	// DeathBlast fires when a hunter is destroyed.
	DeathBlast = Blast{MinRange: 5, MaxRange: 6, Damage: 100, CreatureDamage: 6}
	// DemolishBlast fires when a hunter breaks through an obstacle.
	DemolishBlast = Blast{MinRange: 2, MaxRange: 4, Damage: 100, CreatureDamage: 0}
)

// DamageAt returns the player damage at distance from the center.
func (b Blast) DamageAt(distance float64) float64 {
	if distance > b.MaxRange {
		return 0
	}
	span := b.MaxRange - b.MinRange
	if span <= 0 {
		return b.Damage
	}
	return b.Damage * (1 - Clamp01((distance-b.MinRange)/span))
}

// Big reports whether the blast is the large (death) variant.
func (b Blast) Big() bool {
	return b.MaxRange >= DeathBlast.MaxRange
}
