package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/hunter/internal/model"
)

// MaxHealth is a player's starting health.
const MaxHealth = 100.0

// Player is a session participant's avatar as the world sees it.
type Player struct {
	id model.PlayerID

	mu       sync.RWMutex
	position mgl64.Vec3
	forward  mgl64.Vec3
	health   float64
	dead     bool
	bleeding bool
	lights   model.LightSource
}

// NewPlayer creates a living player at pos facing +Z.
func NewPlayer(id model.PlayerID, pos mgl64.Vec3) *Player {
	return &Player{
		id:       id,
		position: pos,
		forward:  mgl64.Vec3{0, 0, 1},
		health:   MaxHealth,
	}
}

// ID returns the player id.
func (p *Player) ID() model.PlayerID { return p.id }

// Position returns the player position.
func (p *Player) Position() mgl64.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetForward sets the facing direction.
func (p *Player) SetForward(f mgl64.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forward = model.Normalized(f)
}

// SetLights replaces what the player carries.
func (p *Player) SetLights(l model.LightSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lights = l
}

// Health returns current health.
func (p *Player) Health() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.health
}

// Dead reports whether the player died.
func (p *Player) Dead() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dead
}

// Bleeding reports whether the player took the heavy damage feedback.
func (p *Player) Bleeding() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bleeding
}

// View returns a read-only snapshot.
func (p *Player) View() model.PlayerView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return model.PlayerView{
		ID:       p.id,
		Position: p.position,
		Forward:  p.forward,
		Dead:     p.dead,
		Lights:   p.lights,
	}
}

func (p *Player) setPosition(pos mgl64.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

// damage applies amount and reports whether this hit killed the player.
func (p *Player) damage(amount float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead || amount <= 0 {
		return false
	}
	p.health -= amount
	if p.health <= 0 {
		p.health = 0
		p.dead = true
		return true
	}
	return false
}

func (p *Player) bleed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bleeding = true
}

// kill reports whether the player was alive before.
func (p *Player) kill() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return false
	}
	p.health = 0
	p.dead = true
	return true
}
