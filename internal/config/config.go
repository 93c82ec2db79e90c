// Package config loads hunterd settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/hunter/internal/ai"
)

// Transport kinds.
const (
	TransportWebSocket = "websocket"
	TransportNATS      = "nats"
	TransportNone      = "none"
)

// Hunter holds all configuration for the hunter host.
type Hunter struct {
	LogLevel  string          `yaml:"log_level"`
	Tick      TickConfig      `yaml:"tick"`
	Mechanics MechanicsConfig `yaml:"mechanics"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Volume    VolumeConfig    `yaml:"volume"`
	Database  DatabaseConfig  `yaml:"database"`
	Transport TransportConfig `yaml:"transport"`
	// Debug starts every hunter in the developer state.
	Debug bool `yaml:"debug"`
}

// TickConfig holds scheduler periods.
type TickConfig struct {
	Fixed        time.Duration `yaml:"fixed"`        // authoritative step
	Presentation time.Duration `yaml:"presentation"` // easing step
}

// MechanicsConfig holds gameplay knobs.
type MechanicsConfig struct {
	ReactivationChance     float64 `yaml:"reactivation_chance"` // 0..100
	BodiesEnabled          bool    `yaml:"bodies_enabled"`
	ProximitySenseEnabled  bool    `yaml:"proximity_sense_enabled"`
	ProximitySenseDistance float64 `yaml:"proximity_sense_distance"`
	ChaseSpeed             float64 `yaml:"chase_speed"`
}

// AI converts the knobs into controller mechanics.
func (m MechanicsConfig) AI() ai.Mechanics {
	return ai.Mechanics{
		ReactivationChance: m.ReactivationChance,
		BodiesEnabled:      m.BodiesEnabled,
		ProximitySense:     m.ProximitySenseEnabled,
		ProximityDistance:  m.ProximitySenseDistance,
	}
}

// SpawnConfig holds spawn weighting.
type SpawnConfig struct {
	Weight int `yaml:"weight"`
	Power  int `yaml:"power"`
	Max    int `yaml:"max"`
	// LevelsSet is one of all, none, modded, vanilla.
	LevelsSet string `yaml:"levels_set"`
	// Levels are comma separated name:weight overrides.
	Levels string `yaml:"levels"`
}

// VolumeConfig holds client-local audio settings.
type VolumeConfig struct {
	Adjustment float64 `yaml:"adjustment"`
}

// TransportConfig selects how commands reach observers.
type TransportConfig struct {
	Kind    string `yaml:"kind"`
	Listen  string `yaml:"listen"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultHunter returns Hunter config with sensible defaults.
func DefaultHunter() Hunter {
	return Hunter{
		LogLevel: "info",
		Tick: TickConfig{
			Fixed:        20 * time.Millisecond,
			Presentation: 16 * time.Millisecond,
		},
		Mechanics: MechanicsConfig{
			ReactivationChance:     50,
			ProximitySenseDistance: 8,
			ChaseSpeed:             9,
		},
		Spawn: SpawnConfig{
			Weight:    50,
			Power:     1,
			Max:       3,
			LevelsSet: "all",
		},
		Volume: VolumeConfig{Adjustment: 1.0},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "hunter",
			Password: "hunter",
			DBName:   "hunter",
			SSLMode:  "disable",
		},
		Transport: TransportConfig{
			Kind:    TransportWebSocket,
			Listen:  ":8089",
			NATSURL: "nats://127.0.0.1:4222",
			Subject: "hunter.session",
		},
	}
}

// LoadHunter loads hunter config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadHunter(path string) (Hunter, error) {
	cfg := DefaultHunter()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.normalize(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// normalize clamps numeric knobs into range and rejects unknown enums.
func (c *Hunter) normalize() error {
	def := DefaultHunter()

	if c.Mechanics.ReactivationChance < 0 || c.Mechanics.ReactivationChance > 100 {
		slog.Warn("reactivation_chance out of range, clamped", "value", c.Mechanics.ReactivationChance)
		c.Mechanics.ReactivationChance = max(0, min(100, c.Mechanics.ReactivationChance))
	}
	if c.Volume.Adjustment < 0 {
		c.Volume.Adjustment = 0
	}
	if c.Tick.Fixed <= 0 {
		c.Tick.Fixed = def.Tick.Fixed
	}
	if c.Tick.Presentation <= 0 {
		c.Tick.Presentation = def.Tick.Presentation
	}
	if c.Mechanics.ChaseSpeed <= 0 {
		c.Mechanics.ChaseSpeed = def.Mechanics.ChaseSpeed
	}
	if c.Mechanics.ProximitySenseDistance < 0 {
		c.Mechanics.ProximitySenseDistance = 0
	}
	if c.Spawn.Max < 0 {
		c.Spawn.Max = 0
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		c.LogLevel = def.LogLevel
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	c.Transport.Kind = strings.ToLower(strings.TrimSpace(c.Transport.Kind))
	switch c.Transport.Kind {
	case TransportWebSocket, TransportNATS, TransportNone:
	case "":
		c.Transport.Kind = TransportNone
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
	return nil
}
