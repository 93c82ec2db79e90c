package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Default tick intervals.
const (
	DefaultFixedInterval        = 20 * time.Millisecond
	DefaultPresentationInterval = 16 * time.Millisecond
)

// TickManager runs the fixed authoritative tick and the presentation tick
// for every registered controller. Both ticks run on the same goroutine,
// so controllers and views never see concurrent calls.
type TickManager struct {
	controllers     sync.Map // map[uint32]Controller, objectID → controller
	views           sync.Map // map[uint32]View
	controllerCount atomic.Int32

	systemsMu sync.Mutex
	systems   []System

	fixedInterval        time.Duration
	presentationInterval time.Duration
	stopCh               chan struct{}
	stopOnce             sync.Once
}

// NewTickManager creates a tick manager with the given intervals.
// Non-positive intervals fall back to the defaults.
func NewTickManager(fixed, presentation time.Duration) *TickManager {
	if fixed <= 0 {
		fixed = DefaultFixedInterval
	}
	if presentation <= 0 {
		presentation = DefaultPresentationInterval
	}
	return &TickManager{
		fixedInterval:        fixed,
		presentationInterval: presentation,
		stopCh:               make(chan struct{}),
	}
}

// Register registers and starts a controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	if _, loaded := m.controllers.LoadOrStore(objectID, controller); loaded {
		slog.Warn("controller already registered", "hunter", objectID)
		return
	}
	m.controllerCount.Add(1)
	controller.Start()

	slog.Debug("controller registered",
		"hunter", objectID,
		"state", controller.State())
}

// Unregister stops and removes a controller and its view.
func (m *TickManager) Unregister(objectID uint32) {
	m.views.Delete(objectID)

	value, ok := m.controllers.LoadAndDelete(objectID)
	if !ok {
		return
	}
	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("controller unregistered", "hunter", objectID)
}

// AddView attaches a presentation driver eased every presentation tick.
func (m *TickManager) AddView(objectID uint32, v View) {
	m.views.Store(objectID, v)
}

// AddSystem adds a world service stepped before controllers every fixed tick.
func (m *TickManager) AddSystem(s System) {
	m.systemsMu.Lock()
	m.systems = append(m.systems, s)
	m.systemsMu.Unlock()
}

// Start runs the tick loop (blocks until context is canceled or Stop is called).
func (m *TickManager) Start(ctx context.Context) error {
	fixed := time.NewTicker(m.fixedInterval)
	defer fixed.Stop()
	presentation := time.NewTicker(m.presentationInterval)
	defer presentation.Stop()

	slog.Info("tick manager started",
		"fixed", m.fixedInterval,
		"presentation", m.presentationInterval)

	lastPresent := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("tick manager stopped")
			return nil

		case <-fixed.C:
			m.FixedTick(m.fixedInterval.Seconds())

		case now := <-presentation.C:
			// Presentation runs at a variable rate: use the real elapsed time.
			dt := now.Sub(lastPresent).Seconds()
			lastPresent = now
			m.PresentationTick(dt)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// FixedTick steps systems then every controller by dt seconds.
func (m *TickManager) FixedTick(dt float64) {
	m.systemsMu.Lock()
	systems := m.systems
	m.systemsMu.Unlock()
	for _, s := range systems {
		s.Step(dt)
	}

	count := 0
	m.controllers.Range(func(key, value any) bool {
		value.(Controller).FixedTick(dt)
		count++
		return true
	})

	if count > 0 && IsDebugEnabled() {
		slog.Debug("fixed tick completed", "controllers", count)
	}
}

// PresentationTick eases every view by dt seconds.
func (m *TickManager) PresentationTick(dt float64) {
	m.views.Range(func(key, value any) bool {
		value.(View).PresentationTick(dt)
		return true
	})
}

// Count returns number of registered controllers (O(1) cached count).
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	value, ok := m.controllers.Load(objectID)
	if !ok {
		return nil, fmt.Errorf("controller not found for hunter %d", objectID)
	}
	return value.(Controller), nil
}
