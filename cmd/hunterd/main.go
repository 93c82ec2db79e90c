package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/hunter/internal/ai"
	"github.com/udisondev/hunter/internal/config"
	"github.com/udisondev/hunter/internal/db"
	"github.com/udisondev/hunter/internal/replication"
	"github.com/udisondev/hunter/internal/replication/natsbus"
	"github.com/udisondev/hunter/internal/replication/ws"
	"github.com/udisondev/hunter/internal/session"
	"github.com/udisondev/hunter/internal/spawn"
	"github.com/udisondev/hunter/internal/world"
)

const (
	ConfigPath   = "config/hunterd.yaml"
	DefaultLevel = "experimentation"
	// levelPower is the power pool of a level started by this host.
	levelPower = 4.0
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("HUNTERD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadHunter(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("hunterd starting",
		"log_level", cfg.LogLevel,
		"transport", cfg.Transport.Kind,
		"fixed_tick", cfg.Tick.Fixed,
		"presentation_tick", cfg.Tick.Presentation)

	set, err := spawn.ParseLevelSet(cfg.Spawn.LevelsSet)
	if err != nil {
		return fmt.Errorf("spawn config: %w", err)
	}
	weights := spawn.NewWeights(set, cfg.Spawn.Weight, cfg.Spawn.Levels)

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		rows, err := database.LevelWeights().LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("loading level weights: %w", err)
		}
		weights.SetRows(rows)
		slog.Info("level weights loaded from database", "count", len(rows))
	}

	channel, closeChannel, serve, err := openTransport(cfg.Transport)
	if err != nil {
		return err
	}
	defer closeChannel()

	w := world.New(cfg.Mechanics.ChaseSpeed)
	ticks := ai.NewTickManager(cfg.Tick.Fixed, cfg.Tick.Presentation)
	ticks.AddSystem(w)

	registry := session.NewRegistry()
	detach := registry.Attach(channel)
	defer detach()
	slog.Info("session opened", "session", registry.ID())

	spawner := spawn.NewSpawner(spawn.Config{
		Power:     float64(cfg.Spawn.Power),
		Max:       cfg.Spawn.Max,
		Tuning:    ai.DefaultTuning(),
		Mechanics: cfg.Mechanics.AI(),
		Debug:     cfg.Debug,
		Present:   logLevel == slog.LevelDebug,
		Volume:    cfg.Volume.Adjustment,
	}, weights, w, ticks, registry, channel)

	level := DefaultLevel
	if l := os.Getenv("HUNTERD_LEVEL"); l != "" {
		level = l
	}
	spawner.BeginLevel(level, levelPower)
	for i := range cfg.Spawn.Max {
		x, z := world.RegionIndexToCoord(int32(world.RegionsPerAxis/2+i), int32(world.RegionsPerAxis/2))
		if _, err := spawner.Spawn(mgl64.Vec3{x, 0, z}); err != nil {
			slog.Warn("hunter not spawned", "level", level, "error", err)
			break
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting tick manager", "hunters", ticks.Count())
		if err := ticks.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	if serve != nil {
		g.Go(func() error {
			return serve(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("hunterd stopped")
	return nil
}

// openTransport builds the replication channel. serve is nil when the
// transport needs no server loop.
func openTransport(cfg config.TransportConfig) (replication.Channel, func(), func(context.Context) error, error) {
	switch cfg.Kind {
	case config.TransportWebSocket:
		hub := ws.NewHub()
		mux := http.NewServeMux()
		mux.HandleFunc("/replicate", hub.Handle)
		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		serve := func(ctx context.Context) error {
			errCh := make(chan error, 1)
			go func() {
				slog.Info("starting replication hub", "listen", cfg.Listen)
				errCh <- srv.ListenAndServe()
			}()
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				hub.Close()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("replication hub shutdown: %w", err)
				}
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("replication hub: %w", err)
			}
		}
		return hub, hub.Close, serve, nil

	case config.TransportNATS:
		bus, err := natsbus.Connect(cfg.NATSURL, cfg.Subject, natsbus.RoleHost)
		if err != nil {
			return nil, nil, nil, err
		}
		closeBus := func() {
			if err := bus.Close(); err != nil {
				slog.Warn("closing nats bus", "error", err)
			}
		}
		slog.Info("replication over nats", "url", cfg.NATSURL, "subject", cfg.Subject)
		return bus, closeBus, nil, nil

	default:
		return replication.NewLoopback(), func() {}, nil, nil
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
