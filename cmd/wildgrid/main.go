package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wildgrid/server/internal/config"
	"github.com/wildgrid/server/internal/data"
	"github.com/wildgrid/server/internal/game"
	"github.com/wildgrid/server/internal/handler"
	gonet "github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/persist"
	"github.com/wildgrid/server/internal/scripting"
	"github.com/wildgrid/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Wildgrid  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     authoritative world simulator         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WILDGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("postgres connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	repo := persist.NewWorldRepo(db, log)

	// 4. Load static tables and scripts
	printSection("data")

	tables, err := data.Load("data/yaml")
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("roles", len(tables.Roles))
	printStat("npc templates", len(tables.Npcs))
	printStat("behemoth templates", len(tables.Behemoths))
	printStat("recipes", len(tables.Recipes))
	printStat("items", len(tables.Items))

	scripts, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 5. Restore the world from the last snapshot, or seed a fresh one
	printSection("world")

	var worldState *world.State
	if cfg.Game.RestoreOnBoot {
		worldState, err = repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("restore world: %w", err)
		}
	}

	sessions := handler.NewRegistry()
	var engine *game.Engine
	newEngine := func(w *world.State) *game.Engine {
		return game.NewEngine(w, tables, scripts, log,
			game.WithSink(sessions),
			game.WithStore(repo),
			game.WithSnapshotInterval(cfg.Game.SnapshotInterval),
			game.WithSlowTickWarn(cfg.Game.SlowTickWarn),
		)
	}

	if worldState == nil {
		worldState = world.NewState(cfg.Game.Seed)
		engine = newEngine(worldState)
		engine.SeedWorld()
		printOK(fmt.Sprintf("fresh world seeded (seed: %d)", cfg.Game.Seed))
	} else {
		engine = newEngine(worldState)
		printOK(fmt.Sprintf("world restored at tick %d", worldState.Tick))
	}
	printStat("agents", len(worldState.Agents))
	printStat("resources", len(worldState.Resources))
	printStat("npc monsters", len(worldState.Npcs))
	printStat("behemoths", len(worldState.Behemoths))
	fmt.Println()

	deps := &handler.Deps{
		Config:   cfg,
		Log:      log,
		World:    worldState,
		Engine:   engine,
		Tables:   tables,
		Sessions: sessions,
	}

	// 6. Network server
	netServer := gonet.NewServer(
		cfg.Network.BindAddress,
		cfg.Network.InQueueSize,
		cfg.Network.OutQueueSize,
		cfg.Network.MaxMsgsPerSec,
		log,
	)
	go netServer.ListenAndServe()

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	printSection("server ready")
	printReady(fmt.Sprintf("listening on ws://%s/ws", cfg.Network.BindAddress))
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Game.TickRate))
	fmt.Println()

	for {
		select {
		case sess := <-netServer.NewSessions():
			sessions.Add(sess)
			handler.SendAuthPrompt(sess, deps)
			sess.FlushOutput()
			go watchSession(sess, netServer)

		case id := <-netServer.DeadSessions():
			if agentID := sessions.Remove(id); agentID != "" {
				engine.Disconnect(agentID)
				log.Info(fmt.Sprintf("agent disconnected  session=%d  agent=%s", id, agentID))
			}

		case <-ticker.C:
			drainSessions(sessions, deps)
			engine.RunTick()
			sessions.FlushAll()

		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if err := repo.Snapshot(worldState); err != nil {
				log.Error("final snapshot failed", zap.Error(err))
			} else {
				log.Info("final snapshot written", zap.Int64("tick", worldState.Tick))
			}
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// watchSession reports the session to the dead channel once it closes.
func watchSession(sess *gonet.Session, srv *gonet.Server) {
	<-sess.Done()
	srv.NotifyDead(sess.ID)
}

// drainSessions pulls every queued inbound message and dispatches it.
// Sessions are visited in id order so the same inputs replay the same way.
func drainSessions(sessions *handler.Registry, deps *handler.Deps) {
	all := sessions.All()
	ids := make([]uint64, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		sess := all[id]
		for drained := false; !drained; {
			select {
			case raw := <-sess.InQueue:
				handler.HandleMessage(sess, raw, deps)
			default:
				drained = true
			}
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
