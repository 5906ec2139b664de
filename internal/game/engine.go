package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/data"
	"github.com/wildgrid/server/internal/scripting"
	"github.com/wildgrid/server/internal/world"
)

// Sink delivers already-serialized outbound payloads to a connected agent.
// The net layer implements it; delivery must not block the tick.
type Sink interface {
	SendToAgent(agentID string, payload []byte)
}

// Store is the persistence boundary. Implemented by persist.WorldRepo; a nil
// store disables persistence (tests).
type Store interface {
	PersistTick(tick int64, events []*world.Event, messages []*world.ChatMessage) error
	Snapshot(w *world.State) error
}

// CombatPair is a persistent attacker/target attachment resolved each tick
// until deactivated. Transient: never persisted.
type CombatPair struct {
	AttackerID string
	TargetID   string
	StartTick  int64
	Active     bool
}

// Engine is the authoritative tick engine. It owns the world, the action
// queue, and the combat pair list. All methods run on the game loop goroutine.
type Engine struct {
	W       *world.State
	Tables  *data.Tables
	Scripts *scripting.Engine
	Queue   *Queue
	Log     *zap.Logger

	Pairs []*CombatPair

	sink  Sink
	store Store

	snapshotInterval int64
	slowTickWarn     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

func WithSink(s Sink) Option              { return func(e *Engine) { e.sink = s } }
func WithStore(s Store) Option            { return func(e *Engine) { e.store = s } }
func WithSnapshotInterval(n int64) Option { return func(e *Engine) { e.snapshotInterval = n } }
func WithSlowTickWarn(d time.Duration) Option {
	return func(e *Engine) { e.slowTickWarn = d }
}

func NewEngine(w *world.State, tables *data.Tables, scripts *scripting.Engine, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		W:                w,
		Tables:           tables,
		Scripts:          scripts,
		Queue:            NewQueue(),
		Log:              log,
		snapshotInterval: world.SnapshotIntervalTicks,
		slowTickWarn:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// damage runs the scripted damage formula.
func (e *Engine) damage(attack, defense int) int {
	return e.Scripts.CalcDamage(attack, defense)
}

// pairFor returns the active pair for (attacker, target), or nil. Attack
// actions against a target with an existing active pair are no-ops.
func (e *Engine) pairFor(attackerID, targetID string) *CombatPair {
	for _, p := range e.Pairs {
		if p.Active && p.AttackerID == attackerID && p.TargetID == targetID {
			return p
		}
	}
	return nil
}

// pairBetween returns the active pair joining the two entities in either
// direction, or nil. A single pair already resolves both sides' damage each
// tick, so a second pair between the same two would double the exchange.
func (e *Engine) pairBetween(a, b string) *CombatPair {
	if p := e.pairFor(a, b); p != nil {
		return p
	}
	return e.pairFor(b, a)
}

// cleanupPairs drops deactivated pairs, preserving attachment order.
func (e *Engine) cleanupPairs() {
	active := e.Pairs[:0]
	for _, p := range e.Pairs {
		if p.Active {
			active = append(active, p)
		}
	}
	e.Pairs = active
}
