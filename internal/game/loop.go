package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/world"
)

// RejectedAction pairs a failed action with its reason, for the per-agent
// action_rejected envelope.
type RejectedAction struct {
	Action Action
	Reason string
}

// TickResult summarizes one completed tick.
type TickResult struct {
	Tick         int64
	Executed     []Action
	Rejected     []RejectedAction
	Events       []*world.Event
	StateChanges int
	Spawns       []string
}

// RunTick advances the world by one tick. Stage order is fixed; every stage
// iterates entities in sorted-id order, so the same drained action set always
// produces the same world.
func (e *Engine) RunTick() *TickResult {
	start := time.Now()
	w := e.W
	w.Tick++

	actions := e.Queue.Drain()

	res := &TickResult{Tick: w.Tick}
	for _, act := range actions {
		v := e.Validate(act)
		if !v.OK {
			res.Rejected = append(res.Rejected, RejectedAction{Action: act, Reason: v.Reason})
			continue
		}
		e.Execute(act)
		res.Executed = append(res.Executed, act)
	}

	e.MovementTick()
	e.GatheringTick()
	e.CombatTick()
	e.cleanupPairs()
	e.MonsterTick()
	e.ResourceTick()
	for _, t := range e.BehemothTick() {
		e.ProcessThrowOffs(t)
	}
	expired, done := e.EconomyTick()
	e.ApplyTradeExpiry(expired)
	e.ApplyCraftCompletion(done)
	e.RespawnTick()
	e.PopulationTick()

	res.Events = append(res.Events, w.TickEvents...)
	res.StateChanges = len(res.Executed) + len(res.Events)
	for _, ev := range w.TickEvents {
		if ev.Type == world.EvNpcSpawn {
			res.Spawns = append(res.Spawns, ev.Actors...)
		}
	}

	e.Broadcast(res)
	e.persistTick(res)

	w.ClearTickBuffers()

	if elapsed := time.Since(start); e.slowTickWarn > 0 && elapsed > e.slowTickWarn {
		e.Log.Warn("slow tick",
			zap.Int64("tick", w.Tick),
			zap.Duration("elapsed", elapsed))
	}
	return res
}

// persistTick writes the incremental tick log and, on the snapshot cadence,
// a full world snapshot. Failures are logged; the in-memory world stays the
// source of truth and the next successful snapshot re-syncs.
func (e *Engine) persistTick(res *TickResult) {
	if e.store == nil {
		return
	}
	if err := e.store.PersistTick(res.Tick, res.Events, e.W.TickMessages); err != nil {
		e.Log.Error("persist tick failed", zap.Int64("tick", res.Tick), zap.Error(err))
	}
	if e.snapshotInterval > 0 && res.Tick%e.snapshotInterval == 0 {
		if err := e.store.Snapshot(e.W); err != nil {
			e.Log.Error("snapshot failed", zap.Int64("tick", res.Tick), zap.Error(err))
		}
	}
}
