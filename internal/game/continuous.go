package game

import "github.com/wildgrid/server/internal/world"

// MovementTick steps every moving agent toward its destination by at most its
// speed, arriving exactly on the destination.
func (e *Engine) MovementTick() {
	w := e.W
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		if a.Status != world.StatusMoving || a.Dest == nil || !a.Alive {
			continue
		}
		next, arrived := world.StepToward(a.Pos, *a.Dest, a.Speed)
		w.MoveAgent(a, next)
		if arrived {
			a.Dest = nil
			a.Status = world.StatusIdle
		}
	}
}

// GatheringTick advances every gathering agent. Trees yield 1 wood every
// TreeGatherTicks; veins yield up to GoldPerStrike gold every GoldGatherTicks.
// Depletion returns the agent to idle and, for trees, rolls a seed drop.
func (e *Engine) GatheringTick() {
	w := e.W
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		if a.Status != world.StatusGathering || !a.Alive {
			continue
		}
		r := w.Resources[a.GatherTarget]
		if r == nil || r.State != world.ResourceBeingGathered || r.GatheredBy != a.ID {
			e.detachGather(a)
			a.Status = world.StatusIdle
			continue
		}

		cadence := int64(world.TreeGatherTicks)
		if r.Type == world.ResourceGoldVein {
			cadence = world.GoldGatherTicks
		}
		elapsed := w.Tick - a.GatherStart
		if elapsed <= 0 || elapsed%cadence != 0 {
			continue
		}

		var amount int
		switch r.Type {
		case world.ResourceTree:
			amount = 1
			r.Remaining--
			a.AddItem("wood", 1)
		case world.ResourceGoldVein:
			amount = world.GoldPerStrike
			if amount > r.Remaining {
				amount = r.Remaining
			}
			r.Remaining -= amount
			a.Gold += amount
		default:
			e.detachGather(a)
			a.Status = world.StatusIdle
			continue
		}
		w.Emit(world.EvResourceGathered, []string{a.ID, r.ID}, &r.Pos, map[string]any{
			"resourceType": string(r.Type),
			"amount":       amount,
		})

		if r.Remaining <= 0 {
			r.Remaining = 0
			r.State = world.ResourceDepleted
			w.Emit(world.EvResourceDepleted, []string{r.ID}, &r.Pos, map[string]any{
				"resourceType": string(r.Type),
			})
			if r.Type == world.ResourceTree && w.Rng.KeyedChance(world.SeedDropChance, seedDropKey(r.ID, w.Tick)) {
				a.AddItem("tree_seed", 1)
			}
			e.detachGather(a)
			a.Status = world.StatusIdle
		}
	}
}

// RespawnTick restores dead humans whose respawn tick has arrived: full
// health, spawn point, idle. Monsters never respawn.
func (e *Engine) RespawnTick() {
	w := e.W
	spawn := world.Position{X: world.SpawnX, Y: world.SpawnY}
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		if a.Status != world.StatusDead || !a.Human() {
			continue
		}
		if a.RespawnTick == 0 || a.RespawnTick > w.Tick {
			continue
		}
		a.HP = a.MaxHP
		w.MoveAgent(a, spawn)
		a.Status = world.StatusIdle
		a.Alive = true
		a.RespawnTick = 0
		w.Emit(world.EvRespawn, []string{a.ID}, &spawn, nil)
	}
}
