package game

import (
	"sort"

	"github.com/wildgrid/server/internal/world"
)

// MonsterTick advances every NPC's behavior state machine.
func (e *Engine) MonsterTick() {
	for _, id := range e.W.SortedNpcIDs() {
		npc := e.W.Npcs[id]
		if npc == nil || npc.HP <= 0 {
			continue
		}
		e.npcBehaviorTick(npc)
	}
}

// PopulationTick runs the periodic spawner on its cadence. Called by the tick
// loop as its own stage, after respawns.
func (e *Engine) PopulationTick() {
	if e.W.Tick > 0 && e.W.Tick%world.NpcSpawnCheckTicks == 0 {
		e.populationTick()
	}
}

func (e *Engine) npcBehaviorTick(npc *world.Npc) {
	switch npc.Behavior {
	case world.BehaviorPatrol, world.BehaviorIdle, world.BehaviorFlee:
		e.npcPatrol(npc)
	case world.BehaviorChase:
		e.npcChase(npc)
	case world.BehaviorAttack:
		e.npcAttack(npc)
	}
}

// npcPatrol random-walks inside the patrol radius and scans for prey.
func (e *Engine) npcPatrol(npc *world.Npc) {
	if target := e.findPrey(npc, world.NpcAggroRange); target != nil {
		npc.Behavior = world.BehaviorChase
		npc.TargetID = target.ID
		return
	}

	step := world.Position{
		X: npc.Pos.X + e.W.Rng.Range(-npc.Speed, npc.Speed),
		Y: npc.Pos.Y + e.W.Rng.Range(-npc.Speed, npc.Speed),
	}
	step = world.Clamp(step)
	if world.Dist(step, npc.PatrolOrigin) <= npc.PatrolRadius {
		e.W.MoveNpc(npc, step)
	}
}

func (e *Engine) npcChase(npc *world.Npc) {
	target := e.validPrey(npc.TargetID)
	if target == nil || world.Dist(npc.Pos, target.Pos) > world.NpcChaseRange {
		npc.Behavior = world.BehaviorPatrol
		npc.TargetID = ""
		return
	}
	if world.Dist(npc.Pos, target.Pos) <= world.NpcAttackRange {
		npc.Behavior = world.BehaviorAttack
		return
	}
	next, _ := world.StepToward(npc.Pos, target.Pos, npc.Speed)
	e.W.MoveNpc(npc, next)
}

func (e *Engine) npcAttack(npc *world.Npc) {
	target := e.validPrey(npc.TargetID)
	if target == nil {
		npc.Behavior = world.BehaviorPatrol
		npc.TargetID = ""
		return
	}
	if world.Dist(npc.Pos, target.Pos) > world.NpcAttackRange {
		npc.Behavior = world.BehaviorChase
		return
	}
	// Damage is dealt through a combat pair the resolver observes each tick.
	// The target may already hold the pair from its own attack; the counter
	// carries this NPC's damage then.
	if e.pairBetween(npc.ID, target.ID) == nil {
		e.Pairs = append(e.Pairs, &CombatPair{
			AttackerID: npc.ID,
			TargetID:   target.ID,
			StartTick:  e.W.Tick,
			Active:     true,
		})
	}
}

// validPrey returns the agent iff it is still a live human target.
func (e *Engine) validPrey(id string) *world.Agent {
	a := e.W.Agents[id]
	if a == nil || !a.Alive || a.Status == world.StatusDead || !a.Human() {
		return nil
	}
	return a
}

// findPrey returns the nearest alive human agent within radius, ties broken
// by agent id. NPCs never target monster-role agents.
func (e *Engine) findPrey(npc *world.Npc, radius float64) *world.Agent {
	ids := e.W.Grid.InRadius(npc.Pos, radius)
	sort.Strings(ids)
	var best *world.Agent
	bestDist := radius + 1
	for _, id := range ids {
		a := e.W.Agents[id]
		if a == nil || !a.Alive || a.Status == world.StatusDead || !a.Human() {
			continue
		}
		if d := world.Dist(npc.Pos, a.Pos); d < bestDist {
			bestDist = d
			best = a
		}
	}
	return best
}

// populationTick keeps the NPC count tracking the human population: target is
// floor(humans × 1.5), topped up at most NpcMaxSpawnPerTick per check.
func (e *Engine) populationTick() {
	w := e.W
	humans := 0
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		if a.Human() && a.Alive && a.Connected {
			humans++
		}
	}
	alive := 0
	for _, id := range w.SortedNpcIDs() {
		if w.Npcs[id].HP > 0 {
			alive++
		}
	}
	target := int(float64(humans) * world.NpcPopulationRatio)
	if alive >= target {
		return
	}
	n := target - alive
	if n > world.NpcMaxSpawnPerTick {
		n = world.NpcMaxSpawnPerTick
	}
	names := make([]string, 0, len(e.Tables.Npcs))
	for name := range e.Tables.Npcs {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		name := names[w.Rng.Intn(len(names))]
		npc := e.spawnNpc(name, e.dangerousPosition())
		if npc != nil {
			w.Emit(world.EvNpcSpawn, []string{npc.ID}, &npc.Pos, map[string]any{
				"template": npc.Template,
			})
		}
	}
}

// dangerousPosition draws a spawn point outside the safe zone around spawn.
func (e *Engine) dangerousPosition() world.Position {
	spawn := world.Position{X: world.SpawnX, Y: world.SpawnY}
	for i := 0; i < 16; i++ {
		p := world.Position{
			X: e.W.Rng.Range(0, world.WorldSize),
			Y: e.W.Rng.Range(0, world.WorldSize),
		}
		if world.Dist(p, spawn) > world.SafeZoneRadius {
			return p
		}
	}
	return world.Position{X: 100, Y: 100}
}

// spawnNpc instantiates a template at a position and registers it.
func (e *Engine) spawnNpc(template string, pos world.Position) *world.Npc {
	tmpl, ok := e.Tables.Npc(template)
	if !ok {
		return nil
	}
	npc := &world.Npc{
		ID:           e.W.NextNpcID(),
		Template:     template,
		Pos:          pos,
		HP:           tmpl.HP,
		MaxHP:        tmpl.HP,
		Attack:       tmpl.Attack,
		Defense:      tmpl.Defense,
		Speed:        tmpl.Speed,
		Behavior:     world.BehaviorPatrol,
		PatrolOrigin: pos,
		PatrolRadius: tmpl.PatrolRadius,
		GoldDrop:     tmpl.GoldDrop,
	}
	e.W.AddNpc(npc)
	return npc
}
