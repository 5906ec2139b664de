package game

import "github.com/wildgrid/server/internal/world"

// combatant unifies the three damageable entity kinds for pair resolution.
type combatant struct {
	kind    targetKind
	agent   *world.Agent
	npc     *world.Npc
	behemot *world.Behemoth
}

func (e *Engine) lookupCombatant(id string) combatant {
	if a := e.W.Agents[id]; a != nil {
		return combatant{kind: targetAgent, agent: a}
	}
	if n := e.W.Npcs[id]; n != nil {
		return combatant{kind: targetNpc, npc: n}
	}
	if b := e.W.Behemoths[id]; b != nil {
		return combatant{kind: targetBehemoth, behemot: b}
	}
	return combatant{kind: targetNone}
}

func (c combatant) alive() bool {
	switch c.kind {
	case targetAgent:
		return c.agent.Alive && c.agent.Status != world.StatusDead
	case targetNpc:
		return c.npc.HP > 0
	case targetBehemoth:
		return c.behemot.HP > 0
	}
	return false
}

func (c combatant) pos() world.Position {
	switch c.kind {
	case targetAgent:
		return c.agent.Pos
	case targetNpc:
		return c.npc.Pos
	case targetBehemoth:
		return c.behemot.Pos
	}
	return world.Position{}
}

func (c combatant) attack() int {
	switch c.kind {
	case targetAgent:
		return c.agent.EffectiveAttack()
	case targetNpc:
		return c.npc.Attack
	case targetBehemoth:
		return c.behemot.Attack
	}
	return 0
}

func (c combatant) defense() int {
	switch c.kind {
	case targetAgent:
		return c.agent.EffectiveDefense()
	case targetNpc:
		return c.npc.Defense
	case targetBehemoth:
		return c.behemot.Defense
	}
	return 0
}

func (c combatant) hp() int {
	switch c.kind {
	case targetAgent:
		return c.agent.HP
	case targetNpc:
		return c.npc.HP
	case targetBehemoth:
		return c.behemot.HP
	}
	return 0
}

// hit subtracts damage, clamping health at 0, and returns remaining health.
func (c combatant) hit(damage int) int {
	switch c.kind {
	case targetAgent:
		c.agent.HP -= damage
		if c.agent.HP < 0 {
			c.agent.HP = 0
		}
		return c.agent.HP
	case targetNpc:
		c.npc.HP -= damage
		if c.npc.HP < 0 {
			c.npc.HP = 0
		}
		return c.npc.HP
	case targetBehemoth:
		c.behemot.HP -= damage
		if c.behemot.HP < 0 {
			c.behemot.HP = 0
		}
		return c.behemot.HP
	}
	return 0
}

// counters reports whether the defender strikes back. Merchants never
// counter; behemoths are resolved by the behemoth processor.
func (c combatant) counters() bool {
	switch c.kind {
	case targetAgent:
		return c.agent.Role == world.RoleFighter || c.agent.Role == world.RoleMonster
	case targetNpc:
		return true
	}
	return false
}

// CombatTick resolves every active combat pair in attachment order: validate
// the pair, apply the attacker's hit, then the defender's counter.
func (e *Engine) CombatTick() {
	w := e.W
	for _, p := range e.Pairs {
		if !p.Active {
			continue
		}
		atk := e.lookupCombatant(p.AttackerID)
		def := e.lookupCombatant(p.TargetID)

		if atk.kind == targetNone || def.kind == targetNone || !atk.alive() || !def.alive() {
			p.Active = false
			e.returnToIdle(atk)
			e.returnToIdle(def)
			continue
		}
		if world.Dist(atk.pos(), def.pos()) > world.AttackRange {
			p.Active = false
			e.returnToIdle(atk)
			e.returnToIdle(def)
			continue
		}

		dmg := e.damage(atk.attack(), def.defense())
		after := def.hit(dmg)
		w.Emit(world.EvCombatHit, []string{p.AttackerID, p.TargetID}, nil, map[string]any{
			"damage":       dmg,
			"targetHealth": after,
		})

		if after <= 0 && def.kind != targetBehemoth {
			e.kill(p.TargetID, p.AttackerID)
			p.Active = false
			e.returnToIdle(atk)
			continue
		}

		if def.counters() {
			counter := e.damage(def.attack(), atk.defense())
			atkAfter := atk.hit(counter)
			w.Emit(world.EvCombatHit, []string{p.TargetID, p.AttackerID}, nil, map[string]any{
				"damage":       counter,
				"targetHealth": atkAfter,
			})
			if atkAfter <= 0 && atk.kind != targetBehemoth {
				e.kill(p.AttackerID, p.TargetID)
				p.Active = false
			}
		}
	}
}

// returnToIdle resets a surviving fighting agent to idle. NPCs and behemoths
// manage their own state machines.
func (e *Engine) returnToIdle(c combatant) {
	if c.kind == targetAgent && c.agent.Alive && c.agent.Status == world.StatusFighting {
		c.agent.Status = world.StatusIdle
	}
}

// deactivatePairsOf deactivates every pair the entity participates in,
// returning each surviving counterpart to idle.
func (e *Engine) deactivatePairsOf(id string) {
	for _, p := range e.Pairs {
		if !p.Active || (p.AttackerID != id && p.TargetID != id) {
			continue
		}
		p.Active = false
		other := p.TargetID
		if other == id {
			other = p.AttackerID
		}
		e.returnToIdle(e.lookupCombatant(other))
	}
}
