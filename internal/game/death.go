package game

import "github.com/wildgrid/server/internal/world"

// kill applies the death protocol to a defeated entity. killerID may name an
// agent, an NPC, or a behemoth; loot is only awarded to agent killers.
func (e *Engine) kill(victimID, killerID string) {
	w := e.W
	killer := w.Agents[killerID]

	if npc := w.Npcs[victimID]; npc != nil {
		droppedGold := npc.GoldDrop
		if killer != nil {
			killer.Gold += droppedGold
		}
		pos := npc.Pos
		w.Emit(world.EvDeath, []string{victimID, killerID}, &pos, map[string]any{
			"droppedGold":  droppedGold,
			"droppedItems": []any{},
		})
		w.RemoveNpc(victimID)
		e.deactivatePairsOf(victimID)
		if killer != nil && killer.Role == world.RoleMonster {
			killer.Kills++
			e.monsterEat(killer, npc.MaxHP, npc.Attack, npc.Defense)
			e.evolutionCheck(killer)
		}
		return
	}

	victim := w.Agents[victimID]
	if victim == nil {
		return
	}
	e.detachGather(victim)
	victim.Dest = nil
	victim.HP = 0
	victim.Status = world.StatusDead
	e.deactivatePairsOf(victimID)

	if victim.Role == world.RoleMonster {
		// Permadeath: monster agents never come back.
		victim.Alive = false
		droppedGold := victim.Gold
		victim.Gold = 0
		if killer != nil {
			killer.Gold += droppedGold
		}
		pos := victim.Pos
		w.Emit(world.EvDeath, []string{victimID, killerID}, &pos, map[string]any{
			"droppedGold":  droppedGold,
			"droppedItems": []any{},
		})
		if killer != nil && killer.Role == world.RoleMonster {
			killer.Kills++
			e.monsterEat(killer, victim.MaxHP, victim.EffectiveAttack(), victim.EffectiveDefense())
			e.evolutionCheck(killer)
		}
		return
	}

	// Humans lose 20% of gold and 20% of each stack, then respawn at spawn.
	droppedGold := int(float64(victim.Gold) * world.DeathLossFraction)
	victim.Gold -= droppedGold
	var droppedItems []any
	for i := range victim.Inventory {
		s := &victim.Inventory[i]
		lost := int(float64(s.Quantity) * world.DeathLossFraction)
		if lost <= 0 {
			continue
		}
		s.Quantity -= lost
		droppedItems = append(droppedItems, map[string]any{"itemId": s.ItemID, "quantity": lost})
		if killer != nil {
			killer.AddItem(s.ItemID, lost)
		}
	}
	compact := victim.Inventory[:0]
	for _, s := range victim.Inventory {
		if s.Quantity > 0 {
			compact = append(compact, s)
		}
	}
	victim.Inventory = compact
	if killer != nil {
		killer.Gold += droppedGold
	}

	deathPos := victim.Pos
	victim.RespawnTick = w.Tick + world.RespawnDelayTicks
	w.MoveAgent(victim, world.Position{X: world.SpawnX, Y: world.SpawnY})
	w.Emit(world.EvDeath, []string{victimID, killerID}, &deathPos, map[string]any{
		"droppedGold":  droppedGold,
		"droppedItems": droppedItems,
	})
	if killer != nil && killer.Role == world.RoleMonster {
		killer.Kills++
		e.evolutionCheck(killer)
	}
}

// monsterEat grants the eater 10% (floored) of the eaten's max health, attack,
// and defense. Health rises by the max-health gain, capped at the new max.
func (e *Engine) monsterEat(eater *world.Agent, maxHP, attack, defense int) {
	hpGain := maxHP / 10
	eater.MaxHP += hpGain
	eater.Attack += attack / 10
	eater.Defense += defense / 10
	eater.HP += hpGain
	if eater.HP > eater.MaxHP {
		eater.HP = eater.MaxHP
	}
	eater.MonsterEats++
	e.W.Emit(world.EvMonsterEat, []string{eater.ID}, &eater.Pos, map[string]any{
		"monsterEats": eater.MonsterEats,
	})
}

// evolutionCheck promotes a monster agent to the highest qualifying stage, at
// most one transition per evaluation. Stats scale from the previous stage's
// multipliers so eat-accrued bonuses survive; health heals to the new max.
func (e *Engine) evolutionCheck(a *world.Agent) {
	if a.Role != world.RoleMonster {
		return
	}
	tiers := e.Scripts.EvolutionTiers()
	mulOf := func(stage int) (float64, float64) {
		for _, t := range tiers {
			if t.Stage == stage {
				return t.AttackMul, t.HealthMul
			}
		}
		return 1.0, 1.0
	}
	best := 0
	for _, t := range tiers {
		if t.Stage <= a.EvolutionStage {
			continue
		}
		if a.Kills >= t.MinKills || a.MonsterEats >= t.MinEats {
			if t.Stage > best {
				best = t.Stage
			}
		}
	}
	if best == 0 {
		return
	}
	from := a.EvolutionStage
	prevAtk, prevHP := mulOf(from)
	newAtk, newHP := mulOf(best)
	a.Attack = int(float64(a.Attack) / prevAtk * newAtk)
	a.MaxHP = int(float64(a.MaxHP) / prevHP * newHP)
	a.HP = a.MaxHP
	a.EvolutionStage = best
	e.W.Emit(world.EvEvolution, []string{a.ID}, &a.Pos, map[string]any{
		"from": from,
		"to":   best,
	})
}
