package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/world"
)

// Execute applies one approved action. The validator has already passed it;
// remaining pre-checks guard invariants the validator cannot reach (inventory
// still covering a craft at execution time). Those failures are logged and the
// tick continues.
func (e *Engine) Execute(act Action) {
	w := e.W
	a := w.Agents[act.AgentID]
	if a == nil || !a.Alive {
		return
	}
	a.LastActionTick = w.Tick

	switch act.Type {
	case ActMove:
		e.detachGather(a)
		dest := world.Position{X: act.Move.X, Y: act.Move.Y}
		a.Dest = &dest
		a.Status = world.StatusMoving

	case ActGather:
		r := w.Resources[act.Gather.TargetID]
		if r == nil || r.State != world.ResourceAvailable {
			return
		}
		e.detachGather(a)
		a.Status = world.StatusGathering
		a.GatherTarget = r.ID
		a.GatherStart = w.Tick
		r.State = world.ResourceBeingGathered
		r.GatheredBy = a.ID

	case ActAttack:
		// An active pair between the two already deals both sides' damage
		// every tick; a second attack in either direction is a no-op.
		if e.pairBetween(a.ID, act.Attack.TargetID) != nil {
			a.Status = world.StatusFighting
			return
		}
		e.Pairs = append(e.Pairs, &CombatPair{
			AttackerID: a.ID,
			TargetID:   act.Attack.TargetID,
			StartTick:  w.Tick,
			Active:     true,
		})
		a.Status = world.StatusFighting

	case ActTalk:
		e.executeTalk(a, act.Talk)

	case ActInspect:
		e.executeInspect(a, act.Inspect.TargetID)

	case ActTrade:
		t := &world.Trade{
			ID:        w.NextTradeID(),
			Buyer:     a.ID,
			Seller:    act.Trade.TargetID,
			Offer:     act.Trade.Offer,
			Request:   act.Trade.Request,
			Status:    world.TradePending,
			CreatedAt: w.Tick,
		}
		w.Trades[t.ID] = t

	case ActAcceptTrade:
		e.resolveTrade(a, act.TradeReply.TradeID, true)

	case ActRejectTrade:
		e.resolveTrade(a, act.TradeReply.TradeID, false)

	case ActCraft:
		e.executeCraft(a, act.Craft.RecipeID)

	case ActPlant:
		if !a.RemoveItem(act.Plant.SeedID, 1) {
			e.Log.Warn("plant passed validation but seed vanished",
				zap.String("agent", a.ID), zap.String("seed", act.Plant.SeedID))
			return
		}
		sap := &world.Resource{
			ID:                 w.NextResourceID(),
			Type:               world.ResourceSapling,
			Pos:                world.Clamp(world.Position{X: act.Plant.X, Y: act.Plant.Y}),
			Remaining:          0,
			MaxCapacity:        treeCapacity,
			State:              world.ResourceGrowing,
			GrowthStartTick:    w.Tick,
			GrowthCompleteTick: w.Tick + world.SaplingGrowTicks,
		}
		w.AddResource(sap)

	case ActWater:
		sap := w.SaplingAt(world.Position{X: act.Water.X, Y: act.Water.Y})
		if sap == nil {
			return
		}
		sap.GrowthCompleteTick -= world.WaterBonusTicks
		if min := w.Tick + 1; sap.GrowthCompleteTick < min {
			sap.GrowthCompleteTick = min
		}

	case ActFeed:
		b := w.Behemoths[act.Feed.BehemothID]
		if b == nil || !a.RemoveItem(act.Feed.ItemID, 1) {
			return
		}
		e.feedBehemoth(b)

	case ActClimb:
		b := w.Behemoths[act.Climb.BehemothID]
		if b == nil || b.Status != world.BehemothUnconscious {
			return
		}
		a.Status = world.StatusClimbing
		a.ClimbTarget = b.ID
		b.AddClimber(a.ID)

	case ActFormAlliance:
		name := act.Alliance.Name
		if _, taken := w.Alliances[name]; taken || a.Alliance != "" {
			return
		}
		w.Alliances[name] = &world.Alliance{
			Name:      name,
			Founder:   a.ID,
			Members:   map[string]struct{}{a.ID: {}},
			CreatedAt: w.Tick,
		}
		a.Alliance = name

	case ActJoinAlliance:
		al := w.Alliances[act.Alliance.Name]
		if al == nil || a.Alliance != "" {
			return
		}
		al.Members[a.ID] = struct{}{}
		a.Alliance = al.Name

	case ActLeaveAlliance:
		e.leaveAlliance(a)

	case ActIdle:
		if a.Status != world.StatusDead {
			e.detachGather(a)
			a.Dest = nil
			a.Status = world.StatusIdle
		}
	}
}

// treeCapacity is the log capacity of a fully grown tree.
const treeCapacity = 10

func (e *Engine) executeTalk(a *world.Agent, p *TalkParams) {
	msg := &world.ChatMessage{
		SenderID:   a.ID,
		SenderName: a.Name,
		Mode:       world.ChatMode(p.Mode),
		Content:    p.Message,
		TargetID:   p.TargetID,
		Pos:        a.Pos,
	}
	switch msg.Mode {
	case world.ChatWhisper:
		msg.Recipients = []string{a.ID, p.TargetID}
	case world.ChatLocal:
		var ids []string
		for _, id := range e.W.Grid.InRadius(a.Pos, world.LocalChatRange) {
			if _, ok := e.W.Agents[id]; ok {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		msg.Recipients = ids
	case world.ChatBroadcast:
		msg.All = true
	}
	e.W.Say(msg)
}

// executeInspect answers an inspect with a targeted event carrying the
// target's public view.
func (e *Engine) executeInspect(a *world.Agent, targetID string) {
	w := e.W
	data := map[string]any{}
	switch {
	case w.Agents[targetID] != nil:
		t := w.Agents[targetID]
		data["name"] = t.Name
		data["role"] = string(t.Role)
		data["status"] = string(t.Status)
		data["health"] = t.HP
		data["maxHealth"] = t.MaxHP
		data["evolutionStage"] = t.EvolutionStage
	case w.Npcs[targetID] != nil:
		n := w.Npcs[targetID]
		data["template"] = n.Template
		data["health"] = n.HP
		data["maxHealth"] = n.MaxHP
		data["isNpc"] = true
	case w.Behemoths[targetID] != nil:
		b := w.Behemoths[targetID]
		data["type"] = b.Type
		data["status"] = string(b.Status)
		data["oreAvailable"] = b.OreAmount > 0
	default:
		return
	}
	w.Emit(world.EvInspectResult, []string{a.ID, targetID}, nil, data)
}

func (e *Engine) executeCraft(a *world.Agent, recipeID string) {
	recipe, ok := e.Tables.Recipe(recipeID)
	if !ok {
		e.Log.Debug("craft for unknown recipe dropped", zap.String("recipe", recipeID))
		return
	}
	for _, in := range recipe.Inputs {
		if a.CountItem(in.ItemID) < in.Quantity {
			return
		}
	}
	for _, in := range recipe.Inputs {
		a.RemoveItem(in.ItemID, in.Quantity)
	}
	job := &world.CraftingJob{
		ID:           e.W.NextCraftID(),
		AgentID:      a.ID,
		RecipeID:     recipeID,
		StartTick:    e.W.Tick,
		CompleteTick: e.W.Tick + recipe.Duration,
	}
	e.W.Crafting[job.ID] = job
	a.Status = world.StatusCrafting
}

// detachGather releases the agent's gather attachment, returning the resource
// to available if it was mid-gather.
func (e *Engine) detachGather(a *world.Agent) {
	if a.GatherTarget == "" {
		return
	}
	if r := e.W.Resources[a.GatherTarget]; r != nil && r.GatheredBy == a.ID {
		r.GatheredBy = ""
		if r.State == world.ResourceBeingGathered {
			r.State = world.ResourceAvailable
		}
	}
	a.GatherTarget = ""
	a.GatherStart = 0
}

// leaveAlliance removes the agent from its alliance; an emptied alliance is
// deleted.
func (e *Engine) leaveAlliance(a *world.Agent) {
	if a.Alliance == "" {
		return
	}
	if al := e.W.Alliances[a.Alliance]; al != nil {
		delete(al.Members, a.ID)
		if len(al.Members) == 0 {
			delete(e.W.Alliances, al.Name)
		}
	}
	a.Alliance = ""
}

// seedDropKey keys the seed-drop roll so replaying the same (resource, tick)
// yields the same outcome regardless of unrelated draws.
func seedDropKey(resourceID string, tick int64) string {
	return fmt.Sprintf("seed-drop:%s:%d", resourceID, tick)
}
