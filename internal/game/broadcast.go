package game

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/proto"
	"github.com/wildgrid/server/internal/world"
)

// Broadcast builds one fog-of-war-filtered TickUpdate per connected agent and
// hands the serialized payloads to the sink. World state is read-only here:
// all mutation for the tick has already happened.
func (e *Engine) Broadcast(res *TickResult) {
	if e.sink == nil {
		return
	}
	for _, id := range e.W.SortedAgentIDs() {
		a := e.W.Agents[id]
		if !a.Connected {
			continue
		}
		update := proto.TickUpdate{
			Type: proto.STickUpdate,
			Data: e.BuildTickUpdate(a, res.Tick),
		}
		payload, err := json.Marshal(update)
		if err != nil {
			e.Log.Error("marshal tick update", zap.String("agent", a.ID), zap.Error(err))
			continue
		}
		e.sink.SendToAgent(a.ID, payload)

		for _, rej := range res.Rejected {
			if rej.Action.AgentID != a.ID {
				continue
			}
			env, err := json.Marshal(proto.ActionRejected{
				Type:   proto.SActionRejected,
				Action: string(rej.Action.Type),
				Reason: rej.Reason,
			})
			if err != nil {
				continue
			}
			e.sink.SendToAgent(a.ID, env)
		}
	}
}

// BuildTickUpdate assembles one agent's personalized view of the tick.
func (e *Engine) BuildTickUpdate(a *world.Agent, tick int64) proto.TickUpdateData {
	data := proto.TickUpdateData{
		Tick:     tick,
		Self:     selfView(a, tick),
		Nearby:   e.nearbyView(a),
		Messages: []proto.MessageView{},
		Events:   []proto.EventView{},
	}
	for _, m := range e.W.TickMessages {
		if !m.DeliversTo(a.ID) {
			continue
		}
		data.Messages = append(data.Messages, proto.MessageView{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Mode:       string(m.Mode),
			Content:    m.Content,
		})
	}
	for _, ev := range e.W.TickEvents {
		if !e.eventVisible(a, ev) {
			continue
		}
		data.Events = append(data.Events, proto.EventView{
			ID:     ev.ID,
			Tick:   ev.Tick,
			Type:   ev.Type,
			Actors: ev.Actors,
			Data:   ev.Data,
		})
	}
	return data
}

// eventVisible reports whether an event reaches the agent: the agent is named
// by it, or any named entity (or the event position) lies within vision.
func (e *Engine) eventVisible(a *world.Agent, ev *world.Event) bool {
	for _, id := range ev.Actors {
		if id == a.ID {
			return true
		}
	}
	if ev.Pos != nil && world.Dist(a.Pos, *ev.Pos) <= a.VisionRadius {
		return true
	}
	for _, id := range ev.Actors {
		if p, ok := e.W.EntityPosition(id); ok && world.Dist(a.Pos, p) <= a.VisionRadius {
			return true
		}
	}
	return false
}

func selfView(a *world.Agent, tick int64) proto.SelfView {
	cooldown := a.CooldownUntil - tick
	if cooldown < 0 {
		cooldown = 0
	}
	inv := make([]proto.ItemStack, 0, len(a.Inventory))
	for _, s := range a.Inventory {
		inv = append(inv, proto.ItemStack{ItemID: s.ItemID, Quantity: s.Quantity})
	}
	return proto.SelfView{
		ID:             a.ID,
		Name:           a.Name,
		Role:           string(a.Role),
		Position:       proto.Position{X: a.Pos.X, Y: a.Pos.Y},
		Status:         string(a.Status),
		Health:         a.HP,
		MaxHealth:      a.MaxHP,
		Attack:         a.EffectiveAttack(),
		Defense:        a.EffectiveDefense(),
		Speed:          a.Speed,
		VisionRadius:   a.VisionRadius,
		Gold:           a.Gold,
		Inventory:      inv,
		Equipment:      proto.Equipment{Weapon: a.Equipment.Weapon, Armor: a.Equipment.Armor, Tool: a.Equipment.Tool},
		Alliance:       a.Alliance,
		Kills:          a.Kills,
		EvolutionStage: a.EvolutionStage,
		ActionCooldown: cooldown,
	}
}

// nearbyView partitions everything within the agent's vision radius. The
// agent itself is never included. Other agents get the public view only.
func (e *Engine) nearbyView(a *world.Agent) proto.NearbyView {
	w := e.W
	nearby := proto.NearbyView{
		Agents:     []proto.AgentView{},
		Resources:  []proto.ResourceView{},
		Monsters:   []proto.MonsterView{},
		Behemoths:  []proto.BehemothView{},
		Structures: []proto.StructureView{},
	}
	ids := w.Grid.InRadius(a.Pos, a.VisionRadius)
	sort.Strings(ids)
	for _, id := range ids {
		if id == a.ID {
			continue
		}
		switch {
		case w.Agents[id] != nil:
			o := w.Agents[id]
			nearby.Agents = append(nearby.Agents, proto.AgentView{
				ID:             o.ID,
				Name:           o.Name,
				Role:           string(o.Role),
				Position:       proto.Position{X: o.Pos.X, Y: o.Pos.Y},
				Status:         string(o.Status),
				Health:         o.HP,
				MaxHealth:      o.MaxHP,
				Alliance:       o.Alliance,
				EvolutionStage: o.EvolutionStage,
			})
		case w.Resources[id] != nil:
			r := w.Resources[id]
			nearby.Resources = append(nearby.Resources, proto.ResourceView{
				ID:          r.ID,
				Type:        string(r.Type),
				Position:    proto.Position{X: r.Pos.X, Y: r.Pos.Y},
				Remaining:   r.Remaining,
				MaxCapacity: r.MaxCapacity,
				State:       string(r.State),
			})
		case w.Npcs[id] != nil:
			n := w.Npcs[id]
			nearby.Monsters = append(nearby.Monsters, proto.MonsterView{
				ID:        n.ID,
				Name:      n.Template,
				Position:  proto.Position{X: n.Pos.X, Y: n.Pos.Y},
				Health:    n.HP,
				MaxHealth: n.MaxHP,
				Behavior:  string(n.Behavior),
				IsNpc:     true,
			})
		case w.Behemoths[id] != nil:
			b := w.Behemoths[id]
			remaining := int64(0)
			if b.Status == world.BehemothUnconscious && b.UnconsciousUntil > w.Tick {
				remaining = b.UnconsciousUntil - w.Tick
			}
			nearby.Behemoths = append(nearby.Behemoths, proto.BehemothView{
				ID:                        b.ID,
				Type:                      b.Type,
				Position:                  proto.Position{X: b.Pos.X, Y: b.Pos.Y},
				Health:                    b.HP,
				MaxHealth:                 b.MaxHP,
				Status:                    string(b.Status),
				OreAvailable:              b.OreAmount > 0,
				UnconsciousTicksRemaining: remaining,
			})
		case w.Structures[id] != nil:
			st := w.Structures[id]
			nearby.Structures = append(nearby.Structures, proto.StructureView{
				ID:       st.ID,
				Type:     st.Type,
				Position: proto.Position{X: st.Pos.X, Y: st.Pos.Y},
				Owner:    st.Owner,
				Alliance: st.Alliance,
			})
		}
	}
	return nearby
}
