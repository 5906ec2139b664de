package game

import (
	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/data"
	"github.com/wildgrid/server/internal/world"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(world.NewState(seed), data.Default(), nil, zap.NewNop())
}

func spawnAt(e *Engine, name string, role world.Role, x, y float64) *world.Agent {
	a := e.SpawnAgent(name, role)
	e.W.MoveAgent(a, world.Position{X: x, Y: y})
	return a
}

func npcAt(e *Engine, template string, x, y float64) *world.Npc {
	return e.spawnNpc(template, world.Position{X: x, Y: y})
}

func treeAt(e *Engine, x, y float64, remaining int) *world.Resource {
	r := &world.Resource{
		ID:          e.W.NextResourceID(),
		Type:        world.ResourceTree,
		Pos:         world.Position{X: x, Y: y},
		Remaining:   remaining,
		MaxCapacity: treeCapacity,
		State:       world.ResourceAvailable,
	}
	e.W.AddResource(r)
	return r
}

func veinAt(e *Engine, x, y float64, remaining int) *world.Resource {
	r := &world.Resource{
		ID:          e.W.NextResourceID(),
		Type:        world.ResourceGoldVein,
		Pos:         world.Position{X: x, Y: y},
		Remaining:   remaining,
		MaxCapacity: goldVeinCapacity,
		State:       world.ResourceAvailable,
	}
	e.W.AddResource(r)
	return r
}

func behemothAt(e *Engine, typ string, x, y float64, hp, oreMax int) *world.Behemoth {
	b := &world.Behemoth{
		ID:      e.W.NextBehemothID(),
		Type:    typ,
		Pos:     world.Position{X: x, Y: y},
		HP:      hp,
		MaxHP:   hp,
		Attack:  20,
		Defense: 15,
		Status:  world.BehemothRoaming,
		OreMax:  oreMax,
	}
	e.W.AddBehemoth(b)
	return b
}
