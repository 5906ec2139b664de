package game

import (
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/wildgrid/server/internal/world"
)

// Seeding density. Positions come from the world's seeded source and a
// seed-derived noise field, so the same seed always produces the same map.
const (
	seedTreeCount = 160
	seedVeinCount = 40
	seedNpcCount  = 24

	goldVeinCapacity = 50

	noiseScale      = 0.004
	forestThreshold = 0.15  // noise above this is forest (trees)
	ridgeThreshold  = -0.25 // noise below this is ridge (gold veins)
)

// SeedWorld deterministically populates an empty world: resources weighted by
// a noise terrain, an initial NPC population, and the behemoths with their
// routes from the data tables.
func (e *Engine) SeedWorld() {
	w := e.W
	noise := opensimplex.NewNormalized(w.Rng.Seed())

	terrain := func(p world.Position) float64 {
		return noise.Eval2(p.X*noiseScale, p.Y*noiseScale)*2 - 1
	}
	draw := func() world.Position {
		return world.Position{
			X: w.Rng.Range(0, world.WorldSize),
			Y: w.Rng.Range(0, world.WorldSize),
		}
	}
	// Rejection-sample toward terrain that suits the resource; settle for the
	// last draw when the terrain refuses to cooperate.
	place := func(want func(world.Position) bool) world.Position {
		var p world.Position
		for i := 0; i < 24; i++ {
			p = draw()
			if want(p) {
				return p
			}
		}
		return p
	}

	for i := 0; i < seedTreeCount; i++ {
		p := place(func(p world.Position) bool { return terrain(p) > forestThreshold })
		w.AddResource(&world.Resource{
			ID:          w.NextResourceID(),
			Type:        world.ResourceTree,
			Pos:         p,
			Remaining:   treeCapacity,
			MaxCapacity: treeCapacity,
			State:       world.ResourceAvailable,
		})
	}

	for i := 0; i < seedVeinCount; i++ {
		p := place(func(p world.Position) bool { return terrain(p) < ridgeThreshold })
		w.AddResource(&world.Resource{
			ID:          w.NextResourceID(),
			Type:        world.ResourceGoldVein,
			Pos:         p,
			Remaining:   goldVeinCapacity,
			MaxCapacity: goldVeinCapacity,
			State:       world.ResourceAvailable,
		})
	}

	names := make([]string, 0, len(e.Tables.Npcs))
	for name := range e.Tables.Npcs {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		for i := 0; i < seedNpcCount; i++ {
			e.spawnNpc(names[w.Rng.Intn(len(names))], e.dangerousPosition())
		}
	}

	for _, tmpl := range e.Tables.Behemoths {
		route := make([]world.Position, 0, len(tmpl.Route))
		for _, wp := range tmpl.Route {
			route = append(route, world.Position{X: wp.X, Y: wp.Y})
		}
		pos := world.Position{X: world.SpawnX, Y: world.SpawnY}
		if len(route) > 0 {
			pos = route[0]
		}
		w.AddBehemoth(&world.Behemoth{
			ID:      w.NextBehemothID(),
			Type:    tmpl.Type,
			Pos:     pos,
			HP:      tmpl.HP,
			MaxHP:   tmpl.HP,
			Attack:  tmpl.Attack,
			Defense: tmpl.Defense,
			Status:  world.BehemothRoaming,
			OreMax:  tmpl.OreMax,
			Route:   route,
		})
	}
}
