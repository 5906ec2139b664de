package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wildgrid/server/internal/world"
)

func TestNpcBehaviorTransitions(t *testing.T) {
	Convey("When an NPC patrols near a human", t, func() {
		e := newTestEngine(1)
		n := npcAt(e, "wolf", 300, 300)
		a := spawnAt(e, "mora", world.RoleFighter, 303, 300)

		So(n.Behavior, ShouldEqual, world.BehaviorPatrol)

		Convey("When the human is inside aggro range", func() {
			e.MonsterTick()
			So(n.Behavior, ShouldEqual, world.BehaviorChase)
			So(n.TargetID, ShouldEqual, a.ID)

			Convey("When the target is already in attack range", func() {
				e.MonsterTick()
				So(n.Behavior, ShouldEqual, world.BehaviorAttack)

				Convey("When the attack state engages", func() {
					e.MonsterTick()
					So(e.pairFor(n.ID, a.ID), ShouldNotBeNil)
				})
			})
		})

		Convey("When the target escapes beyond chase range", func() {
			e.MonsterTick()
			e.W.MoveAgent(a, world.Position{X: 600, Y: 600})
			e.MonsterTick()
			So(n.Behavior, ShouldEqual, world.BehaviorPatrol)
			So(n.TargetID, ShouldEqual, "")
		})

		Convey("When the target dies mid-chase", func() {
			e.MonsterTick()
			a.Status = world.StatusDead
			a.HP = 0
			e.MonsterTick()
			So(n.Behavior, ShouldEqual, world.BehaviorPatrol)
		})
	})

	Convey("When the nearest human is a monster agent", t, func() {
		e := newTestEngine(1)
		n := npcAt(e, "wolf", 300, 300)
		spawnAt(e, "grub", world.RoleMonster, 303, 300)

		e.MonsterTick()
		So(n.Behavior, ShouldEqual, world.BehaviorPatrol) // NPCs ignore monster agents
	})
}

func TestNpcPatrolStaysInRadius(t *testing.T) {
	Convey("When an NPC patrols with no prey around", t, func() {
		e := newTestEngine(7)
		n := npcAt(e, "wolf", 300, 300) // patrol radius 20

		for i := 0; i < 50; i++ {
			e.MonsterTick()
			So(world.Dist(n.Pos, n.PatrolOrigin), ShouldBeLessThanOrEqualTo, n.PatrolRadius)
		}
	})
}

func TestPopulationTick(t *testing.T) {
	Convey("When the spawner cadence arrives", t, func() {
		e := newTestEngine(1)
		spawnAt(e, "mora", world.RoleFighter, 300, 300)
		spawnAt(e, "vel", world.RoleMerchant, 310, 300)

		Convey("When the tick is off cadence", func() {
			e.W.Tick = 59
			e.PopulationTick()
			So(len(e.W.Npcs), ShouldEqual, 0)
		})

		Convey("When the tick is on cadence", func() {
			// target = floor(2 * 1.5) = 3, capped at 3 per check
			e.W.Tick = 60
			e.PopulationTick()
			So(len(e.W.Npcs), ShouldEqual, 3)

			Convey("Spawns land outside the safe zone", func() {
				spawn := world.Position{X: world.SpawnX, Y: world.SpawnY}
				for _, id := range e.W.SortedNpcIDs() {
					So(world.Dist(e.W.Npcs[id].Pos, spawn), ShouldBeGreaterThan, world.SafeZoneRadius)
				}
			})

			Convey("When the population already meets the target", func() {
				e.W.Tick = 120
				e.PopulationTick()
				So(len(e.W.Npcs), ShouldEqual, 3)
			})
		})

		Convey("When humans are disconnected they do not count", func() {
			for _, id := range e.W.SortedAgentIDs() {
				e.W.Agents[id].Connected = false
			}
			e.W.Tick = 60
			e.PopulationTick()
			So(len(e.W.Npcs), ShouldEqual, 0)
		})
	})
}
