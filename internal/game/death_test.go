package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wildgrid/server/internal/world"
)

func TestHumanDeath(t *testing.T) {
	Convey("When a human dies", t, func() {
		e := newTestEngine(1)
		e.W.Tick = 100
		victim := spawnAt(e, "mora", world.RoleFighter, 300, 300)
		victim.Gold = 100
		victim.AddItem("wood", 10)
		victim.AddItem("tree_seed", 2)
		killer := spawnAt(e, "grub", world.RoleMonster, 302, 300)

		e.kill(victim.ID, killer.ID)

		Convey("The victim loses a fifth of gold and each stack", func() {
			So(victim.Gold, ShouldEqual, 80)
			So(victim.CountItem("wood"), ShouldEqual, 8)
			// floor(2 * 0.2) = 0: small stacks are spared
			So(victim.CountItem("tree_seed"), ShouldEqual, 2)
		})

		Convey("The killer collects the drops", func() {
			So(killer.Gold, ShouldEqual, 20)
			So(killer.CountItem("wood"), ShouldEqual, 2)
		})

		Convey("The victim is scheduled to respawn at spawn", func() {
			So(victim.Status, ShouldEqual, world.StatusDead)
			So(victim.HP, ShouldEqual, 0)
			So(victim.RespawnTick, ShouldEqual, int64(130))
			So(victim.Pos, ShouldResemble, world.Position{X: world.SpawnX, Y: world.SpawnY})
		})

		Convey("A death event names victim then killer", func() {
			var ev *world.Event
			for _, x := range e.W.TickEvents {
				if x.Type == world.EvDeath {
					ev = x
				}
			}
			So(ev, ShouldNotBeNil)
			So(ev.Actors, ShouldResemble, []string{victim.ID, killer.ID})
		})
	})
}

func TestMonsterAgentPermadeath(t *testing.T) {
	Convey("When a monster-role agent dies", t, func() {
		e := newTestEngine(1)
		victim := spawnAt(e, "grub", world.RoleMonster, 300, 300)
		victim.Gold = 50
		killer := spawnAt(e, "mora", world.RoleFighter, 302, 300)

		e.kill(victim.ID, killer.ID)

		So(victim.Alive, ShouldBeFalse)
		So(victim.Gold, ShouldEqual, 0)
		So(killer.Gold, ShouldEqual, 70) // 20 starting + the full 50
	})
}

func TestMonsterEatAndEvolution(t *testing.T) {
	Convey("When a monster agent kills its fifth NPC", t, func() {
		e := newTestEngine(1)
		m := spawnAt(e, "grub", world.RoleMonster, 300, 300) // 120 hp, 12 atk, 8 def
		m.Kills = 4
		n := npcAt(e, "wolf", 302, 300)
		n.HP = 0

		e.kill(n.ID, m.ID)

		Convey("The eat grants a tenth of the eaten's stats", func() {
			So(m.Kills, ShouldEqual, 5)
			So(m.MonsterEats, ShouldEqual, 1)
			// wolf: 30 hp, 10 atk, 8 def → +3 hp, +1 atk, +0 def
			// then stage 2 scales attack by 1.5 and health by 1.25
			So(m.EvolutionStage, ShouldEqual, 2)
			So(m.Attack, ShouldEqual, 19)  // int(13 * 1.5)
			So(m.MaxHP, ShouldEqual, 153)  // int(123 * 1.25)
			So(m.HP, ShouldEqual, m.MaxHP) // evolution heals to full
			So(m.Defense, ShouldEqual, 8)
		})

		Convey("An evolution event records the transition", func() {
			var ev *world.Event
			for _, x := range e.W.TickEvents {
				if x.Type == world.EvEvolution {
					ev = x
				}
			}
			So(ev, ShouldNotBeNil)
			So(ev.Data["from"], ShouldEqual, 1)
			So(ev.Data["to"], ShouldEqual, 2)
		})
	})

	Convey("When eats alone reach the threshold", t, func() {
		e := newTestEngine(1)
		m := spawnAt(e, "grub", world.RoleMonster, 300, 300)
		m.MonsterEats = 2
		n := npcAt(e, "wolf", 302, 300)
		n.HP = 0

		e.kill(n.ID, m.ID)

		// kills=1 < 5, but eats=3 qualifies for stage 2
		So(m.EvolutionStage, ShouldEqual, 2)
	})

	Convey("When a single check would skip stages", t, func() {
		e := newTestEngine(1)
		m := spawnAt(e, "grub", world.RoleMonster, 300, 300)
		m.Kills = 40 // qualifies for stage 4 outright
		e.evolutionCheck(m)
		So(m.EvolutionStage, ShouldEqual, 4)
	})
}
