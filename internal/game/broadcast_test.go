package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wildgrid/server/internal/world"
)

func TestTickUpdateFogOfWar(t *testing.T) {
	Convey("When an agent's tick update is built", t, func() {
		e := newTestEngine(1)
		a := spawnAt(e, "vel", world.RoleMerchant, 100, 100) // vision 100
		near := spawnAt(e, "mora", world.RoleFighter, 150, 150)
		far := spawnAt(e, "tess", world.RoleFighter, 900, 900)
		r := treeAt(e, 120, 100, 10)
		n := npcAt(e, "wolf", 130, 100)
		b := behemothAt(e, "iron", 140, 100, 50, 20)

		update := e.BuildTickUpdate(a, e.W.Tick)

		Convey("The self view is complete", func() {
			So(update.Self.ID, ShouldEqual, a.ID)
			So(update.Self.Role, ShouldEqual, "merchant")
			So(update.Self.Gold, ShouldEqual, 100)
			So(update.Self.Position.X, ShouldEqual, 100.0)
		})

		Convey("Only entities inside vision appear", func() {
			So(len(update.Nearby.Agents), ShouldEqual, 1)
			So(update.Nearby.Agents[0].ID, ShouldEqual, near.ID)

			So(len(update.Nearby.Resources), ShouldEqual, 1)
			So(update.Nearby.Resources[0].ID, ShouldEqual, r.ID)

			So(len(update.Nearby.Monsters), ShouldEqual, 1)
			So(update.Nearby.Monsters[0].ID, ShouldEqual, n.ID)
			So(update.Nearby.Monsters[0].IsNpc, ShouldBeTrue)

			So(len(update.Nearby.Behemoths), ShouldEqual, 1)
			So(update.Nearby.Behemoths[0].ID, ShouldEqual, b.ID)
		})

		Convey("The agent never sees itself in nearby", func() {
			for _, v := range update.Nearby.Agents {
				So(v.ID, ShouldNotEqual, a.ID)
			}
		})

		Convey("The distant agent sees none of it", func() {
			distant := e.BuildTickUpdate(far, e.W.Tick)
			So(len(distant.Nearby.Agents), ShouldEqual, 0)
			So(len(distant.Nearby.Resources), ShouldEqual, 0)
			So(len(distant.Nearby.Monsters), ShouldEqual, 0)
		})
	})
}

func TestTickUpdateEvents(t *testing.T) {
	Convey("When events are filtered per agent", t, func() {
		e := newTestEngine(1)
		a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
		far := spawnAt(e, "tess", world.RoleFighter, 900, 900)

		Convey("When an event happens inside vision", func() {
			pos := world.Position{X: 150, Y: 100}
			e.W.Emit(world.EvTreeGrown, []string{"res-1"}, &pos, nil)

			So(len(e.BuildTickUpdate(a, 1).Events), ShouldEqual, 1)
			So(len(e.BuildTickUpdate(far, 1).Events), ShouldEqual, 0)
		})

		Convey("When an agent is named by a remote event", func() {
			pos := world.Position{X: 900, Y: 900}
			e.W.Emit(world.EvCombatHit, []string{"npc-9", a.ID}, &pos, nil)

			// Named agents always see it, wherever it happened.
			So(len(e.BuildTickUpdate(a, 1).Events), ShouldEqual, 1)
		})

		Convey("When a named actor stands inside vision", func() {
			e.W.Emit(world.EvEvolution, []string{far.ID}, nil, nil)

			near := spawnAt(e, "mora", world.RoleFighter, 880, 900)
			So(len(e.BuildTickUpdate(near, 1).Events), ShouldEqual, 1)
			So(len(e.BuildTickUpdate(a, 1).Events), ShouldEqual, 0)
		})
	})
}

func TestTickUpdateMessages(t *testing.T) {
	Convey("When chat is routed through tick updates", t, func() {
		e := newTestEngine(1)
		a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
		b := spawnAt(e, "mora", world.RoleFighter, 150, 150)
		c := spawnAt(e, "tess", world.RoleFighter, 900, 900)

		e.Execute(Action{AgentID: a.ID, Type: ActTalk, Talk: &TalkParams{Mode: "local", Message: "selling planks"}})

		So(len(e.BuildTickUpdate(b, 1).Messages), ShouldEqual, 1)
		So(e.BuildTickUpdate(b, 1).Messages[0].Content, ShouldEqual, "selling planks")
		So(len(e.BuildTickUpdate(c, 1).Messages), ShouldEqual, 0)
	})
}
