package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wildgrid/server/internal/world"
)

func TestBehemothFeedAndOreGrowth(t *testing.T) {
	Convey("When merchants feed a behemoth", t, func() {
		e := newTestEngine(1)
		e.W.Tick = 10
		b := behemothAt(e, "iron", 400, 400, 50, 20)

		Convey("When the feed count is below the threshold", func() {
			for i := 0; i < 9; i++ {
				e.feedBehemoth(b)
			}
			So(b.FedAmount, ShouldEqual, 9)
			So(b.OreGrowthTick, ShouldEqual, int64(0))
		})

		Convey("When the tenth feed lands", func() {
			for i := 0; i < 10; i++ {
				e.feedBehemoth(b)
			}
			So(b.OreGrowthTick, ShouldEqual, int64(130))

			Convey("Further feeding does not re-arm the timer", func() {
				e.W.Tick = 50
				for i := 0; i < 10; i++ {
					e.feedBehemoth(b)
				}
				So(b.OreGrowthTick, ShouldEqual, int64(130))

				Convey("When the timer fires, extra feeds raise the yield", func() {
					e.W.Tick = 130
					e.BehemothTick()
					// 5 + (20/10)*5 = 15, under the 20 cap
					So(b.OreAmount, ShouldEqual, 15)
					So(b.OreGrowthTick, ShouldEqual, int64(0))
				})
			})

			Convey("When the timer fires at the base yield", func() {
				e.W.Tick = 130
				e.BehemothTick()
				So(b.OreAmount, ShouldEqual, 10) // 5 + (10/10)*5
			})
		})

		Convey("When the fed amount would exceed the ore cap", func() {
			for i := 0; i < 50; i++ {
				e.feedBehemoth(b)
			}
			e.W.Tick = b.OreGrowthTick
			e.BehemothTick()
			So(b.OreAmount, ShouldEqual, 20) // clamped at OreMax
		})
	})
}

func TestBehemothKnockoutAndWake(t *testing.T) {
	Convey("When a behemoth is beaten unconscious", t, func() {
		e := newTestEngine(1)
		e.W.Tick = 200
		b := behemothAt(e, "iron", 400, 400, 50, 20)
		b.HP = 0
		b.OreAmount = 10

		e.BehemothTick()
		So(b.Status, ShouldEqual, world.BehemothUnconscious)
		So(b.UnconsciousUntil, ShouldEqual, int64(260))

		Convey("When merchants climb it", func() {
			a1 := spawnAt(e, "vel", world.RoleMerchant, 402, 400)
			a2 := spawnAt(e, "nim", world.RoleMerchant, 398, 400)
			e.Execute(Action{AgentID: a1.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			e.Execute(Action{AgentID: a2.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			So(a1.Status, ShouldEqual, world.StatusClimbing)
			So(len(b.Climbers), ShouldEqual, 2)

			Convey("When it wakes", func() {
				e.W.Tick = 260
				for _, throw := range e.BehemothTick() {
					e.ProcessThrowOffs(throw)
				}

				Convey("The ore splits evenly between climbers", func() {
					So(a1.CountItem("iron_ore"), ShouldEqual, 5)
					So(a2.CountItem("iron_ore"), ShouldEqual, 5)
				})

				Convey("Climbers are thrown for half the max health", func() {
					So(a1.HP, ShouldEqual, 55) // 80 - 25
					So(a2.HP, ShouldEqual, 55)
					So(a1.Status, ShouldEqual, world.StatusIdle)
					So(a1.ClimbTarget, ShouldEqual, "")
				})

				Convey("The behemoth resets fully", func() {
					So(b.Status, ShouldEqual, world.BehemothRoaming)
					So(b.HP, ShouldEqual, b.MaxHP)
					So(b.OreAmount, ShouldEqual, 0)
					So(b.FedAmount, ShouldEqual, 0)
					So(b.Climbers, ShouldBeNil)
				})
			})
		})

		Convey("When an odd ore count is split", func() {
			b.OreAmount = 11
			a1 := spawnAt(e, "vel", world.RoleMerchant, 402, 400)
			a2 := spawnAt(e, "nim", world.RoleMerchant, 398, 400)
			e.Execute(Action{AgentID: a1.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			e.Execute(Action{AgentID: a2.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})

			e.W.Tick = 260
			for _, throw := range e.BehemothTick() {
				e.ProcessThrowOffs(throw)
			}
			// remainder goes to the first climber in id order
			So(a1.CountItem("iron_ore"), ShouldEqual, 6)
			So(a2.CountItem("iron_ore"), ShouldEqual, 5)
		})
	})
}

func TestBehemothThrowOffKills(t *testing.T) {
	Convey("When the throw-off damage is lethal", t, func() {
		e := newTestEngine(1)
		e.W.Tick = 200
		b := behemothAt(e, "crystal", 400, 400, 80, 30)
		b.HP = 0
		e.BehemothTick() // knockout at tick 200

		a := spawnAt(e, "vel", world.RoleMerchant, 402, 400)
		a.HP = 30 // below the 40 throw-off damage
		e.Execute(Action{AgentID: a.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})

		e.W.Tick = 260
		for _, throw := range e.BehemothTick() {
			e.ProcessThrowOffs(throw)
		}

		So(a.HP, ShouldEqual, 0)
		So(a.Status, ShouldEqual, world.StatusDead)
		So(a.RespawnTick, ShouldEqual, int64(290))
	})
}

func TestBehemothRoaming(t *testing.T) {
	Convey("When a behemoth follows its route", t, func() {
		e := newTestEngine(1)
		b := behemothAt(e, "iron", 100, 100, 50, 20)
		b.Route = []world.Position{{X: 100, Y: 100}, {X: 100, Y: 110}}
		b.Waypoint = 1

		e.BehemothTick()
		So(b.Pos.Y, ShouldAlmostEqual, 102.0) // speed 2 per tick

		for i := 0; i < 4; i++ {
			e.BehemothTick()
		}
		So(b.Pos.Y, ShouldEqual, 110.0)
		So(b.Waypoint, ShouldEqual, 0) // advanced past the reached waypoint
	})
}
