package world

import (
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("When entities are indexed", t, func() {
		g := NewGrid()
		g.Add("a", Position{X: 10, Y: 10})
		g.Add("b", Position{X: 12, Y: 10})
		g.Add("c", Position{X: 500, Y: 500})

		Convey("PositionOf returns stored positions", func() {
			p, ok := g.PositionOf("a")
			So(ok, ShouldBeTrue)
			So(p, ShouldResemble, Position{X: 10, Y: 10})

			_, ok = g.PositionOf("zzz")
			So(ok, ShouldBeFalse)
		})

		Convey("InRadius refines to exact distance", func() {
			ids := g.InRadius(Position{X: 10, Y: 10}, 5)
			sort.Strings(ids)
			So(ids, ShouldResemble, []string{"a", "b"})

			ids = g.InRadius(Position{X: 10, Y: 10}, 1)
			So(ids, ShouldResemble, []string{"a"})
		})

		Convey("InRadius spans cell boundaries", func() {
			// 31 and 33 sit in adjacent cells with a 32-unit cell edge.
			g.Add("edge1", Position{X: 31, Y: 10})
			g.Add("edge2", Position{X: 33, Y: 10})
			ids := g.InRadius(Position{X: 32, Y: 10}, 1.5)
			sort.Strings(ids)
			So(ids, ShouldResemble, []string{"edge1", "edge2"})
		})

		Convey("Move relocates across cells", func() {
			g.Move("a", Position{X: 10, Y: 10}, Position{X: 500, Y: 502})
			ids := g.InRadius(Position{X: 500, Y: 500}, 5)
			sort.Strings(ids)
			So(ids, ShouldResemble, []string{"a", "c"})
			So(g.InRadius(Position{X: 10, Y: 10}, 5), ShouldResemble, []string{"b"})
		})

		Convey("Move within one cell keeps the entity findable", func() {
			g.Move("a", Position{X: 10, Y: 10}, Position{X: 11, Y: 11})
			p, _ := g.PositionOf("a")
			So(p, ShouldResemble, Position{X: 11, Y: 11})
			ids := g.InRadius(Position{X: 11, Y: 11}, 2)
			sort.Strings(ids)
			So(ids, ShouldResemble, []string{"a", "b"})
		})

		Convey("Remove drops the entity entirely", func() {
			g.Remove("a", Position{X: 10, Y: 10})
			So(g.Len(), ShouldEqual, 2)
			_, ok := g.PositionOf("a")
			So(ok, ShouldBeFalse)
			So(g.InRadius(Position{X: 10, Y: 10}, 5), ShouldResemble, []string{"b"})
		})
	})
}
