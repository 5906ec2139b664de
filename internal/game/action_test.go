package game

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseAction(t *testing.T) {
	Convey("When parsing raw action payloads", t, func() {
		Convey("When a move action carries coordinates", func() {
			act, ok := ParseAction("agent-1", "move", json.RawMessage(`{"x":100.5,"y":200}`), 7)
			So(ok, ShouldBeTrue)
			So(act.Type, ShouldEqual, ActMove)
			So(act.Move.X, ShouldEqual, 100.5)
			So(act.Move.Y, ShouldEqual, 200.0)
			So(act.Tick, ShouldEqual, 7)
		})

		Convey("When the action type is unknown", func() {
			_, ok := ParseAction("agent-1", "fly", json.RawMessage(`{}`), 1)
			So(ok, ShouldBeFalse)
		})

		Convey("When a gather action is missing its target", func() {
			_, ok := ParseAction("agent-1", "gather", json.RawMessage(`{}`), 1)
			So(ok, ShouldBeFalse)
		})

		Convey("When a talk action carries an unknown chat mode", func() {
			_, ok := ParseAction("agent-1", "talk", json.RawMessage(`{"mode":"yell","message":"hi"}`), 1)
			So(ok, ShouldBeFalse)
		})

		Convey("When a talk action uses a valid mode", func() {
			act, ok := ParseAction("agent-1", "talk", json.RawMessage(`{"mode":"local","message":"hi"}`), 1)
			So(ok, ShouldBeTrue)
			So(act.Talk.Mode, ShouldEqual, "local")
		})

		Convey("When an idle action has no params", func() {
			act, ok := ParseAction("agent-1", "idle", nil, 1)
			So(ok, ShouldBeTrue)
			So(act.Type, ShouldEqual, ActIdle)
		})

		Convey("When an alliance action has a blank name", func() {
			_, ok := ParseAction("agent-1", "form_alliance", json.RawMessage(`{"name":"   "}`), 1)
			So(ok, ShouldBeFalse)
		})

		Convey("When a trade reply is missing the trade id", func() {
			_, ok := ParseAction("agent-1", "accept_trade", json.RawMessage(`{}`), 1)
			So(ok, ShouldBeFalse)

			act, ok := ParseAction("agent-1", "reject_trade", json.RawMessage(`{"tradeId":"trade-1"}`), 1)
			So(ok, ShouldBeTrue)
			So(act.TradeReply.TradeID, ShouldEqual, "trade-1")
		})

		Convey("When a feed action is missing the item", func() {
			_, ok := ParseAction("agent-1", "feed", json.RawMessage(`{"behemothId":"behemoth-1"}`), 1)
			So(ok, ShouldBeFalse)
		})
	})
}
