package scripting

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
)

func TestFallbackFormulas(t *testing.T) {
	Convey("When no Lua engine is present", t, func() {
		var e *Engine

		Convey("CalcDamage uses the built-in formula", func() {
			So(e.CalcDamage(15, 8), ShouldEqual, 7)
			So(e.CalcDamage(10, 10), ShouldEqual, 1) // floor at 1
			So(e.CalcDamage(5, 20), ShouldEqual, 1)
		})

		Convey("EvolutionTiers returns the built-in table", func() {
			tiers := e.EvolutionTiers()
			So(len(tiers), ShouldEqual, 3)
			So(tiers[0].Stage, ShouldEqual, 2)
			So(tiers[0].MinKills, ShouldEqual, 5)
			So(tiers[0].MinEats, ShouldEqual, 3)
			So(tiers[2].AttackMul, ShouldEqual, 3.0)
		})
	})
}

func TestLuaOverrides(t *testing.T) {
	Convey("When scripts are loaded", t, func() {
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "combat"), 0o755), ShouldBeNil)
		script := []byte("function calc_damage(attack, defense)\n  return attack * 2 - defense\nend\n")
		So(os.WriteFile(filepath.Join(dir, "combat", "damage.lua"), script, 0o644), ShouldBeNil)

		e, err := NewEngine(dir, zap.NewNop())
		So(err, ShouldBeNil)
		defer e.Close()

		Convey("The scripted formula wins", func() {
			So(e.CalcDamage(10, 5), ShouldEqual, 15)
		})

		Convey("Results below one are clamped", func() {
			So(e.CalcDamage(1, 10), ShouldEqual, 1)
		})

		Convey("Absent globals fall back", func() {
			So(len(e.EvolutionTiers()), ShouldEqual, 3)
		})
	})

	Convey("When the scripts directory is missing entirely", t, func() {
		e, err := NewEngine("does-not-exist", zap.NewNop())
		So(err, ShouldBeNil)
		defer e.Close()
		So(e.CalcDamage(9, 4), ShouldEqual, 5)
	})
}
