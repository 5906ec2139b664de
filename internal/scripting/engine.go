// Package scripting wraps a single gopher-lua VM for tunable game formulas.
// Scripts are loaded once at boot; every exposed function must be a pure
// function of its arguments so replays stay deterministic.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps the Lua VM. Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Missing script directories are skipped; the Go fallbacks cover
// every formula.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"combat", "character"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// CalcDamage computes attack damage from effective attack and defense via the
// Lua calc_damage function. Falls back to max(1, attack-defense) when the
// script is absent or errors.
func (e *Engine) CalcDamage(attack, defense int) int {
	fallback := attack - defense
	if fallback < 1 {
		fallback = 1
	}
	if e == nil {
		return fallback
	}
	fn := e.vm.GetGlobal("calc_damage")
	if fn == lua.LNil {
		return fallback
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(attack), lua.LNumber(defense)); err != nil {
		e.log.Error("lua calc_damage error", zap.Error(err))
		return fallback
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		d := int(n)
		if d < 1 {
			d = 1
		}
		return d
	}
	return fallback
}

// EvolutionTier holds the multipliers applied when a monster reaches a stage.
type EvolutionTier struct {
	Stage     int
	MinKills  int
	MinEats   int
	AttackMul float64
	HealthMul float64
}

// defaultEvolution mirrors scripts/character/evolution.lua.
var defaultEvolution = []EvolutionTier{
	{Stage: 2, MinKills: 5, MinEats: 3, AttackMul: 1.5, HealthMul: 1.25},
	{Stage: 3, MinKills: 15, MinEats: 10, AttackMul: 2.0, HealthMul: 1.5},
	{Stage: 4, MinKills: 30, MinEats: 20, AttackMul: 3.0, HealthMul: 2.0},
}

// EvolutionTiers returns the stage table from Lua (evolution_tiers global), or
// the built-in table when the script is absent.
func (e *Engine) EvolutionTiers() []EvolutionTier {
	if e == nil {
		return defaultEvolution
	}
	tbl, ok := e.vm.GetGlobal("evolution_tiers").(*lua.LTable)
	if !ok {
		return defaultEvolution
	}
	var tiers []EvolutionTier
	tbl.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		num := func(key string) float64 {
			if n, ok := row.RawGetString(key).(lua.LNumber); ok {
				return float64(n)
			}
			return 0
		}
		tiers = append(tiers, EvolutionTier{
			Stage:     int(num("stage")),
			MinKills:  int(num("min_kills")),
			MinEats:   int(num("min_eats")),
			AttackMul: num("attack_mul"),
			HealthMul: num("health_mul"),
		})
	})
	if len(tiers) == 0 {
		return defaultEvolution
	}
	return tiers
}
