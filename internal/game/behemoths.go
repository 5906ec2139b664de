package game

import (
	"sort"

	"github.com/wildgrid/server/internal/world"
)

// ThrowOff names the climbers a waking behemoth shook loose.
type ThrowOff struct {
	BehemothID string
	MaxHP      int
	Climbers   []string
}

// feedBehemoth counts a feed action. The ore-growth timer arms once, when the
// feed threshold is first reached; later feeds only raise the eventual yield.
func (e *Engine) feedBehemoth(b *world.Behemoth) {
	b.FedAmount++
	if b.FedAmount == world.BehemothFeedThreshold && b.OreGrowthTick == 0 {
		b.OreGrowthTick = e.W.Tick + world.BehemothOreGrowthTicks
	}
}

// BehemothTick advances every behemoth's lifecycle and returns the throw-offs
// for the executor to apply.
func (e *Engine) BehemothTick() []ThrowOff {
	w := e.W
	var throws []ThrowOff
	for _, id := range w.SortedBehemothIDs() {
		b := w.Behemoths[id]

		if b.OreGrowthTick > 0 && w.Tick >= b.OreGrowthTick {
			ore := 5 + (b.FedAmount/world.BehemothFeedThreshold)*5
			if ore > b.OreMax {
				ore = b.OreMax
			}
			b.OreAmount = ore
			b.OreGrowthTick = 0
		}

		switch b.Status {
		case world.BehemothRoaming:
			if b.HP <= 0 {
				b.Status = world.BehemothUnconscious
				b.UnconsciousUntil = w.Tick + world.BehemothUnconsciousTicks
				w.Emit(world.EvBehemothKnockout, []string{b.ID}, &b.Pos, map[string]any{
					"wakesAtTick": b.UnconsciousUntil,
				})
				continue
			}
			e.roam(b)

		case world.BehemothUnconscious:
			if w.Tick >= b.UnconsciousUntil {
				throws = append(throws, e.wake(b))
			}
		}
	}
	return throws
}

// roam follows the route at behemoth speed, snapping onto reached waypoints
// and advancing the index modulo route length. No route = stationary.
func (e *Engine) roam(b *world.Behemoth) {
	if len(b.Route) == 0 {
		return
	}
	wp := b.Route[b.Waypoint%len(b.Route)]
	next, arrived := world.StepToward(b.Pos, wp, world.BehemothSpeed)
	e.W.MoveBehemoth(b, next)
	if arrived {
		b.Waypoint = (b.Waypoint + 1) % len(b.Route)
	}
}

// wake resets the behemoth and shakes off every registered climber. Mined ore
// is split among the climbers before the reset, remainder to the first.
func (e *Engine) wake(b *world.Behemoth) ThrowOff {
	w := e.W
	climbers := make([]string, 0, len(b.Climbers))
	for id := range b.Climbers {
		climbers = append(climbers, id)
	}
	sort.Strings(climbers)

	if b.OreAmount > 0 && len(climbers) > 0 {
		oreItem := b.Type + "_ore"
		share := b.OreAmount / len(climbers)
		rem := b.OreAmount % len(climbers)
		for i, id := range climbers {
			if a := w.Agents[id]; a != nil {
				q := share
				if i == 0 {
					q += rem
				}
				a.AddItem(oreItem, q)
			}
		}
	}

	b.Status = world.BehemothRoaming
	b.HP = b.MaxHP
	b.OreAmount = 0
	b.FedAmount = 0
	b.UnconsciousUntil = 0
	b.OreGrowthTick = 0
	b.Climbers = nil

	w.Emit(world.EvBehemothWake, []string{b.ID}, &b.Pos, map[string]any{
		"thrownOff": climbers,
	})
	return ThrowOff{BehemothID: b.ID, MaxHP: b.MaxHP, Climbers: climbers}
}

// ProcessThrowOffs deals half the behemoth's max health to each thrown
// climber, clamped at 0. Lethal throws route through the death protocol.
func (e *Engine) ProcessThrowOffs(t ThrowOff) {
	dmg := int(float64(t.MaxHP) * world.BehemothThrowOffFraction)
	for _, id := range t.Climbers {
		a := e.W.Agents[id]
		if a == nil || !a.Alive {
			continue
		}
		if a.Status == world.StatusClimbing {
			a.Status = world.StatusIdle
		}
		a.ClimbTarget = ""
		a.HP -= dmg
		if a.HP <= 0 {
			a.HP = 0
			e.kill(a.ID, t.BehemothID)
		}
	}
}
