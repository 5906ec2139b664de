package game

import "github.com/wildgrid/server/internal/world"

// ResourceTick matures saplings into trees and cleans up stale gather
// attachments.
func (e *Engine) ResourceTick() {
	w := e.W
	for _, id := range w.SortedResourceIDs() {
		r := w.Resources[id]
		if r.Type != world.ResourceSapling {
			continue
		}
		if w.Tick < r.GrowthCompleteTick {
			continue
		}
		r.Type = world.ResourceTree
		r.State = world.ResourceAvailable
		r.Remaining = r.MaxCapacity
		r.GrowthStartTick = 0
		r.GrowthCompleteTick = 0
		w.Emit(world.EvTreeGrown, []string{r.ID}, &r.Pos, map[string]any{
			"capacity": r.MaxCapacity,
		})
	}

	// Gather hygiene: an agent whose target went away, or whose own status
	// was changed by another processor, drops the attachment.
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		if a.GatherTarget == "" {
			continue
		}
		r := w.Resources[a.GatherTarget]
		stale := r == nil || r.GatheredBy != a.ID || r.State != world.ResourceBeingGathered
		if a.Status != world.StatusGathering || stale {
			e.detachGather(a)
			if a.Status == world.StatusGathering {
				a.Status = world.StatusIdle
			}
		}
	}
}
