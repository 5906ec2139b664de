package game

import "github.com/wildgrid/server/internal/world"

// EconomyTick scans for expired trades and finished crafting jobs. It only
// reads; the executor applies the results so all agent mutation stays in one
// place.
func (e *Engine) EconomyTick() (expired []*world.Trade, done []*world.CraftingJob) {
	w := e.W
	for _, id := range w.SortedTradeIDs() {
		t := w.Trades[id]
		if t.Status == world.TradePending && t.CreatedAt+world.TradeExpireTicks <= w.Tick {
			expired = append(expired, t)
		}
	}
	for _, id := range w.SortedCraftIDs() {
		j := w.Crafting[id]
		if j.CompleteTick <= w.Tick {
			done = append(done, j)
		}
	}
	return expired, done
}

// ApplyTradeExpiry expires pending trades. The offer was never withdrawn from
// the buyer, so nothing is returned; the trade just leaves the pending set.
func (e *Engine) ApplyTradeExpiry(expired []*world.Trade) {
	for _, t := range expired {
		t.Status = world.TradeExpired
		t.ResolvedAt = e.W.Tick
		delete(e.W.Trades, t.ID)
		e.W.Emit(world.EvTradeExpired, []string{t.Buyer, t.Seller}, nil, map[string]any{
			"tradeId": t.ID,
		})
	}
}

// resolveTrade settles a pending trade the agent was offered. Offers are
// never escrowed, so acceptance re-checks both sides at execution time; a
// side that can no longer cover its stacks voids the trade as rejected.
func (e *Engine) resolveTrade(seller *world.Agent, tradeID string, accept bool) {
	w := e.W
	t := w.Trades[tradeID]
	if t == nil || t.Status != world.TradePending || t.Seller != seller.ID {
		return
	}
	buyer := w.Agents[t.Buyer]

	t.Status = world.TradeRejected
	if accept && buyer != nil && buyer.Alive && buyer.Covers(t.Offer) && seller.Covers(t.Request) {
		transferStacks(buyer, seller, t.Offer)
		transferStacks(seller, buyer, t.Request)
		t.Status = world.TradeAccepted
	}
	t.ResolvedAt = w.Tick
	delete(w.Trades, t.ID)

	ev := world.EvTradeRejected
	if t.Status == world.TradeAccepted {
		ev = world.EvTradeAccepted
	}
	w.Emit(ev, []string{t.Buyer, t.Seller}, nil, map[string]any{
		"tradeId": t.ID,
	})
}

// transferStacks moves gold and item stacks between agents. Coverage has been
// verified by the caller.
func transferStacks(from, to *world.Agent, stacks []world.ItemStack) {
	for _, s := range stacks {
		if s.ItemID == world.ItemGold {
			from.Gold -= s.Quantity
			to.Gold += s.Quantity
			continue
		}
		from.RemoveItem(s.ItemID, s.Quantity)
		to.AddItem(s.ItemID, s.Quantity)
	}
}

// ApplyCraftCompletion credits recipe outputs, auto-equipping gear into empty
// slots, and returns the crafter to idle.
func (e *Engine) ApplyCraftCompletion(done []*world.CraftingJob) {
	w := e.W
	for _, j := range done {
		delete(w.Crafting, j.ID)
		a := w.Agents[j.AgentID]
		if a == nil {
			continue
		}
		recipe, ok := e.Tables.Recipe(j.RecipeID)
		if ok {
			for _, out := range recipe.Outputs {
				a.AddItem(out.ItemID, out.Quantity)
				e.autoEquip(a, out.ItemID)
			}
		}
		if a.Status == world.StatusCrafting {
			a.Status = world.StatusIdle
		}
		w.Emit(world.EvCraftComplete, []string{a.ID}, &a.Pos, map[string]any{
			"recipeId": j.RecipeID,
		})
	}
}

// autoEquip places a crafted item into its slot when the slot is empty and
// folds its bonuses into the agent's equipment contribution.
func (e *Engine) autoEquip(a *world.Agent, itemID string) {
	item, ok := e.Tables.Item(itemID)
	if !ok || item.Slot == "" {
		return
	}
	switch item.Slot {
	case "weapon":
		if a.Equipment.Weapon == "" {
			a.Equipment.Weapon = itemID
			a.EquipAttack += item.AttackBonus
			a.EquipDefense += item.DefenseBonus
		}
	case "armor":
		if a.Equipment.Armor == "" {
			a.Equipment.Armor = itemID
			a.EquipAttack += item.AttackBonus
			a.EquipDefense += item.DefenseBonus
		}
	case "tool":
		if a.Equipment.Tool == "" {
			a.Equipment.Tool = itemID
		}
	}
}
