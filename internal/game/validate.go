package game

import (
	"strings"

	"github.com/wildgrid/server/internal/world"
)

// Rejection reasons are part of the external contract; clients and test
// suites match these strings exactly.
const (
	ReasonAgentNotFound     = "Agent not found"
	ReasonAgentDead         = "Agent is dead"
	ReasonOnCooldown        = "On cooldown"
	ReasonOutOfBounds       = "Destination out of bounds"
	ReasonResourceNotFound  = "Resource not found"
	ReasonResourceBusy      = "Resource unavailable"
	ReasonTooFar            = "Too far"
	ReasonTargetNotFound    = "Target not found"
	ReasonAttackSelf        = "Cannot attack yourself"
	ReasonTradeSelf         = "Cannot trade with yourself"
	ReasonMerchantAttack    = "Merchants cannot attack"
	ReasonMonsterGather     = "Monsters cannot gather"
	ReasonFighterGather     = "Fighters can only mine gold"
	ReasonMerchantMine      = "Merchants cannot mine gold"
	ReasonFighterVsFighter  = "Fighters cannot attack other fighters"
	ReasonFighterVsMerchant = "Fighters cannot attack merchants"
	ReasonMerchantCraft     = "Only merchants can craft"
	ReasonMerchantPlant     = "Only merchants can plant"
	ReasonMerchantWater     = "Only merchants can water"
	ReasonMerchantClimb     = "Only merchants can climb behemoths"
	ReasonNotUnconscious    = "Behemoth is not unconscious"
	ReasonEmptyMessage      = "Message cannot be empty"
	ReasonWhisperNotFound   = "Whisper target not found"
	ReasonNoSeed            = "No seed in inventory"
	ReasonNoFood            = "No food item in inventory"
	ReasonNoSapling         = "No sapling at position"
	ReasonInsufficientOffer = "Insufficient items for trade offer"
	ReasonTradeNotFound     = "Trade not found"
	ReasonInsufficientStock = "Insufficient items for trade request"
	ReasonAllianceNameTaken = "Alliance name already taken"
	ReasonAllianceNotFound  = "Alliance not found"
	ReasonAlreadyInAlliance = "Already in an alliance"
	ReasonNotInAlliance     = "Not in an alliance"
)

// Verdict is the validator's output for one action.
type Verdict struct {
	OK     bool
	Reason string
}

func approve() Verdict        { return Verdict{OK: true} }
func reject(r string) Verdict { return Verdict{Reason: r} }

// Validate rule-checks a proposed action against the current world. It never
// mutates state.
func (e *Engine) Validate(act Action) Verdict {
	w := e.W
	a := w.Agents[act.AgentID]
	if a == nil {
		return reject(ReasonAgentNotFound)
	}
	if !a.Alive || a.Status == world.StatusDead {
		return reject(ReasonAgentDead)
	}
	if w.Tick < a.CooldownUntil {
		return reject(ReasonOnCooldown)
	}

	switch act.Type {
	case ActMove:
		if !world.InBounds(world.Position{X: act.Move.X, Y: act.Move.Y}) {
			return reject(ReasonOutOfBounds)
		}

	case ActGather:
		r := w.Resources[act.Gather.TargetID]
		if r == nil {
			return reject(ReasonResourceNotFound)
		}
		if world.Dist(a.Pos, r.Pos) > world.GatherRange {
			return reject(ReasonTooFar)
		}
		if r.State != world.ResourceAvailable {
			return reject(ReasonResourceBusy)
		}
		switch a.Role {
		case world.RoleMonster:
			return reject(ReasonMonsterGather)
		case world.RoleFighter:
			if r.Type != world.ResourceGoldVein {
				return reject(ReasonFighterGather)
			}
		case world.RoleMerchant:
			if r.Type == world.ResourceGoldVein {
				return reject(ReasonMerchantMine)
			}
		}

	case ActAttack:
		targetPos, kind := e.combatantPos(act.Attack.TargetID)
		if kind == targetNone {
			return reject(ReasonTargetNotFound)
		}
		if world.Dist(a.Pos, targetPos) > world.AttackRange {
			return reject(ReasonTooFar)
		}
		if act.Attack.TargetID == a.ID {
			return reject(ReasonAttackSelf)
		}
		switch a.Role {
		case world.RoleMerchant:
			return reject(ReasonMerchantAttack)
		case world.RoleFighter:
			if t := w.Agents[act.Attack.TargetID]; t != nil {
				if t.Role == world.RoleFighter {
					return reject(ReasonFighterVsFighter)
				}
				if t.Role == world.RoleMerchant {
					return reject(ReasonFighterVsMerchant)
				}
			}
		case world.RoleMonster:
			if t := w.Agents[act.Attack.TargetID]; t != nil && t.Role == world.RoleMonster {
				return reject(ReasonTargetNotFound)
			}
		}

	case ActCraft:
		if a.Role != world.RoleMerchant {
			return reject(ReasonMerchantCraft)
		}

	case ActTalk:
		if strings.TrimSpace(act.Talk.Message) == "" {
			return reject(ReasonEmptyMessage)
		}
		if world.ChatMode(act.Talk.Mode) == world.ChatWhisper {
			if t := w.Agents[act.Talk.TargetID]; t == nil {
				return reject(ReasonWhisperNotFound)
			}
		}

	case ActInspect:
		pos, kind := e.combatantPos(act.Inspect.TargetID)
		if kind == targetNone {
			return reject(ReasonTargetNotFound)
		}
		if world.Dist(a.Pos, pos) > a.VisionRadius {
			return reject(ReasonTooFar)
		}

	case ActTrade:
		if act.Trade.TargetID == a.ID {
			return reject(ReasonTradeSelf)
		}
		t := w.Agents[act.Trade.TargetID]
		if t == nil {
			return reject(ReasonTargetNotFound)
		}
		if world.Dist(a.Pos, t.Pos) > world.TradeRange {
			return reject(ReasonTooFar)
		}
		if !a.Covers(act.Trade.Offer) {
			return reject(ReasonInsufficientOffer)
		}

	case ActAcceptTrade, ActRejectTrade:
		// Only the agent the offer was made to may answer it; anyone else
		// sees the trade as nonexistent.
		tr := w.Trades[act.TradeReply.TradeID]
		if tr == nil || tr.Seller != a.ID {
			return reject(ReasonTradeNotFound)
		}
		if act.Type == ActAcceptTrade && !a.Covers(tr.Request) {
			return reject(ReasonInsufficientStock)
		}

	case ActPlant:
		if a.Role != world.RoleMerchant {
			return reject(ReasonMerchantPlant)
		}
		if a.CountItem(act.Plant.SeedID) < 1 {
			return reject(ReasonNoSeed)
		}

	case ActWater:
		if a.Role != world.RoleMerchant {
			return reject(ReasonMerchantWater)
		}
		if w.SaplingAt(world.Position{X: act.Water.X, Y: act.Water.Y}) == nil {
			return reject(ReasonNoSapling)
		}

	case ActFeed:
		b := w.Behemoths[act.Feed.BehemothID]
		if b == nil {
			return reject(ReasonTargetNotFound)
		}
		if world.Dist(a.Pos, b.Pos) > world.FeedRange {
			return reject(ReasonTooFar)
		}
		if a.CountItem(act.Feed.ItemID) < 1 {
			return reject(ReasonNoFood)
		}

	case ActClimb:
		if a.Role != world.RoleMerchant {
			return reject(ReasonMerchantClimb)
		}
		b := w.Behemoths[act.Climb.BehemothID]
		if b == nil {
			return reject(ReasonTargetNotFound)
		}
		if b.Status != world.BehemothUnconscious {
			return reject(ReasonNotUnconscious)
		}
		if world.Dist(a.Pos, b.Pos) > world.ClimbRange {
			return reject(ReasonTooFar)
		}

	case ActFormAlliance:
		if a.Alliance != "" {
			return reject(ReasonAlreadyInAlliance)
		}
		if _, taken := w.Alliances[act.Alliance.Name]; taken {
			return reject(ReasonAllianceNameTaken)
		}

	case ActJoinAlliance:
		if _, ok := w.Alliances[act.Alliance.Name]; !ok {
			return reject(ReasonAllianceNotFound)
		}
		if a.Alliance != "" {
			return reject(ReasonAlreadyInAlliance)
		}

	case ActLeaveAlliance:
		if a.Alliance == "" {
			return reject(ReasonNotInAlliance)
		}

	case ActIdle:
		// always approved
	}
	return approve()
}

// targetKind classifies what an id refers to for attack/inspect validation.
type targetKind int

const (
	targetNone targetKind = iota
	targetAgent
	targetNpc
	targetBehemoth
)

func (e *Engine) combatantPos(id string) (world.Position, targetKind) {
	if a := e.W.Agents[id]; a != nil {
		return a.Pos, targetAgent
	}
	if n := e.W.Npcs[id]; n != nil {
		return n.Pos, targetNpc
	}
	if b := e.W.Behemoths[id]; b != nil {
		return b.Pos, targetBehemoth
	}
	return world.Position{}, targetNone
}
