package game

import (
	"encoding/json"
	"strings"

	"github.com/wildgrid/server/internal/world"
)

// ActionType enumerates the proposable actions.
type ActionType string

const (
	ActMove          ActionType = "move"
	ActGather        ActionType = "gather"
	ActCraft         ActionType = "craft"
	ActAttack        ActionType = "attack"
	ActTalk          ActionType = "talk"
	ActInspect       ActionType = "inspect"
	ActTrade         ActionType = "trade"
	ActAcceptTrade   ActionType = "accept_trade"
	ActRejectTrade   ActionType = "reject_trade"
	ActPlant         ActionType = "plant"
	ActWater         ActionType = "water"
	ActFeed          ActionType = "feed"
	ActClimb         ActionType = "climb"
	ActFormAlliance  ActionType = "form_alliance"
	ActJoinAlliance  ActionType = "join_alliance"
	ActLeaveAlliance ActionType = "leave_alliance"
	ActIdle          ActionType = "idle"
)

// Action is a parsed, type-narrowed action proposal. Exactly one params
// pointer is set, matching Type (none for idle/leave_alliance).
type Action struct {
	AgentID string
	Type    ActionType
	Tick    int64 // client-claimed tick, informational only

	Move       *MoveParams
	Gather     *GatherParams
	Craft      *CraftParams
	Attack     *AttackParams
	Talk       *TalkParams
	Inspect    *InspectParams
	Trade      *TradeParams
	TradeReply *TradeReplyParams
	Plant      *PlantParams
	Water      *WaterParams
	Feed       *FeedParams
	Climb      *ClimbParams
	Alliance   *AllianceParams
}

type MoveParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GatherParams struct {
	TargetID string `json:"targetId"`
}

type CraftParams struct {
	RecipeID string `json:"recipeId"`
}

type AttackParams struct {
	TargetID string `json:"targetId"`
}

type TalkParams struct {
	Mode     string `json:"mode"`
	Message  string `json:"message"`
	TargetID string `json:"targetId,omitempty"`
}

type InspectParams struct {
	TargetID string `json:"targetId"`
}

type TradeParams struct {
	TargetID string            `json:"targetId"`
	Offer    []world.ItemStack `json:"offer"`
	Request  []world.ItemStack `json:"request"`
}

type TradeReplyParams struct {
	TradeID string `json:"tradeId"`
}

type PlantParams struct {
	SeedID string  `json:"seedId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type WaterParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type FeedParams struct {
	BehemothID string `json:"behemothId"`
	ItemID     string `json:"itemId"`
}

type ClimbParams struct {
	BehemothID string `json:"behemothId"`
}

type AllianceParams struct {
	Name string `json:"name"`
}

// ParseAction narrows a raw action payload into an Action. Returns false for
// unknown action types or malformed params; the caller drops those silently
// (the inbound channel is untrusted).
func ParseAction(agentID, actionType string, params json.RawMessage, tick int64) (Action, bool) {
	act := Action{AgentID: agentID, Type: ActionType(actionType), Tick: tick}
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	narrow := func(dst any) bool {
		return json.Unmarshal(params, dst) == nil
	}
	switch act.Type {
	case ActMove:
		p := &MoveParams{}
		if !narrow(p) {
			return Action{}, false
		}
		act.Move = p
	case ActGather:
		p := &GatherParams{}
		if !narrow(p) || p.TargetID == "" {
			return Action{}, false
		}
		act.Gather = p
	case ActCraft:
		p := &CraftParams{}
		if !narrow(p) || p.RecipeID == "" {
			return Action{}, false
		}
		act.Craft = p
	case ActAttack:
		p := &AttackParams{}
		if !narrow(p) || p.TargetID == "" {
			return Action{}, false
		}
		act.Attack = p
	case ActTalk:
		p := &TalkParams{}
		if !narrow(p) {
			return Action{}, false
		}
		switch world.ChatMode(p.Mode) {
		case world.ChatWhisper, world.ChatLocal, world.ChatBroadcast:
		default:
			return Action{}, false
		}
		act.Talk = p
	case ActInspect:
		p := &InspectParams{}
		if !narrow(p) || p.TargetID == "" {
			return Action{}, false
		}
		act.Inspect = p
	case ActTrade:
		p := &TradeParams{}
		if !narrow(p) || p.TargetID == "" {
			return Action{}, false
		}
		act.Trade = p
	case ActAcceptTrade, ActRejectTrade:
		p := &TradeReplyParams{}
		if !narrow(p) || p.TradeID == "" {
			return Action{}, false
		}
		act.TradeReply = p
	case ActPlant:
		p := &PlantParams{}
		if !narrow(p) || p.SeedID == "" {
			return Action{}, false
		}
		act.Plant = p
	case ActWater:
		p := &WaterParams{}
		if !narrow(p) {
			return Action{}, false
		}
		act.Water = p
	case ActFeed:
		p := &FeedParams{}
		if !narrow(p) || p.BehemothID == "" || p.ItemID == "" {
			return Action{}, false
		}
		act.Feed = p
	case ActClimb:
		p := &ClimbParams{}
		if !narrow(p) || p.BehemothID == "" {
			return Action{}, false
		}
		act.Climb = p
	case ActFormAlliance, ActJoinAlliance:
		p := &AllianceParams{}
		if !narrow(p) || strings.TrimSpace(p.Name) == "" {
			return Action{}, false
		}
		act.Alliance = p
	case ActLeaveAlliance, ActIdle:
		// no params
	default:
		return Action{}, false
	}
	return act, true
}
