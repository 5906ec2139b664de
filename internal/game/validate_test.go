package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wildgrid/server/internal/world"
)

func TestValidateLifeAndCooldown(t *testing.T) {
	Convey("When validating the agent preconditions", t, func() {
		e := newTestEngine(1)

		Convey("When the agent does not exist", func() {
			v := e.Validate(Action{AgentID: "agent-99", Type: ActIdle})
			So(v.OK, ShouldBeFalse)
			So(v.Reason, ShouldEqual, ReasonAgentNotFound)
		})

		Convey("When the agent is dead", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			a.Status = world.StatusDead
			a.Alive = false
			v := e.Validate(Action{AgentID: a.ID, Type: ActIdle})
			So(v.Reason, ShouldEqual, ReasonAgentDead)
		})

		Convey("When the agent is on cooldown", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			a.CooldownUntil = e.W.Tick + 5
			v := e.Validate(Action{AgentID: a.ID, Type: ActIdle})
			So(v.Reason, ShouldEqual, ReasonOnCooldown)
		})
	})
}

func TestValidateMoveAndGather(t *testing.T) {
	Convey("When validating move and gather actions", t, func() {
		e := newTestEngine(1)

		Convey("When the destination is out of bounds", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActMove, Move: &MoveParams{X: -1, Y: 10}})
			So(v.Reason, ShouldEqual, ReasonOutOfBounds)
		})

		Convey("When the gather target does not exist", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: "res-9"}})
			So(v.Reason, ShouldEqual, ReasonResourceNotFound)
		})

		Convey("When the resource is out of gather range", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			r := treeAt(e, 200, 200, 10)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.Reason, ShouldEqual, ReasonTooFar)
		})

		Convey("When the resource is already being gathered", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			r := treeAt(e, 102, 100, 10)
			r.State = world.ResourceBeingGathered
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.Reason, ShouldEqual, ReasonResourceBusy)
		})

		Convey("When a monster tries to gather", func() {
			a := spawnAt(e, "grub", world.RoleMonster, 100, 100)
			r := treeAt(e, 102, 100, 10)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.Reason, ShouldEqual, ReasonMonsterGather)
		})

		Convey("When a fighter tries to chop a tree", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			r := treeAt(e, 102, 100, 10)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.Reason, ShouldEqual, ReasonFighterGather)
		})

		Convey("When a merchant tries to mine a gold vein", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			r := veinAt(e, 102, 100, 50)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.Reason, ShouldEqual, ReasonMerchantMine)
		})

		Convey("When a fighter mines a gold vein in range", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			r := veinAt(e, 102, 100, 50)
			v := e.Validate(Action{AgentID: a.ID, Type: ActGather, Gather: &GatherParams{TargetID: r.ID}})
			So(v.OK, ShouldBeTrue)
		})
	})
}

func TestValidateAttack(t *testing.T) {
	Convey("When validating attack actions", t, func() {
		e := newTestEngine(1)

		Convey("When the target does not exist", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: "npc-9"}})
			So(v.Reason, ShouldEqual, ReasonTargetNotFound)
		})

		Convey("When the target is out of range", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			n := npcAt(e, "wolf", 200, 200)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: n.ID}})
			So(v.Reason, ShouldEqual, ReasonTooFar)
		})

		Convey("When an agent targets itself", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: a.ID}})
			So(v.Reason, ShouldEqual, ReasonAttackSelf)
		})

		Convey("When a merchant attacks", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			n := npcAt(e, "wolf", 102, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: n.ID}})
			So(v.Reason, ShouldEqual, ReasonMerchantAttack)
		})

		Convey("When a fighter attacks another fighter", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			b := spawnAt(e, "tess", world.RoleFighter, 102, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonFighterVsFighter)
		})

		Convey("When a fighter attacks a merchant", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			b := spawnAt(e, "vel", world.RoleMerchant, 102, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonFighterVsMerchant)
		})

		Convey("When a monster agent attacks another monster agent", func() {
			a := spawnAt(e, "grub", world.RoleMonster, 100, 100)
			b := spawnAt(e, "snag", world.RoleMonster, 102, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonTargetNotFound)
		})

		Convey("When a fighter attacks an NPC in range", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			n := npcAt(e, "wolf", 102, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAttack, Attack: &AttackParams{TargetID: n.ID}})
			So(v.OK, ShouldBeTrue)
		})
	})
}

func TestValidateEconomyAndSocial(t *testing.T) {
	Convey("When validating economy and social actions", t, func() {
		e := newTestEngine(1)

		Convey("When a fighter tries to craft", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActCraft, Craft: &CraftParams{RecipeID: "wooden_sword"}})
			So(v.Reason, ShouldEqual, ReasonMerchantCraft)
		})

		Convey("When a chat message is blank", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActTalk, Talk: &TalkParams{Mode: "local", Message: "   "}})
			So(v.Reason, ShouldEqual, ReasonEmptyMessage)
		})

		Convey("When a whisper targets an unknown agent", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActTalk, Talk: &TalkParams{Mode: "whisper", Message: "psst", TargetID: "agent-99"}})
			So(v.Reason, ShouldEqual, ReasonWhisperNotFound)
		})

		Convey("When an agent trades with itself", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActTrade, Trade: &TradeParams{TargetID: a.ID}})
			So(v.Reason, ShouldEqual, ReasonTradeSelf)
		})

		Convey("When the trade partner is out of range", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := spawnAt(e, "mora", world.RoleFighter, 200, 200)
			v := e.Validate(Action{AgentID: a.ID, Type: ActTrade, Trade: &TradeParams{TargetID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonTooFar)
		})

		Convey("When the offer exceeds the buyer's holdings", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := spawnAt(e, "mora", world.RoleFighter, 105, 100)
			v := e.Validate(Action{AgentID: a.ID, Type: ActTrade, Trade: &TradeParams{
				TargetID: b.ID,
				Offer:    []world.ItemStack{{ItemID: "wood", Quantity: 5}},
			}})
			So(v.Reason, ShouldEqual, ReasonInsufficientOffer)
		})

		Convey("When answering an unknown trade", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActAcceptTrade, TradeReply: &TradeReplyParams{TradeID: "trade-9"}})
			So(v.Reason, ShouldEqual, ReasonTradeNotFound)
		})

		Convey("When the buyer answers their own offer", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := spawnAt(e, "mora", world.RoleFighter, 105, 100)
			e.W.Trades["trade-1"] = &world.Trade{ID: "trade-1", Buyer: a.ID, Seller: b.ID, Status: world.TradePending}
			v := e.Validate(Action{AgentID: a.ID, Type: ActRejectTrade, TradeReply: &TradeReplyParams{TradeID: "trade-1"}})
			So(v.Reason, ShouldEqual, ReasonTradeNotFound)
		})

		Convey("When accepting a request the offeree cannot cover", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := spawnAt(e, "mora", world.RoleFighter, 105, 100)
			e.W.Trades["trade-1"] = &world.Trade{
				ID: "trade-1", Buyer: a.ID, Seller: b.ID, Status: world.TradePending,
				Request: []world.ItemStack{{ItemID: "wood", Quantity: 3}},
			}
			v := e.Validate(Action{AgentID: b.ID, Type: ActAcceptTrade, TradeReply: &TradeReplyParams{TradeID: "trade-1"}})
			So(v.Reason, ShouldEqual, ReasonInsufficientStock)
		})

		Convey("When a non-merchant plants a seed", func() {
			a := e.SpawnAgent("mora", world.RoleFighter)
			v := e.Validate(Action{AgentID: a.ID, Type: ActPlant, Plant: &PlantParams{SeedID: "tree_seed", X: 10, Y: 10}})
			So(v.Reason, ShouldEqual, ReasonMerchantPlant)
		})

		Convey("When a merchant plants without a seed", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActPlant, Plant: &PlantParams{SeedID: "tree_seed", X: 10, Y: 10}})
			So(v.Reason, ShouldEqual, ReasonNoSeed)
		})

		Convey("When watering a position with no sapling", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActWater, Water: &WaterParams{X: 10, Y: 10}})
			So(v.Reason, ShouldEqual, ReasonNoSapling)
		})

		Convey("When forming an alliance with a taken name", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			e.W.Alliances["north"] = &world.Alliance{Name: "north", Members: map[string]struct{}{}}
			v := e.Validate(Action{AgentID: a.ID, Type: ActFormAlliance, Alliance: &AllianceParams{Name: "north"}})
			So(v.Reason, ShouldEqual, ReasonAllianceNameTaken)
		})

		Convey("When joining an unknown alliance", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActJoinAlliance, Alliance: &AllianceParams{Name: "ghost"}})
			So(v.Reason, ShouldEqual, ReasonAllianceNotFound)
		})

		Convey("When an alliance member forms another", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			a.Alliance = "north"
			v := e.Validate(Action{AgentID: a.ID, Type: ActFormAlliance, Alliance: &AllianceParams{Name: "south"}})
			So(v.Reason, ShouldEqual, ReasonAlreadyInAlliance)
		})

		Convey("When leaving with no alliance", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActLeaveAlliance})
			So(v.Reason, ShouldEqual, ReasonNotInAlliance)
		})
	})
}

func TestValidateBehemothActions(t *testing.T) {
	Convey("When validating feed and climb actions", t, func() {
		e := newTestEngine(1)

		Convey("When the behemoth does not exist", func() {
			a := e.SpawnAgent("vel", world.RoleMerchant)
			v := e.Validate(Action{AgentID: a.ID, Type: ActFeed, Feed: &FeedParams{BehemothID: "behemoth-9", ItemID: "meat"}})
			So(v.Reason, ShouldEqual, ReasonTargetNotFound)
		})

		Convey("When feeding without the food item", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := behemothAt(e, "iron", 105, 100, 50, 20)
			v := e.Validate(Action{AgentID: a.ID, Type: ActFeed, Feed: &FeedParams{BehemothID: b.ID, ItemID: "meat"}})
			So(v.Reason, ShouldEqual, ReasonNoFood)
		})

		Convey("When a fighter tries to climb", func() {
			a := spawnAt(e, "mora", world.RoleFighter, 100, 100)
			b := behemothAt(e, "iron", 105, 100, 50, 20)
			b.Status = world.BehemothUnconscious
			v := e.Validate(Action{AgentID: a.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonMerchantClimb)
		})

		Convey("When climbing a conscious behemoth", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := behemothAt(e, "iron", 105, 100, 50, 20)
			v := e.Validate(Action{AgentID: a.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			So(v.Reason, ShouldEqual, ReasonNotUnconscious)
		})

		Convey("When a merchant climbs an unconscious behemoth in range", func() {
			a := spawnAt(e, "vel", world.RoleMerchant, 100, 100)
			b := behemothAt(e, "iron", 105, 100, 50, 20)
			b.Status = world.BehemothUnconscious
			v := e.Validate(Action{AgentID: a.ID, Type: ActClimb, Climb: &ClimbParams{BehemothID: b.ID}})
			So(v.OK, ShouldBeTrue)
		})
	})
}
