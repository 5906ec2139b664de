package world

// Role is an agent's permanent class, chosen once at first connect.
type Role string

const (
	RoleMerchant Role = "merchant"
	RoleFighter  Role = "fighter"
	RoleMonster  Role = "monster"
)

// AgentStatus is the agent's current activity.
type AgentStatus string

const (
	StatusIdle      AgentStatus = "idle"
	StatusMoving    AgentStatus = "moving"
	StatusGathering AgentStatus = "gathering"
	StatusCrafting  AgentStatus = "crafting"
	StatusFighting  AgentStatus = "fighting"
	StatusDead      AgentStatus = "dead"
	StatusClimbing  AgentStatus = "climbing"
)

// ItemStack is one inventory slot: an item id and how many of it.
type ItemStack struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Equipment holds the three wearable slots. Empty string = slot empty.
type Equipment struct {
	Weapon string `json:"weapon"`
	Armor  string `json:"armor"`
	Tool   string `json:"tool"`
}

// Agent is a connected (or previously connected) player entity.
// Accessed only from the game loop goroutine — no locks needed.
type Agent struct {
	ID   string
	Name string
	Role Role

	Pos    Position
	Dest   *Position // set iff Status == StatusMoving
	Status AgentStatus

	HP           int
	MaxHP        int
	Attack       int
	Defense      int
	Speed        float64 // units per tick
	VisionRadius float64

	Gold      int
	Inventory []ItemStack // ordered; iteration order is part of determinism
	Equipment Equipment

	// Equipment stat contributions, resolved when equipment changes.
	EquipAttack  int
	EquipDefense int

	Alliance string // alliance name, "" = none

	Kills          int
	MonsterEats    int
	EvolutionStage int

	// Monster base stats at stage 1; evolution multipliers scale from these.
	BaseAttack int
	BaseMaxHP  int

	CooldownUntil   int64 // tick before which no action is accepted
	RespawnTick     int64 // set iff Status == StatusDead and Role != monster
	LastActionTick  int64
	ConnectedAtTick int64

	Alive     bool
	Connected bool

	// Bcrypt hash of the resume token handed out at first auth.
	TokenHash string

	// Gathering attachment (set iff Status == StatusGathering).
	GatherTarget string
	GatherStart  int64

	// Climbing attachment (set iff Status == StatusClimbing).
	ClimbTarget string
}

// Human reports whether the agent is merchant or fighter.
func (a *Agent) Human() bool {
	return a.Role == RoleMerchant || a.Role == RoleFighter
}

// EffectiveAttack is base attack plus equipment contribution.
func (a *Agent) EffectiveAttack() int { return a.Attack + a.EquipAttack }

// EffectiveDefense is base defense plus equipment contribution.
func (a *Agent) EffectiveDefense() int { return a.Defense + a.EquipDefense }

// CountItem returns the total quantity of itemID held.
func (a *Agent) CountItem(itemID string) int {
	n := 0
	for _, s := range a.Inventory {
		if s.ItemID == itemID {
			n += s.Quantity
		}
	}
	return n
}

// AddItem merges quantity into an existing stack or appends a new one.
func (a *Agent) AddItem(itemID string, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range a.Inventory {
		if a.Inventory[i].ItemID == itemID {
			a.Inventory[i].Quantity += quantity
			return
		}
	}
	a.Inventory = append(a.Inventory, ItemStack{ItemID: itemID, Quantity: quantity})
}

// RemoveItem removes up to quantity of itemID. Returns false (and removes
// nothing) when the agent holds fewer than quantity.
func (a *Agent) RemoveItem(itemID string, quantity int) bool {
	if a.CountItem(itemID) < quantity {
		return false
	}
	remaining := quantity
	out := a.Inventory[:0]
	for _, s := range a.Inventory {
		if s.ItemID == itemID && remaining > 0 {
			take := s.Quantity
			if take > remaining {
				take = remaining
			}
			s.Quantity -= take
			remaining -= take
		}
		if s.Quantity > 0 {
			out = append(out, s)
		}
	}
	a.Inventory = out
	return true
}

// Covers reports whether the agent's gold and inventory cover the given offer.
// Gold is represented as the reserved item id "gold" inside trade offers.
func (a *Agent) Covers(offer []ItemStack) bool {
	need := map[string]int{}
	for _, s := range offer {
		need[s.ItemID] += s.Quantity
	}
	for id, q := range need {
		if id == ItemGold {
			if a.Gold < q {
				return false
			}
			continue
		}
		if a.CountItem(id) < q {
			return false
		}
	}
	return true
}

// ItemGold is the reserved item id representing gold in trade offers.
const ItemGold = "gold"
