package world

// Structure is a player-built world object (stall, camp, banner).
type Structure struct {
	ID       string
	Type     string
	Pos      Position
	Owner    string
	Alliance string
}

// Alliance is a named group of agents. Name is the primary key.
type Alliance struct {
	Name      string
	Founder   string
	Members   map[string]struct{}
	CreatedAt int64
}

// TradeStatus tracks a trade offer's lifecycle.
type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeRejected TradeStatus = "rejected"
	TradeExpired  TradeStatus = "expired"
)

// Trade is an offer from buyer to seller. Expires at CreatedAt + TradeExpireTicks.
type Trade struct {
	ID         string
	Buyer      string // proposing agent
	Seller     string // target agent
	Offer      []ItemStack
	Request    []ItemStack
	Status     TradeStatus
	CreatedAt  int64
	ResolvedAt int64 // 0 = unresolved
}

// CraftingJob is a merchant craft in progress.
type CraftingJob struct {
	ID           string
	AgentID      string
	RecipeID     string
	StartTick    int64
	CompleteTick int64
}
