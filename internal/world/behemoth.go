package world

type BehemothStatus string

const (
	BehemothRoaming     BehemothStatus = "roaming"
	BehemothUnconscious BehemothStatus = "unconscious"
)

// Behemoth is a large neutral creature on a fixed route with a
// feed / knockout / mine cycle. Type determines the ore kind it yields.
type Behemoth struct {
	ID   string
	Type string
	Pos  Position

	HP      int
	MaxHP   int
	Attack  int
	Defense int

	Status    BehemothStatus
	OreAmount int
	OreMax    int
	FedAmount int

	// Set iff Status == unconscious.
	UnconsciousUntil int64

	// Ore growth timer armed when FedAmount first reaches the feed threshold.
	// 0 = not armed. Not re-armed by further feeding.
	OreGrowthTick int64

	Route    []Position // waypoints, possibly empty (stationary)
	Waypoint int        // index of the waypoint currently moved toward

	// Agents registered as climbers while the behemoth is unconscious.
	Climbers map[string]struct{}
}

// AddClimber registers an agent on the behemoth's back.
func (b *Behemoth) AddClimber(agentID string) {
	if b.Climbers == nil {
		b.Climbers = make(map[string]struct{})
	}
	b.Climbers[agentID] = struct{}{}
}
