package world

type ResourceType string

const (
	ResourceTree     ResourceType = "tree"
	ResourceSapling  ResourceType = "sapling"
	ResourceGoldVein ResourceType = "gold_vein"
)

type ResourceState string

const (
	ResourceAvailable     ResourceState = "available"
	ResourceBeingGathered ResourceState = "being_gathered"
	ResourceDepleted      ResourceState = "depleted"
	ResourceGrowing       ResourceState = "growing"
)

// Resource is a gatherable world object: tree, sapling, or gold vein.
type Resource struct {
	ID          string
	Type        ResourceType
	Pos         Position
	Remaining   int
	MaxCapacity int
	State       ResourceState

	// Set iff Type == sapling (State == growing).
	GrowthStartTick    int64
	GrowthCompleteTick int64

	// Agent currently gathering this resource, "" = none.
	GatheredBy string
}
