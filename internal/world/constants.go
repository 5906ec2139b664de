package world

// Contract constants. Clients and the test suite depend on these exact values.
const (
	WorldSize = 1000.0 // world is [0, WorldSize) squared
	ChunkSize = 32     // spatial index cell edge

	SpawnX = 500.0
	SpawnY = 500.0

	SafeZoneRadius = 100.0

	GatherRange    = 5.0
	AttackRange    = 5.0
	TradeRange     = 10.0
	ClimbRange     = 10.0
	FeedRange      = 10.0
	LocalChatRange = 100.0

	RespawnDelayTicks = 30
	DeathLossFraction = 0.20 // gold and per-stack inventory loss on human death

	TreeGatherTicks  = 3 // ticks per log
	GoldGatherTicks  = 2 // ticks per vein strike
	GoldPerStrike    = 5
	SeedDropChance   = 0.30
	SaplingGrowTicks = 300
	WaterBonusTicks  = 50

	BehemothUnconsciousTicks = 60
	BehemothFeedThreshold    = 10
	BehemothOreGrowthTicks   = 120
	BehemothThrowOffFraction = 0.5
	BehemothSpeed            = 2.0

	NpcAggroRange      = 30.0
	NpcChaseRange      = 60.0
	NpcAttackRange     = 5.0
	NpcPopulationRatio = 1.5
	NpcSpawnCheckTicks = 60
	NpcMaxSpawnPerTick = 3

	TradeExpireTicks = 30

	SnapshotIntervalTicks = 60
)
