package world

// NpcBehavior is the AI state of a server-driven monster.
type NpcBehavior string

const (
	BehaviorPatrol NpcBehavior = "patrol"
	BehaviorChase  NpcBehavior = "chase"
	BehaviorAttack NpcBehavior = "attack"
	BehaviorFlee   NpcBehavior = "flee"
	BehaviorIdle   NpcBehavior = "idle"
)

// Npc is a server-driven mob with scripted behavior and no connection.
type Npc struct {
	ID       string
	Template string
	Pos      Position

	HP      int
	MaxHP   int
	Attack  int
	Defense int
	Speed   float64

	Behavior     NpcBehavior
	PatrolOrigin Position
	PatrolRadius float64
	TargetID     string // set iff Behavior is chase or attack

	GoldDrop int
}
