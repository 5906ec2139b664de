package world

// ChatMode selects how a chat message is routed.
type ChatMode string

const (
	ChatWhisper   ChatMode = "whisper"
	ChatLocal     ChatMode = "local"
	ChatBroadcast ChatMode = "broadcast"
)

// ChatMessage is a tick-scoped chat entry, cleared after broadcast.
type ChatMessage struct {
	ID         string
	Tick       int64
	SenderID   string
	SenderName string
	Mode       ChatMode
	Content    string
	TargetID   string // whisper target, "" otherwise
	Pos        Position

	// Recipients is the explicit recipient set; All overrides it.
	Recipients []string
	All        bool
}

// DeliversTo reports whether the message reaches the given agent.
func (m *ChatMessage) DeliversTo(agentID string) bool {
	if m.All {
		return true
	}
	for _, id := range m.Recipients {
		if id == agentID {
			return true
		}
	}
	return false
}

// Event is a tick-scoped world event, cleared after broadcast and persisted to
// the incremental tick log.
type Event struct {
	ID     string
	Tick   int64
	Type   string
	Actors []string // entity ids named by the event, subject first
	Pos    *Position
	Data   map[string]any
}

// Event types emitted by the engine.
const (
	EvResourceGathered = "resource_gathered"
	EvResourceDepleted = "resource_depleted"
	EvTreeGrown        = "tree_grown"
	EvCombatHit        = "combat_hit"
	EvDeath            = "death"
	EvRespawn          = "respawn"
	EvMonsterEat       = "monster_eat"
	EvEvolution        = "evolution"
	EvNpcSpawn         = "npc_spawn"
	EvBehemothKnockout = "behemoth_knockout"
	EvBehemothWake     = "behemoth_wake"
	EvCraftComplete    = "craft_complete"
	EvTradeAccepted    = "trade_accepted"
	EvTradeRejected    = "trade_rejected"
	EvTradeExpired     = "trade_expired"
	EvInspectResult    = "inspect_result"
)
