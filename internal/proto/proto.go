// Package proto defines the JSON wire messages exchanged with clients over the
// websocket channel.
package proto

import "encoding/json"

// Client→server message types.
const (
	CAuth       = "auth"
	CSelectRole = "select_role"
	CAction     = "action"
	CPing       = "ping"
)

// Server→client message types.
const (
	SAuthPrompt     = "auth_prompt"
	SAuthSuccess    = "auth_success"
	SAuthError      = "auth_error"
	SRolePrompt     = "role_prompt"
	SRoleConfirmed  = "role_confirmed"
	STickUpdate     = "tick_update"
	SActionRejected = "action_rejected"
	SPong           = "pong"
)

// ClientMessage is the single inbound envelope; fields are populated per Type.
type ClientMessage struct {
	Type   string          `json:"type"`
	Name   string          `json:"name,omitempty"`
	Token  string          `json:"token,omitempty"`
	Role   string          `json:"role,omitempty"`
	Action string          `json:"action,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Tick   int64           `json:"tick,omitempty"`
}

type AuthPrompt struct {
	Type string `json:"type"`
}

type AuthSuccess struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId"`
	Token   string `json:"token,omitempty"`
}

type AuthError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type RolePrompt struct {
	Type           string   `json:"type"`
	AvailableRoles []string `json:"availableRoles"`
}

type RoleConfirmed struct {
	Type          string   `json:"type"`
	Role          string   `json:"role"`
	AgentID       string   `json:"agentId"`
	SpawnPosition Position `json:"spawnPosition"`
}

type TickUpdate struct {
	Type string         `json:"type"`
	Data TickUpdateData `json:"data"`
}

type ActionRejected struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type Pong struct {
	Type       string `json:"type"`
	ServerTick int64  `json:"serverTick"`
}

// Position mirrors world.Position on the wire.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ItemStack mirrors world.ItemStack on the wire.
type ItemStack struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// TickUpdateData is the per-agent personalized snapshot sent every tick.
type TickUpdateData struct {
	Tick     int64         `json:"tick"`
	Self     SelfView      `json:"self"`
	Nearby   NearbyView    `json:"nearby"`
	Messages []MessageView `json:"messages"`
	Events   []EventView   `json:"events"`
}

// SelfView is the agent's full private view.
type SelfView struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Role           string      `json:"role"`
	Position       Position    `json:"position"`
	Status         string      `json:"status"`
	Health         int         `json:"health"`
	MaxHealth      int         `json:"maxHealth"`
	Attack         int         `json:"attack"`
	Defense        int         `json:"defense"`
	Speed          float64     `json:"speed"`
	VisionRadius   float64     `json:"visionRadius"`
	Gold           int         `json:"gold"`
	Inventory      []ItemStack `json:"inventory"`
	Equipment      Equipment   `json:"equipment"`
	Alliance       string      `json:"alliance,omitempty"`
	Kills          int         `json:"kills"`
	EvolutionStage int         `json:"evolutionStage"`
	ActionCooldown int64       `json:"actionCooldown"`
}

type Equipment struct {
	Weapon string `json:"weapon,omitempty"`
	Armor  string `json:"armor,omitempty"`
	Tool   string `json:"tool,omitempty"`
}

// AgentView is the public view of another agent: no gold, inventory, equipment.
type AgentView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Position       Position `json:"position"`
	Status         string   `json:"status"`
	Health         int      `json:"health"`
	MaxHealth      int      `json:"maxHealth"`
	Alliance       string   `json:"alliance,omitempty"`
	EvolutionStage int      `json:"evolutionStage"`
}

type ResourceView struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Position    Position `json:"position"`
	Remaining   int      `json:"remaining"`
	MaxCapacity int      `json:"maxCapacity"`
	State       string   `json:"state"`
}

type MonsterView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Position  Position `json:"position"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Behavior  string   `json:"behavior"`
	IsNpc     bool     `json:"isNpc"`
}

type BehemothView struct {
	ID                        string   `json:"id"`
	Type                      string   `json:"type"`
	Position                  Position `json:"position"`
	Health                    int      `json:"health"`
	MaxHealth                 int      `json:"maxHealth"`
	Status                    string   `json:"status"`
	OreAvailable              bool     `json:"oreAvailable"`
	UnconsciousTicksRemaining int64    `json:"unconsciousTicksRemaining"`
}

type StructureView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Owner    string   `json:"owner"`
	Alliance string   `json:"alliance,omitempty"`
}

// NearbyView partitions everything inside the agent's vision radius.
type NearbyView struct {
	Agents     []AgentView     `json:"agents"`
	Resources  []ResourceView  `json:"resources"`
	Monsters   []MonsterView   `json:"monsters"`
	Behemoths  []BehemothView  `json:"behemoths"`
	Structures []StructureView `json:"structures"`
}

type MessageView struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Mode       string `json:"mode"`
	Content    string `json:"content"`
}

type EventView struct {
	ID     string         `json:"id"`
	Tick   int64          `json:"tick"`
	Type   string         `json:"type"`
	Actors []string       `json:"actors"`
	Data   map[string]any `json:"data,omitempty"`
}
